// Package importing provides the primitives shared by one import job:
// the job itself, file records, options, metadata and read progress.
package importing

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Job represents one logical import: an ordered batch of files imported
// into a single grid. Files belonging to a job are processed strictly
// sequentially.
type Job struct {
	id         string
	rawDataDir string
	canceled   atomic.Bool
}

// NewJob creates a job whose file records resolve against rawDataDir.
func NewJob(rawDataDir string) *Job {
	return &Job{
		id:         uuid.NewString(),
		rawDataDir: rawDataDir,
	}
}

// ID returns the job's unique identifier.
func (j *Job) ID() string {
	return j.id
}

// RawDataDir returns the directory file records resolve against.
func (j *Job) RawDataDir() string {
	return j.rawDataDir
}

// Cancel requests cooperative cancellation. The flag is observed at
// file boundaries only: a file already being parsed runs to completion.
func (j *Job) Cancel() {
	j.canceled.Store(true)
}

// Canceled reports whether cancellation was requested.
func (j *Job) Canceled() bool {
	return j.canceled.Load()
}
