package importing

import (
	"sync"
	"time"
)

// ProjectMetadata accumulates provenance for the project an import
// feeds. Each file's option snapshot is appended before that file is
// read, so the metadata records which options applied to which file.
type ProjectMetadata struct {
	mu sync.Mutex

	name          string
	created       time.Time
	importOptions []Options
}

// NewProjectMetadata creates metadata for a named project.
func NewProjectMetadata(name string) *ProjectMetadata {
	return &ProjectMetadata{
		name:    name,
		created: time.Now(),
	}
}

// Name returns the project name.
func (m *ProjectMetadata) Name() string {
	return m.name
}

// Created returns the creation time.
func (m *ProjectMetadata) Created() time.Time {
	return m.created
}

// AppendImportOptions records one file's option snapshot.
func (m *ProjectMetadata) AppendImportOptions(opts Options) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.importOptions = append(m.importOptions, opts)
}

// ImportOptions returns the recorded snapshots in append order.
func (m *ProjectMetadata) ImportOptions() []Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Options(nil), m.importOptions...)
}
