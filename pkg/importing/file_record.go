package importing

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/logflow/gridflow/pkg/errors"
)

// FileRecord identifies one input file within a job. The file source is
// a human-readable label and may be a pseudo-source such as "clipboard"
// or a URL. Records are immutable for the duration of an import.
type FileRecord interface {
	// FileSource returns the label identifying where the data came from.
	FileSource() string

	// Open resolves the record against the job's raw-data directory and
	// returns a readable handle plus the resource's byte length.
	Open(rawDataDir string) (io.ReadCloser, int64, error)

	// DerivedURI returns the distributed-storage URI for the record.
	DerivedURI(rawDataDir string) (string, error)

	// Encoding returns the record's character encoding hint, or "" when
	// unknown.
	Encoding() string
}

// LocalFileRecord is a FileRecord backed by a file under the job's
// raw-data directory.
type LocalFileRecord struct {
	// FileName is the path relative to the raw-data directory.
	FileName string

	// Source is the original label ("clipboard", upload name, URL).
	// Defaults to FileName when empty.
	Source string

	// CharEncoding is the detected or declared charset, if any.
	CharEncoding string

	// RemoteBase, when set, is the object-store prefix (e.g.
	// "s3://bucket/jobs/42") the record derives its remote URI from.
	RemoteBase string
}

// FileSource returns the record's source label.
func (r *LocalFileRecord) FileSource() string {
	if r.Source != "" {
		return r.Source
	}
	return r.FileName
}

// Open opens the underlying file and returns its byte length.
func (r *LocalFileRecord) Open(rawDataDir string) (io.ReadCloser, int64, error) {
	path := filepath.Join(rawDataDir, r.FileName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, errors.Wrap(err, errors.CodeFileNotFound, "file not found").
				WithContext("path", path)
		}
		return nil, 0, errors.Wrap(err, errors.CodeOpenFailed, "failed to open file").
			WithContext("path", path)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, errors.Wrap(err, errors.CodeOpenFailed, "failed to stat file").
			WithContext("path", path)
	}

	return f, info.Size(), nil
}

// DerivedURI returns the record's object-store URI.
func (r *LocalFileRecord) DerivedURI(rawDataDir string) (string, error) {
	if r.RemoteBase == "" {
		return "", errors.New(errors.CodeURIFailed, "record has no remote base").
			WithContext("file", r.FileName)
	}
	return strings.TrimSuffix(r.RemoteBase, "/") + "/" + filepath.ToSlash(r.FileName), nil
}

// Encoding returns the record's charset hint.
func (r *LocalFileRecord) Encoding() string {
	return r.CharEncoding
}

// RemoteFileRecord is a FileRecord that lives only in distributed
// storage; it has a URI but no local handle.
type RemoteFileRecord struct {
	// URI is the object-store location, e.g. "s3://bucket/key.csv".
	URI string

	// Source is the original label; defaults to URI when empty.
	Source string

	// CharEncoding is the declared charset, if any.
	CharEncoding string
}

// FileSource returns the record's source label.
func (r *RemoteFileRecord) FileSource() string {
	if r.Source != "" {
		return r.Source
	}
	return r.URI
}

// Open fails: remote records have no local byte resource.
func (r *RemoteFileRecord) Open(rawDataDir string) (io.ReadCloser, int64, error) {
	return nil, 0, errors.New(errors.CodeOpenFailed, "remote record has no local file").
		WithContext("uri", r.URI)
}

// DerivedURI returns the record's URI.
func (r *RemoteFileRecord) DerivedURI(rawDataDir string) (string, error) {
	return r.URI, nil
}

// Encoding returns the record's charset hint.
func (r *RemoteFileRecord) Encoding() string {
	return r.CharEncoding
}
