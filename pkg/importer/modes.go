// Package importer orchestrates the import of multiple files as a
// single grid. It owns no format parsing: concrete formats plug in
// through one of three capability interfaces, selected once at
// construction by the parser's read mode.
package importer

import (
	"context"
	"io"

	"github.com/logflow/gridflow/pkg/grid"
	"github.com/logflow/gridflow/pkg/importing"
)

// ReadMode determines which reading contract a concrete format honors.
// Exactly one mode is active per parser instance.
type ReadMode uint8

const (
	// ModeByteStream feeds the format raw bytes.
	ModeByteStream ReadMode = iota

	// ModeDecodedText feeds the format decoded text.
	ModeDecodedText

	// ModeRemoteURI hands the format a distributed-storage URI instead
	// of opening a local resource.
	ModeRemoteURI
)

func (m ReadMode) String() string {
	names := []string{"byte-stream", "decoded-text", "remote-uri"}
	if int(m) < len(names) {
		return names[m]
	}
	return "unknown"
}

// StreamImporter parses one file from a raw byte stream.
type StreamImporter interface {
	ParseStream(ctx context.Context, meta *importing.ProjectMetadata, job *importing.Job,
		source string, r io.Reader, limit int64, opts importing.Options) (*grid.Grid, error)
}

// TextImporter parses one file from a decoded text stream.
type TextImporter interface {
	ParseText(ctx context.Context, meta *importing.ProjectMetadata, job *importing.Job,
		source string, r io.Reader, limit int64, opts importing.Options) (*grid.Grid, error)
}

// URIImporter parses one file addressed by a distributed-storage URI.
type URIImporter interface {
	ParseURI(ctx context.Context, meta *importing.ProjectMetadata, job *importing.Job,
		source, uri string, limit int64, opts importing.Options) (*grid.Grid, error)
}
