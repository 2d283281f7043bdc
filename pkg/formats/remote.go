package formats

import (
	"context"
	"io"

	"github.com/logflow/gridflow/pkg/encodings"
	"github.com/logflow/gridflow/pkg/errors"
	"github.com/logflow/gridflow/pkg/grid"
	"github.com/logflow/gridflow/pkg/importer"
	"github.com/logflow/gridflow/pkg/importing"
)

// ObjectStore resolves a distributed-storage URI to a readable object.
// The S3-backed implementation lives in pkg/storage/s3.
type ObjectStore interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, int64, error)
}

// RemoteCSVImporter parses separator-delimited objects addressed by a
// distributed-storage URI. It never opens a local resource, so it is
// constructed under ModeRemoteURI.
type RemoteCSVImporter struct {
	store ObjectStore
	csv   *CSVImporter
}

// NewRemoteCSVImporter creates a remote CSV importer over store.
func NewRemoteCSVImporter(store ObjectStore) *RemoteCSVImporter {
	return &RemoteCSVImporter{
		store: store,
		csv:   NewCSVImporter(),
	}
}

// ParseURI fetches the object behind uri and parses it as delimited
// text, honoring the batch's explicit encoding option.
func (imp *RemoteCSVImporter) ParseURI(ctx context.Context, meta *importing.ProjectMetadata, job *importing.Job,
	source, uri string, limit int64, opts importing.Options) (*grid.Grid, error) {

	rc, _, err := imp.store.Open(ctx, uri)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeURIFailed, "failed to open remote object").
			WithContext("uri", uri)
	}

	text, terr := encodings.NewTextReader(rc, opts.String(importer.EncodingKey, ""), "")
	if terr != nil {
		rc.Close()
		return nil, terr
	}

	g, perr := imp.csv.ParseText(ctx, meta, job, source, text, limit, opts)
	if cerr := rc.Close(); cerr != nil && perr == nil {
		return nil, errors.Wrap(cerr, errors.CodeURIFailed, "failed to close remote object").
			WithContext("uri", uri)
	}
	return g, perr
}
