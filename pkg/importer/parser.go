package importer

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/logflow/gridflow/pkg/encodings"
	"github.com/logflow/gridflow/pkg/errors"
	"github.com/logflow/gridflow/pkg/grid"
	"github.com/logflow/gridflow/pkg/importing"
)

// EncodingKey is the batch-wide option naming an explicit character
// encoding for decoded-text imports. An empty value means unspecified.
const EncodingKey = "encoding"

// IncludeFileSourcesKey is seeded into the UI initialization options
// when a batch has more than one file.
const IncludeFileSourcesKey = "includeFileSources"

// Parser imports an ordered batch of files as one grid. The concrete
// format supplies exactly one of the three reading capabilities,
// matching the parser's read mode.
type Parser struct {
	mode   ReadMode
	stream StreamImporter
	text   TextImporter
	remote URIImporter

	progress importing.ReadingProgress
	reporter importing.ProgressReporter
	tracer   trace.Tracer
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithProgress sets the progress sink for all batches parsed by this
// parser. Without it, a reporter (if any) drives a per-batch
// MultiFileProgress.
func WithProgress(p importing.ReadingProgress) ParserOption {
	return func(parser *Parser) {
		parser.progress = p
	}
}

// WithReporter sets the batch-fraction reporter.
func WithReporter(r importing.ProgressReporter) ParserOption {
	return func(parser *Parser) {
		parser.reporter = r
	}
}

// WithTracer enables tracing of batches and per-file parses.
func WithTracer(t trace.Tracer) ParserOption {
	return func(parser *Parser) {
		parser.tracer = t
	}
}

// NewParser creates a parser for the given mode. impl must implement
// the capability interface matching mode; the check happens here, at
// construction, so an importer registered for a mode it cannot serve
// fails immediately rather than on first use.
func NewParser(mode ReadMode, impl interface{}, opts ...ParserOption) (*Parser, error) {
	p := &Parser{mode: mode}

	switch mode {
	case ModeByteStream:
		s, ok := impl.(StreamImporter)
		if !ok {
			return nil, errors.UnsupportedMode(mode.String())
		}
		p.stream = s
	case ModeDecodedText:
		t, ok := impl.(TextImporter)
		if !ok {
			return nil, errors.UnsupportedMode(mode.String())
		}
		p.text = t
	case ModeRemoteURI:
		u, ok := impl.(URIImporter)
		if !ok {
			return nil, errors.UnsupportedMode(mode.String())
		}
		p.remote = u
	default:
		return nil, errors.UnsupportedMode(mode.String())
	}

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Mode returns the parser's read mode.
func (p *Parser) Mode() ReadMode {
	return p.mode
}

// InitializationOptions seeds the UI-option negotiation payload for a
// batch.
func (p *Parser) InitializationOptions(records []importing.FileRecord) importing.Options {
	return importing.Options{
		IncludeFileSourcesKey: len(records) > 1,
	}
}

// Parse imports records in order and merges the per-file grids into
// one. limit is the global row ceiling across the whole batch; a
// negative limit means unlimited.
//
// Cancellation is cooperative: the job's flag is observed at file
// boundaries, and a cancelled batch returns the merge of the files
// already processed. Any error from a single file aborts the whole
// batch with no partial result.
func (p *Parser) Parse(ctx context.Context, meta *importing.ProjectMetadata, job *importing.Job,
	records []importing.FileRecord, limit int64, opts importing.Options) (*grid.Grid, error) {

	if len(records) == 0 {
		return nil, errors.InvalidArgument("no file provided")
	}

	if p.tracer != nil {
		var span trace.Span
		ctx, span = p.tracer.Start(ctx, "importer.Parse",
			trace.WithAttributes(
				attribute.String("job.id", job.ID()),
				attribute.Int("batch.files", len(records)),
				attribute.Int64("batch.limit", limit),
			))
		defer span.End()
	}

	progress := p.batchProgress(job, records)
	grids := make([]*grid.Grid, 0, len(records))

	var totalRows int64
	for _, rec := range records {
		if job.Canceled() {
			break
		}

		// Every file is attempted with a budget of at least 1, so an
		// exhausted positive limit is never passed down as zero, which
		// a format could misread as unlimited.
		fileLimit := limit
		if limit >= 0 {
			fileLimit = max(limit-totalRows, 1)
		}

		g, err := p.parseOneFile(ctx, meta, job, rec, fileLimit, opts, progress)
		if err != nil {
			return nil, err
		}
		grids = append(grids, g)
		totalRows += g.RowCount()

		if limit > 0 && totalRows >= limit {
			break
		}
	}

	return grid.MergeAll(grids)
}

// parseOneFile imports a single record. The progress start/end pair is
// guaranteed on every exit path, and a close failure never masks an
// earlier parse error.
func (p *Parser) parseOneFile(ctx context.Context, meta *importing.ProjectMetadata, job *importing.Job,
	rec importing.FileRecord, limit int64, opts importing.Options,
	progress importing.ReadingProgress) (g *grid.Grid, err error) {

	source := rec.FileSource()

	if p.tracer != nil {
		var span trace.Span
		ctx, span = p.tracer.Start(ctx, "importer.parseOneFile",
			trace.WithAttributes(attribute.String("file.source", source)))
		defer span.End()
	}

	progress.StartFile(source)

	fileOpts := opts.WithFileSource(source)
	meta.AppendImportOptions(fileOpts)

	if p.mode == ModeRemoteURI {
		defer func() {
			progress.EndFile(source, 0)
		}()

		uri, uerr := rec.DerivedURI(job.RawDataDir())
		if uerr != nil {
			return nil, uerr
		}
		return p.remote.ParseURI(ctx, meta, job, source, uri, limit, fileOpts)
	}

	rc, size, oerr := rec.Open(job.RawDataDir())
	if oerr != nil {
		progress.EndFile(source, 0)
		return nil, oerr
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, errors.CodeOpenFailed, "failed to close file").
				WithContext("file", source)
		}
		progress.EndFile(source, size)
	}()

	tracked := importing.TrackReader(rc, source, progress)

	if p.mode == ModeByteStream {
		return p.stream.ParseStream(ctx, meta, job, source, tracked, limit, fileOpts)
	}

	text, terr := encodings.NewTextReader(tracked, fileOpts.String(EncodingKey, ""), rec.Encoding())
	if terr != nil {
		return nil, terr
	}
	return p.text.ParseText(ctx, meta, job, source, text, limit, fileOpts)
}

// batchProgress picks the progress sink for one batch: an injected
// sink, a per-batch aggregator feeding the reporter, or none.
func (p *Parser) batchProgress(job *importing.Job, records []importing.FileRecord) importing.ReadingProgress {
	if p.progress != nil {
		return p.progress
	}
	if p.reporter != nil {
		total := importing.BatchSize(records, job.RawDataDir())
		return importing.NewMultiFileProgress(total, p.reporter)
	}
	return importing.NopProgress{}
}
