package formats

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/logflow/gridflow/pkg/errors"
	"github.com/logflow/gridflow/pkg/grid"
	"github.com/logflow/gridflow/pkg/importing"
)

// Option keys understood by the line-based importer.
const (
	LinesPerRowKey = "linesPerRow"
	SkipLinesKey   = "skipLines"
)

// LineImporter parses plain text, one or more lines per row. It reads
// decoded text, so it is constructed under ModeDecodedText.
type LineImporter struct{}

// NewLineImporter creates a line-based importer.
func NewLineImporter() *LineImporter {
	return &LineImporter{}
}

// ParseText reads up to limit rows of linesPerRow lines each. limit < 0
// means unlimited.
func (imp *LineImporter) ParseText(ctx context.Context, meta *importing.ProjectMetadata, job *importing.Job,
	source string, r io.Reader, limit int64, opts importing.Options) (*grid.Grid, error) {

	linesPerRow := opts.Int(LinesPerRowKey, 1)
	if linesPerRow < 1 {
		linesPerRow = 1
	}
	skip := opts.Int(SkipLinesKey, 0)

	names := make([]string, linesPerRow)
	for i := range names {
		names[i] = fmt.Sprintf("Line %d", i+1)
	}
	g := grid.NewWithNames(names...)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	cells := make([]interface{}, 0, linesPerRow)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeCanceled, "parse canceled").
				WithContext("file", source)
		}
		if skip > 0 {
			skip--
			continue
		}

		cells = append(cells, scanner.Text())
		if len(cells) == linesPerRow {
			g.AppendRow(cells...)
			cells = make([]interface{}, 0, linesPerRow)
			if limit >= 0 && g.RowCount() >= limit {
				return g, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeParseFailed, "failed to read line").
			WithContext("file", source)
	}

	// A trailing partial row is kept.
	if len(cells) > 0 {
		g.AppendRow(cells...)
	}
	return g, nil
}
