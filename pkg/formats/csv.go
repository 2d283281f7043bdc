// Package formats provides the built-in format importers that plug
// into the import parser through its capability interfaces.
package formats

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/logflow/gridflow/pkg/errors"
	"github.com/logflow/gridflow/pkg/grid"
	"github.com/logflow/gridflow/pkg/importing"
)

// Option keys understood by the separator-based importer.
const (
	SeparatorKey     = "separator"
	HeaderLinesKey   = "headerLines"
	SkipDataLinesKey = "skipDataLines"
)

// CSVImporter parses separator-delimited text. It reads decoded text,
// so it is constructed under ModeDecodedText.
type CSVImporter struct{}

// NewCSVImporter creates a CSV/TSV importer.
func NewCSVImporter() *CSVImporter {
	return &CSVImporter{}
}

// ParseText reads up to limit rows of delimited text. limit < 0 means
// unlimited. The first headerLines rows (default 1) name the columns;
// extra columns found in later rows are named positionally.
func (imp *CSVImporter) ParseText(ctx context.Context, meta *importing.ProjectMetadata, job *importing.Job,
	source string, r io.Reader, limit int64, opts importing.Options) (*grid.Grid, error) {

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	sep := opts.String(SeparatorKey, ",")
	if sep == "\\t" {
		sep = "\t"
	}
	if len(sep) > 0 {
		reader.Comma = []rune(sep)[0]
	}

	headerLines := opts.Int(HeaderLinesKey, 1)
	skipData := opts.Int(SkipDataLinesKey, 0)

	g := grid.New(nil)

	for headerLines > 0 {
		record, err := reader.Read()
		if err == io.EOF {
			return g, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeParseFailed, "failed to read header").
				WithContext("file", source)
		}
		// Only the first header line names columns; further header
		// lines are discarded.
		if g.ColumnCount() == 0 {
			for _, name := range record {
				g.AddColumn(name)
			}
		}
		headerLines--
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeCanceled, "parse canceled").
				WithContext("file", source)
		}
		if limit >= 0 && g.RowCount() >= limit {
			break
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeParseFailed, "failed to read row").
				WithContext("file", source)
		}
		if skipData > 0 {
			skipData--
			continue
		}

		ensureColumns(g, len(record))
		cells := make([]interface{}, len(record))
		for i, v := range record {
			cells[i] = v
		}
		g.AppendRow(cells...)
	}

	return g, nil
}

// ensureColumns widens the schema with positional names up to n.
func ensureColumns(g *grid.Grid, n int) {
	for g.ColumnCount() < n {
		g.AddColumn(fmt.Sprintf("Column %d", g.ColumnCount()+1))
	}
}
