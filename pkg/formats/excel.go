package formats

import (
	"context"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/logflow/gridflow/pkg/errors"
	"github.com/logflow/gridflow/pkg/grid"
	"github.com/logflow/gridflow/pkg/importing"
)

// SheetKey selects the sheet to import; the first sheet is used when
// unset.
const SheetKey = "sheet"

// ExcelImporter parses XLSX workbooks. excelize consumes raw bytes, so
// it is constructed under ModeByteStream.
type ExcelImporter struct{}

// NewExcelImporter creates an Excel importer.
func NewExcelImporter() *ExcelImporter {
	return &ExcelImporter{}
}

// ParseStream reads up to limit data rows from one sheet. The sheet's
// first row names the columns.
func (imp *ExcelImporter) ParseStream(ctx context.Context, meta *importing.ProjectMetadata, job *importing.Job,
	source string, r io.Reader, limit int64, opts importing.Options) (*grid.Grid, error) {

	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeParseFailed, "failed to open workbook").
			WithContext("file", source)
	}
	defer book.Close()

	sheet := opts.String(SheetKey, "")
	if sheet == "" {
		sheet = book.GetSheetName(0)
	}
	if sheet == "" {
		return nil, errors.New(errors.CodeParseFailed, "workbook has no sheets").
			WithContext("file", source)
	}

	rows, err := book.Rows(sheet)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeParseFailed, "failed to read sheet").
			WithContext("file", source).
			WithContext("sheet", sheet)
	}
	defer rows.Close()

	g := grid.New(nil)

	if !rows.Next() {
		return g, nil
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeParseFailed, "failed to read header").
			WithContext("file", source)
	}
	for _, name := range header {
		g.AddColumn(name)
	}

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeCanceled, "parse canceled").
				WithContext("file", source)
		}
		if limit >= 0 && g.RowCount() >= limit {
			break
		}

		record, err := rows.Columns()
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeParseFailed, "failed to read row").
				WithContext("file", source)
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
