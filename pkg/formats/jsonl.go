package formats

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/logflow/gridflow/pkg/errors"
	"github.com/logflow/gridflow/pkg/grid"
	"github.com/logflow/gridflow/pkg/importing"
)

// JSONLinesImporter parses newline-delimited JSON objects, one row per
// object. JSON is self-describing bytes, so it is constructed under
// ModeByteStream.
type JSONLinesImporter struct{}

// NewJSONLinesImporter creates a JSON-lines importer.
func NewJSONLinesImporter() *JSONLinesImporter {
	return &JSONLinesImporter{}
}

// ParseStream reads up to limit objects. Columns are the union of the
// objects' keys in first-seen order.
func (imp *JSONLinesImporter) ParseStream(ctx context.Context, meta *importing.ProjectMetadata, job *importing.Job,
	source string, r io.Reader, limit int64, opts importing.Options) (*grid.Grid, error) {

	g := grid.New(nil)
	dec := json.NewDecoder(r)

	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeCanceled, "parse canceled").
				WithContext("file", source)
		}
		if limit >= 0 && g.RowCount() >= limit {
			break
		}

		// Decode raw first so key order can be recovered from the
		// object text; map decoding would scramble it.
		var raw json.RawMessage
		if err := dec.Decode(&raw); err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrap(err, errors.CodeParseFailed, "failed to decode object").
				WithContext("file", source)
		}

		keys, values, err := decodeOrdered(raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeParseFailed, "failed to decode object").
				WithContext("file", source)
		}

		for _, k := range keys {
			if g.ColumnIndex(k) < 0 {
				g.AddColumn(k)
			}
		}

		cells := make([]interface{}, g.ColumnCount())
		for i, k := range keys {
			cells[g.ColumnIndex(k)] = values[i]
		}
		g.AppendRow(cells...)
	}

	return g, nil
}

// decodeOrdered decodes one JSON object preserving its key order.
func decodeOrdered(raw json.RawMessage) ([]string, []interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	// Opening brace.
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}

	var keys []string
	var values []interface{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)

		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, v)
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}
