package grid

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/ipc"
	"github.com/apache/arrow/go/v14/arrow/memory"
)

// ArrowSchema returns an Arrow schema for the grid. Imported cells are
// untyped, so every column maps to a nullable utf8 field.
func (g *Grid) ArrowSchema() *arrow.Schema {
	fields := make([]arrow.Field, len(g.columns))
	for i, c := range g.columns {
		fields[i] = arrow.Field{Name: c.Name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// ToArrowRecord converts the grid into a single Arrow record. The caller
// must Release the record.
func (g *Grid) ToArrowRecord() arrow.Record {
	schema := g.ArrowSchema()
	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for col := range g.columns {
		fb := builder.Field(col).(*array.StringBuilder)
		for row := range g.rows {
			v := g.Cell(row, col)
			if v == nil {
				fb.AppendNull()
				continue
			}
			if s, ok := v.(string); ok {
				fb.Append(s)
			} else {
				fb.Append(fmt.Sprint(v))
			}
		}
	}

	return builder.NewRecord()
}

// WriteArrowIPC writes the grid to path in Arrow IPC stream format.
func (g *Grid) WriteArrowIPC(path string) error {
	record := g.ToArrowRecord()
	defer record.Release()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writer := ipc.NewWriter(f, ipc.WithSchema(record.Schema()))
	if err := writer.Write(record); err != nil {
		writer.Close()
		f.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := writer.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return f.Close()
}
