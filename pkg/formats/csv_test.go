package formats

import (
	"context"
	"strings"
	"testing"

	"github.com/logflow/gridflow/pkg/importing"
)

func TestCSVParsesHeaderAndRows(t *testing.T) {
	input := "id,name\n1,alice\n2,bob\n"
	imp := NewCSVImporter()

	g, err := imp.ParseText(context.Background(), nil, nil, "test.csv",
		strings.NewReader(input), -1, importing.Options{})
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	if g.ColumnCount() != 2 {
		t.Fatalf("expected 2 columns, got %d", g.ColumnCount())
	}
	if g.Columns()[0].Name != "id" || g.Columns()[1].Name != "name" {
		t.Errorf("unexpected columns: %v", g.Columns())
	}
	if g.RowCount() != 2 {
		t.Fatalf("expected 2 rows, got %d", g.RowCount())
	}
	if got := g.Cell(1, 1); got != "bob" {
		t.Errorf("expected bob at (1,1), got %v", got)
	}
}

func TestCSVTabSeparator(t *testing.T) {
	input := "id\tname\n1\talice\n"
	imp := NewCSVImporter()

	g, err := imp.ParseText(context.Background(), nil, nil, "test.tsv",
		strings.NewReader(input), -1, importing.Options{SeparatorKey: "\\t"})
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if g.ColumnCount() != 2 || g.RowCount() != 1 {
		t.Fatalf("expected 2 columns and 1 row, got %d/%d", g.ColumnCount(), g.RowCount())
	}
	if got := g.Cell(0, 1); got != "alice" {
		t.Errorf("expected alice, got %v", got)
	}
}

func TestCSVRowLimit(t *testing.T) {
	input := "v\n1\n2\n3\n4\n"
	imp := NewCSVImporter()

	g, err := imp.ParseText(context.Background(), nil, nil, "test.csv",
		strings.NewReader(input), 2, importing.Options{})
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if g.RowCount() != 2 {
		t.Errorf("expected 2 rows with limit 2, got %d", g.RowCount())
	}
}

func TestCSVRaggedRowsWidenSchema(t *testing.T) {
	input := "a,b\n1,2\n1,2,3\n"
	imp := NewCSVImporter()

	g, err := imp.ParseText(context.Background(), nil, nil, "test.csv",
		strings.NewReader(input), -1, importing.Options{})
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	if g.ColumnCount() != 3 {
		t.Fatalf("expected widened schema of 3 columns, got %d", g.ColumnCount())
	}
	if got := g.Columns()[2].Name; got != "Column 3" {
		t.Errorf("expected positional name Column 3, got %s", got)
	}
	if got := g.Cell(0, 2); got != nil {
		t.Errorf("expected nil for short row, got %v", got)
	}
	if got := g.Cell(1, 2); got != "3" {
		t.Errorf("expected 3, got %v", got)
	}
}

func TestCSVSkipDataLines(t *testing.T) {
	input := "v\nskipme\n1\n2\n"
	imp := NewCSVImporter()

	g, err := imp.ParseText(context.Background(), nil, nil, "test.csv",
		strings.NewReader(input), -1, importing.Options{SkipDataLinesKey: 1})
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if g.RowCount() != 2 {
		t.Fatalf("expected 2 rows, got %d", g.RowCount())
	}
	if got := g.Cell(0, 0); got != "1" {
		t.Errorf("expected first data row 1, got %v", got)
	}
}

func TestCSVEmptyInput(t *testing.T) {
	imp := NewCSVImporter()

	g, err := imp.ParseText(context.Background(), nil, nil, "test.csv",
		strings.NewReader(""), -1, importing.Options{})
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if g.RowCount() != 0 || g.ColumnCount() != 0 {
		t.Errorf("expected empty grid, got %d columns %d rows", g.ColumnCount(), g.RowCount())
	}
}
