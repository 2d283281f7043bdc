package formats

import (
	"context"
	"strings"
	"testing"

	"github.com/logflow/gridflow/pkg/importing"
)

func TestLinesOneLinePerRow(t *testing.T) {
	imp := NewLineImporter()

	g, err := imp.ParseText(context.Background(), nil, nil, "test.log",
		strings.NewReader("first\nsecond\nthird\n"), -1, importing.Options{})
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	if g.ColumnCount() != 1 || g.Columns()[0].Name != "Line 1" {
		t.Fatalf("unexpected schema: %v", g.Columns())
	}
	if g.RowCount() != 3 {
		t.Fatalf("expected 3 rows, got %d", g.RowCount())
	}
	if got := g.Cell(2, 0); got != "third" {
		t.Errorf("expected third, got %v", got)
	}
}

func TestLinesMultiLineRowsKeepTrailingPartial(t *testing.T) {
	imp := NewLineImporter()

	g, err := imp.ParseText(context.Background(), nil, nil, "test.log",
		strings.NewReader("a\nb\nc\n"), -1, importing.Options{LinesPerRowKey: 2})
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	if g.ColumnCount() != 2 {
		t.Fatalf("expected 2 columns, got %d", g.ColumnCount())
	}
	if g.RowCount() != 2 {
		t.Fatalf("expected 2 rows (one partial), got %d", g.RowCount())
	}
	if got := g.Cell(0, 1); got != "b" {
		t.Errorf("expected b at (0,1), got %v", got)
	}
	if got := g.Cell(1, 0); got != "c" {
		t.Errorf("expected c at (1,0), got %v", got)
	}
	if got := g.Cell(1, 1); got != nil {
		t.Errorf("expected nil for partial row, got %v", got)
	}
}

func TestLinesSkipAndLimit(t *testing.T) {
	imp := NewLineImporter()

	g, err := imp.ParseText(context.Background(), nil, nil, "test.log",
		strings.NewReader("skip\n1\n2\n3\n"), 2,
		importing.Options{SkipLinesKey: 1})
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	if g.RowCount() != 2 {
		t.Fatalf("expected 2 rows, got %d", g.RowCount())
	}
	if got := g.Cell(0, 0); got != "1" {
		t.Errorf("expected 1, got %v", got)
	}
}
