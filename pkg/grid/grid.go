// Package grid provides the in-memory tabular data model produced by
// imports: an ordered column schema plus rows of cells.
package grid

// Column describes one column of a grid.
type Column struct {
	Name string
}

// Row holds the cells of one row, aligned with the grid's columns.
// A cell may be nil when the source file had no value for that column.
type Row struct {
	Cells []interface{}
}

// Grid is the tabular result of parsing one file or merging several.
type Grid struct {
	columns []Column
	rows    []Row
}

// New creates an empty grid with the given column schema.
func New(columns []Column) *Grid {
	return &Grid{
		columns: append([]Column(nil), columns...),
	}
}

// NewWithNames creates an empty grid with columns named after names.
func NewWithNames(names ...string) *Grid {
	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{Name: name}
	}
	return New(columns)
}

// Columns returns the column schema in order.
func (g *Grid) Columns() []Column {
	return g.columns
}

// ColumnCount returns the number of columns.
func (g *Grid) ColumnCount() int {
	return len(g.columns)
}

// ColumnIndex returns the index of the named column, or -1.
func (g *Grid) ColumnIndex(name string) int {
	for i, c := range g.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// AddColumn appends a column to the schema. Existing rows are not
// widened eagerly; Cell pads reads past a short row with nil.
func (g *Grid) AddColumn(name string) {
	g.columns = append(g.columns, Column{Name: name})
}

// RowCount returns the number of rows. Never negative.
func (g *Grid) RowCount() int64 {
	return int64(len(g.rows))
}

// Rows returns the rows in order.
func (g *Grid) Rows() []Row {
	return g.rows
}

// AppendRow appends one row of cells, aligned with the current schema.
func (g *Grid) AppendRow(cells ...interface{}) {
	g.rows = append(g.rows, Row{Cells: cells})
}

// Cell returns the value at (row, col), or nil when the row is shorter
// than the schema.
func (g *Grid) Cell(row, col int) interface{} {
	if row < 0 || row >= len(g.rows) {
		return nil
	}
	cells := g.rows[row].Cells
	if col < 0 || col >= len(cells) {
		return nil
	}
	return cells[col]
}
