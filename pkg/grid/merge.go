package grid

import (
	"github.com/logflow/gridflow/pkg/errors"
)

// Merge combines two grids into one. The column schema is the union of
// both schemas by name: a's columns first in their order, then b's
// columns not present in a, in their order. Rows are a's rows followed
// by b's rows, with b's cells remapped onto the combined schema. Rows
// are never deduplicated.
//
// Merge is associative with respect to row order: folding a sequence of
// grids left-to-right or right-to-left yields the same rows in the same
// order.
func Merge(a, b *Grid) *Grid {
	columns := append([]Column(nil), a.columns...)
	for _, c := range b.columns {
		if indexOf(columns, c.Name) < 0 {
			columns = append(columns, c)
		}
	}

	merged := New(columns)
	merged.rows = make([]Row, 0, len(a.rows)+len(b.rows))

	// a's rows are already aligned with the head of the combined schema.
	merged.rows = append(merged.rows, a.rows...)

	// b's rows are remapped column-by-column.
	remap := make([]int, len(b.columns))
	identity := true
	for i, c := range b.columns {
		remap[i] = indexOf(columns, c.Name)
		if remap[i] != i {
			identity = false
		}
	}

	for _, row := range b.rows {
		if identity && len(columns) == len(b.columns) {
			merged.rows = append(merged.rows, row)
			continue
		}
		cells := make([]interface{}, len(columns))
		for i, v := range row.Cells {
			if i < len(remap) && remap[i] >= 0 {
				cells[remap[i]] = v
			}
		}
		merged.rows = append(merged.rows, Row{Cells: cells})
	}

	return merged
}

// MergeAll folds an ordered sequence of grids into one, preserving row
// order across the sequence.
func MergeAll(grids []*Grid) (*Grid, error) {
	if len(grids) == 0 {
		return nil, errors.InvalidArgument("no grids provided")
	}

	current := grids[0]
	for i := 1; i < len(grids); i++ {
		current = Merge(current, grids[i])
	}
	return current, nil
}

func indexOf(columns []Column, name string) int {
	for i, c := range columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}
