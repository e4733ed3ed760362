package models

// Table is the flattened result: ordered column labels plus ordered rows.
type Table struct {
	// Columns holds the canonical column labels.
	Columns []string `json:"columns"`
	// Rows holds the data rows; every row has len(Columns) cells.
	Rows []Row `json:"data"`
}

// Empty reports whether the table has no rows and no columns.
func (t Table) Empty() bool {
	return len(t.Rows) == 0 && len(t.Columns) == 0
}

// ColumnIndex returns the position of label, or -1.
func (t Table) ColumnIndex(label string) int {
	for i, c := range t.Columns {
		if c == label {
			return i
		}
	}
	return -1
}

// Column returns the cells of the column labelled label, or nil when absent.
func (t Table) Column(label string) []Cell {
	idx := t.ColumnIndex(label)
	if idx < 0 {
		return nil
	}
	col := make([]Cell, len(t.Rows))
	for r, row := range t.Rows {
		col[r] = row.At(idx)
	}
	return col
}
