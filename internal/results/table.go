package results

// Table is an ordered string matrix with a column header.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.Columns) }

// Column returns the index of the named column, or -1.
func (t *Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Get returns the cell at row and the named column, or "" when either is
// out of range.
func (t *Table) Get(row int, column string) string {
	col := t.Column(column)
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	return t.Rows[row][col]
}
