package core

// Table is an ordered sequence of rows, each an ordered sequence of cells.
// Rows may have different lengths. The first row is displayed as the
// header but nothing here treats it specially.
type Table [][]string

// Clone returns a deep copy so callers can render without holding locks.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, row := range t {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// Header returns the first row, or nil for an empty table.
func (t Table) Header() []string {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// Width returns the length of the longest row.
func (t Table) Width() int {
	w := 0
	for _, row := range t {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}
