package entity

// Dataset is the combined in-memory table produced from one folder of CSV
// files. Columns are the union of all source file headers in first-seen
// order; rows are aligned to Columns, with empty strings where a source
// file had no such column. Row identity is the 0-based slice index.
type Dataset struct {
	Columns     []string
	Rows        [][]string
	Fingerprint string
}

// Empty reports whether the dataset holds no data rows.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Rows) == 0
}

// RowCount returns the number of data rows.
func (d *Dataset) RowCount() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Tail returns the last n rows, or all rows if fewer exist.
func (d *Dataset) Tail(n int) [][]string {
	if d == nil || n <= 0 {
		return nil
	}
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	return d.Rows[len(d.Rows)-n:]
}
