package domain

// Period identifies one budget snapshot, e.g. "2021" or "01.01.2021".
type Period string

// String returns the period label
func (p Period) String() string {
	return string(p)
}

// Periods converts plain labels into periods
func Periods(labels ...string) []Period {
	out := make([]Period, len(labels))
	for i, l := range labels {
		out[i] = Period(l)
	}
	return out
}

// Table is a cleaned sheet or CSV file: a header plus text rows.
// Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ColumnIndex returns the position of a column or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the cell of a row under a named column, empty when absent
func (t *Table) Value(row int, column string) string {
	idx := t.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][idx]
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// WideRow is one entity of a wide table: its identifying keys and one value per column
type WideRow struct {
	Keys   []string  `json:"keys"`
	Values []float64 `json:"values"`
}

// WideTable holds one row per entity and one numeric column per period.
// len(Keys) == len(KeyColumns) and len(Values) == len(Columns) for every row.
type WideTable struct {
	KeyColumns []string  `json:"key_columns"`
	Columns    []string  `json:"columns"`
	Rows       []WideRow `json:"rows"`
}

// ColumnIndex returns the position of a value column or -1
func (w *WideTable) ColumnIndex(label string) int {
	for i, c := range w.Columns {
		if c == label {
			return i
		}
	}
	return -1
}

// KeyIndex returns the position of a key column or -1
func (w *WideTable) KeyIndex(column string) int {
	for i, c := range w.KeyColumns {
		if c == column {
			return i
		}
	}
	return -1
}

// Len returns the number of rows
func (w *WideTable) Len() int {
	return len(w.Rows)
}

// Clone returns a deep copy
func (w *WideTable) Clone() *WideTable {
	out := &WideTable{
		KeyColumns: append([]string(nil), w.KeyColumns...),
		Columns:    append([]string(nil), w.Columns...),
		Rows:       make([]WideRow, len(w.Rows)),
	}
	for i, r := range w.Rows {
		out.Rows[i] = WideRow{
			Keys:   append([]string(nil), r.Keys...),
			Values: append([]float64(nil), r.Values...),
		}
	}
	return out
}

// Series is one named line or bar set, one value per category on the x axis
type Series struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}
