package dataprocessing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

// MatchColumn finds the column for a period label: an exact match first,
// then the first column containing the label ("2021" matches "Plan wydatków na 2021 r.").
func MatchColumn(columns []string, period string) int {
	if period == "" {
		return -1
	}
	if i := slices.Index(columns, period); i >= 0 {
		return i
	}
	for i, c := range columns {
		if strings.Contains(c, period) {
			return i
		}
	}
	return -1
}

// SelectPeriods keeps the value columns matching the periods, in the caller's order.
// Periods without a column are skipped. No periods keeps every column.
func SelectPeriods(w *domain.WideTable, periods []domain.Period) *domain.WideTable {
	if len(periods) == 0 {
		return w.Clone()
	}

	var picked []int
	for _, p := range periods {
		idx := MatchColumn(w.Columns, string(p))
		if idx >= 0 && !slices.Contains(picked, idx) {
			picked = append(picked, idx)
		}
	}
	return selectColumns(w, picked)
}

// MatchedPeriods returns the periods that SelectPeriods would keep, in order
func MatchedPeriods(w *domain.WideTable, periods []domain.Period) []domain.Period {
	var out []domain.Period
	var seen []int
	for _, p := range periods {
		idx := MatchColumn(w.Columns, string(p))
		if idx >= 0 && !slices.Contains(seen, idx) {
			seen = append(seen, idx)
			out = append(out, p)
		}
	}
	return out
}

func selectColumns(w *domain.WideTable, picked []int) *domain.WideTable {
	out := &domain.WideTable{
		KeyColumns: append([]string(nil), w.KeyColumns...),
		Columns:    make([]string, len(picked)),
		Rows:       make([]domain.WideRow, len(w.Rows)),
	}
	for i, idx := range picked {
		out.Columns[i] = w.Columns[idx]
	}
	for r, row := range w.Rows {
		values := make([]float64, len(picked))
		for i, idx := range picked {
			values[i] = row.Values[idx]
		}
		out.Rows[r] = domain.WideRow{Keys: append([]string(nil), row.Keys...), Values: values}
	}
	return out
}

// KeepColumns keeps the value columns accepted by keep, in table order
func KeepColumns(w *domain.WideTable, keep func(column string) bool) *domain.WideTable {
	var picked []int
	for i, c := range w.Columns {
		if keep(c) {
			picked = append(picked, i)
		}
	}
	return selectColumns(w, picked)
}

// Project keeps a single value column
func Project(w *domain.WideTable, column string) (*domain.WideTable, error) {
	idx := w.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	return selectColumns(w, []int{idx}), nil
}

// FilterRows keeps rows whose key column value is in allowed. Empty allowed keeps all rows.
func FilterRows(w *domain.WideTable, keyColumn string, allowed []string) *domain.WideTable {
	out := w.Clone()
	ki := w.KeyIndex(keyColumn)
	if len(allowed) == 0 || ki < 0 {
		return out
	}
	out.Rows = slices.DeleteFunc(out.Rows, func(r domain.WideRow) bool {
		return !slices.Contains(allowed, r.Keys[ki])
	})
	return out
}

// FilterTableRows keeps raw rows whose cell in column is in allowed. Empty allowed keeps all rows.
func FilterTableRows(t *domain.Table, column string, allowed []string) *domain.Table {
	out := &domain.Table{Columns: append([]string(nil), t.Columns...)}
	idx := t.ColumnIndex(column)
	for _, row := range t.Rows {
		if len(allowed) == 0 || idx < 0 || slices.Contains(allowed, row[idx]) {
			out.Rows = append(out.Rows, append([]string(nil), row...))
		}
	}
	return out
}

// DropColumns removes the named columns from a raw table; unknown names are ignored
func DropColumns(t *domain.Table, names ...string) *domain.Table {
	var keep []int
	out := &domain.Table{}
	for i, c := range t.Columns {
		if !slices.Contains(names, c) {
			keep = append(keep, i)
			out.Columns = append(out.Columns, c)
		}
	}
	for _, row := range t.Rows {
		nr := make([]string, len(keep))
		for i, idx := range keep {
			nr[i] = row[idx]
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// SortByColumn orders rows by one value column; ties keep their order
func SortByColumn(w *domain.WideTable, column string, dir domain.SortDirection) (*domain.WideTable, error) {
	idx := w.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	out := w.Clone()
	slices.SortStableFunc(out.Rows, func(a, b domain.WideRow) int {
		c := cmp.Compare(a.Values[idx], b.Values[idx])
		if dir == domain.SortDescending {
			return -c
		}
		return c
	})
	return out, nil
}

// DropNonPositive removes rows whose value in column is zero or negative
func DropNonPositive(w *domain.WideTable, column string) (*domain.WideTable, error) {
	idx := w.ColumnIndex(column)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	out := w.Clone()
	out.Rows = slices.DeleteFunc(out.Rows, func(r domain.WideRow) bool {
		return r.Values[idx] <= 0
	})
	return out, nil
}

// TopN keeps the first n rows; n <= 0 keeps everything
func TopN(w *domain.WideTable, n int) *domain.WideTable {
	out := w.Clone()
	if n > 0 && n < len(out.Rows) {
		out.Rows = out.Rows[:n]
	}
	return out
}

// DistinctValues returns the sorted distinct non-empty values of a raw table column
func DistinctValues(t *domain.Table, column string) []string {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return []string{}
	}
	out := []string{}
	for _, row := range t.Rows {
		if v := row[idx]; v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
