package dataprocessing

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

// ErrDuplicateColumn is returned when merged tables share a value column label
var ErrDuplicateColumn = errors.New("duplicate value column")

// keySep joins composite keys for map lookups; it cannot occur in cleaned cells
const keySep = "\x1f"

// SumByPeriod sums every row of the column matching each period.
// A period without a matching column sums to zero.
func SumByPeriod(w *domain.WideTable, periods []domain.Period) map[domain.Period]float64 {
	out := make(map[domain.Period]float64, len(periods))
	for _, p := range periods {
		out[p] = columnSum(w, MatchColumn(w.Columns, string(p)))
	}
	return out
}

// TotalsInOrder returns the per-period column sums in the caller's period order
func TotalsInOrder(w *domain.WideTable, periods []domain.Period) []float64 {
	out := make([]float64, len(periods))
	for i, p := range periods {
		out[i] = columnSum(w, MatchColumn(w.Columns, string(p)))
	}
	return out
}

// ColumnTotal sums one value column by exact label, zero when absent
func ColumnTotal(w *domain.WideTable, label string) float64 {
	return columnSum(w, w.ColumnIndex(label))
}

func columnSum(w *domain.WideTable, idx int) float64 {
	if idx < 0 {
		return 0
	}
	var sum float64
	for _, r := range w.Rows {
		sum += r.Values[idx]
	}
	return sum
}

// RowByPeriod returns the values of one designated row (e.g. a "total" row)
// for each period. An out of range row yields zeros.
func RowByPeriod(w *domain.WideTable, row int, periods []domain.Period) []float64 {
	out := make([]float64, len(periods))
	if row < 0 || row >= len(w.Rows) {
		return out
	}
	for i, p := range periods {
		if idx := MatchColumn(w.Columns, string(p)); idx >= 0 {
			out[i] = w.Rows[row].Values[idx]
		}
	}
	return out
}

// SumColumn sums a numeric column of a raw table, zero when the column is absent
func SumColumn(t *domain.Table, column string) float64 {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return 0
	}
	var sum float64
	for _, row := range t.Rows {
		sum += ParseNumber(row[idx])
	}
	return sum
}

// GroupSum groups the rows of t sharing the same key tuple and sums each value column.
// Output rows are unique and ordered lexicographically by key.
func GroupSum(t *domain.Table, groupKeys, valueColumns []string) (*domain.WideTable, error) {
	keyIdx, err := columnIndexes(t, groupKeys)
	if err != nil {
		return nil, err
	}
	valIdx, err := columnIndexes(t, valueColumns)
	if err != nil {
		return nil, err
	}

	acc := newAccumulator(len(valIdx))
	for _, row := range t.Rows {
		keys := make([]string, len(keyIdx))
		for i, idx := range keyIdx {
			keys[i] = row[idx]
		}
		values := acc.row(keys)
		for i, idx := range valIdx {
			values[i] += ParseNumber(row[idx])
		}
	}

	return acc.table(groupKeys, valueColumns), nil
}

// GroupSumWide re-keys a wide table by one of its key columns, summing rows that collapse together
func GroupSumWide(w *domain.WideTable, keyColumn string) (*domain.WideTable, error) {
	ki := w.KeyIndex(keyColumn)
	if ki < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, keyColumn)
	}

	acc := newAccumulator(len(w.Columns))
	for _, r := range w.Rows {
		values := acc.row([]string{r.Keys[ki]})
		for i, v := range r.Values {
			values[i] += v
		}
	}
	return acc.table([]string{keyColumn}, w.Columns), nil
}

// MergePeriods outer-joins per-period tables on the join keys.
// Output columns are the inputs' value columns in input order; the row set is the
// union of all key tuples, ordered lexicographically. Cells missing from an input
// are zero. Rows of one input sharing a key tuple are summed.
func MergePeriods(tables []*domain.WideTable, joinKeys []string) (*domain.WideTable, error) {
	var columns []string
	for _, t := range tables {
		for _, c := range t.Columns {
			if slices.Contains(columns, c) {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
			}
			columns = append(columns, c)
		}
	}

	// First pass discovers the union of keys; cells are zero-filled afterwards.
	type cell struct {
		keys   []string
		offset int
		values []float64
	}
	var cells []cell
	offset := 0
	for _, t := range tables {
		idx := make([]int, len(joinKeys))
		for i, k := range joinKeys {
			idx[i] = t.KeyIndex(k)
			if idx[i] < 0 {
				return nil, fmt.Errorf("%w: join key %q", ErrColumnNotFound, k)
			}
		}
		for _, r := range t.Rows {
			keys := make([]string, len(idx))
			for i, ki := range idx {
				keys[i] = r.Keys[ki]
			}
			cells = append(cells, cell{keys: keys, offset: offset, values: r.Values})
		}
		offset += len(t.Columns)
	}

	acc := newAccumulator(len(columns))
	for _, c := range cells {
		values := acc.row(c.keys)
		for i, v := range c.values {
			values[c.offset+i] += v
		}
	}
	return acc.table(joinKeys, columns), nil
}

// WithColumnSuffix returns a copy whose value columns carry the suffix
func WithColumnSuffix(w *domain.WideTable, suffix string) *domain.WideTable {
	return RelabelColumns(w, func(label string) string { return label + suffix })
}

// RelabelColumns returns a copy with every value column renamed by fn
func RelabelColumns(w *domain.WideTable, fn func(string) string) *domain.WideTable {
	out := w.Clone()
	for i, c := range out.Columns {
		out.Columns[i] = fn(c)
	}
	return out
}

type accumulator struct {
	width int
	index map[string]int
	rows  []domain.WideRow
}

func newAccumulator(width int) *accumulator {
	return &accumulator{width: width, index: make(map[string]int)}
}

// row returns the value slice for a key tuple, creating a zeroed one if needed
func (a *accumulator) row(keys []string) []float64 {
	id := strings.Join(keys, keySep)
	if i, ok := a.index[id]; ok {
		return a.rows[i].Values
	}
	a.index[id] = len(a.rows)
	a.rows = append(a.rows, domain.WideRow{Keys: keys, Values: make([]float64, a.width)})
	return a.rows[len(a.rows)-1].Values
}

func (a *accumulator) table(keyColumns, columns []string) *domain.WideTable {
	rows := a.rows
	if rows == nil {
		rows = []domain.WideRow{}
	}
	slices.SortStableFunc(rows, func(x, y domain.WideRow) int {
		return slices.Compare(x.Keys, y.Keys)
	})
	return &domain.WideTable{
		KeyColumns: append([]string(nil), keyColumns...),
		Columns:    append([]string{}, columns...),
		Rows:       rows,
	}
}
