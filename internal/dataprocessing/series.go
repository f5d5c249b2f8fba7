package dataprocessing

import (
	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

// ToSeries turns every row into a series: the name comes from the first key column
// and the data are the row's values in column order. Rows are neither reordered nor filtered.
func ToSeries(w *domain.WideTable) []domain.Series {
	out := make([]domain.Series, 0, len(w.Rows))
	for _, r := range w.Rows {
		name := ""
		if len(r.Keys) > 0 {
			name = r.Keys[0]
		}
		out = append(out, domain.Series{
			Name: name,
			Data: append([]float64(nil), r.Values...),
		})
	}
	return out
}

// Keys returns the values of a key column in row order, without duplicates
func Keys(w *domain.WideTable, column string) []string {
	ki := w.KeyIndex(column)
	out := []string{}
	if ki < 0 {
		return out
	}
	seen := make(map[string]struct{}, len(w.Rows))
	for _, r := range w.Rows {
		k := r.Keys[ki]
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Column returns one value column across all rows, nil when absent
func Column(w *domain.WideTable, label string) []float64 {
	idx := w.ColumnIndex(label)
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(w.Rows))
	for i, r := range w.Rows {
		out[i] = r.Values[idx]
	}
	return out
}

// AddSeries sums equally long value slices element-wise
func AddSeries(a, b []float64) []float64 {
	n := min(len(a), len(b))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] + b[i]
	}
	return out
}
