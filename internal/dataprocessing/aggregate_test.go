package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

func wide(keyColumn string, columns []string, rows map[string][]float64, order ...string) *domain.WideTable {
	w := &domain.WideTable{KeyColumns: []string{keyColumn}, Columns: columns}
	for _, k := range order {
		w.Rows = append(w.Rows, domain.WideRow{Keys: []string{k}, Values: rows[k]})
	}
	return w
}

func TestMergePeriods_OuterJoinZeroFill(t *testing.T) {
	p1 := wide("Jednostka", []string{"2021"}, map[string][]float64{"A": {1}, "B": {2}}, "A", "B")
	p2 := wide("Jednostka", []string{"2022"}, map[string][]float64{"B": {3}, "C": {4}}, "B", "C")

	merged, err := MergePeriods([]*domain.WideTable{p1, p2}, []string{"Jednostka"})
	require.NoError(t, err)

	assert.Equal(t, []string{"2021", "2022"}, merged.Columns)
	assert.Equal(t, []domain.WideRow{
		{Keys: []string{"A"}, Values: []float64{1, 0}},
		{Keys: []string{"B"}, Values: []float64{2, 3}},
		{Keys: []string{"C"}, Values: []float64{0, 4}},
	}, merged.Rows)
}

func TestMergePeriods_CallerOrder(t *testing.T) {
	p2022 := wide("Nazwa", []string{"2022"}, map[string][]float64{"X": {2}}, "X")
	p2020 := wide("Nazwa", []string{"2020"}, map[string][]float64{"X": {1}}, "X")

	merged, err := MergePeriods([]*domain.WideTable{p2022, p2020}, []string{"Nazwa"})
	require.NoError(t, err)

	assert.Equal(t, []string{"2022", "2020"}, merged.Columns, "columns follow input order, not lexical order")
	assert.Equal(t, []float64{2, 1}, merged.Rows[0].Values)
}

func TestMergePeriods_CompositeKeys(t *testing.T) {
	a := &domain.WideTable{
		KeyColumns: []string{"Rodzaj", "Wyszczególnienie"},
		Columns:    []string{"Plan wydatków na 2021 r."},
		Rows: []domain.WideRow{
			{Keys: []string{"Bieżące", "Drogi"}, Values: []float64{10}},
			{Keys: []string{"Bieżące", "Szkoły"}, Values: []float64{5}},
		},
	}
	b := &domain.WideTable{
		KeyColumns: []string{"Rodzaj", "Wyszczególnienie"},
		Columns:    []string{"Plan wydatków na 2022 r."},
		Rows: []domain.WideRow{
			{Keys: []string{"Majątkowe", "Drogi"}, Values: []float64{7}},
		},
	}

	merged, err := MergePeriods([]*domain.WideTable{a, b}, []string{"Rodzaj", "Wyszczególnienie"})
	require.NoError(t, err)
	require.Len(t, merged.Rows, 3, "same detail under another type is a distinct row")
	assert.Equal(t, []string{"Majątkowe", "Drogi"}, merged.Rows[2].Keys)
	assert.Equal(t, []float64{0, 7}, merged.Rows[2].Values)
}

func TestMergePeriods_Errors(t *testing.T) {
	a := wide("Nazwa", []string{"2021"}, map[string][]float64{"X": {1}}, "X")
	b := wide("Nazwa", []string{"2021"}, map[string][]float64{"Y": {1}}, "Y")

	_, err := MergePeriods([]*domain.WideTable{a, b}, []string{"Nazwa"})
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = MergePeriods([]*domain.WideTable{a}, []string{"Jednostka"})
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestMergePeriods_Empty(t *testing.T) {
	merged, err := MergePeriods(nil, []string{"Nazwa"})
	require.NoError(t, err)
	assert.Empty(t, merged.Rows)
	assert.Empty(t, merged.Columns)
	assert.Equal(t, []string{"Nazwa"}, merged.KeyColumns)
}

func TestGroupSum(t *testing.T) {
	tbl := &domain.Table{
		Columns: []string{"Jednostka", "Nazwa zadania", "Wydatki na zadania ogółem"},
		Rows: [][]string{
			{"ZDMK", "Remonty", "100"},
			{"MOPS", "Opieka", "50"},
			{"ZDMK", "Oświetlenie", "25,5"},
			{"MOPS", "Schroniska", "x"},
		},
	}

	got, err := GroupSum(tbl, []string{"Jednostka"}, []string{"Wydatki na zadania ogółem"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Jednostka"}, got.KeyColumns)
	assert.Equal(t, []domain.WideRow{
		{Keys: []string{"MOPS"}, Values: []float64{50}},
		{Keys: []string{"ZDMK"}, Values: []float64{125.5}},
	}, got.Rows)

	_, err = GroupSum(tbl, []string{"Dzielnica"}, []string{"Wydatki na zadania ogółem"})
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestGroupSumWide(t *testing.T) {
	w := &domain.WideTable{
		KeyColumns: []string{"Rodzaj", "Wyszczególnienie"},
		Columns:    []string{"2021", "2022"},
		Rows: []domain.WideRow{
			{Keys: []string{"Bieżące", "Drogi"}, Values: []float64{1, 2}},
			{Keys: []string{"Majątkowe", "Parki"}, Values: []float64{5, 5}},
			{Keys: []string{"Bieżące", "Szkoły"}, Values: []float64{3, 4}},
		},
	}

	got, err := GroupSumWide(w, "Rodzaj")
	require.NoError(t, err)
	assert.Equal(t, []domain.WideRow{
		{Keys: []string{"Bieżące"}, Values: []float64{4, 6}},
		{Keys: []string{"Majątkowe"}, Values: []float64{5, 5}},
	}, got.Rows)
}

func TestSumByPeriod(t *testing.T) {
	w := wide("Nazwa", []string{"Plan wydatków na 2021 r.", "Plan wydatków na 2022 r."},
		map[string][]float64{"A": {1, 2}, "B": {10, 20}}, "A", "B")

	got := SumByPeriod(w, domain.Periods("2021", "2022", "2030"))
	assert.Equal(t, map[domain.Period]float64{"2021": 11, "2022": 22, "2030": 0}, got)

	assert.Equal(t, []float64{22, 11}, TotalsInOrder(w, domain.Periods("2022", "2021")))
}

func TestRowByPeriod(t *testing.T) {
	w := wide("Nazwa", []string{"2021", "2022"},
		map[string][]float64{"Dochody ogółem": {100, 150}, "Deficyt": {-5, 3}}, "Dochody ogółem", "Deficyt")

	assert.Equal(t, []float64{3, -5}, RowByPeriod(w, 1, domain.Periods("2022", "2021")))
	assert.Equal(t, []float64{0, 0}, RowByPeriod(w, 7, domain.Periods("2021", "2022")))
}

func TestSumColumn(t *testing.T) {
	tbl := &domain.Table{Columns: []string{"Nazwa", "Ogółem"}, Rows: [][]string{{"A", "1"}, {"B", "2,5"}}}
	assert.Equal(t, 3.5, SumColumn(tbl, "Ogółem"))
	assert.Equal(t, 0.0, SumColumn(tbl, "Gmina"))
}

func TestWithColumnSuffix(t *testing.T) {
	w := wide("Nazwa", []string{"Ogółem", "Gmina"}, map[string][]float64{"A": {1, 2}}, "A")
	got := WithColumnSuffix(w, "2024")
	assert.Equal(t, []string{"Ogółem2024", "Gmina2024"}, got.Columns)
	assert.Equal(t, []string{"Ogółem", "Gmina"}, w.Columns, "input untouched")
}
