package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

func TestSelectPeriods(t *testing.T) {
	w := wide("Nazwa", []string{"2020", "2021", "2022"},
		map[string][]float64{"A": {1, 2, 3}}, "A")

	tests := []struct {
		name    string
		periods []domain.Period
		columns []string
		values  []float64
	}{
		{"no selection keeps all", nil, []string{"2020", "2021", "2022"}, []float64{1, 2, 3}},
		{"caller order", domain.Periods("2022", "2020"), []string{"2022", "2020"}, []float64{3, 1}},
		{"unknown skipped", domain.Periods("2019", "2021"), []string{"2021"}, []float64{2}},
		{"duplicates collapse", domain.Periods("2021", "2021"), []string{"2021"}, []float64{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectPeriods(w, tt.periods)
			assert.Equal(t, tt.columns, got.Columns)
			assert.Equal(t, tt.values, got.Rows[0].Values)
		})
	}
}

func TestMatchColumn(t *testing.T) {
	cols := []string{"Plan wydatków na 2021 r.", "2021", "Plan wydatków na 2022 r."}
	assert.Equal(t, 1, MatchColumn(cols, "2021"), "exact match wins")
	assert.Equal(t, 2, MatchColumn(cols, "2022"))
	assert.Equal(t, -1, MatchColumn(cols, "2023"))
	assert.Equal(t, -1, MatchColumn(cols, ""))
}

func TestMatchedPeriods(t *testing.T) {
	w := wide("Nazwa", []string{"Ogółem2021", "Ogółem2022"}, map[string][]float64{})
	assert.Equal(t, domain.Periods("2022"), MatchedPeriods(w, domain.Periods("2022", "2030")))
}

func TestBarPreparation(t *testing.T) {
	w := wide("Jednostka", []string{"2024"},
		map[string][]float64{"A": {5}, "B": {0}, "C": {9}, "D": {-1}, "E": {7}}, "A", "B", "C", "D", "E")

	positive, err := DropNonPositive(w, "2024")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "E"}, Keys(positive, "Jednostka"))

	desc, err := SortByColumn(positive, "2024", domain.SortDescending)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "E", "A"}, Keys(desc, "Jednostka"))

	asc, err := SortByColumn(positive, "2024", domain.SortAscending)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "E", "C"}, Keys(asc, "Jednostka"))

	assert.Equal(t, []string{"C", "E"}, Keys(TopN(desc, 2), "Jednostka"))
	assert.Len(t, TopN(desc, 0).Rows, 3, "zero keeps everything")
	assert.Len(t, TopN(desc, 15).Rows, 3)

	_, err = SortByColumn(w, "2030", domain.SortAscending)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestFilterRows(t *testing.T) {
	w := wide("Nazwa", []string{"2021"}, map[string][]float64{"A": {1}, "B": {2}, "C": {3}}, "A", "B", "C")

	assert.Equal(t, []string{"A", "C"}, Keys(FilterRows(w, "Nazwa", []string{"C", "A"}), "Nazwa"))
	assert.Len(t, FilterRows(w, "Nazwa", nil).Rows, 3)
	assert.Len(t, w.Rows, 3, "input untouched")
}

func TestFilterTableRowsAndDropColumns(t *testing.T) {
	tbl := &domain.Table{
		Columns: []string{"Dział", "Rozdział", "Rodzaj", "Wyszczególnienie"},
		Rows: [][]string{
			{"600", "60016", "Bieżące", "Drogi"},
			{"801", "80101", "Majątkowe", "Szkoły"},
		},
	}

	filtered := FilterTableRows(tbl, "Rodzaj", []string{"Majątkowe"})
	require.Len(t, filtered.Rows, 1)
	assert.Equal(t, "Szkoły", filtered.Rows[0][3])

	dropped := DropColumns(tbl, "Dział", "Rozdział", "Nieistniejąca")
	assert.Equal(t, []string{"Rodzaj", "Wyszczególnienie"}, dropped.Columns)
	assert.Equal(t, []string{"Bieżące", "Drogi"}, dropped.Rows[0])

	assert.Equal(t, []string{"Bieżące", "Majątkowe"}, DistinctValues(tbl, "Rodzaj"))
	assert.Empty(t, DistinctValues(tbl, "Jednostka"))
}

func TestProject(t *testing.T) {
	w := wide("Nazwa", []string{"2021", "2022"}, map[string][]float64{"A": {1, 2}}, "A")
	p, err := Project(w, "2022")
	require.NoError(t, err)
	assert.Equal(t, []string{"2022"}, p.Columns)
	assert.Equal(t, []float64{2}, p.Rows[0].Values)
}

func TestKeepColumns(t *testing.T) {
	w := wide("Nazwa", []string{"Ogółem2023", "Gmina2023", "Ogółem2024"},
		map[string][]float64{"A": {1, 2, 3}}, "A")

	got := KeepColumns(w, func(c string) bool { return strings.HasSuffix(c, "2023") })
	assert.Equal(t, []string{"Ogółem2023", "Gmina2023"}, got.Columns)
	assert.Equal(t, []float64{1, 2}, got.Rows[0].Values)

	none := KeepColumns(w, func(string) bool { return false })
	assert.Empty(t, none.Columns)
	assert.Len(t, none.Rows, 1, "rows survive without columns")
}
