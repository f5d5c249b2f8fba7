package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterSelection_WithCopiesSlices(t *testing.T) {
	periods := []Period{"2021", "2022"}
	base := FilterSelection{}
	sel := base.WithPeriods(periods...)

	periods[0] = "1999"

	assert.Equal(t, []Period{"2021", "2022"}, sel.Periods)
	assert.Empty(t, base.Periods, "receiver must stay untouched")
}

func TestFilterSelection_SortOrDefault(t *testing.T) {
	assert.Equal(t, SortAscending, FilterSelection{}.SortOrDefault())
	assert.Equal(t, SortDescending, FilterSelection{}.WithSort(SortDescending).SortOrDefault())
}

func TestWideTable_Clone(t *testing.T) {
	w := &WideTable{
		KeyColumns: []string{"Jednostka"},
		Columns:    []string{"2021"},
		Rows:       []WideRow{{Keys: []string{"A"}, Values: []float64{1}}},
	}
	c := w.Clone()
	c.Rows[0].Values[0] = 99
	c.Rows[0].Keys[0] = "B"

	assert.Equal(t, 1.0, w.Rows[0].Values[0])
	assert.Equal(t, "A", w.Rows[0].Keys[0])
	assert.Equal(t, 0, w.ColumnIndex("2021"))
	assert.Equal(t, -1, w.ColumnIndex("2022"))
	assert.Equal(t, 0, w.KeyIndex("Jednostka"))
}

func TestTable_Value(t *testing.T) {
	tbl := &Table{Columns: []string{"Nazwa", "Ogółem"}, Rows: [][]string{{"A", "10"}}}
	assert.Equal(t, "10", tbl.Value(0, "Ogółem"))
	assert.Equal(t, "", tbl.Value(0, "Gmina"))
	assert.Equal(t, "", tbl.Value(3, "Nazwa"))
}
