package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/krykon00/krk-budget-app/internal/charts"
	"github.com/krykon00/krk-budget-app/internal/dataprocessing"
	"github.com/krykon00/krk-budget-app/internal/files"
	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

// Columns of the district budget files
const (
	colType   = "Rodzaj"
	colDetail = "Wyszczególnienie"
)

// districtDroppedColumns hold classification codes that are not summed
var districtDroppedColumns = []string{"Dział", "Rozdział"}

type districtsView struct {
	src *dataSource
}

func (v *districtsView) info() ViewInfo {
	return ViewInfo{
		Name:        "districts",
		Title:       "Budżet dzielnic",
		Description: "Budżet dzielnic według rodzaju i szczegółowego przeznaczenia",
	}
}

func (v *districtsView) build(ctx context.Context, filter domain.FilterSelection) (*View, error) {
	const dataset = "districts"

	all, err := v.src.periodFiles(dataset, v.src.cfg.Districts)
	if err != nil {
		return nil, err
	}

	tables := make([]*domain.WideTable, 0, len(all))
	var types []string
	for _, f := range all {
		t, err := v.src.loadCSV(ctx, dataset, f, dataprocessing.LoadOptions{RequiredColumn: colType})
		if err != nil {
			return nil, err
		}
		t = dataprocessing.DropColumns(t, districtDroppedColumns...)
		types = union(types, dataprocessing.DistinctValues(t, colType))

		var valueColumns []string
		for _, c := range t.Columns {
			if c != colType && c != colDetail {
				valueColumns = append(valueColumns, c)
			}
		}
		grouped, err := dataprocessing.GroupSum(t, []string{colType, colDetail}, valueColumns)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", dataset, f.Name, err)
		}
		// A single amount column is named after the file's period
		if len(valueColumns) == 1 {
			grouped = relabel(grouped, f.Period)
		}
		tables = append(tables, grouped)
	}

	wide, err := dataprocessing.MergePeriods(tables, []string{colType, colDetail})
	if err != nil {
		return nil, err
	}

	requested := filter.Periods
	if len(requested) == 0 {
		requested = files.Periods(all)
	}
	periods := dataprocessing.MatchedPeriods(wide, uniquePeriods(requested))
	selected := dataprocessing.FilterRows(pickColumns(wide, periods), colDetail, filter.Details)
	x := labels(periods)

	byType, err := dataprocessing.GroupSumWide(
		dataprocessing.FilterRows(selected, colType, filter.Categories), colType)
	if err != nil {
		return nil, err
	}
	focusOptions := dataprocessing.Keys(byType, colType)
	focus := pickFocus(filter.Focus, focusOptions)

	details, err := dataprocessing.GroupSumWide(
		dataprocessing.FilterRows(selected, colType, []string{focus}), colDetail)
	if err != nil {
		return nil, err
	}

	detailOptions := dataprocessing.Keys(dataprocessing.FilterRows(wide, colType, filter.Categories), colDetail)
	slices.Sort(detailOptions)

	view := &View{
		Name:    v.info().Name,
		Title:   v.info().Title,
		Periods: periods,
		Applied: filter.WithPeriods(periods...).WithFocus(focus),
		Filters: FilterOptions{
			Periods:    files.Periods(all),
			Categories: types,
			Details:    detailOptions,
			Focus:      focusOptions,
			Sortable:   true,
			MaxTopN:    domain.MaxTopN,
		},
	}

	view.addChart("totals", "Budżet dzielnic", charts.TrendLine(x, []charts.TrendSeries{
		{Series: domain.Series{Name: "Suma", Data: dataprocessing.TotalsInOrder(selected, periods)}, Palette: charts.TotalsPalette},
	}, "Suma kwoty budżetu na dzielnice", Currency, nil))

	typeSeries := dataprocessing.ToSeries(byType)
	view.addChart("types", "Rodzaje", charts.SubunitsLine(x, typeSeries,
		"Suma budżetu dla dzielnic na rodzaje", Currency, seriesNames(typeSeries)))

	if len(byType.Columns) > 0 {
		last := byType.Columns[len(byType.Columns)-1]
		bar, err := barTable(byType, last, filter)
		if err != nil {
			return nil, err
		}
		view.addChart("newest", "Rodzaje w ostatnim okresie", charts.BarByTypes(
			dataprocessing.Keys(bar, colType),
			[]domain.Series{{Name: colType, Data: dataprocessing.Column(bar, last)}},
			"Budżet dzielnic w rozbiciu na rodzaj na "+last, Currency, charts.BarOptions{ShowXLabels: true}))
	}

	detailSeries := dataprocessing.ToSeries(details)
	view.addChart("details", "Szczegóły", charts.SubunitsLine(x, detailSeries,
		"Szczegóły budżetu dla: "+focus, Currency, seriesNames(detailSeries)))

	view.addTable("Dzielnice", selected)
	view.addTable("Rodzaje", byType)
	view.addTable("Szczegóły", details)
	return view, nil
}
