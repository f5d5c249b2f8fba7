package services

import (
	"context"
	"fmt"

	"github.com/krykon00/krk-budget-app/internal/charts"
	"github.com/krykon00/krk-budget-app/internal/dataprocessing"
	"github.com/krykon00/krk-budget-app/internal/files"
	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

// Columns of the current expenses files
const (
	colUnit        = "Jednostka"
	colTask        = "Nazwa zadania"
	colTaskExpense = "Wydatki na zadania ogółem"
)

type currentExpensesView struct {
	src *dataSource
}

func (v *currentExpensesView) info() ViewInfo {
	return ViewInfo{
		Name:        "current-expenses",
		Title:       "Wydatki bieżące",
		Description: "Wydatki bieżące jednostek miasta i ich zadań",
	}
}

func (v *currentExpensesView) build(ctx context.Context, filter domain.FilterSelection) (*View, error) {
	const dataset = "current-expenses"

	all, err := v.src.periodFiles(dataset, v.src.cfg.CurrentExpenses)
	if err != nil {
		return nil, err
	}
	selected := selectFiles(all, filter.Periods)
	periods := make([]domain.Period, 0, len(selected))

	totals := make([]float64, 0, len(selected))
	unitTables := make([]*domain.WideTable, 0, len(selected))
	taskTables := make([]*domain.WideTable, 0, len(selected))
	var units []string
	loaded := make([]*domain.Table, 0, len(selected))

	for _, f := range selected {
		t, err := v.src.loadCSV(ctx, dataset, f, dataprocessing.LoadOptions{RequiredColumn: colTask})
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, t)
		periods = append(periods, f.Period)
		units = union(units, dataprocessing.DistinctValues(t, colUnit))
		totals = append(totals, dataprocessing.SumColumn(
			dataprocessing.FilterTableRows(t, colUnit, filter.Units), colTaskExpense))

		byUnit, err := dataprocessing.GroupSum(t, []string{colUnit}, []string{colTaskExpense})
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", dataset, f.Name, err)
		}
		unitTables = append(unitTables, relabel(byUnit, f.Period))
	}

	unitTotals, err := dataprocessing.MergePeriods(unitTables, []string{colUnit})
	if err != nil {
		return nil, err
	}
	unitTotals = dataprocessing.FilterRows(unitTotals, colUnit, filter.Units)

	focusOptions := units
	if len(filter.Units) > 0 {
		focusOptions = filter.Units
	}
	focus := pickFocus(filter.Focus, focusOptions)

	for i, t := range loaded {
		byTask, err := dataprocessing.GroupSum(
			dataprocessing.FilterTableRows(t, colUnit, []string{focus}),
			[]string{colTask}, []string{colTaskExpense})
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", dataset, selected[i].Name, err)
		}
		taskTables = append(taskTables, relabel(byTask, selected[i].Period))
	}
	tasks, err := dataprocessing.MergePeriods(taskTables, []string{colTask})
	if err != nil {
		return nil, err
	}

	x := labels(periods)
	view := &View{
		Name:    v.info().Name,
		Title:   v.info().Title,
		Periods: periods,
		Applied: filter.WithPeriods(periods...).WithFocus(focus),
		Filters: FilterOptions{
			Periods:  files.Periods(all),
			Units:    units,
			Focus:    focusOptions,
			Sortable: true,
			MaxTopN:  domain.MaxTopN,
		},
	}

	view.addChart("totals", "Wydatki bieżące ogółem", charts.TrendLine(x, []charts.TrendSeries{
		{Series: domain.Series{Name: "Wydatki", Data: totals}, Palette: charts.ExpensePalette},
	}, "Suma wydatków bieżących", Currency, []string{"Wydatki"}))

	unitSeries := dataprocessing.ToSeries(unitTotals)
	view.addChart("units", "Wydatki jednostek", charts.UnitsLine(x, unitSeries,
		"Wydatki bieżące jednostek", Currency, seriesNames(unitSeries)))

	if len(periods) > 0 {
		newest := string(periods[len(periods)-1])
		bar, err := barTable(unitTotals, newest, filter)
		if err != nil {
			return nil, err
		}
		series := []domain.Series{{Name: colUnit, Data: dataprocessing.Column(bar, newest)}}
		categories := dataprocessing.Keys(bar, colUnit)
		if filter.TopN > 0 {
			view.addChart("newest", "Największe wydatki", charts.BarByTypes(categories, series,
				newest, Currency, charts.BarOptions{ShowXLabels: true}))
		} else {
			view.addChart("newest", "Wydatki jednostek", charts.BarByUnits(categories, series,
				newest, Currency, charts.BarOptions{}))
		}
	}

	taskSeries := dataprocessing.ToSeries(tasks)
	view.addChart("tasks", "Zadania jednostki", charts.SubunitsLine(x, taskSeries,
		"Zadania jed.: "+focus, Currency, seriesNames(taskSeries)))

	view.addTable("Jednostki", unitTotals)
	view.addTable("Zadania", tasks)
	return view, nil
}

func seriesNames(series []domain.Series) []string {
	out := make([]string, len(series))
	for i, s := range series {
		out[i] = s.Name
	}
	return out
}
