package services

import (
	"context"
	"slices"

	"github.com/krykon00/krk-budget-app/internal/charts"
	"github.com/krykon00/krk-budget-app/internal/dataprocessing"
	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

// Workbook sheets of the overview
const (
	SheetIncome      = "Dochody"
	SheetRevenue     = "Przychody"
	SheetExpenditure = "Wydatki"
	SheetOutflow     = "Rozchody"
)

// OverviewSheets lists the sheets the overview workbook must hold
var OverviewSheets = []string{SheetIncome, SheetRevenue, SheetExpenditure, SheetOutflow}

// Rows of the Dochody sheet
const (
	incomeTotalRow = 0
	deficitRow     = 1
)

type overviewView struct {
	src *dataSource
}

func (v *overviewView) info() ViewInfo {
	return ViewInfo{
		Name:        "overview",
		Title:       "Budżet miasta Krakowa",
		Description: "Przychody i rozchody budżetu z arkusza zbiorczego",
	}
}

func (v *overviewView) build(ctx context.Context, filter domain.FilterSelection) (*View, error) {
	sheets := make(map[string]*domain.WideTable, len(OverviewSheets))
	for _, name := range OverviewSheets {
		w, err := v.src.loadSheet(ctx, name)
		if err != nil {
			return nil, err
		}
		sheets[name] = w
	}

	all := slices.Clone(sheets[SheetIncome].Columns)
	slices.Sort(all)
	if len(all) == 0 {
		return nil, ErrNoPeriods
	}

	periods := domain.Periods(all...)
	if len(filter.Periods) > 0 {
		periods = dataprocessing.MatchedPeriods(sheets[SheetIncome], uniquePeriods(filter.Periods))
	}
	x := labels(periods)

	income := sheets[SheetIncome]
	revenue := sheets[SheetRevenue]
	expenditure := sheets[SheetExpenditure]
	outflow := sheets[SheetOutflow]

	incomeTotal := dataprocessing.AddSeries(
		dataprocessing.RowByPeriod(income, incomeTotalRow, periods),
		dataprocessing.TotalsInOrder(revenue, periods))
	expenditureRow := dataprocessing.RowByPeriod(expenditure, 0, periods)
	outflowTotal := dataprocessing.AddSeries(expenditureRow, dataprocessing.TotalsInOrder(outflow, periods))

	view := &View{
		Name:    v.info().Name,
		Title:   v.info().Title,
		Periods: periods,
		Applied: filter.WithPeriods(periods...),
		Filters: FilterOptions{Periods: domain.Periods(all...)},
	}

	view.addChart("totals", "Przychody i rozchody", charts.TrendLine(x, []charts.TrendSeries{
		{Series: domain.Series{Name: "Dochody i przychody", Data: incomeTotal}, Palette: charts.IncomePalette},
		{Series: domain.Series{Name: "Wydatki i rozchody", Data: outflowTotal}, Palette: charts.ExpensePalette},
	}, "Zestawienie wszystkich przychodów i rozchodów", Currency, []string{"Dochody i przychody", "Wydatki i rozchody"}))

	view.addChart("deficit", "Deficyt", charts.TrendLine(x, []charts.TrendSeries{
		{Series: domain.Series{Name: "Deficyt", Data: dataprocessing.RowByPeriod(income, deficitRow, periods)}, Palette: charts.ExpensePalette},
	}, "Historia deficytu budżetowego", Currency, nil))

	outflowSeries, outflowNames := rowSeries(outflow, periods, charts.ExpensePalette)
	view.addChart("outflows", "Rozchody", charts.TrendLine(x, outflowSeries,
		"Historia rozchodów budżetowych", Currency, outflowNames))

	view.addChart("expenditures", "Wydatki", charts.TrendLine(x, []charts.TrendSeries{
		{Series: domain.Series{Name: "Wydatki", Data: expenditureRow}, Palette: charts.ExpensePalette},
	}, "Historia wydatków budżetowych", Currency, []string{"Wydatki"}))

	revenueSeries, revenueNames := rowSeries(revenue, periods, charts.IncomePalette)
	view.addChart("revenues", "Przychody", charts.TrendLine(x, revenueSeries,
		"Historia przychodów budżetowych", Currency, revenueNames))

	for _, name := range OverviewSheets {
		view.addTable(name, pickColumns(sheets[name], periods))
	}
	return view, nil
}

// rowSeries turns every row of a sheet into one trend series
func rowSeries(w *domain.WideTable, periods []domain.Period, p charts.Palette) ([]charts.TrendSeries, []string) {
	series := make([]charts.TrendSeries, 0, w.Len())
	names := make([]string, 0, w.Len())
	for i, row := range w.Rows {
		name := row.Keys[0]
		names = append(names, name)
		series = append(series, charts.TrendSeries{
			Series:  domain.Series{Name: name, Data: dataprocessing.RowByPeriod(w, i, periods)},
			Palette: p,
		})
	}
	return series, names
}
