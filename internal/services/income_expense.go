package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/krykon00/krk-budget-app/internal/charts"
	"github.com/krykon00/krk-budget-app/internal/dataprocessing"
	"github.com/krykon00/krk-budget-app/internal/files"
	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

// Columns of the planned income and expenditure files
const (
	colName     = "Nazwa"
	colTotal    = "Ogółem"
	colMunicipe = "Gmina"
	colCounty   = "Powiat"
)

// File tags of the income-expense dataset
const (
	TagIncome  = "income"
	TagExpense = "expense"
)

var incomeExpenseColumns = []string{colTotal, colMunicipe, colCounty}

type incomeExpenseView struct {
	src *dataSource
}

func (v *incomeExpenseView) info() ViewInfo {
	return ViewInfo{
		Name:        "income-expense",
		Title:       "Planowane dochody i wydatki",
		Description: "Plan dochodów i wydatków gminy i powiatu",
	}
}

func (v *incomeExpenseView) build(ctx context.Context, filter domain.FilterSelection) (*View, error) {
	const dataset = "income-expense"

	all, err := v.src.periodFiles(dataset, v.src.cfg.IncomeExpense)
	if err != nil {
		return nil, err
	}

	var incomeTables, expenseTables []*domain.WideTable
	for _, f := range all {
		t, err := v.src.loadCSV(ctx, dataset, f, dataprocessing.LoadOptions{RequiredColumn: colName})
		if err != nil {
			return nil, err
		}
		grouped, err := dataprocessing.GroupSum(t, []string{colName}, incomeExpenseColumns)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", dataset, f.Name, err)
		}
		grouped = dataprocessing.WithColumnSuffix(grouped, yearSuffix(f.Period))

		if fileTag(f) == TagIncome {
			incomeTables = append(incomeTables, grouped)
		} else {
			expenseTables = append(expenseTables, grouped)
		}
	}

	income, err := dataprocessing.MergePeriods(incomeTables, []string{colName})
	if err != nil {
		return nil, fmt.Errorf("merge income: %w", err)
	}
	expense, err := dataprocessing.MergePeriods(expenseTables, []string{colName})
	if err != nil {
		return nil, fmt.Errorf("merge expenses: %w", err)
	}
	names := union(dataprocessing.Keys(income, colName), dataprocessing.Keys(expense, colName))

	available := uniquePeriods(files.Periods(all))
	periods := available
	if len(filter.Periods) > 0 {
		periods = nil
		for _, p := range uniquePeriods(filter.Periods) {
			for _, a := range available {
				if a == p {
					periods = append(periods, p)
				}
			}
		}
	}

	suffixes := make([]string, len(periods))
	for i, p := range periods {
		suffixes[i] = yearSuffix(p)
	}
	keep := func(column string) bool {
		for _, s := range suffixes {
			if strings.HasSuffix(column, s) {
				return true
			}
		}
		return false
	}
	income = dataprocessing.FilterRows(dataprocessing.KeepColumns(income, keep), colName, filter.Names)
	expense = dataprocessing.FilterRows(dataprocessing.KeepColumns(expense, keep), colName, filter.Names)

	view := &View{
		Name:    v.info().Name,
		Title:   v.info().Title,
		Periods: periods,
		Applied: filter.WithPeriods(periods...),
		Filters: FilterOptions{
			Periods: available,
			Names:   names,
		},
	}

	x := labels(periods)
	legend := []string{"Dochody ogółem", "Wydatki ogółem"}
	trend := func(column string) []charts.TrendSeries {
		in := make([]float64, len(suffixes))
		out := make([]float64, len(suffixes))
		for i, s := range suffixes {
			in[i] = dataprocessing.ColumnTotal(income, column+s)
			out[i] = dataprocessing.ColumnTotal(expense, column+s)
		}
		return []charts.TrendSeries{
			{Series: domain.Series{Name: legend[0], Data: in}, Palette: charts.IncomePalette},
			{Series: domain.Series{Name: legend[1], Data: out}, Palette: charts.ExpensePalette},
		}
	}

	view.addChart("totals", "Dochody i wydatki ogółem", charts.TrendLine(x, trend(colTotal),
		"Historia planowanych dochodów i wydatków ogółem w budżecie", Currency, legend))
	view.addChart("municipality", "Gmina", charts.TrendLine(x, trend(colMunicipe),
		"Planowane dochody i przychody gminy", Currency, legend))
	view.addChart("county", "Powiat", charts.TrendLine(x, trend(colCounty),
		"Planowane dochody i przychody powiatu", Currency, legend))

	view.addTable("Planowane dochody", income)
	view.addTable("Planowane wydatki", expense)
	return view, nil
}

// fileTag returns the configured tag, otherwise files named after "Dochody" are income
func fileTag(f files.PeriodFile) string {
	if f.Tag != "" {
		return f.Tag
	}
	if strings.Contains(f.Name, "Dochody") {
		return TagIncome
	}
	return TagExpense
}

// yearSuffix is the column suffix of a period: its last four characters
func yearSuffix(p domain.Period) string {
	r := []rune(string(p))
	if len(r) > 4 {
		r = r[len(r)-4:]
	}
	return " " + string(r)
}
