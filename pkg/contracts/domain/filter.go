package domain

import "slices"

// MaxTopN is the largest number of bars a top-N chart may keep
const MaxTopN = 15

// SortDirection orders bar chart categories by value
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// FilterSelection is the user's choice of periods, units and categories for one view.
// It is passed by value into every view build; the With* methods return modified copies
// and never touch the receiver's slices. Empty lists mean "no restriction".
type FilterSelection struct {
	Periods    []Period      `json:"periods,omitempty" validate:"dive,required,period"`
	Units      []string      `json:"units,omitempty" validate:"dive,required"`
	Categories []string      `json:"categories,omitempty" validate:"dive,required"`
	Details    []string      `json:"details,omitempty" validate:"dive,required"`
	Names      []string      `json:"names,omitempty" validate:"dive,required"`
	Sort       SortDirection `json:"sort,omitempty" validate:"omitempty,oneof=asc desc"`
	TopN       int           `json:"top" validate:"min=0,max=15"`
	Focus      string        `json:"focus,omitempty" validate:"max=500"`
}

// SortOrDefault returns the sort direction, ascending when unset
func (f FilterSelection) SortOrDefault() SortDirection {
	if f.Sort == "" {
		return SortAscending
	}
	return f.Sort
}

// WithPeriods returns a copy restricted to the given periods, in that order
func (f FilterSelection) WithPeriods(periods ...Period) FilterSelection {
	f.Periods = slices.Clone(periods)
	return f
}

// WithUnits returns a copy restricted to the given administrative units
func (f FilterSelection) WithUnits(units ...string) FilterSelection {
	f.Units = slices.Clone(units)
	return f
}

// WithCategories returns a copy restricted to the given categories
func (f FilterSelection) WithCategories(categories ...string) FilterSelection {
	f.Categories = slices.Clone(categories)
	return f
}

// WithDetails returns a copy restricted to the given detail lines
func (f FilterSelection) WithDetails(details ...string) FilterSelection {
	f.Details = slices.Clone(details)
	return f
}

// WithNames returns a copy restricted to the given row names
func (f FilterSelection) WithNames(names ...string) FilterSelection {
	f.Names = slices.Clone(names)
	return f
}

// WithSort returns a copy with the bar sort direction set
func (f FilterSelection) WithSort(dir SortDirection) FilterSelection {
	f.Sort = dir
	return f
}

// WithTopN returns a copy keeping only the first n bars; zero disables truncation
func (f FilterSelection) WithTopN(n int) FilterSelection {
	f.TopN = n
	return f
}

// WithFocus returns a copy focused on one unit or category for drill-down charts
func (f FilterSelection) WithFocus(focus string) FilterSelection {
	f.Focus = focus
	return f
}
