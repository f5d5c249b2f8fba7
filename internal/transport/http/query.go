package http

import (
	"net/url"
	"strconv"
	"strings"

	apierrors "github.com/krykon00/krk-budget-app/internal/errors"
	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

// Query parameters of the view endpoints
const (
	ParamPeriods    = "periods"
	ParamUnits      = "units"
	ParamCategories = "categories"
	ParamDetails    = "details"
	ParamNames      = "names"
	ParamSort       = "sort"
	ParamTop        = "top"
	ParamFocus      = "focus"
)

// ParseFilterSelection reads a filter selection from query parameters.
// Periods may be comma separated or repeated. Units, categories, details and
// names must be repeated because their values may contain commas.
func ParseFilterSelection(q url.Values) (domain.FilterSelection, error) {
	var f domain.FilterSelection

	var periods []string
	for _, raw := range q[ParamPeriods] {
		periods = append(periods, splitList(raw)...)
	}
	if len(periods) > 0 {
		f = f.WithPeriods(domain.Periods(periods...)...)
	}

	f.Units = nonEmpty(q[ParamUnits])
	f.Categories = nonEmpty(q[ParamCategories])
	f.Details = nonEmpty(q[ParamDetails])
	f.Names = nonEmpty(q[ParamNames])

	if raw := strings.TrimSpace(q.Get(ParamSort)); raw != "" {
		f = f.WithSort(domain.SortDirection(strings.ToLower(raw)))
	}

	if raw := strings.TrimSpace(q.Get(ParamTop)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.FilterSelection{}, apierrors.InvalidParameter(ParamTop, raw, "must be an integer")
		}
		f = f.WithTopN(n)
	}

	f = f.WithFocus(strings.TrimSpace(q.Get(ParamFocus)))
	return f, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
