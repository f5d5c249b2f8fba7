package charts

import (
	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

// TrendSeries pairs a series with the palette of its line and markers
type TrendSeries struct {
	domain.Series
	Palette Palette
}

// BarOptions tunes the bar builders
type BarOptions struct {
	ShowXLabels bool
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func frame(kind Kind, x []string, title, yLabel string) Option {
	return Option{
		Kind:            kind,
		BackgroundColor: backgroundColor,
		Title: Title{
			Text:      title,
			Left:      "center",
			Top:       "top",
			TextStyle: TextStyle{Color: textColor},
		},
		Tooltip: Tooltip{Trigger: "axis"},
		XAxis: Axis{
			Type:      "category",
			Data:      append([]string{}, x...),
			AxisLabel: &AxisLabel{TextStyle: &TextStyle{Color: textColor}},
		},
		YAxis: Axis{
			Type:      "value",
			Name:      yLabel,
			SplitLine: &SplitLine{Show: false},
		},
		Series: []Series{},
	}
}

// TrendLine builds the delta-annotated line chart: one smooth line per series
// with a mark point on every step showing the change from the previous period.
// A nil legend hides the legend.
func TrendLine(x []string, series []TrendSeries, title, yLabel string, legend []string) Option {
	opt := frame(KindTrendLine, x, title, yLabel)
	opt.YAxis.AxisLabel = &AxisLabel{TextStyle: &TextStyle{Color: trendAxisColor}}

	for _, s := range series {
		opt.Series = append(opt.Series, Series{
			Name:      s.Name,
			Data:      cloneData(s.Data),
			Type:      "line",
			Smooth:    true,
			LineStyle: &Style{Color: s.Palette.Line},
			ItemStyle: &Style{Color: s.Palette.Line},
			Label:     &Label{Show: true, Position: "top"},
			MarkPoint: &MarkPoint{Data: MarkPoints(s.Data, s.Palette)},
		})
	}

	if legend != nil {
		opt.Legend = &Legend{
			Data:      append([]string{}, legend...),
			Bottom:    intPtr(0),
			TextStyle: &TextStyle{Color: textColor},
		}
	}
	return opt
}

// UnitsLine plots many units at once: labels hidden, legend below the plot
func UnitsLine(x []string, series []domain.Series, title, yLabel string, legend []string) Option {
	opt := frame(KindLine, x, title, yLabel)
	opt.Grid = &Grid{Bottom: "25%", Left: "2%", Right: "2%", ContainLabel: true}
	opt.Series = plainLines(series, false)
	opt.Legend = &Legend{
		Data:      legendData(legend, series),
		Bottom:    intPtr(2),
		TextStyle: &TextStyle{Color: textColor},
	}
	return opt
}

// SubunitsLine plots the parts of one unit with value labels and a vertical legend on the right
func SubunitsLine(x []string, series []domain.Series, title, yLabel string, legend []string) Option {
	opt := frame(KindLine, x, title, yLabel)
	opt.Grid = &Grid{Left: "2%", Right: "20%", ContainLabel: true}
	opt.Series = plainLines(series, true)
	opt.Legend = &Legend{
		Data:      legendData(legend, series),
		Right:     intPtr(10),
		Top:       "center",
		Orient:    "vertical",
		TextStyle: &TextStyle{Color: textColor},
	}
	return opt
}

// BarByUnits builds a plain bar chart; x labels are hidden unless requested
func BarByUnits(x []string, series []domain.Series, title, yLabel string, opts BarOptions) Option {
	opt := frame(KindBar, x, title, yLabel)
	opt.XAxis.AxisLabel.Show = boolPtr(opts.ShowXLabels)
	opt.YAxis.AxisLabel = &AxisLabel{TextStyle: &TextStyle{Color: barColor}}
	opt.Series = bars(series, nil)
	return opt
}

// BarByTypes builds a bar chart with value labels and small rotated x labels
func BarByTypes(x []string, series []domain.Series, title, yLabel string, opts BarOptions) Option {
	opt := frame(KindLabeledBar, x, title, yLabel)
	opt.XAxis.AxisLabel.Show = boolPtr(opts.ShowXLabels)
	opt.XAxis.AxisLabel.Rotate = 30
	opt.XAxis.AxisLabel.FontSize = 10
	opt.YAxis.AxisLabel = &AxisLabel{TextStyle: &TextStyle{Color: barColor}}
	opt.Series = bars(series, &Label{Show: true, Position: "top"})
	return opt
}

func plainLines(series []domain.Series, labels bool) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		label := &Label{Show: false}
		if labels {
			label = &Label{Show: true, Position: "top"}
		}
		out = append(out, Series{
			Name:   s.Name,
			Data:   cloneData(s.Data),
			Type:   "line",
			Smooth: true,
			Label:  label,
		})
	}
	return out
}

func bars(series []domain.Series, label *Label) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		out = append(out, Series{
			Name:      s.Name,
			Data:      cloneData(s.Data),
			Type:      "bar",
			ItemStyle: &Style{Color: barColor},
			Label:     label,
		})
	}
	return out
}

// legendData defaults to the series names when no legend is given
func legendData(legend []string, series []domain.Series) []string {
	if legend != nil {
		return append([]string{}, legend...)
	}
	out := make([]string, 0, len(series))
	for _, s := range series {
		out = append(out, s.Name)
	}
	return out
}

func cloneData(data []float64) []float64 {
	return append([]float64{}, data...)
}
