package charts

// Kind tags which builder produced an option
type Kind string

const (
	KindTrendLine  Kind = "trend_line"
	KindLine       Kind = "line"
	KindBar        Kind = "bar"
	KindLabeledBar Kind = "labeled_bar"
)

// Option is an ECharts option object. Its JSON encoding is passed to
// echarts.setOption unchanged.
type Option struct {
	Kind            Kind     `json:"-"`
	Grid            *Grid    `json:"grid,omitempty"`
	BackgroundColor string   `json:"backgroundColor"`
	Title           Title    `json:"title"`
	Tooltip         Tooltip  `json:"tooltip"`
	XAxis           Axis     `json:"xAxis"`
	YAxis           Axis     `json:"yAxis"`
	Series          []Series `json:"series"`
	Legend          *Legend  `json:"legend,omitempty"`
}

// Title is the chart heading
type Title struct {
	Text      string    `json:"text"`
	Left      string    `json:"left"`
	Top       string    `json:"top"`
	TextStyle TextStyle `json:"textStyle"`
}

// TextStyle sets the font color of a text element
type TextStyle struct {
	Color string `json:"color,omitempty"`
}

// Tooltip selects what hovering shows
type Tooltip struct {
	Trigger string `json:"trigger"`
}

// Grid positions the plot area inside the chart container
type Grid struct {
	Left         string `json:"left,omitempty"`
	Right        string `json:"right,omitempty"`
	Bottom       string `json:"bottom,omitempty"`
	ContainLabel bool   `json:"containLabel"`
}

// Axis is a category or value axis
type Axis struct {
	Type      string     `json:"type"`
	Name      string     `json:"name,omitempty"`
	Data      []string   `json:"data,omitempty"`
	AxisLabel *AxisLabel `json:"axisLabel,omitempty"`
	SplitLine *SplitLine `json:"splitLine,omitempty"`
}

// AxisLabel controls the tick labels of an axis
type AxisLabel struct {
	Show      *bool      `json:"show,omitempty"`
	TextStyle *TextStyle `json:"textStyle,omitempty"`
	Rotate    int        `json:"rotate,omitempty"`
	FontSize  int        `json:"fontSize,omitempty"`
}

// SplitLine toggles the grid lines drawn across an axis
type SplitLine struct {
	Show bool `json:"show"`
}

// Series is one line or bar series
type Series struct {
	Name      string     `json:"name"`
	Data      []float64  `json:"data"`
	Type      string     `json:"type"`
	Smooth    bool       `json:"smooth,omitempty"`
	LineStyle *Style     `json:"lineStyle,omitempty"`
	ItemStyle *Style     `json:"itemStyle,omitempty"`
	Label     *Label     `json:"label,omitempty"`
	MarkPoint *MarkPoint `json:"markPoint,omitempty"`
}

// Style is a line or item color
type Style struct {
	Color string `json:"color"`
}

// Label shows values next to bars
type Label struct {
	Show     bool   `json:"show"`
	Position string `json:"position,omitempty"`
}

// MarkPoint holds the annotations of a series
type MarkPoint struct {
	Data []MarkPointData `json:"data"`
}

// MarkPointData annotates one data point with the change from its predecessor
type MarkPointData struct {
	Name         string  `json:"name"`
	Value        string  `json:"value"`
	XAxis        int     `json:"xAxis"`
	YAxis        float64 `json:"yAxis"`
	Symbol       string  `json:"symbol"`
	ItemStyle    Style   `json:"itemStyle"`
	SymbolRotate int     `json:"symbolRotate"`
	SymbolSize   int     `json:"symbolSize"`
	SymbolOffset []any   `json:"symbolOffset"`
}

// Legend lists series names and where to draw them
type Legend struct {
	Data      []string   `json:"data"`
	Bottom    *int       `json:"bottom,omitempty"`
	Right     *int       `json:"right,omitempty"`
	Top       string     `json:"top,omitempty"`
	Orient    string     `json:"orient,omitempty"`
	TextStyle *TextStyle `json:"textStyle,omitempty"`
}
