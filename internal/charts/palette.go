package charts

// Palette colours one series of a trend line: the line itself and the
// markers for rising and falling steps
type Palette struct {
	Line string
	Up   string
	Down string
}

var (
	IncomePalette  = Palette{Line: "#0a9396", Up: "#588157", Down: "#d90429"}
	ExpensePalette = Palette{Line: "#d62828", Up: "#d90429", Down: "#588157"}
	TotalsPalette  = Palette{Line: "#f77f00", Up: "#a53860", Down: "#014f86"}
)

const (
	backgroundColor = "#1B2430"
	textColor       = "#f2f4f3"
	trendAxisColor  = "#f77f00"
	barColor        = "#2ec4b6"
)
