package charts

import (
	"fmt"

	"github.com/krykon00/krk-budget-app/internal/exporter"
)

const markPointSize = 20

// MarkPoints annotates every value after the first with its change from the
// previous value. Rises get an upward triangle in the up colour, everything
// else a downward one in the down colour.
func MarkPoints(data []float64, p Palette) []MarkPointData {
	if len(data) < 2 {
		return []MarkPointData{}
	}

	out := make([]MarkPointData, 0, len(data)-1)
	for i := 1; i < len(data); i++ {
		diff := data[i] - data[i-1]
		color, rotate := p.Down, -180
		if diff > 0 {
			color, rotate = p.Up, 0
		}
		out = append(out, MarkPointData{
			Name:         fmt.Sprintf("P%d", i),
			Value:        exporter.HumanFormat(diff),
			XAxis:        i,
			YAxis:        data[i],
			Symbol:       "triangle",
			ItemStyle:    Style{Color: color},
			SymbolRotate: rotate,
			SymbolSize:   markPointSize,
			SymbolOffset: []any{0, "150%"},
		})
	}
	return out
}
