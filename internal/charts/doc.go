// Package charts builds ECharts option objects for the budget dashboard.
//
// Every builder returns a typed Option whose JSON encoding is the exact
// object handed to echarts.setOption in the browser. Builders share a dark
// frame (background, centred title, axis tooltip, category x axis) and differ
// in series styling:
//
//   - TrendLine: smooth lines with mark points showing the signed change
//     between consecutive periods, formatted with exporter.HumanFormat
//   - UnitsLine and SubunitsLine: plain smooth lines for many units or the
//     parts of one unit
//   - BarByUnits and BarByTypes: single colour bars, the latter labelled
//
// Builders never sort or truncate their input.
package charts
