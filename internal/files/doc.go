// Package files locates budget data files and the periods they describe.
//
// Discovery lists workbooks and CSV files in name order. PeriodFiles resolves
// a dataset directory into period-tagged files, either from an explicit
// period-to-file mapping or, when none is configured, by cutting the period
// out of each file name with a PeriodRule.
//
// A file name shorter than the rule's end offset is an ErrPeriodNotInName
// error, and that error fails the whole dataset rather than skipping the file.
//
// Example usage:
//
//	discovery := files.NewDiscovery("data/budget")
//
//	// "Dochody_2024_Krakow.csv" -> "01.01.2024"
//	rule := files.PeriodRule{Start: 8, End: 12, Prefix: "01.01."}
//	periodFiles, err := discovery.PeriodFiles("income", nil, rule)
package files
