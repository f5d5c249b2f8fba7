// Package dataprocessing turns the city's budget exports into chart-ready data.
// It covers the loader, the aggregator and the series builder.
//
// # Loading
//
// Workbook sheets are read with excelize, CSV files with encoding/csv. Both end up
// as a domain.Table with cleaned text cells:
//
//	t, err := dataprocessing.LoadCSV("wydatki_biezace/2024.csv", dataprocessing.LoadOptions{
//	    RequiredColumn: "Nazwa zadania",
//	})
//
// Rows missing the required cell are dropped, quote and newline characters are
// stripped, and numeric cells are parsed leniently (malformed values become 0).
// A missing file or sheet returns a *LoadError wrapping ErrFileNotFound or ErrSheetNotFound.
//
// # Aggregation
//
// Per-period tables are grouped with GroupSum, relabelled so each carries its
// period as the column name, and outer-joined with MergePeriods:
//
//	units, _ := dataprocessing.GroupSum(t, []string{"Jednostka"}, []string{"Wydatki na zadania ogółem"})
//	units = dataprocessing.RelabelColumns(units, func(string) string { return "2024" })
//	wide, err := dataprocessing.MergePeriods(perPeriod, []string{"Jednostka"})
//
// Entities missing from a period are zero in the merged table. Value columns keep the
// order of the inputs, which is the caller's period order.
//
// # Series
//
// ToSeries maps each wide row to a domain.Series named after its first key.
package dataprocessing
