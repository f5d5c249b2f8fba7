// Package exporter renders budget tables and numbers for people.
//
// HumanFormat turns raw amounts into short signed labels such as "+2.50 TYS"
// or "-1.20 MIL"; chart mark points use it for year-over-year deltas.
//
// WriteWideCSV and WriteWideXLSX export a wide table (key columns followed by
// one column per period). CSV output carries a UTF-8 BOM so spreadsheet tools
// read Polish characters correctly. CSVWriter wraps the CSV path for callers
// writing into an output directory.
//
// Example usage:
//
//	var buf bytes.Buffer
//	if err := exporter.WriteWideCSV(&buf, table); err != nil {
//		return err
//	}
//
//	label := exporter.HumanFormat(2500) // "+2.50 TYS"
package exporter
