package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

// DefaultSheet names the exported sheet when the caller gives none
const DefaultSheet = "Dane"

// WriteWideXLSX writes a wide table as a single-sheet workbook.
// Numeric cells stay numeric with a two-decimal display format.
func WriteWideXLSX(out io.Writer, t *domain.WideTable, sheet string) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}

	headers := make([]interface{}, 0, len(t.KeyColumns)+len(t.Columns))
	for _, c := range t.KeyColumns {
		headers = append(headers, c)
	}
	for _, c := range t.Columns {
		headers = append(headers, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	if len(headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style headers: %w", err)
		}
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, 0, len(headers))
		for _, k := range row.Keys {
			cells = append(cells, k)
		}
		for _, v := range row.Values {
			cells = append(cells, v)
		}
		start, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if len(t.Columns) > 0 && len(t.Rows) > 0 {
		first, _ := excelize.CoordinatesToCellName(len(t.KeyColumns)+1, 2)
		last, _ := excelize.CoordinatesToCellName(len(headers), len(t.Rows)+1)
		if err := f.SetCellStyle(sheet, first, last, numberStyle); err != nil {
			return fmt.Errorf("failed to style values: %w", err)
		}
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
