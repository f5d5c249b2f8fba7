package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

var (
	ErrFileNotFound   = errors.New("data file not found")
	ErrSheetNotFound  = errors.New("sheet not found")
	ErrColumnNotFound = errors.New("column not found")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadError describes a data file that could not be loaded
type LoadError struct {
	Path  string
	Sheet string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("load %s [%s]: %v", e.Path, e.Sheet, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadOptions controls row cleaning
type LoadOptions struct {
	// RequiredColumn drops rows whose cell in this column is empty.
	// Empty means only fully blank rows are dropped.
	RequiredColumn string
	// StripChars are removed from every cell; DefaultStripChars when empty.
	StripChars string
}

func (o LoadOptions) stripChars() string {
	if o.StripChars == "" {
		return DefaultStripChars
	}
	return o.StripChars
}

// LoadSheet reads one named sheet of an xlsx workbook. The first row is the header.
func LoadSheet(path, sheet string, opts LoadOptions) (*domain.Table, error) {
	if err := checkFile(path); err != nil {
		return nil, &LoadError{Path: path, Sheet: sheet, Err: err}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Sheet: sheet, Err: err}
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, &LoadError{Path: path, Sheet: sheet, Err: ErrSheetNotFound}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &LoadError{Path: path, Sheet: sheet, Err: err}
	}

	t, err := buildTable(rows, opts)
	if err != nil {
		return nil, &LoadError{Path: path, Sheet: sheet, Err: err}
	}
	return t, nil
}

// LoadWideSheet reads a sheet whose first column names the row and whose
// remaining columns are periods, keeping the sheet's row order.
func LoadWideSheet(path, sheet string) (*domain.WideTable, error) {
	t, err := LoadSheet(path, sheet, LoadOptions{})
	if err != nil {
		return nil, err
	}
	if len(t.Columns) == 0 {
		return &domain.WideTable{}, nil
	}

	return ToWide(t, t.Columns[:1], t.Columns[1:])
}

// LoadCSV reads a comma separated file. The first record is the header.
func LoadCSV(path string, opts LoadOptions) (*domain.Table, error) {
	if err := checkFile(path); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	t, err := ReadCSV(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)), opts)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return t, nil
}

// ReadCSV parses CSV content into a cleaned table
func ReadCSV(r io.Reader, opts LoadOptions) (*domain.Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return buildTable(records, opts)
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrFileNotFound
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func buildTable(records [][]string, opts LoadOptions) (*domain.Table, error) {
	t := &domain.Table{}
	if len(records) == 0 {
		return t, nil
	}

	strip := opts.stripChars()
	t.Columns = make([]string, len(records[0]))
	for i, h := range records[0] {
		t.Columns[i] = CleanCell(h, strip)
	}

	required := -1
	if opts.RequiredColumn != "" {
		required = t.ColumnIndex(opts.RequiredColumn)
		if required < 0 {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, opts.RequiredColumn)
		}
	}

	width := len(t.Columns)
	for _, rec := range records[1:] {
		row := make([]string, width)
		blank := true
		for i := 0; i < width && i < len(rec); i++ {
			row[i] = CleanCell(rec[i], strip)
			if row[i] != "" {
				blank = false
			}
		}
		if blank || (required >= 0 && row[required] == "") {
			continue
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// ToWide converts a table into a wide table without aggregating, keeping row order.
// Value cells are parsed leniently.
func ToWide(t *domain.Table, keyColumns, valueColumns []string) (*domain.WideTable, error) {
	keyIdx, err := columnIndexes(t, keyColumns)
	if err != nil {
		return nil, err
	}
	valIdx, err := columnIndexes(t, valueColumns)
	if err != nil {
		return nil, err
	}

	w := &domain.WideTable{
		KeyColumns: append([]string(nil), keyColumns...),
		Columns:    append([]string(nil), valueColumns...),
		Rows:       make([]domain.WideRow, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		wr := domain.WideRow{
			Keys:   make([]string, len(keyIdx)),
			Values: make([]float64, len(valIdx)),
		}
		for i, idx := range keyIdx {
			wr.Keys[i] = row[idx]
		}
		for i, idx := range valIdx {
			wr.Values[i] = ParseNumber(row[idx])
		}
		w.Rows = append(w.Rows, wr)
	}
	return w, nil
}

func columnIndexes(t *domain.Table, columns []string) ([]int, error) {
	out := make([]int, len(columns))
	for i, c := range columns {
		idx := t.ColumnIndex(c)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, c)
		}
		out[i] = idx
	}
	return out, nil
}
