package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes exports below a base directory
type CSVWriter struct {
	baseDir string
	logger  *slog.Logger
}

// NewCSVWriter creates a writer resolving relative paths against baseDir
func NewCSVWriter(baseDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{baseDir: baseDir, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // UTF-8 BOM so Excel detects the encoding
}

// WriteCSV writes headers and records to a file, replacing it
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if err := writeRecords(file, options); err != nil {
		return err
	}
	return file.Close()
}

// WriteWide writes a wide table to a file
func (w *CSVWriter) WriteWide(filePath string, t *domain.WideTable) error {
	headers, records := WideRecords(t)
	return w.WriteCSV(filePath, WriteOptions{Headers: headers, Records: records, BOMPrefix: true})
}

// WriteWideCSV streams a wide table as CSV: key columns, then one column per
// period with two-decimal values. Output starts with a UTF-8 BOM.
func WriteWideCSV(out io.Writer, t *domain.WideTable) error {
	headers, records := WideRecords(t)
	return writeRecords(out, WriteOptions{Headers: headers, Records: records, BOMPrefix: true})
}

// WideRecords flattens a wide table into a header and text records
func WideRecords(t *domain.WideTable) ([]string, [][]string) {
	headers := make([]string, 0, len(t.KeyColumns)+len(t.Columns))
	headers = append(headers, t.KeyColumns...)
	headers = append(headers, t.Columns...)

	records := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := make([]string, 0, len(headers))
		record = append(record, row.Keys...)
		for _, v := range row.Values {
			record = append(record, formatFloat(v))
		}
		records = append(records, record)
	}
	return headers, records
}

func writeRecords(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.baseDir == "" {
		return filePath
	}
	return filepath.Join(w.baseDir, filePath)
}
