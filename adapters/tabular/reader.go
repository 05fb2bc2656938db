// Package tabular reads CSV and XLSX files into raw dataset.Table values.
package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cdicorr/domain/core"
	"cdicorr/domain/dataset"
	"cdicorr/internal"

	"github.com/dustin/go-humanize"
	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// DataReader handles reading Excel and CSV files
type DataReader struct {
	config   ReaderConfig
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a reader that picks CSV or XLSX parsing from the file extension
func NewDataReader(config ReaderConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.Discard
	}
	fileType := "csv"
	switch strings.ToLower(filepath.Ext(config.FilePath)) {
	case ".xlsx", ".xlsm":
		fileType = "xlsx"
	}
	return &DataReader{config: config, fileType: fileType, logger: logger.With("DataReader")}
}

// ReadTable reads the configured file into a table
func (r *DataReader) ReadTable() (*dataset.Table, error) {
	r.logger.Debug("Starting to read %s file: %s", r.fileType, r.config.FilePath)

	if _, err := os.Stat(r.config.FilePath); err != nil {
		return nil, fmt.Errorf("%s file not found: %s: %w", strings.ToUpper(r.fileType), r.config.FilePath, err)
	}

	var (
		rows [][]string
		err  error
	)
	readStart := time.Now()
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, core.NewUnsupportedFormatError(r.config.FilePath)
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("%s read in %.2fms (%s rows)", r.config.FilePath,
		float64(time.Since(readStart).Nanoseconds())/1e6, humanize.Comma(int64(len(rows))))

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s must have a header row and at least one data row",
			core.ErrEmptyDataset, r.config.FilePath)
	}

	return r.processRows(rows), nil
}

// readCSVRows decodes the declared encoding before CSV parsing
func (r *DataReader) readCSVRows() ([][]string, error) {
	enc, err := lookupEncoding(r.config.Encoding)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return ParseCSV(enc.NewDecoder().Reader(file))
}

// ParseCSV reads every record from an already-decoded stream
func ParseCSV(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// readExcelRows reads the configured sheet, or the first one
func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: %s has no sheets", core.ErrEmptyDataset, r.config.FilePath)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// processRows converts raw string rows into a table. Blank headers become
// "Unnamed: <i>" and repeated headers get a ".<n>" suffix. Cells are kept
// verbatim; records of empty cells stay as rows, only empty lines are skipped.
func (r *DataReader) processRows(rows [][]string) *dataset.Table {
	headers := normalizeHeaders(rows[0])

	dataRows := make([]dataset.Row, 0, len(rows)-1)
	for _, record := range rows[1:] {
		if len(record) == 0 {
			continue
		}
		row := make(dataset.Row, len(headers))
		for j, header := range headers {
			if j < len(record) {
				row[header] = record[j]
			} else {
				row[header] = ""
			}
		}
		dataRows = append(dataRows, row)
	}

	r.logger.Info("%s processed (%d columns, %s rows)",
		filepath.Base(r.config.FilePath), len(headers), humanize.Comma(int64(len(dataRows))))

	return &dataset.Table{Headers: headers, Rows: dataRows}
}

func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n+1)
		} else {
			seen[h] = 0
		}
		headers[i] = h
	}
	return headers
}

// FileSource adapts a DataReader to the pipeline's table source port
type FileSource struct {
	reader *DataReader
}

// NewFileSource creates a table source for the configured file
func NewFileSource(config ReaderConfig, logger *internal.Logger) *FileSource {
	return &FileSource{reader: NewDataReader(config, logger)}
}

// LoadTable reads the file; ctx is checked before the read starts
func (s *FileSource) LoadTable(ctx context.Context) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.reader.ReadTable()
}

// Describe returns the source path
func (s *FileSource) Describe() string {
	return s.reader.config.FilePath
}
