package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/badno/shopconv/pkg/models"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrEmptyFile is returned when the input has no bytes at all
	ErrEmptyFile = errors.New("input file is empty")

	// ErrMissingHeader is returned when the first row has no column names
	ErrMissingHeader = errors.New("input file missing header row")

	// ErrInvalidEncoding is returned when neither UTF-8 nor the fallback
	// encoding can decode the input
	ErrInvalidEncoding = errors.New("input file encoding could not be decoded")

	// ErrUnsupportedFormat is returned for extensions other than csv/xlsx
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SupportedExtensions lists the input file types ReadFile understands
var SupportedExtensions = []string{".csv", ".txt", ".xlsx"}

// IsSupported reports whether a file name has a readable extension
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadFile loads a whole export into memory, choosing the reader by
// extension
func ReadFile(path string) (*models.Table, error) {
	if !IsSupported(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(file)
	}
	return ReadCSV(file)
}

// ReadCSV parses a comma separated export. Input that is not valid UTF-8
// is decoded as Windows-1252. Empty cells stay empty strings.
func ReadCSV(r io.Reader) (*models.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	if !utf8.Valid(data) {
		decoded, err := decodeWindows1252(data)
		if err != nil {
			return nil, err
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	return buildTable(records)
}

// decodeWindows1252 decodes data and rejects text only binary input
// produces: control characters other than tab and line breaks, and the
// bytes Windows-1252 leaves undefined
func decodeWindows1252(data []byte) ([]byte, error) {
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	for i, r := range string(decoded) {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case unicode.IsControl(r):
			return nil, fmt.Errorf("%w: control character %U at offset %d", ErrInvalidEncoding, r, i)
		}
	}
	return decoded, nil
}

// ReadXLSX reads the first sheet of a workbook, header on row 1
func ReadXLSX(r io.Reader) (*models.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	return buildTable(records)
}

func buildTable(records [][]string) (*models.Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	headers := uniqueHeaders(records[0])
	if len(headers) == 0 {
		return nil, ErrMissingHeader
	}

	table := &models.Table{
		Headers: headers,
		Rows:    make([]models.Record, 0, len(records)-1),
	}

	for _, record := range records[1:] {
		row := make(models.Record, len(headers))
		empty := true
		for i, h := range headers {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			if strings.TrimSpace(value) != "" {
				empty = false
			}
			row[h] = value
		}
		// Skip completely empty rows
		if empty {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// uniqueHeaders trims header names and renames repeats to "Name.1",
// "Name.2" so every column stays addressable. A header row made only of
// blanks yields nil.
func uniqueHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	blank := true

	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h != "" {
			blank = false
		} else {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n+1)
		} else {
			seen[h] = 0
		}
		headers[i] = h
	}

	if blank {
		return nil
	}
	return headers
}

// sniffDelimiter picks ';' for spreadsheet exports whose header line has
// semicolons but no commas
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.IndexByte(line, ',') < 0 && bytes.IndexByte(line, ';') >= 0 {
		return ';'
	}
	return ','
}
