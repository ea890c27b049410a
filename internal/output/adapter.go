package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/badno/shopconv/pkg/models"
)

// Format specifies the output format
type Format string

const (
	FormatCSV   Format = "csv"   // Shopify product import CSV
	FormatJSON  Format = "json"  // JSON document, for inspection
	FormatJSONL Format = "jsonl" // JSON Lines, one row per line
)

// FormatForPath picks a format from a file extension, CSV by default
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".jsonl", ".ndjson":
		return FormatJSONL
	}
	return FormatCSV
}

// Writer serialises destination rows in one format
type Writer interface {
	// Format returns the format this writer produces
	Format() Format

	// Extension returns the file extension including the dot
	Extension() string

	// Write emits rows in order, header first where the format has one
	Write(w io.Writer, rows []*models.Row) error
}

// BaseWriter provides the common Format/Extension methods
type BaseWriter struct {
	format    Format
	extension string
}

// NewBaseWriter creates a new base writer
func NewBaseWriter(format Format, extension string) *BaseWriter {
	return &BaseWriter{
		format:    format,
		extension: extension,
	}
}

func (b *BaseWriter) Format() Format {
	return b.format
}

func (b *BaseWriter) Extension() string {
	return b.extension
}

// WriteFile serialises rows into path. The data goes to a temporary file
// in the same directory that is renamed over path only once complete, so
// a failed write never leaves a partial file behind.
func WriteFile(path string, w Writer, rows []*models.Row) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()

	if err := w.Write(tmp, rows); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s output: %w", w.Format(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
