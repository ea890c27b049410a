package file

import (
	"encoding/csv"
	"io"

	"github.com/badno/shopconv/internal/output"
	"github.com/badno/shopconv/pkg/models"
)

// CSVWriter writes rows as a Shopify product import CSV
type CSVWriter struct {
	*output.BaseWriter
}

// NewCSVWriter creates a new CSV writer
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{
		BaseWriter: output.NewBaseWriter(output.FormatCSV, ".csv"),
	}
}

// Write emits the full Shopify header followed by every row in the
// order given. Rows are never sorted or deduplicated: importers rely on
// the rows of one handle being contiguous.
func (w *CSVWriter) Write(dst io.Writer, rows []*models.Row) error {
	writer := csv.NewWriter(dst)

	if err := writer.Write(models.ShopifyColumns); err != nil {
		return err
	}

	for _, row := range rows {
		if err := writer.Write(row.Values()); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
