package file

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/badno/shopconv/internal/output"
	"github.com/badno/shopconv/pkg/models"
)

// JSONWriter writes rows as one JSON document
type JSONWriter struct {
	*output.BaseWriter
	pretty bool
}

// NewJSONWriter creates a new JSON writer
func NewJSONWriter(pretty bool) *JSONWriter {
	return &JSONWriter{
		BaseWriter: output.NewBaseWriter(output.FormatJSON, ".json"),
		pretty:     pretty,
	}
}

// Write encodes the rows inside an envelope carrying the column order
func (w *JSONWriter) Write(dst io.Writer, rows []*models.Row) error {
	encoder := json.NewEncoder(dst)
	if w.pretty {
		encoder.SetIndent("", "  ")
	}

	maps := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		maps = append(maps, r.Map())
	}

	export := struct {
		Columns []string            `json:"columns"`
		Count   int                 `json:"count"`
		Rows    []map[string]string `json:"rows"`
	}{
		Columns: models.ShopifyColumns,
		Count:   len(rows),
		Rows:    maps,
	}

	return encoder.Encode(export)
}

// JSONLWriter writes one JSON object per row
type JSONLWriter struct {
	*output.BaseWriter
}

// NewJSONLWriter creates a new JSON Lines writer
func NewJSONLWriter() *JSONLWriter {
	return &JSONLWriter{
		BaseWriter: output.NewBaseWriter(output.FormatJSONL, ".jsonl"),
	}
}

// Write emits one line per row
func (w *JSONLWriter) Write(dst io.Writer, rows []*models.Row) error {
	writer := bufio.NewWriter(dst)

	for _, r := range rows {
		data, err := json.Marshal(r.Map())
		if err != nil {
			return err
		}
		if _, err := writer.Write(data); err != nil {
			return err
		}
		if _, err := writer.WriteString("\n"); err != nil {
			return err
		}
	}

	return writer.Flush()
}

// NewRegistry returns a registry holding every file writer
func NewRegistry(pretty bool) *output.Registry {
	r := output.NewRegistry()
	for _, w := range []output.Writer{NewCSVWriter(), NewJSONWriter(pretty), NewJSONLWriter()} {
		if err := r.Register(w); err != nil {
			panic(err)
		}
	}
	return r
}
