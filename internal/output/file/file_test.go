package file

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/badno/shopconv/internal/output"
	"github.com/badno/shopconv/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []*models.Row {
	a := models.NewRow()
	a.Set(models.ColHandle, "mug")
	a.Set(models.ColTitle, "Mug, large")
	b := models.NewRow()
	b.Set(models.ColHandle, "mug")
	b.Set(models.ColSKU, "MUG-2")
	return []*models.Row{a, b}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter().Write(&buf, sampleRows()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, models.ShopifyColumns, records[0])
	for _, r := range records {
		assert.Len(t, r, len(models.ShopifyColumns))
	}
	assert.Equal(t, "Mug, large", records[1][0])
	assert.Equal(t, "mug", records[2][1])
	assert.Equal(t, "", records[2][0])
}

func TestCSVWriterHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter().Write(&buf, nil))

	assert.Equal(t, strings.Join(models.ShopifyColumns, ",")+"\n", buf.String())
}

func TestJSONWriters(t *testing.T) {
	t.Run("JSON envelope", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewJSONWriter(true).Write(&buf, sampleRows()))

		var doc struct {
			Columns []string            `json:"columns"`
			Count   int                 `json:"count"`
			Rows    []map[string]string `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
		assert.Equal(t, 2, doc.Count)
		assert.Equal(t, models.ShopifyColumns, doc.Columns)
		assert.Equal(t, "MUG-2", doc.Rows[1][models.ColSKU])
		assert.Len(t, doc.Rows[0], len(models.ShopifyColumns))
	})

	t.Run("JSON lines", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewJSONLWriter().Write(&buf, sampleRows()))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Len(t, lines, 2)
	})
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(false)

	assert.Equal(t, []output.Format{output.FormatCSV, output.FormatJSON, output.FormatJSONL}, r.Formats())

	w, err := r.ForPath("/tmp/out.JSONL")
	require.NoError(t, err)
	assert.Equal(t, output.FormatJSONL, w.Format())

	w, err = r.ForPath("/tmp/out")
	require.NoError(t, err)
	assert.Equal(t, ".csv", w.Extension())

	assert.Error(t, r.Register(NewCSVWriter()))
	_, err = r.Get("xml")
	assert.Error(t, err)
}

type failingWriter struct {
	*output.BaseWriter
}

func (failingWriter) Write(w io.Writer, rows []*models.Row) error {
	_, _ = w.Write([]byte("partial"))
	return errors.New("disk full")
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("Writes and replaces", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "out.csv")
		require.NoError(t, output.WriteFile(path, NewCSVWriter(), sampleRows()))
		require.NoError(t, output.WriteFile(path, NewCSVWriter(), sampleRows()[:1]))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(string(data), "\n"))
	})

	t.Run("Failed write leaves nothing behind", func(t *testing.T) {
		path := filepath.Join(dir, "broken.csv")
		err := output.WriteFile(path, failingWriter{output.NewBaseWriter(output.FormatCSV, ".csv")}, nil)
		require.Error(t, err)

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), e.Name())
		}
	})

	t.Run("Unwritable destination", func(t *testing.T) {
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		err := output.WriteFile(filepath.Join(blocker, "out.csv"), NewCSVWriter(), nil)
		assert.Error(t, err)
	})
}
