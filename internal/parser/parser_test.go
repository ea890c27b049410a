package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	t.Run("Empty cells are preserved as empty strings", func(t *testing.T) {
		table, err := ReadCSV(strings.NewReader("ID,Name,Price\n1,Mug,\n2,,5\n"))

		require.NoError(t, err)
		assert.Equal(t, []string{"ID", "Name", "Price"}, table.Headers)
		require.Len(t, table.Rows, 2)
		v, ok := table.Rows[0].Lookup("Price")
		assert.True(t, ok)
		assert.Equal(t, "", v)
		assert.Equal(t, "", table.Rows[1].Get("Name"))
	})

	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		table, err := ReadCSV(strings.NewReader("\xEF\xBB\xBFID,Name\n1,Mug"))

		require.NoError(t, err)
		assert.Equal(t, "ID", table.Headers[0])
	})

	t.Run("Windows-1252 fallback", func(t *testing.T) {
		table, err := ReadCSV(strings.NewReader("Name\nCaff\xe8\n"))

		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "Caffè", table.Rows[0].Get("Name"))
	})

	t.Run("Binary input fails both decodings", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("Name\nab\x00\x81cd\n"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("Semicolon export", func(t *testing.T) {
		table, err := ReadCSV(strings.NewReader("Nome;Prezzo\nTazza;4,50\n"))

		require.NoError(t, err)
		assert.Equal(t, []string{"Nome", "Prezzo"}, table.Headers)
		assert.Equal(t, "4,50", table.Rows[0].Get("Prezzo"))
	})

	t.Run("Short rows padded and blank rows skipped", func(t *testing.T) {
		table, err := ReadCSV(strings.NewReader("A,B,C\n1\n,,\n2,3,4\n"))

		require.NoError(t, err)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "", table.Rows[0].Get("C"))
		assert.Equal(t, "4", table.Rows[1].Get("C"))
	})

	t.Run("Duplicate headers renamed", func(t *testing.T) {
		table, err := ReadCSV(strings.NewReader("Tag,Tag,Tag\na,b,c\n"))

		require.NoError(t, err)
		assert.Equal(t, []string{"Tag", "Tag.1", "Tag.2"}, table.Headers)
	})

	t.Run("Empty input", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("  \n"))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("Blank header row", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(",,\n1,2,3\n"))
		assert.ErrorIs(t, err, ErrMissingHeader)
	})
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("CSV by extension", func(t *testing.T) {
		path := filepath.Join(dir, "export.csv")
		require.NoError(t, os.WriteFile(path, []byte("ID,Name\n1,Mug\n"), 0644))

		table, err := ReadFile(path)
		require.NoError(t, err)
		assert.Len(t, table.Rows, 1)
	})

	t.Run("XLSX first sheet", func(t *testing.T) {
		f := excelize.NewFile()
		require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"ID", "Name", "Price"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"7", "Lamp", "19.99"}))
		path := filepath.Join(dir, "export.xlsx")
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())

		table, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"ID", "Name", "Price"}, table.Headers)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "Lamp", table.Rows[0].Get("Name"))
	})

	t.Run("Unsupported extension", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "export.pdf"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "missing.csv"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestSplitImages(t *testing.T) {
	assert.Equal(t,
		[]string{"https://a/1.jpg", "https://a/2.jpg", "https://a/3.jpg"},
		SplitImages("https://a/1.jpg, https://a/2.jpg | https://a/3.jpg"))
	assert.Equal(t, []string{"x.jpg", "y.jpg"}, SplitImages("x.jpg;y.jpg;"))
	assert.Nil(t, SplitImages("   "))
}

func TestParseAttributeValues(t *testing.T) {
	assert.Equal(t, []string{"M", "L", "XL"}, ParseAttributeValues("M | L | XL"))
	assert.Equal(t, []string{"Red", "Blue"}, ParseAttributeValues("Red, Blue, Red"))
	assert.Equal(t, []string{"S"}, ParseAttributeValues("S"))
	assert.Empty(t, ParseAttributeValues(" | "))
}

func TestJoinTags(t *testing.T) {
	assert.Equal(t, "summer, cotton", JoinTags("summer|cotton"))
	assert.Equal(t, "", JoinTags(""))
}

func TestPrimaryCategory(t *testing.T) {
	assert.Equal(t, "Shirts", PrimaryCategory("Clothing > Shirts, Sale"))
	assert.Equal(t, "Mugs", PrimaryCategory("Mugs"))
	assert.Equal(t, "", PrimaryCategory(""))
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("catalog.CSV"))
	assert.True(t, IsSupported("catalog.xlsx"))
	assert.False(t, IsSupported("catalog"))
	assert.False(t, IsSupported("catalog.json"))
}
