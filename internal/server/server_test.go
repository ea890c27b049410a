package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/badno/shopconv/internal/convert"
	"github.com/badno/shopconv/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wooExport = `ID,Type,SKU,Name,Regular price,Images
1,simple,A,Alpha,10,https://x/a.jpg
2,simple,B,Beta,12,
`

func newTestServer(t *testing.T, maxBytes int64) (*Server, Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := Config{
		UploadDir:      filepath.Join(dir, "uploads"),
		OutputDir:      filepath.Join(dir, "outputs"),
		MaxUploadBytes: maxBytes,
	}
	s, err := New(cfg, convert.DefaultOptions(), nil)
	require.NoError(t, err)
	return s, cfg
}

func uploadRequest(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "-" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/convert", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, 0)
	w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestConvertAndDownload(t *testing.T) {
	s, cfg := newTestServer(t, 0)

	w := serve(s, uploadRequest(t, "My Export.csv", wooExport, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Output, "my-export_"))
	assert.True(t, strings.HasSuffix(resp.Output, "_shopify.csv"))
	assert.Equal(t, "/download/"+resp.Output, resp.DownloadURL)
	assert.Equal(t, string(models.PlatformWooCommerce), resp.Platform)
	assert.Equal(t, 2, resp.Products)
	assert.Equal(t, 2, resp.Rows)
	assert.NotNil(t, resp.Warnings)

	uploads, err := os.ReadDir(cfg.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, uploads, "uploads are removed after conversion")

	w = serve(s, httptest.NewRequest(http.MethodGet, resp.DownloadURL, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), resp.Output)
	assert.True(t, strings.HasPrefix(w.Body.String(), strings.Join(models.ShopifyColumns, ",")))
	assert.Contains(t, w.Body.String(), "alpha")
}

func TestConvertForcedPlatform(t *testing.T) {
	s, _ := newTestServer(t, 0)

	w := serve(s, uploadRequest(t, "export.csv", wooExport, map[string]string{"platform": "prestashop"}))
	require.Equal(t, http.StatusOK, w.Code)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "prestashop", resp.Platform)
	assert.Equal(t, "woocommerce", resp.Detected)
}

func TestConvertRejects(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		fields   map[string]string
		maxBytes int64
		status   int
		message  string
	}{
		{name: "no file", filename: "-", status: http.StatusBadRequest},
		{name: "unsupported extension", filename: "export.pdf", content: "x", status: http.StatusBadRequest},
		{name: "unknown platform", filename: "export.csv", content: wooExport, fields: map[string]string{"platform": "magento"}, status: http.StatusBadRequest},
		{name: "too large", filename: "export.csv", content: wooExport, maxBytes: 10, status: http.StatusRequestEntityTooLarge},
		{name: "empty file", filename: "export.csv", content: "", status: http.StatusUnprocessableEntity, message: "file is empty"},
		{name: "binary file", filename: "export.csv", content: "Name\n\x00\x81\x9d\n", status: http.StatusUnprocessableEntity, message: "file encoding could not be read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, tt.maxBytes)
			w := serve(s, uploadRequest(t, tt.filename, tt.content, tt.fields))
			assert.Equal(t, tt.status, w.Code, w.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			if tt.message != "" {
				assert.Equal(t, tt.message, body["error"])
			}
		})
	}
}

func TestDownload(t *testing.T) {
	s, cfg := newTestServer(t, 0)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(cfg.OutputDir), "secret.txt"), []byte("s"), 0o644))

	t.Run("missing file", func(t *testing.T) {
		w := serve(s, httptest.NewRequest(http.MethodGet, "/download/nope.csv", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("hidden name", func(t *testing.T) {
		w := serve(s, httptest.NewRequest(http.MethodGet, "/download/..", nil))
		assert.NotEqual(t, http.StatusOK, w.Code)
	})

	t.Run("escaped traversal", func(t *testing.T) {
		w := serve(s, httptest.NewRequest(http.MethodGet, "/download/..%2Fsecret.txt", nil))
		assert.NotEqual(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "s\n")
	})
}

func TestOutputNameFor(t *testing.T) {
	id := "0123456789abcdef"
	assert.Equal(t, "products_01234567_shopify.csv", outputNameFor("Products.xlsx", id))
	assert.Equal(t, "export_01234567_shopify.csv", outputNameFor("!!!.csv", id))
	assert.Equal(t, "a_01234567_shopify.csv", outputNameFor("../../a.csv", id))
}
