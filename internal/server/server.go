// Package server exposes the converter over HTTP: upload an export,
// receive a link to the converted Shopify file.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/badno/shopconv/internal/convert"
	"github.com/badno/shopconv/internal/logger"
	"github.com/badno/shopconv/internal/normalize"
	"github.com/badno/shopconv/internal/parser"
	"github.com/badno/shopconv/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds the server settings
type Config struct {
	Addr           string
	UploadDir      string
	OutputDir      string
	MaxUploadBytes int64
}

// Server handles conversion uploads and result downloads
type Server struct {
	cfg    Config
	opts   convert.Options
	log    *zap.Logger
	engine *gin.Engine
}

// ConvertResponse is returned by a successful upload
type ConvertResponse struct {
	Output      string   `json:"output"`
	DownloadURL string   `json:"download_url"`
	Platform    string   `json:"platform"`
	Detected    string   `json:"detected"`
	Products    int      `json:"products"`
	Rows        int      `json:"rows"`
	Warnings    []string `json:"warnings"`
}

// New creates the upload and output directories and wires the routes
func New(cfg Config, opts convert.Options, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	for _, dir := range []string{cfg.UploadDir, cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	opts.Logger = log.Named("convert")

	s := &Server{cfg: cfg, opts: opts, log: log}

	engine := gin.New()
	engine.MaxMultipartMemory = cfg.MaxUploadBytes
	engine.Use(logger.Recovery(log), logger.GinMiddleware(log))
	engine.GET("/health", s.health)
	engine.POST("/convert", s.convert)
	engine.GET("/download/:name", s.download)
	s.engine = engine

	return s, nil
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) convert(c *gin.Context) {
	log := logger.FromGin(c)

	// Leave room for the multipart envelope around the file
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes+(1<<20))

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(c, http.StatusRequestEntityTooLarge, "file exceeds maximum upload size")
			return
		}
		s.fail(c, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if strings.TrimSpace(header.Filename) == "" {
		s.fail(c, http.StatusBadRequest, "file name is required")
		return
	}
	if !parser.IsSupported(header.Filename) {
		s.fail(c, http.StatusBadRequest, "unsupported file type, expected one of: "+strings.Join(parser.SupportedExtensions, ", "))
		return
	}
	if header.Size > s.cfg.MaxUploadBytes {
		s.fail(c, http.StatusRequestEntityTooLarge, "file exceeds maximum upload size")
		return
	}

	opts := s.opts
	if name := c.PostForm("platform"); name != "" {
		p, ok := models.ParsePlatform(name)
		if !ok {
			s.fail(c, http.StatusBadRequest, "unknown platform: "+name)
			return
		}
		opts.Platform = p
	}

	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	uploadPath := filepath.Join(s.cfg.UploadDir, id+ext)
	if err := saveUpload(file, uploadPath); err != nil {
		log.Error("failed to store upload", zap.Error(err))
		s.fail(c, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer os.Remove(uploadPath)

	outputName := outputNameFor(header.Filename, id)
	result, err := convert.New(opts).ConvertFile(c.Request.Context(), uploadPath, filepath.Join(s.cfg.OutputDir, outputName))
	if err != nil {
		kind, _ := convert.KindOf(err)
		log.Warn("conversion failed", zap.String("file", header.Filename), zap.String("kind", string(kind)), zap.Error(err))
		if kind == convert.KindInputAccess {
			s.fail(c, http.StatusUnprocessableEntity, inputMessage(err))
			return
		}
		s.fail(c, http.StatusInternalServerError, "conversion failed")
		return
	}

	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	c.JSON(http.StatusOK, ConvertResponse{
		Output:      outputName,
		DownloadURL: "/download/" + outputName,
		Platform:    string(result.Platform),
		Detected:    string(result.Detected),
		Products:    result.Products,
		Rows:        len(result.Rows),
		Warnings:    warnings,
	})
}

func (s *Server) download(c *gin.Context) {
	name := c.Param("name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		s.fail(c, http.StatusBadRequest, "invalid file name")
		return
	}

	path := filepath.Join(s.cfg.OutputDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		s.fail(c, http.StatusNotFound, "file not found")
		return
	}

	c.FileAttachment(path, name)
}

func (s *Server) fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func saveUpload(src multipart.File, path string) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return err
	}
	return dst.Close()
}

// outputNameFor builds "<slug>_<id8>_shopify.csv" from the upload name
func outputNameFor(filename, id string) string {
	base := normalize.Slugify(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "export"
	}
	return fmt.Sprintf("%s_%s_shopify.csv", base, id[:8])
}

func inputMessage(err error) string {
	switch {
	case errors.Is(err, parser.ErrEmptyFile):
		return "file is empty"
	case errors.Is(err, parser.ErrMissingHeader):
		return "file is missing a header row"
	case errors.Is(err, parser.ErrInvalidEncoding):
		return "file encoding could not be read"
	}
	return "file could not be read"
}
