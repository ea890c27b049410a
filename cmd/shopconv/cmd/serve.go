package cmd

import (
	"github.com/badno/shopconv/internal/server"
	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload server",
	Long: `Serve a small HTTP API: POST an export to /convert as the multipart
field "file" and fetch the result from the returned download URL.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	gin.SetMode(gin.ReleaseMode)

	sc := server.Config{
		Addr:           cfg.Server.Addr,
		UploadDir:      cfg.Server.UploadDir,
		OutputDir:      cfg.Server.OutputDir,
		MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
	}
	if serveAddr != "" {
		sc.Addr = serveAddr
	}

	srv, err := server.New(sc, cfg.Conversion.Options(), log)
	if err != nil {
		color.Red("  Error: %v", err)
		return err
	}

	color.Cyan("  Listening on %s", sc.Addr)
	return srv.Run(cmd.Context())
}
