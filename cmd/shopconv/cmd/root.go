package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/badno/shopconv/internal/config"
	"github.com/badno/shopconv/internal/logger"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "shopconv",
	Short: "Convert store product exports to Shopify's import CSV",
	Long: color.New(color.FgCyan, color.Bold).Sprint(`
      _
  ___| |__   ___  _ __   ___ ___  _ ____   __
 / __| '_ \ / _ \| '_ \ / __/ _ \| '_ \ \ / /
 \__ \ | | | (_) | |_) | (_| (_) | | | \ V /
 |___/_| |_|\___/| .__/ \___\___/|_| |_|\_/
                 |_|
`) + `
Shopify catalog converter

Turns WooCommerce, Wix and PrestaShop product exports into a CSV that
Shopify's product importer accepts, with one row per variant.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() {
		if log != nil {
			_ = log.Sync()
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.shopconv/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error, off)")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// loadRuntime reads the config file and builds the logger shared by
// every command
func loadRuntime(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := cfg.Log.LoggerConfig()
	if logLevel != "" {
		logCfg.Level = logLevel
	}
	log, err = logger.New(logCfg)
	if err != nil {
		return err
	}
	return nil
}
