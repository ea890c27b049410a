package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/badno/shopconv/internal/convert"
	"github.com/badno/shopconv/internal/logger"
	"github.com/badno/shopconv/internal/output"
	"github.com/badno/shopconv/pkg/models"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigDir  = ".shopconv"
	DefaultConfigFile = "config.yaml"
)

// Config represents the application configuration
type Config struct {
	Conversion ConversionConfig `yaml:"conversion"`
	Output     OutputConfig     `yaml:"output"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

// ConversionConfig holds the knobs of the conversion engine
type ConversionConfig struct {
	FallbackPlatform     string `yaml:"fallback_platform"`      // Used when detection fails
	ImageRows            bool   `yaml:"image_rows"`             // One row per extra product image
	DefaultVendor        string `yaml:"default_vendor,omitempty"`
	InventoryPolicy      string `yaml:"inventory_policy"`       // deny or continue
	SEODescriptionLength int    `yaml:"seo_description_length"` // In characters
}

// OutputConfig holds file output settings
type OutputConfig struct {
	Dir    string `yaml:"dir,omitempty"` // Empty writes beside the input
	Format string `yaml:"format"`        // csv, json or jsonl
	Pretty bool   `yaml:"pretty"`        // Indent JSON output
}

// ServerConfig holds HTTP upload server settings
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	UploadDir   string `yaml:"upload_dir"`
	OutputDir   string `yaml:"output_dir"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Conversion: ConversionConfig{
			FallbackPlatform:     string(models.PlatformWooCommerce),
			ImageRows:            true,
			InventoryPolicy:      convert.PolicyDeny,
			SEODescriptionLength: convert.DefaultSEODescriptionLength,
		},
		Output: OutputConfig{
			Format: string(output.FormatCSV),
			Pretty: true,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			UploadDir:   "./uploads",
			OutputDir:   "./outputs",
			MaxUploadMB: 32,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}

// Load reads the configuration from the config file
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadFrom(configPath)
}

// LoadFrom reads the configuration from a specific path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so omitted booleans keep their default
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for missing values
	applyDefaults(config)

	return config, nil
}

// Save writes the configuration to the config file
func Save(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return SaveTo(config, configPath)
}

// SaveTo writes the configuration to a specific path
func SaveTo(config *Config, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Init creates a new config file with defaults
func Init() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}

	return Save(DefaultConfig())
}

// Exists checks if the config file exists
func Exists() bool {
	configPath, err := GetConfigPath()
	if err != nil {
		return false
	}

	_, err = os.Stat(configPath)
	return err == nil
}

// applyDefaults fills in missing or invalid values with defaults
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	// Conversion
	if _, ok := models.ParsePlatform(config.Conversion.FallbackPlatform); !ok {
		config.Conversion.FallbackPlatform = defaults.Conversion.FallbackPlatform
	}
	if config.Conversion.InventoryPolicy != convert.PolicyContinue {
		config.Conversion.InventoryPolicy = defaults.Conversion.InventoryPolicy
	}
	if config.Conversion.SEODescriptionLength <= 0 {
		config.Conversion.SEODescriptionLength = defaults.Conversion.SEODescriptionLength
	}

	// Output
	switch output.Format(config.Output.Format) {
	case output.FormatCSV, output.FormatJSON, output.FormatJSONL:
	default:
		config.Output.Format = defaults.Output.Format
	}

	// Server
	if config.Server.Addr == "" {
		config.Server.Addr = defaults.Server.Addr
	}
	if config.Server.UploadDir == "" {
		config.Server.UploadDir = defaults.Server.UploadDir
	}
	if config.Server.OutputDir == "" {
		config.Server.OutputDir = defaults.Server.OutputDir
	}
	if config.Server.MaxUploadMB <= 0 {
		config.Server.MaxUploadMB = defaults.Server.MaxUploadMB
	}

	// Log
	if config.Log.Level == "" {
		config.Log.Level = defaults.Log.Level
	}
	if config.Log.Format == "" {
		config.Log.Format = defaults.Log.Format
	}
}

// Options builds converter options from the conversion section. The
// fallback platform was validated by applyDefaults.
func (c ConversionConfig) Options() convert.Options {
	opts := convert.DefaultOptions()
	if p, ok := models.ParsePlatform(c.FallbackPlatform); ok && p != models.PlatformUnknown {
		opts.FallbackPlatform = p
	}
	opts.ImageRows = c.ImageRows
	opts.DefaultVendor = c.DefaultVendor
	if c.InventoryPolicy == convert.PolicyContinue {
		opts.InventoryPolicy = convert.PolicyContinue
	}
	if c.SEODescriptionLength > 0 {
		opts.SEODescriptionLength = c.SEODescriptionLength
	}
	return opts
}

// LoggerConfig maps the log section onto the logger package
func (l LogConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  l.Level,
		Format: l.Format,
		Output: "stderr",
	}
}

// Keys lists every key Set and Get understand
var Keys = []string{
	"conversion.fallback_platform",
	"conversion.image_rows",
	"conversion.default_vendor",
	"conversion.inventory_policy",
	"conversion.seo_description_length",
	"output.dir",
	"output.format",
	"output.pretty",
	"server.addr",
	"server.upload_dir",
	"server.output_dir",
	"server.max_upload_mb",
	"log.level",
	"log.format",
}

// Set updates a specific config value
func Set(key, value string) error {
	config, err := Load()
	if err != nil {
		return err
	}

	if err := config.Set(key, value); err != nil {
		return err
	}

	return Save(config)
}

// Get retrieves a specific config value
func Get(key string) (string, error) {
	config, err := Load()
	if err != nil {
		return "", err
	}

	return config.Get(key)
}

// Set updates one key in memory
func (c *Config) Set(key, value string) error {
	switch key {
	case "conversion.fallback_platform":
		p, ok := models.ParsePlatform(value)
		if !ok || p == models.PlatformUnknown {
			return fmt.Errorf("unknown platform: %s", value)
		}
		c.Conversion.FallbackPlatform = string(p)
	case "conversion.image_rows":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		c.Conversion.ImageRows = b
	case "conversion.default_vendor":
		c.Conversion.DefaultVendor = value
	case "conversion.inventory_policy":
		if value != convert.PolicyDeny && value != convert.PolicyContinue {
			return fmt.Errorf("inventory policy must be %s or %s", convert.PolicyDeny, convert.PolicyContinue)
		}
		c.Conversion.InventoryPolicy = value
	case "conversion.seo_description_length":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid value for %s: %s", key, value)
		}
		c.Conversion.SEODescriptionLength = n
	case "output.dir":
		c.Output.Dir = value
	case "output.format":
		switch output.Format(value) {
		case output.FormatCSV, output.FormatJSON, output.FormatJSONL:
			c.Output.Format = value
		default:
			return fmt.Errorf("unsupported output format: %s", value)
		}
	case "output.pretty":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		c.Output.Pretty = b
	case "server.addr":
		c.Server.Addr = value
	case "server.upload_dir":
		c.Server.UploadDir = value
	case "server.output_dir":
		c.Server.OutputDir = value
	case "server.max_upload_mb":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid value for %s: %s", key, value)
		}
		c.Server.MaxUploadMB = n
	case "log.level":
		c.Log.Level = value
	case "log.format":
		c.Log.Format = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Get reads one key
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "conversion.fallback_platform":
		return c.Conversion.FallbackPlatform, nil
	case "conversion.image_rows":
		return strconv.FormatBool(c.Conversion.ImageRows), nil
	case "conversion.default_vendor":
		return c.Conversion.DefaultVendor, nil
	case "conversion.inventory_policy":
		return c.Conversion.InventoryPolicy, nil
	case "conversion.seo_description_length":
		return strconv.Itoa(c.Conversion.SEODescriptionLength), nil
	case "output.dir":
		return c.Output.Dir, nil
	case "output.format":
		return c.Output.Format, nil
	case "output.pretty":
		return strconv.FormatBool(c.Output.Pretty), nil
	case "server.addr":
		return c.Server.Addr, nil
	case "server.upload_dir":
		return c.Server.UploadDir, nil
	case "server.output_dir":
		return c.Server.OutputDir, nil
	case "server.max_upload_mb":
		return strconv.Itoa(c.Server.MaxUploadMB), nil
	case "log.level":
		return c.Log.Level, nil
	case "log.format":
		return c.Log.Format, nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}
