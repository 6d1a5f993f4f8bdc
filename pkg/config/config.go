package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is the RedGifs API host
	DefaultBaseURL = "https://api.redgifs.com"

	// DefaultUserAgent is the browser identity sent with every request
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

	// DefaultOutputDirectory is where videos land when nothing else is configured
	DefaultOutputDirectory = "redgifs_videos"

	DefaultQuality   = "hd"
	DefaultPageSize  = 100
	DefaultOrder     = "new"
	DefaultChunkSize = 8 * 1024
)

// Config holds all configuration options for the downloader
type Config struct {
	// API endpoint settings
	API APIConfig `yaml:"api" json:"api"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Terminal output preferences
	UI UIConfig `yaml:"ui" json:"ui"`
}

// APIConfig holds RedGifs API configuration
type APIConfig struct {
	BaseURL   string `yaml:"base_url" json:"base_url"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
	PageSize  int    `yaml:"page_size" json:"page_size"`
	Order     string `yaml:"order" json:"order"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	OutputDirectory string `yaml:"output_directory" json:"output_directory"`
	Quality         string `yaml:"quality" json:"quality"`
	// Timeout of zero leaves requests unbounded
	Timeout          time.Duration `yaml:"timeout" json:"timeout"`
	RespectPageCount bool          `yaml:"respect_page_count" json:"respect_page_count"`
	ChunkSize        int           `yaml:"chunk_size" json:"chunk_size"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
	// Format is "console" or "json"
	Format string `yaml:"format" json:"format"`
}

// UIConfig holds terminal output configuration
type UIConfig struct {
	ColorEnabled bool `yaml:"color_enabled" json:"color_enabled"`
	Quiet        bool `yaml:"quiet" json:"quiet"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			UserAgent: DefaultUserAgent,
			PageSize:  DefaultPageSize,
			Order:     DefaultOrder,
		},
		Download: DownloadConfig{
			OutputDirectory:  DefaultOutputDirectory,
			Quality:          DefaultQuality,
			Timeout:          0,
			RespectPageCount: true,
			ChunkSize:        DefaultChunkSize,
		},
		Logging: LoggingConfig{
			Level:  "info",
			File:   "",
			Format: "console",
		},
		UI: UIConfig{
			ColorEnabled: true,
			Quiet:        false,
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("RGSCRAPER_BASE_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if userAgent := os.Getenv("RGSCRAPER_USER_AGENT"); userAgent != "" {
		c.API.UserAgent = userAgent
	}
	if pageSize := os.Getenv("RGSCRAPER_PAGE_SIZE"); pageSize != "" {
		val, err := strconv.Atoi(pageSize)
		if err != nil {
			return fmt.Errorf("invalid RGSCRAPER_PAGE_SIZE %q: %w", pageSize, err)
		}
		c.API.PageSize = val
	}

	if outputDir := os.Getenv("RGSCRAPER_OUTPUT_DIR"); outputDir != "" {
		c.Download.OutputDirectory = outputDir
	}
	if quality := os.Getenv("RGSCRAPER_QUALITY"); quality != "" {
		c.Download.Quality = quality
	}
	if timeout := os.Getenv("RGSCRAPER_TIMEOUT"); timeout != "" {
		val, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid RGSCRAPER_TIMEOUT %q: %w", timeout, err)
		}
		c.Download.Timeout = val
	}
	if respect := os.Getenv("RGSCRAPER_RESPECT_PAGE_COUNT"); respect != "" {
		val, err := strconv.ParseBool(respect)
		if err != nil {
			return fmt.Errorf("invalid RGSCRAPER_RESPECT_PAGE_COUNT %q: %w", respect, err)
		}
		c.Download.RespectPageCount = val
	}

	if logLevel := os.Getenv("RGSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("RGSCRAPER_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	// NO_COLOR is honoured as a common convention
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.UI.ColorEnabled = false
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	for _, loc := range DefaultLocations() {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// DefaultLocations lists config file paths in order of precedence
func DefaultLocations() []string {
	home := os.Getenv("HOME")
	return []string{
		".rgscraper.yaml",
		".rgscraper.yml",
		filepath.Join(home, ".config", "rgscraper", "config.yaml"),
		filepath.Join(home, ".config", "rgscraper", "config.yml"),
		filepath.Join(home, ".rgscraper.yaml"),
		filepath.Join(home, ".rgscraper.yml"),
	}
}

// Validate checks if the configuration is valid.
// Quality is intentionally not restricted to hd/sd; unknown values fail
// at lookup time against the first entry.
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api base URL is required"))
	}
	if c.API.PageSize <= 0 {
		errs = append(errs, errors.New("page size must be positive"))
	}
	if c.API.Order == "" {
		errs = append(errs, errors.New("listing order is required"))
	}

	if c.Download.OutputDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Download.Quality == "" {
		errs = append(errs, errors.New("quality is required"))
	}
	if c.Download.Timeout < 0 {
		errs = append(errs, errors.New("timeout cannot be negative"))
	}
	if c.Download.ChunkSize <= 0 {
		errs = append(errs, errors.New("chunk size must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}
	validFormats := map[string]bool{"console": true, "json": true, "": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Errorf("invalid log format %q", c.Logging.Format))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map are applied.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Download.OutputDirectory = outputDir
	}
	if quality, ok := flags["quality"].(string); ok && quality != "" {
		c.Download.Quality = quality
	}
	if pageSize, ok := flags["page-size"].(int); ok && pageSize > 0 {
		c.API.PageSize = pageSize
	}
	if respect, ok := flags["respect-page-count"].(bool); ok {
		c.Download.RespectPageCount = respect
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok {
		c.Download.Timeout = timeout
	}
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if colorEnabled, ok := flags["color"].(bool); ok {
		c.UI.ColorEnabled = colorEnabled
	}
	if quiet, ok := flags["quiet"].(bool); ok {
		c.UI.Quiet = quiet
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".rgscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
