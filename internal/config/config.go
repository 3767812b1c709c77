// Package config provides configuration management for the tender scraper.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"etenders/pkg/utils"
)

// Configuration validation errors.
var (
	ErrInvalidBaseURL      = errors.New("source.base_url must be an absolute http(s) URL")
	ErrMissingListingPath  = errors.New("source.listing_path is required")
	ErrMissingDownloadPath = errors.New("source.download_path is required")
	ErrInvalidMaxRecords   = errors.New("source.max_records must be at least 1")
	ErrInvalidMaxAttempts  = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidTimeout      = errors.New("retry.timeout_sec must be at least 1")
	ErrMissingOutputDir    = errors.New("output.dir is required")
	ErrMissingOutputPrefix = errors.New("output.prefix is required")
	ErrNoOutputFormats     = errors.New("output.formats must list at least one format")
	ErrInvalidOutputFormat = errors.New("output.formats entries must be 'csv' or 'xlsx'")
	ErrInvalidSampleSize   = errors.New("logging.sample_records must be non-negative")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Environment variables that override file settings.
const (
	EnvBaseURL         = "ETENDERS_BASE_URL"
	EnvOutputDir       = "ETENDERS_OUTPUT_DIR"
	EnvLogLevel        = "ETENDERS_LOG_LEVEL"
	EnvMaxRecords      = "ETENDERS_MAX_RECORDS"
	EnvMetricsTextfile = "ETENDERS_METRICS_TEXTFILE"
	EnvDatabaseURL     = "DATABASE_URL"
)

// DefaultPath is the config file picked up when none is given.
const DefaultPath = "configs/scraper.yaml"

// DefaultMaxRecords caps how many listing entries are mapped per run.
const DefaultMaxRecords = 200

// Config represents the complete scraper configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Retry   RetryPolicy   `yaml:"retry"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Storage StorageConfig `yaml:"storage"`
}

// SourceConfig describes the tender opportunities endpoint.
type SourceConfig struct {
	Params           map[string]string `yaml:"params"`
	Headers          map[string]string `yaml:"headers"`
	BaseURL          string            `yaml:"base_url"`
	ListingPath      string            `yaml:"listing_path"`
	DownloadPath     string            `yaml:"download_path"`
	CacheBusterParam string            `yaml:"cache_buster_param"`
	MaxRecords       int               `yaml:"max_records"`
}

// ListingURL returns the absolute listing endpoint without query.
func (s *SourceConfig) ListingURL() string {
	return s.BaseURL + s.ListingPath
}

// DownloadURL returns the absolute document download prefix.
func (s *SourceConfig) DownloadURL() string {
	return s.BaseURL + s.DownloadPath
}

// QueryParams returns a copy of the fixed params plus the cache-busting
// token for the given instant, if a cache buster param is configured.
func (s *SourceConfig) QueryParams(now time.Time) map[string]string {
	params := make(map[string]string, len(s.Params)+1)
	maps.Copy(params, s.Params)

	if s.CacheBusterParam != "" {
		params[s.CacheBusterParam] = strconv.FormatInt(now.UnixMilli(), 10)
	}

	return params
}

// RetryPolicy defines retry behavior. Attempts are retried immediately.
type RetryPolicy struct {
	MaxAttempts int `yaml:"max_attempts"`
	TimeoutSec  int `yaml:"timeout_sec"`
}

// GetTimeout returns the per-attempt timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// OutputConfig defines where and how snapshots are written.
type OutputConfig struct {
	Dir      string   `yaml:"dir"`
	Prefix   string   `yaml:"prefix"`
	Formats  []string `yaml:"formats"`
	Manifest bool     `yaml:"manifest"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level         string `yaml:"level"`
	SampleRecords int    `yaml:"sample_records"`
}

// MetricsConfig defines where run metrics are written.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// StorageConfig defines the optional Postgres snapshot archive.
type StorageConfig struct {
	PostgresDSN string `yaml:"postgres_dsn"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:          "https://www.etenders.gov.za",
			ListingPath:      "/Home/TenderOpportunities/",
			DownloadPath:     "/home/Download/",
			Params:           map[string]string{"status": "1"},
			CacheBusterParam: "_",
			Headers: map[string]string{
				"Accept":           "application/json, text/javascript, */*; q=0.01",
				"Accept-Language":  "en-US,en;q=0.9",
				"Connection":       "keep-alive",
				"Referer":          "https://www.etenders.gov.za/Home/opportunities?id=1",
				"Sec-Fetch-Site":   "same-origin",
				"User-Agent":       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36",
				"X-Requested-With": "XMLHttpRequest",
			},
			MaxRecords: DefaultMaxRecords,
		},
		Retry: RetryPolicy{
			MaxAttempts: 3,
			TimeoutSec:  60,
		},
		Output: OutputConfig{
			Dir:     "./data",
			Prefix:  "results",
			Formats: []string{"csv"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
// An empty path yields the defaults. Environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads .env files into the process environment. Existing
// variables win. Missing files are skipped; a file that cannot be parsed is
// an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}

		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}

	return nil
}

// ResolvePath returns path, or DefaultPath when path is empty and that file
// exists. An empty result means the built-in defaults.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}

	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}

	return ""
}

// Load reads the dotenv file at envPath, then the resolved config file.
// Commands use it so they agree on where settings come from.
func Load(path, envPath string) (*Config, error) {
	if err := LoadDotEnv(envPath); err != nil {
		return nil, err
	}

	return LoadConfig(ResolvePath(path))
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Source.BaseURL = v
	}

	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Output.Dir = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(EnvMaxRecords); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxRecords, v, err)
		}

		c.Source.MaxRecords = n
	}

	if v := os.Getenv(EnvMetricsTextfile); v != "" {
		c.Metrics.Textfile = v
	}

	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.Storage.PostgresDSN = v
	}

	return nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !utils.NewHTTPHelper().IsValidURL(c.Source.BaseURL) {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.Source.BaseURL)
	}

	if c.Source.ListingPath == "" {
		return ErrMissingListingPath
	}

	if c.Source.DownloadPath == "" {
		return ErrMissingDownloadPath
	}

	if c.Source.MaxRecords < 1 {
		return ErrInvalidMaxRecords
	}

	if c.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Output.Dir == "" {
		return ErrMissingOutputDir
	}

	if c.Output.Prefix == "" {
		return ErrMissingOutputPrefix
	}

	if len(c.Output.Formats) == 0 {
		return ErrNoOutputFormats
	}

	for i, f := range c.Output.Formats {
		if f != "csv" && f != "xlsx" {
			return fmt.Errorf("%w: formats[%d]=%q", ErrInvalidOutputFormat, i, f)
		}
	}

	if c.Logging.SampleRecords < 0 {
		return ErrInvalidSampleSize
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// SnapshotPath returns {dir}/{prefix}_{YYYY-MM-DD}.{ext} for the given day.
func (c *Config) SnapshotPath(day time.Time, ext string) string {
	name := fmt.Sprintf("%s_%s.%s", c.Output.Prefix, day.Format(time.DateOnly), ext)

	return filepath.Join(c.Output.Dir, name)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Source: %s, MaxRecords: %d, MaxAttempts: %d, Output: %s %v}",
		c.Source.ListingURL(),
		c.Source.MaxRecords,
		c.Retry.MaxAttempts,
		c.Output.Dir,
		c.Output.Formats,
	)
}
