package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds run configuration.
type Config struct {
	BaseURL         string        `yaml:"base_url"`
	InputDir        string        `yaml:"input_dir"`
	OutputDir       string        `yaml:"output_dir"`
	ReportDir       string        `yaml:"report_dir"`
	MaxBatches      int           `yaml:"max_batches"`
	Timeout         time.Duration `yaml:"timeout"`
	UserAgent       string        `yaml:"user_agent"`
	TimestampOffset time.Duration `yaml:"timestamp_offset"`
	CacheSize       int           `yaml:"cache_size"`
	CatalogFile     string        `yaml:"catalog_file"`
	CatalogFormat   string        `yaml:"catalog_format"` // csv, json, or dual
	Verbose         bool          `yaml:"verbose"`
	MetricsAddr     string        `yaml:"metrics_addr"`
}

// DefaultConfig returns defaults matching the bookstore's public site.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "http://www.yes24.com",
		InputDir:        ".",
		OutputDir:       "sample",
		ReportDir:       ".",
		MaxBatches:      5,
		Timeout:         10 * time.Second,
		UserAgent:       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		TimestampOffset: 9 * time.Hour,
		CacheSize:       256,
		CatalogFile:     "",
		CatalogFormat:   "csv",
		Verbose:         false,
		MetricsAddr:     "",
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.InputDir == "" {
		return fmt.Errorf("input dir cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output dir cannot be empty")
	}
	if c.ReportDir == "" {
		return fmt.Errorf("report dir cannot be empty")
	}
	if c.MaxBatches <= 0 {
		return fmt.Errorf("max batches must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.TimestampOffset < 0 {
		return fmt.Errorf("timestamp offset cannot be negative")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive")
	}
	if c.CatalogFormat != "csv" && c.CatalogFormat != "json" && c.CatalogFormat != "dual" {
		return fmt.Errorf("catalog format must be csv, json, or dual")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}
