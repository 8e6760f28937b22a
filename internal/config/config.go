// Package config loads the server configuration from a JSON file. Fields use
// pointers so a partial file only overrides what it names; the Get* methods
// supply defaults for everything else.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the root server configuration. The schema matches the
// flags of the server binary so the same values can come from either source.
type Config struct {
	// HTTP listen address, e.g. ":8080".
	Listen *string `json:"listen,omitempty"`

	// Path to the SQLite database file.
	DBPath *string `json:"db_path,omitempty"`

	// Criterion code charted by the sales time series.
	SalesCriterion *string `json:"sales_criterion,omitempty"`

	// Entry cap for the top performers view.
	TopLimit *int `json:"top_limit,omitempty"`

	// How many recent periods the sales series spans.
	SalesPeriods *int `json:"sales_periods,omitempty"`

	// Directory ranking report artifacts are written to.
	ReportDir *string `json:"report_dir,omitempty"`
}

// EmptyConfig returns a Config with all fields unset.
func EmptyConfig() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file. Fields omitted from the file keep
// their defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.TopLimit != nil && *c.TopLimit <= 0 {
		return fmt.Errorf("top_limit must be positive, got %d", *c.TopLimit)
	}
	if c.SalesPeriods != nil && *c.SalesPeriods <= 0 {
		return fmt.Errorf("sales_periods must be positive, got %d", *c.SalesPeriods)
	}
	if c.SalesCriterion != nil && *c.SalesCriterion == "" {
		return fmt.Errorf("sales_criterion must not be empty")
	}
	return nil
}

// GetListen returns the listen address or the default.
func (c *Config) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return ":8080"
	}
	return *c.Listen
}

// GetDBPath returns the database path or the default.
func (c *Config) GetDBPath() string {
	if c.DBPath == nil || *c.DBPath == "" {
		return "rank.db"
	}
	return *c.DBPath
}

// GetSalesCriterion returns the sales criterion code or the default.
func (c *Config) GetSalesCriterion() string {
	if c.SalesCriterion == nil || *c.SalesCriterion == "" {
		return "C1"
	}
	return *c.SalesCriterion
}

// GetTopLimit returns the top performers cap or the default.
func (c *Config) GetTopLimit() int {
	if c.TopLimit == nil {
		return 5
	}
	return *c.TopLimit
}

// GetSalesPeriods returns the sales series span or the default.
func (c *Config) GetSalesPeriods() int {
	if c.SalesPeriods == nil {
		return 4
	}
	return *c.SalesPeriods
}

// GetReportDir returns the report directory or the default.
func (c *Config) GetReportDir() string {
	if c.ReportDir == nil || *c.ReportDir == "" {
		return "reports"
	}
	return *c.ReportDir
}
