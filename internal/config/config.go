package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/quantmind-br/loanrates-go/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Fetch       FetchConfig       `mapstructure:"fetch" yaml:"fetch"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
}

// FetchConfig contains HTTP fetch settings
type FetchConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
	ProxyURL   string        `mapstructure:"proxy_url" yaml:"proxy_url"`
	RateLimit  float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	Burst      int           `mapstructure:"burst" yaml:"burst"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	// Workers caps concurrent sources; 0 runs every source at once
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// OutputConfig contains output settings
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Path   string `mapstructure:"path" yaml:"path"`
}

// Validate validates the configuration, resetting out-of-range values to
// their defaults. Only an unknown output format is an error.
func (c *Config) Validate() error {
	if c.Fetch.Timeout < time.Second {
		c.Fetch.Timeout = DefaultFetchTimeout
	}
	if c.Fetch.MaxRetries < 0 {
		c.Fetch.MaxRetries = DefaultMaxRetries
	}
	if strings.TrimSpace(c.Fetch.UserAgent) == "" {
		c.Fetch.UserAgent = DefaultUserAgent
	}
	if c.Fetch.RateLimit < 0 {
		c.Fetch.RateLimit = 0
	}
	if c.Fetch.Burst < 1 {
		c.Fetch.Burst = DefaultBurst
	}
	if c.Concurrency.Workers < 0 {
		c.Concurrency.Workers = DefaultWorkers
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format != "json" {
		c.Logging.Format = DefaultLogFormat
	}

	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	switch c.Output.Format {
	case "":
		c.Output.Format = DefaultOutputFormat
	case FormatTable, FormatCSV, FormatJSON:
	default:
		return domain.NewValidationError("output.format",
			fmt.Sprintf("%q is not one of %s, %s or %s", c.Output.Format, FormatTable, FormatCSV, FormatJSON))
	}
	return nil
}
