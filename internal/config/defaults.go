package config

import (
	"os"
	"path/filepath"
	"time"
)

// Output formats
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// Default values
const (
	// Fetch defaults
	DefaultFetchTimeout = 20 * time.Second
	DefaultMaxRetries   = 2
	DefaultUserAgent    = "Mozilla/5.0 (compatible; LoanRatesBot/1.0)"
	DefaultRateLimit    = 0.0
	DefaultBurst        = 1

	// Concurrency defaults
	DefaultWorkers = 0

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"

	// Output defaults
	DefaultOutputFormat = FormatTable
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".loanrates"
	}
	return filepath.Join(home, ".loanrates")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "loanrates.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Fetch: FetchConfig{
			Timeout:    DefaultFetchTimeout,
			MaxRetries: DefaultMaxRetries,
			UserAgent:  DefaultUserAgent,
			RateLimit:  DefaultRateLimit,
			Burst:      DefaultBurst,
		},
		Concurrency: ConcurrencyConfig{
			Workers: DefaultWorkers,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Output: OutputConfig{
			Format: DefaultOutputFormat,
		},
	}
}
