package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (LOANRATES_FETCH_TIMEOUT, ...)
const EnvPrefix = "LOANRATES"

// ConfigName is the settings file base name, kept apart from the sources file
const ConfigName = "loanrates"

// Load loads configuration from file, environment, and defaults.
// It uses the global viper instance so CLI flag bindings take part.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper(), ConfigDir(), ".")
}

// LoadFrom loads configuration into v, searching loanrates.yaml in paths.
// A missing file is not an error.
func LoadFrom(v *viper.Viper, paths ...string) (*Config, error) {
	setDefaults(v)

	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("fetch.timeout", DefaultFetchTimeout)
	v.SetDefault("fetch.max_retries", DefaultMaxRetries)
	v.SetDefault("fetch.user_agent", DefaultUserAgent)
	v.SetDefault("fetch.proxy_url", "")
	v.SetDefault("fetch.rate_limit", DefaultRateLimit)
	v.SetDefault("fetch.burst", DefaultBurst)

	v.SetDefault("concurrency.workers", DefaultWorkers)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)

	v.SetDefault("output.format", DefaultOutputFormat)
	v.SetDefault("output.path", "")
}
