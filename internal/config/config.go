// Package config loads assistd configuration from YAML, environment
// variables (GORILLALINK_ prefix), and built-in defaults. Environment
// variables win over the file; the file wins over defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config contains all configuration for the assist service.
type Config struct {
	// Server configuration
	Server struct {
		Host string
		Port int
	}

	// Redis shared backing for cache and rate limiting. When Addr is
	// empty both fall back to in-process backings.
	Redis struct {
		Addr      string
		Password  string
		DB        int
		KeyPrefix string
	}

	// OpenAI external text-generation dependency. An empty APIKey
	// means the dependency is not configured and deterministic
	// fallbacks are used for generation features.
	OpenAI struct {
		APIKey      string
		Model       string
		MaxTokens   int
		Temperature float64
	}

	// RateLimit sliding window, per identity.
	RateLimit struct {
		Requests      int
		WindowSeconds int
	}

	// Database holds the match-list SQLite path.
	Database struct {
		Path string
	}

	// Housing affordability reference point in dollars per month.
	Housing struct {
		ReferenceCost float64
	}

	// Logging configuration
	Logging struct {
		Level      string
		Path       string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
		Compress   bool
	}

	// Audit log configuration
	Audit struct {
		Path       string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
	}
}

// Load reads configuration from the optional YAML file at path plus
// environment variables, applying defaults first. The onChange
// callback, when non-nil, fires on config file edits (reload is
// advisory; the server applies what it can without restart).
func Load(path string, onChange func(Config)) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GORILLALINK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				// Missing file is fine; defaults + env apply.
			} else if os.IsNotExist(err) {
				// Same, reported through the filesystem.
			} else {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := unmarshal(v, cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	if errs := cfg.Validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
	}

	if onChange != nil && path != "" {
		v.OnConfigChange(func(_ fsnotify.Event) {
			updated := Config{}
			if err := unmarshal(v, &updated); err != nil {
				return
			}
			applyEnvOverrides(&updated)
			if len(updated.Validate()) == 0 {
				onChange(updated)
			}
		})
		v.WatchConfig()
	}

	return cfg, nil
}

func unmarshal(v *viper.Viper, cfg *Config) error {
	cfg.Server.Host = v.GetString("server.host")
	cfg.Server.Port = v.GetInt("server.port")

	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")
	cfg.Redis.KeyPrefix = v.GetString("redis.key_prefix")

	cfg.OpenAI.APIKey = v.GetString("openai.api_key")
	cfg.OpenAI.Model = v.GetString("openai.model")
	cfg.OpenAI.MaxTokens = v.GetInt("openai.max_tokens")
	cfg.OpenAI.Temperature = v.GetFloat64("openai.temperature")

	cfg.RateLimit.Requests = v.GetInt("rate_limit.requests")
	cfg.RateLimit.WindowSeconds = v.GetInt("rate_limit.window_seconds")

	cfg.Database.Path = v.GetString("database.path")

	cfg.Housing.ReferenceCost = v.GetFloat64("housing.reference_cost")

	cfg.Logging.Level = v.GetString("logging.level")
	cfg.Logging.Path = v.GetString("logging.path")
	cfg.Logging.MaxSizeMB = v.GetInt("logging.max_size_mb")
	cfg.Logging.MaxBackups = v.GetInt("logging.max_backups")
	cfg.Logging.MaxAgeDays = v.GetInt("logging.max_age_days")
	cfg.Logging.Compress = v.GetBool("logging.compress")

	cfg.Audit.Path = v.GetString("audit.path")
	cfg.Audit.MaxSizeMB = v.GetInt("audit.max_size_mb")
	cfg.Audit.MaxBackups = v.GetInt("audit.max_backups")
	cfg.Audit.MaxAgeDays = v.GetInt("audit.max_age_days")

	return nil
}

// applyEnvOverrides covers the conventional un-prefixed variables the
// portal's deploy scripts already export.
func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAI.APIKey = key
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
}
