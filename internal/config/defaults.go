package config

import "github.com/spf13/viper"

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8091)

	// Redis defaults: unset address means in-process backings
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "assist")

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 1024)
	v.SetDefault("openai.temperature", 0.4)

	// Rate limit defaults: 30 requests per trailing minute
	v.SetDefault("rate_limit.requests", 30)
	v.SetDefault("rate_limit.window_seconds", 60)

	// Database defaults
	v.SetDefault("database.path", "data/gorillalink-assist.db")

	// Housing affordability reference
	v.SetDefault("housing.reference_cost", 800.0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 10)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	// Audit defaults
	v.SetDefault("audit.path", "logs/audit.log")
	v.SetDefault("audit.max_size_mb", 100)
	v.SetDefault("audit.max_backups", 10)
	v.SetDefault("audit.max_age_days", 90)
}
