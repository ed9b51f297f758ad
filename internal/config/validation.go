package config

import "fmt"

// Validate checks the configuration is usable. It returns all problems
// found, not only the first.
func (c *Config) Validate() []error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.RateLimit.Requests <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.requests must be positive, got %d", c.RateLimit.Requests))
	}
	if c.RateLimit.WindowSeconds <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.window_seconds must be positive, got %d", c.RateLimit.WindowSeconds))
	}
	if c.OpenAI.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("openai.max_tokens must be positive, got %d", c.OpenAI.MaxTokens))
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		errs = append(errs, fmt.Errorf("openai.temperature %v out of range [0,2]", c.OpenAI.Temperature))
	}
	if c.Housing.ReferenceCost <= 0 {
		errs = append(errs, fmt.Errorf("housing.reference_cost must be positive, got %v", c.Housing.ReferenceCost))
	}
	if c.Database.Path == "" {
		errs = append(errs, fmt.Errorf("database.path must not be empty"))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug|info|warn|error", c.Logging.Level))
	}

	return errs
}
