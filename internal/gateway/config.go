package gateway

import "time"

// Config holds the Theme API client configuration.
type Config struct {
	BaseURL string        `mapstructure:"base_url"` // Theme API root including the version prefix
	Timeout time.Duration `mapstructure:"timeout"`  // Per-request timeout (default: 3s)
}

// DefaultConfig returns a Config pointing at a local themestudio server.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8080/api/v1",
		Timeout: 3 * time.Second,
	}
}
