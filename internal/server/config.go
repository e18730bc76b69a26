package server

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadOnly       bool          `mapstructure:"read_only"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		RateLimitRPS:   100,
		RateLimitBurst: 200,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
	}
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads configuration from file and environment variables.
// Without an explicit path themestudio.yaml is looked up in ., ./configs
// and /etc/themestudio; a missing file leaves the defaults in place.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("server.host", def.Host)
	v.SetDefault("server.port", def.Port)
	v.SetDefault("server.read_only", def.ReadOnly)
	v.SetDefault("server.rate_limit_rps", def.RateLimitRPS)
	v.SetDefault("server.rate_limit_burst", def.RateLimitBurst)
	v.SetDefault("server.read_timeout", def.ReadTimeout)
	v.SetDefault("server.write_timeout", def.WriteTimeout)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.path", "./data/themestudio.db")
	v.SetDefault("themes.seed_presets", true)
	v.SetDefault("gateway.base_url", "http://localhost:8080/api/v1")
	v.SetDefault("gateway.timeout", "3s")
	v.SetDefault("editor.dev_mode", false)
	v.SetDefault("ws.origin_patterns", []string{})
	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.timeout", "10s")
	v.SetDefault("webhook.enabled", true)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("themestudio")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/themestudio")
	}

	// Environment variable support: TS_SERVER_PORT=9090
	v.SetEnvPrefix("TS")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return v, nil
}

var envKeyReplacer = strings.NewReplacer(".", "_")
