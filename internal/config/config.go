// Package config wraps the process Viper instance and builds the root logger.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ViperConfig gives components typed access to their config section.
type ViperConfig struct {
	v *viper.Viper
}

// New creates a Config backed by the given Viper instance.
func New(v *viper.Viper) *ViperConfig {
	if v == nil {
		v = viper.New()
	}
	return &ViperConfig{v: v}
}

// Section decodes the section under key into target. Fields absent from
// the configuration keep the values target already holds, so callers pass
// a DefaultConfig() value in.
func (c *ViperConfig) Section(key string, target any) error {
	if !c.v.IsSet(key) {
		return nil
	}
	if err := c.v.UnmarshalKey(key, target); err != nil {
		return fmt.Errorf("decode %s config: %w", key, err)
	}
	return nil
}

func (c *ViperConfig) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *ViperConfig) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *ViperConfig) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *ViperConfig) GetDuration(key string) time.Duration {
	return c.v.GetDuration(key)
}

// Sub returns the config rooted at key. A missing key yields an empty config.
func (c *ViperConfig) Sub(key string) *ViperConfig {
	return New(c.v.Sub(key))
}

// Viper returns the underlying Viper instance for direct access.
func (c *ViperConfig) Viper() *viper.Viper {
	return c.v
}
