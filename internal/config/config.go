// Package config wraps viper behind a small accessor type so components
// take configuration without depending on viper's global state.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config provides typed access to a configuration subtree.
type Config struct {
	v *viper.Viper
}

// New wraps an existing viper instance. A nil viper yields a Config that
// returns zero values for every key.
func New(v *viper.Viper) *Config {
	if v == nil {
		v = viper.New()
	}
	return &Config{v: v}
}

// Load reads configuration from the given file path (optional), the
// environment (STOREFRONT_ prefix), and built-in defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("store.path", "storefront.db")
	v.SetDefault("catalog.base_url", "http://localhost:8000/api")
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.rate_limit", 10)
	v.SetDefault("shop.session_ttl", "30m")

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	return New(v), nil
}

// GetString returns the string value for key.
func (c *Config) GetString(key string) string { return c.v.GetString(key) }

// GetInt returns the int value for key.
func (c *Config) GetInt(key string) int { return c.v.GetInt(key) }

// GetBool returns the bool value for key.
func (c *Config) GetBool(key string) bool { return c.v.GetBool(key) }

// GetDuration returns the duration value for key.
func (c *Config) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }

// IsSet reports whether key has a value.
func (c *Config) IsSet(key string) bool { return c.v.IsSet(key) }

// Sub returns the subtree rooted at key. A missing key yields an empty
// Config, never nil.
func (c *Config) Sub(key string) *Config {
	sub := c.v.Sub(key)
	if sub == nil {
		sub = viper.New()
	}
	return New(sub)
}

// Unmarshal decodes the configuration into target using mapstructure tags.
func (c *Config) Unmarshal(target any) error {
	return c.v.Unmarshal(target)
}
