package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Directory is the configuration for the cached user directory.
type Directory struct {
	CacheTTL  time.Duration
	CacheSize int
}

func (c *Directory) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		CacheTTL  string `yaml:"cacheTTL"`
		CacheSize int    `yaml:"cacheSize"`
	}

	err := value.Decode(&raw)
	if err != nil {
		return err
	}

	if raw.CacheTTL != "" {
		ttl, err := time.ParseDuration(raw.CacheTTL)
		if err != nil {
			return fmt.Errorf("directory: invalid cacheTTL: %w", err)
		}

		c.CacheTTL = ttl
	}

	c.CacheSize = raw.CacheSize

	return nil
}

// Validate validates the configuration.
func (c Directory) Validate() error {
	if c.CacheTTL < 0 {
		return fmt.Errorf("directory: cacheTTL must not be negative")
	}

	if c.CacheSize < 0 {
		return fmt.Errorf("directory: cacheSize must not be negative")
	}

	return nil
}
