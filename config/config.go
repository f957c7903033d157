package config

import "fmt"

// Config collects all configuration options.
type Config struct {
	IdentityStore IdentityStore `yaml:"identityStore"`
	TokenIssuer   TokenIssuer   `yaml:"tokenIssuer"`
	Directory     Directory     `yaml:"directory"`
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.IdentityStore.Type == "" {
		return fmt.Errorf("identity store type is required")
	}

	if err := c.IdentityStore.Config.Validate(); err != nil {
		return err
	}

	if c.TokenIssuer.Type == "" {
		return fmt.Errorf("token issuer type is required")
	}

	if err := c.TokenIssuer.Config.Validate(); err != nil {
		return err
	}

	if err := c.Directory.Validate(); err != nil {
		return err
	}

	return nil
}

// rawConfig is a general struct to be used by other config structs to unmarshal yaml config first.
type rawConfig struct {
	Type   string                 `yaml:"type"`
	Config map[string]interface{} `yaml:"config"`
}
