package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vendor-auth/auth/auth"
	"github.com/vendor-auth/auth/auth/token/jwt"
)

// TokenIssuer is the configuration for an auth.SignedTokenIssuer.
type TokenIssuer struct {
	Type   string `yaml:"type"`
	Config TokenIssuerFactory
}

func (c *TokenIssuer) UnmarshalYAML(value *yaml.Node) error {
	var rawConfig rawConfig

	err := value.Decode(&rawConfig)
	if err != nil {
		return err
	}

	var config TokenIssuerFactory

	switch rawConfig.Type {
	case "hmac":
		var factory hmacTokenIssuer

		err := decode(rawConfig.Config, &factory)
		if err != nil {
			return err
		}

		config = factory
	default:
		return fmt.Errorf("unknown token issuer type: %s", rawConfig.Type)
	}

	c.Type = rawConfig.Type
	c.Config = config

	return nil
}

// TokenIssuerFactory creates a new auth.SignedTokenIssuer.
type TokenIssuerFactory interface {
	CreateTokenIssuer() (auth.SignedTokenIssuer, error)
	Validate() error
}

type hmacTokenIssuer struct {
	Issuer     string        `mapstructure:"issuer"`
	Secret     string        `mapstructure:"secret"`
	SecretFile string        `mapstructure:"secretFile"`
	Expiration time.Duration `mapstructure:"expiration"`
}

func (c hmacTokenIssuer) CreateTokenIssuer() (auth.SignedTokenIssuer, error) {
	secret := []byte(c.Secret)

	if c.SecretFile != "" {
		var err error

		secret, err = os.ReadFile(c.SecretFile)
		if err != nil {
			return nil, fmt.Errorf("reading issuer secret file: %w", err)
		}
	}

	issuer, err := jwt.NewIssuer(c.Issuer, secret, c.Expiration)
	if err != nil {
		return nil, err
	}

	return issuer, nil
}

func (c hmacTokenIssuer) Validate() error {
	if c.Issuer == "" {
		return fmt.Errorf("token issuer: hmac: issuer is required")
	}

	if c.Secret == "" && c.SecretFile == "" {
		return fmt.Errorf("token issuer: hmac: secret or secretFile is required")
	}

	if c.Secret != "" && c.SecretFile != "" {
		return fmt.Errorf("token issuer: hmac: secret and secretFile are mutually exclusive")
	}

	return nil
}
