package config

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vendor-auth/auth/auth"
	"github.com/vendor-auth/auth/auth/directory"
	"github.com/vendor-auth/auth/auth/store/postgres"
)

// IdentityStore is the configuration for an auth.IdentityStore.
type IdentityStore struct {
	Type   string `yaml:"type"`
	Config IdentityStoreFactory
}

func (c *IdentityStore) UnmarshalYAML(value *yaml.Node) error {
	var rawConfig rawConfig

	err := value.Decode(&rawConfig)
	if err != nil {
		return err
	}

	var config IdentityStoreFactory

	switch rawConfig.Type {
	case "memory":
		var factory memoryIdentityStore

		err := decode(rawConfig.Config, &factory)
		if err != nil {
			return err
		}

		config = factory
	case "postgres":
		var factory postgresIdentityStore

		err := decode(rawConfig.Config, &factory)
		if err != nil {
			return err
		}

		config = factory
	default:
		return fmt.Errorf("unknown identity store type: %s", rawConfig.Type)
	}

	c.Type = rawConfig.Type
	c.Config = config

	return nil
}

// IdentityStoreFactory creates a new auth.IdentityStore.
type IdentityStoreFactory interface {
	CreateIdentityStore(ctx context.Context) (auth.IdentityStore, error)
	Validate() error
}

type memoryIdentityStore struct {
	Entries []identityEntry `mapstructure:"entries"`
}

type identityEntry struct {
	ID        int64  `mapstructure:"id"`
	Username  string `mapstructure:"username"`
	PublicKey string `mapstructure:"publicKey"`
	Secret    string `mapstructure:"secret"`
	FirstName string `mapstructure:"firstName"`
	LastName  string `mapstructure:"lastName"`
	Note      string `mapstructure:"note"`
}

func (c memoryIdentityStore) CreateIdentityStore(_ context.Context) (auth.IdentityStore, error) {
	entries := make(map[string]auth.Identity, len(c.Entries))

	for _, entry := range c.Entries {
		entries[entry.Username] = auth.Identity{
			ID:        entry.ID,
			Username:  entry.Username,
			PublicKey: entry.PublicKey,
			Secret:    entry.Secret,
			Profile: auth.Profile{
				FirstName: entry.FirstName,
				LastName:  entry.LastName,
				Note:      entry.Note,
			},
		}
	}

	return directory.NewInMemoryIdentityStore(entries), nil
}

func (c memoryIdentityStore) Validate() error {
	for _, entry := range c.Entries {
		if entry.Username == "" {
			return fmt.Errorf("identity store: memory: username is required")
		}

		if entry.PublicKey == "" {
			return fmt.Errorf("identity store: memory: publicKey is required for %q", entry.Username)
		}
	}

	return nil
}

type postgresIdentityStore struct {
	DSN string `mapstructure:"dsn"`
}

func (c postgresIdentityStore) CreateIdentityStore(ctx context.Context) (auth.IdentityStore, error) {
	pool, err := postgres.Connect(ctx, c.DSN)
	if err != nil {
		return nil, err
	}

	return postgres.NewIdentityStore(pool), nil
}

func (c postgresIdentityStore) Validate() error {
	if c.DSN == "" {
		return fmt.Errorf("identity store: postgres: dsn is required")
	}

	return nil
}
