// Package postgres implements auth.IdentityStore on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendor-auth/auth/auth"
	"github.com/vendor-auth/auth/pkg/option"
)

// IdentityStore implements auth.IdentityStore backed by PostgreSQL (pgx).
type IdentityStore struct {
	pool *pgxpool.Pool
}

// NewIdentityStore returns a new IdentityStore.
func NewIdentityStore(pool *pgxpool.Pool) *IdentityStore {
	return &IdentityStore{pool: pool}
}

// FindByUsername implements auth.IdentityStore.
func (s *IdentityStore) FindByUsername(ctx context.Context, username string) (option.Option[auth.Identity], error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, public_key, secret, first_name, last_name, note
		FROM identities WHERE username = $1
	`, username)

	var identity auth.Identity

	err := row.Scan(
		&identity.ID,
		&identity.Username,
		&identity.PublicKey,
		&identity.Secret,
		&identity.Profile.FirstName,
		&identity.Profile.LastName,
		&identity.Profile.Note,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return option.None[auth.Identity](), nil
		}

		return option.None[auth.Identity](), fmt.Errorf("%w: %v", auth.ErrStorageUnavailable, err)
	}

	return option.Some(identity), nil
}

// Update implements auth.IdentityStore. Only the mutable fields are written;
// username and public key are immutable after provisioning.
func (s *IdentityStore) Update(ctx context.Context, identity auth.Identity) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE identities
		SET secret = $2, first_name = $3, last_name = $4, note = $5
		WHERE username = $1
	`, identity.Username, identity.Secret, identity.Profile.FirstName, identity.Profile.LastName, identity.Profile.Note)
	if err != nil {
		return fmt.Errorf("%w: %v", auth.ErrCommitFailed, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: unknown username %q", auth.ErrCommitFailed, identity.Username)
	}

	return nil
}

// Connect opens a pgx connection pool and performs a Ping to ensure connectivity.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}

	config.MaxConns = 10
	config.MaxConnLifetime = time.Hour
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}
