package auth

import (
	"context"
	"errors"

	"github.com/vendor-auth/auth/pkg/option"
)

// ErrStorageUnavailable is returned when the durable store cannot be reached.
//
// It is propagated to the caller unchanged: retry policy is the caller's
// decision and nothing in this module retries internally.
var ErrStorageUnavailable = errors.New("identity storage unavailable")

// ErrCommitFailed is returned when a profile mutation reaches the durable
// store but fails to commit.
//
// It is deliberately distinct from an unknown-username outcome: the caller
// can tell "the user does not exist" apart from "the write did not land".
var ErrCommitFailed = errors.New("identity commit failed")

// UserDirectory resolves a username to the registered Identity.
//
// A username with no registered identity resolves to None, not an error.
type UserDirectory interface {
	Resolve(ctx context.Context, username string) (option.Option[Identity], error)
}

// IdentityWriter persists mutations to an existing Identity.
type IdentityWriter interface {
	Save(ctx context.Context, identity Identity) error
}

// Directory combines lookup and persistence of identities.
type Directory interface {
	UserDirectory
	IdentityWriter
}

// IdentityStore is the durable store collaborator behind a UserDirectory.
//
// FindByUsername performs a single-record exact-match query; Update commits
// the mutable fields of an existing record. Both are assumed transactional
// at single-record granularity.
type IdentityStore interface {
	FindByUsername(ctx context.Context, username string) (option.Option[Identity], error)
	Update(ctx context.Context, identity Identity) error
}
