package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/vendor-auth/auth/pkg/option"
)

// VendorService issues sealed tokens to registered users on behalf of a
// vendor and lets users read and mutate the record the vendor keeps for them.
//
// Every operation fails closed when the identity is unknown: unknown
// usernames are a None (or false) outcome, never an error.
type VendorService interface {
	// Authenticate resolves a username and issues a sealed token bound to
	// the identity's registered public key. An unknown username yields None
	// rather than an error, so the error channel does not reveal which
	// usernames exist.
	Authenticate(ctx context.Context, username string) (option.Option[SealedToken], error)

	// GetDetails returns the full stored identity, including the secret and
	// profile fields. Callers are expected to have authenticated already;
	// enforcing that is the transport collaborator's responsibility.
	GetDetails(ctx context.Context, username string) (option.Option[Identity], error)

	// SaveProfile overwrites the identity's secret and profile fields and
	// commits them to durable storage. It returns false for an unknown
	// username; a failed commit returns false with ErrCommitFailed.
	SaveProfile(ctx context.Context, username string, secret string, profile Profile) (bool, error)
}

// VendorServiceImpl orchestrates directory lookup, token issuance and
// profile mutation. Each call is a short-lived synchronous flow with no
// state beyond the Identity record.
type VendorServiceImpl struct {
	Directory   Directory
	TokenIssuer SealedTokenIssuer
	Audit       AuditLogger

	Logger *zap.Logger
}

// Authenticate implements VendorService.
func (s VendorServiceImpl) Authenticate(ctx context.Context, username string) (option.Option[SealedToken], error) {
	identity, err := s.Directory.Resolve(ctx, username)
	if err != nil {
		return option.None[SealedToken](), err
	}

	if !identity.HasValue() {
		return option.None[SealedToken](), nil
	}

	token, err := s.TokenIssuer.IssueSealedToken(ctx, identity.Value())
	if err != nil {
		return option.None[SealedToken](), err
	}

	s.Audit.Emit(AuditTokenIssued, username)
	s.Logger.Debug("issued sealed token", zap.String("username", username))

	return option.Some(token), nil
}

// GetDetails implements VendorService.
func (s VendorServiceImpl) GetDetails(ctx context.Context, username string) (option.Option[Identity], error) {
	identity, err := s.Directory.Resolve(ctx, username)
	if err != nil {
		return option.None[Identity](), err
	}

	if !identity.HasValue() {
		return option.None[Identity](), nil
	}

	s.Audit.Emit(AuditDetailsReturned, username)

	return identity, nil
}

// SaveProfile implements VendorService.
func (s VendorServiceImpl) SaveProfile(ctx context.Context, username string, secret string, profile Profile) (bool, error) {
	identity, err := s.Directory.Resolve(ctx, username)
	if err != nil {
		return false, err
	}

	if !identity.HasValue() {
		return false, nil
	}

	updated := identity.Value()
	updated.Secret = secret
	updated.Profile = profile

	if err := s.Directory.Save(ctx, updated); err != nil {
		return false, err
	}

	s.Audit.Emit(AuditProfileSaved, username)
	s.Logger.Debug("saved profile", zap.String("username", username))

	return true, nil
}
