package auth

import (
	"context"
	"errors"
	"time"
)

// ErrSealingFailed is returned when an identity's public key material is
// absent or malformed at token-issuance time.
//
// This error should only be returned for invalid key input. It is distinct
// from a NotFound outcome: the user exists but cannot receive a token.
var ErrSealingFailed = errors.New("token sealing failed")

// SignedToken is a signed, time-bound credential before sealing.
//
// The payload is a compact header.payload.signature token that a verifier
// holding the issuer's verification material can check locally, without a
// server-side session lookup.
type SignedToken struct {
	Payload string

	ExpiresIn time.Duration
	IssuedAt  time.Time
}

// SealedToken is a SignedToken encrypted under the recipient identity's
// registered public key. Only the holder of the matching private key can
// recover the signed payload.
type SealedToken struct {
	Ciphertext string

	ExpiresIn time.Duration
	IssuedAt  time.Time
}

// SignedTokenIssuer issues a signed credential for a subject.
//
// The subject is the identity's public key, never the username: the token is
// bound to cryptographic material rather than a mutable display name.
type SignedTokenIssuer interface {
	IssueSignedToken(ctx context.Context, subject string) (SignedToken, error)
}

// TokenSealer encrypts a plaintext so that only the holder of the private
// key matching publicKey can recover it.
//
// Implementations must reject absent or malformed key material with
// ErrSealingFailed before any cryptographic call.
type TokenSealer interface {
	Seal(plaintext []byte, publicKey string) (string, error)
}

// SealedTokenIssuer is a facade combining signing and sealing.
type SealedTokenIssuer struct {
	SignedTokenIssuer
	Sealer TokenSealer
}

// IssueSealedToken signs a credential bound to the identity's public key and
// seals it under that same key.
func (i SealedTokenIssuer) IssueSealedToken(ctx context.Context, identity Identity) (SealedToken, error) {
	signed, err := i.IssueSignedToken(ctx, identity.PublicKey)
	if err != nil {
		return SealedToken{}, err
	}

	ciphertext, err := i.Sealer.Seal([]byte(signed.Payload), identity.PublicKey)
	if err != nil {
		return SealedToken{}, err
	}

	return SealedToken{
		Ciphertext: ciphertext,
		ExpiresIn:  signed.ExpiresIn,
		IssuedAt:   signed.IssuedAt,
	}, nil
}
