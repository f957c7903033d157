// Package jwt issues and verifies HMAC-signed compact tokens bound to an
// identity's public key.
package jwt

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/hkdf"

	"github.com/vendor-auth/auth/auth"
)

// DefaultExpiration is the absolute lifetime of issued tokens.
// There is no refresh or renewal path.
const DefaultExpiration = 5 * time.Hour

const signingKeySize = 32

// signingKeyInfo binds derived keys to this purpose, so the same issuer
// secret can never yield the same key for another HKDF consumer.
const signingKeyInfo = "vendor-auth token signing key"

// IDGenerator generates unique token IDs ("jti" claims).
type IDGenerator interface {
	GenerateID() (string, error)
}

type uuidGenerator struct{}

func (uuidGenerator) GenerateID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// Issuer issues HS256-signed tokens whose subject is an identity public key.
//
// The signing key is derived once at construction from the process-wide
// issuer secret; the secret itself is never retained.
type Issuer struct {
	issuer     string
	signingKey []byte
	expiration time.Duration

	clock       clockwork.Clock
	idGenerator IDGenerator
}

// NewIssuer derives a signing key from secret via HKDF-SHA256 and returns a
// new Issuer. A zero expiration falls back to DefaultExpiration.
func NewIssuer(issuerName string, secret []byte, expiration time.Duration, opts ...IssuerOption) (Issuer, error) {
	if len(secret) == 0 {
		return Issuer{}, fmt.Errorf("issuer secret is required")
	}

	signingKey := make([]byte, signingKeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(signingKeyInfo)), signingKey); err != nil {
		return Issuer{}, fmt.Errorf("deriving signing key: %w", err)
	}

	if expiration == 0 {
		expiration = DefaultExpiration
	}

	i := Issuer{
		issuer:     issuerName,
		signingKey: signingKey,
		expiration: expiration,
	}

	for _, opt := range opts {
		opt.applyIssuer(&i)
	}

	if i.clock == nil {
		i.clock = clockwork.NewRealClock()
	}

	if i.idGenerator == nil {
		i.idGenerator = uuidGenerator{}
	}

	return i, nil
}

// IssueSignedToken implements auth.SignedTokenIssuer.
func (i Issuer) IssueSignedToken(_ context.Context, subject string) (auth.SignedToken, error) {
	id, err := i.idGenerator.GenerateID()
	if err != nil {
		return auth.SignedToken{}, err
	}

	now := i.clock.Now()

	claims := jwt.RegisteredClaims{
		Issuer:    i.issuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(i.expiration)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        id,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(i.signingKey)
	if err != nil {
		return auth.SignedToken{}, err
	}

	return auth.SignedToken{
		Payload:   signedToken,
		ExpiresIn: i.expiration,
		IssuedAt:  now,
	}, nil
}

// Verify checks the signature and time bounds of a signed token and returns
// its claims. Expiry is validated against the Issuer's clock, not the
// process clock.
func (i Issuer) Verify(tokenString string) (jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	_, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return i.signingKey, nil
	})
	if err != nil {
		return jwt.RegisteredClaims{}, err
	}

	now := i.clock.Now()

	if !claims.VerifyExpiresAt(now, true) {
		return jwt.RegisteredClaims{}, jwt.ErrTokenExpired
	}

	if !claims.VerifyNotBefore(now, false) {
		return jwt.RegisteredClaims{}, jwt.ErrTokenNotValidYet
	}

	return claims, nil
}
