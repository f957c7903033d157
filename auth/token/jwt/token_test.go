package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idGeneratorStub struct {
	id string
}

func (g idGeneratorStub) GenerateID() (string, error) {
	return g.id, nil
}

func TestIssuer_IssueSignedToken(t *testing.T) {
	const (
		id      = "vb86v87g87g87g87bb897vcw2367fv723vc8236"
		issuer  = "vendor-token-server"
		subject = "age1testpublickey"
	)

	now := time.UnixMicro(1257894000000)
	clock := clockwork.NewFakeClockAt(now)

	tokenIssuer, err := NewIssuer(issuer, []byte("issuer secret material"), 0, WithClock(clock), WithIDGenerator(idGeneratorStub{id}))
	require.NoError(t, err)

	token, err := tokenIssuer.IssueSignedToken(context.Background(), subject)
	require.NoError(t, err)

	assert.Equal(t, DefaultExpiration, token.ExpiresIn)
	assert.Equal(t, now, token.IssuedAt)

	claims, err := tokenIssuer.Verify(token.Payload)
	require.NoError(t, err)

	assert.Equal(t, subject, claims.Subject)
	assert.Equal(t, issuer, claims.Issuer)
	assert.Equal(t, id, claims.ID)
	assert.Equal(t, now.Add(DefaultExpiration).Unix(), claims.ExpiresAt.Unix())
}

func TestIssuer_Verify_Expiry(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.UnixMicro(1257894000000))

	tokenIssuer, err := NewIssuer("vendor-token-server", []byte("issuer secret material"), 0, WithClock(clock))
	require.NoError(t, err)

	token, err := tokenIssuer.IssueSignedToken(context.Background(), "age1testpublickey")
	require.NoError(t, err)

	clock.Advance(4*time.Hour + 59*time.Minute)

	_, err = tokenIssuer.Verify(token.Payload)
	assert.NoError(t, err)

	clock.Advance(2 * time.Minute)

	_, err = tokenIssuer.Verify(token.Payload)
	assert.Error(t, err)
}

func TestIssuer_Verify_RejectsForeignSignature(t *testing.T) {
	issuerA, err := NewIssuer("vendor-token-server", []byte("secret a"), 0)
	require.NoError(t, err)

	issuerB, err := NewIssuer("vendor-token-server", []byte("secret b"), 0)
	require.NoError(t, err)

	token, err := issuerA.IssueSignedToken(context.Background(), "age1testpublickey")
	require.NoError(t, err)

	_, err = issuerB.Verify(token.Payload)
	assert.Error(t, err)
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	_, err := NewIssuer("vendor-token-server", nil, 0)
	require.Error(t, err)
}

func TestNewIssuer_CustomExpiration(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.UnixMicro(1257894000000))

	tokenIssuer, err := NewIssuer("vendor-token-server", []byte("issuer secret material"), 15*time.Minute, WithClock(clock))
	require.NoError(t, err)

	token, err := tokenIssuer.IssueSignedToken(context.Background(), "age1testpublickey")
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, token.ExpiresIn)
}
