package jwt

import "github.com/jonboulle/clockwork"

// IssuerOption configures an Issuer.
type IssuerOption interface {
	applyIssuer(i *Issuer)
}

type withClock struct {
	clock clockwork.Clock
}

func (o withClock) applyIssuer(i *Issuer) {
	i.clock = o.clock
}

// WithClock sets the clock used for issuance and verification.
func WithClock(clock clockwork.Clock) IssuerOption {
	return withClock{clock: clock}
}

type withIDGenerator struct {
	idGenerator IDGenerator
}

func (o withIDGenerator) applyIssuer(i *Issuer) {
	i.idGenerator = o.idGenerator
}

// WithIDGenerator sets the generator for "jti" claims.
func WithIDGenerator(idGenerator IDGenerator) IssuerOption {
	return withIDGenerator{idGenerator: idGenerator}
}
