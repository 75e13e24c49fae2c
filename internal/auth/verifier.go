package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// RolesClaim is the namespaced custom claim the identity provider injects
// into access tokens at login.
const RolesClaim = "https://hireloop.io/roles"

var (
	ErrInvalidToken = errors.New("invalid access token")
	ErrNoRole       = errors.New("token carries no role claim")
)

// Principal is the authenticated caller extracted from a verified token.
type Principal struct {
	Subject string
	Email   string
	Roles   []string
}

// HasRole reports whether the principal carries the given role.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Config holds identity provider settings for token verification.
type Config struct {
	JWKSURL  string
	Issuer   string
	Audience string
}

// Verifier validates RS256 access tokens against the provider's published
// key set. Keys are fetched and refreshed by keyfunc in the background.
type Verifier struct {
	keyfunc  jwt.Keyfunc
	issuer   string
	audience string
}

// NewVerifier builds a Verifier that resolves signing keys from the JWKS URL.
func NewVerifier(ctx context.Context, cfg *Config) (*Verifier, error) {
	kf, err := keyfunc.NewDefaultCtx(ctx, []string{cfg.JWKSURL})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", cfg.JWKSURL, err)
	}

	return &Verifier{
		keyfunc:  kf.Keyfunc,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}, nil
}

// NewVerifierWithKeyfunc builds a Verifier around an explicit key resolver.
// Tests use this to sign tokens with a locally generated key pair.
func NewVerifierWithKeyfunc(kf jwt.Keyfunc, issuer, audience string) *Verifier {
	return &Verifier{keyfunc: kf, issuer: issuer, audience: audience}
}

// Verify parses and validates a raw bearer token and extracts the principal.
func (v *Verifier) Verify(tokenString string) (*Principal, error) {
	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, v.keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	p := &Principal{Subject: sub}

	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}

	if raw, ok := claims[RolesClaim].([]interface{}); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				p.Roles = append(p.Roles, s)
			}
		}
	}

	return p, nil
}
