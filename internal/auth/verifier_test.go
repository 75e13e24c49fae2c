package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://hireloop-test.auth.example.com/"
	testAudience = "https://api.hireloop.io"
)

func newTestVerifier(t *testing.T) (*Verifier, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	kf := func(token *jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}

	return NewVerifierWithKeyfunc(kf, testIssuer, testAudience), key
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":      testIssuer,
		"aud":      testAudience,
		"sub":      "auth0|64fa12bc9d01",
		"email":    "dev@hireloop.io",
		"exp":      time.Now().Add(time.Hour).Unix(),
		"iat":      time.Now().Unix(),
		RolesClaim: []string{"COMPANY"},
	}
}

func TestVerifier_Verify(t *testing.T) {
	v, key := newTestVerifier(t)

	t.Run("valid token", func(t *testing.T) {
		p, err := v.Verify(signToken(t, key, baseClaims()))
		require.NoError(t, err)

		assert.Equal(t, "auth0|64fa12bc9d01", p.Subject)
		assert.Equal(t, "dev@hireloop.io", p.Email)
		assert.True(t, p.HasRole("COMPANY"))
		assert.False(t, p.HasRole("ADMIN"))
	})

	t.Run("expired token", func(t *testing.T) {
		claims := baseClaims()
		claims["exp"] = time.Now().Add(-time.Hour).Unix()

		_, err := v.Verify(signToken(t, key, claims))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := baseClaims()
		claims["iss"] = "https://evil.example.com/"

		_, err := v.Verify(signToken(t, key, claims))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := baseClaims()
		claims["aud"] = "https://other-api.example.com"

		_, err := v.Verify(signToken(t, key, claims))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := baseClaims()
		delete(claims, "sub")

		_, err := v.Verify(signToken(t, key, claims))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with a different key", func(t *testing.T) {
		otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		_, err = v.Verify(signToken(t, otherKey, baseClaims()))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no role claim yields empty roles", func(t *testing.T) {
		claims := baseClaims()
		delete(claims, RolesClaim)

		p, err := v.Verify(signToken(t, key, claims))
		require.NoError(t, err)
		assert.Empty(t, p.Roles)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := v.Verify("not.a.token")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
