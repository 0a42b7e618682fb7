package sessiontoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/breaks/domain"
)

func testSession(expires time.Time) *domain.Session {
	return &domain.Session{
		ID:        "sid-1",
		UserID:    "user-1",
		Username:  "alice",
		CreatedAt: time.Now().Add(-time.Minute),
		ExpiresAt: expires,
	}
}

func TestSignAndParse(t *testing.T) {
	signer := NewSigner("secret", "breaks")
	session := testSession(time.Now().Add(time.Hour))

	raw, err := signer.Sign(session)
	require.NoError(t, err)

	claims, err := signer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.WithinDuration(t, session.ExpiresAt, claims.Expiry(), time.Second)
}

func TestParseRejects(t *testing.T) {
	signer := NewSigner("secret", "breaks")

	expired, err := signer.Sign(testSession(time.Now().Add(-time.Second)))
	require.NoError(t, err)

	foreign, err := NewSigner("other-secret", "breaks").Sign(testSession(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	otherIssuer, err := NewSigner("secret", "someone-else").Sign(testSession(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{SessionID: "sid", UserID: "u"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"empty":        "",
		"garbage":      "not.a.token",
		"expired":      expired,
		"wrong secret": foreign,
		"wrong issuer": otherIssuer,
		"alg none":     unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := signer.Parse(raw)
			require.Error(t, err)
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
		})
	}
}

func TestSignRequiresSessionID(t *testing.T) {
	_, err := NewSigner("secret", "breaks").Sign(&domain.Session{})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}
