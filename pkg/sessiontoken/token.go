// Package sessiontoken signs and verifies the value of the session cookie.
// The token only points at a stored session; revocation happens in the store.
package sessiontoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/fastygo/breaks/domain"
)

type Claims struct {
	SessionID string `json:"sid"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

type Signer struct {
	secret []byte
	issuer string
}

func NewSigner(secret, issuer string) *Signer {
	return &Signer{secret: []byte(secret), issuer: issuer}
}

// Sign issues a token that expires together with the session.
func (s *Signer) Sign(session *domain.Session) (string, error) {
	if session == nil || session.ID == "" {
		return "", domain.ErrInvalidPayload
	}
	claims := Claims{
		SessionID: session.ID,
		UserID:    session.UserID,
		Username:  session.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   session.UserID,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse validates signature, expiry and issuer.
func (s *Signer) Parse(raw string) (*Claims, error) {
	if raw == "" {
		return nil, domain.ErrUnauthorized
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.WrapError(domain.ErrCodeUnauthorized, "invalid session token", err)
	}
	if s.issuer != "" && !claims.VerifyIssuer(s.issuer, true) {
		return nil, domain.WrapError(domain.ErrCodeUnauthorized, "invalid session token", errors.New("issuer mismatch"))
	}
	if claims.SessionID == "" || claims.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// Expiry returns the token expiry, or the zero time when absent.
func (c *Claims) Expiry() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
