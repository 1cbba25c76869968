// Package oauthstate issues and verifies the opaque "state" value carried
// through the Monzo OAuth redirect. A state is an HS256 JWT holding a random
// nonce and an expiry, so the callback can reject forged or stale requests
// without server-side storage.
package oauthstate

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidState is returned for any state that fails verification.
var ErrInvalidState = errors.New("invalid oauth state")

type claims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// Signer issues and verifies state values.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner returns a Signer using secret for HMAC and ttl as the state lifetime.
func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a new signed state and the nonce it carries. The nonce is
// meant to be kept by the browser that started the login.
func (s *Signer) Issue() (string, string, error) {
	now := s.now()
	nonce := uuid.NewString()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign oauth state: %w", err)
	}
	return signed, nonce, nil
}

// Verify checks the signature and expiry of state and returns its nonce.
func (s *Signer) Verify(state string) (string, error) {
	if state == "" {
		return "", ErrInvalidState
	}

	var c claims
	token, err := jwt.ParseWithClaims(state, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if !token.Valid || c.Nonce == "" {
		return "", ErrInvalidState
	}
	if _, err := uuid.Parse(c.Nonce); err != nil {
		return "", fmt.Errorf("%w: malformed nonce", ErrInvalidState)
	}
	return c.Nonce, nil
}
