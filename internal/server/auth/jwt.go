// Package auth issues and verifies the short-lived access tokens (HS256 JWT)
// that prove identity to the HTTP layer. Validity is determined entirely by
// the signature and the embedded expiry; no store lookup is involved.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
)

// Claims carries the identity claims embedded in an access token:
// the registered subject (user id) plus the user's email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Minter signs and verifies access tokens. The signing key and validity are
// process-wide configuration, fixed at construction. The clock is injectable
// for tests.
type Minter struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewMinter constructs a Minter. A nil now defaults to time.Now.
func NewMinter(secret []byte, validity time.Duration, now func() time.Time) *Minter {
	if now == nil {
		now = time.Now
	}
	return &Minter{secret: secret, validity: validity, now: now}
}

// Sign produces a signed token for the given user with expiry now+validity.
func (m *Minter) Sign(userID int64, email string) (string, error) {
	issued := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(m.validity)),
		},
		Email: email,
	})

	return token.SignedString(m.secret)
}

// Verify parses and validates an access token. It returns
// common.ErrTokenExpired for a well-signed but expired token and
// common.ErrInvalidToken for anything malformed or badly signed; both mean
// the caller is unauthenticated.
func (m *Minter) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// UserID returns the numeric subject of the claims.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, common.ErrInvalidToken
	}
	return id, nil
}
