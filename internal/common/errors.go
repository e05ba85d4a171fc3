// Package common defines shared sentinel errors used across the service
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")
	ErrHashing    = errors.New("hashing failure")

	// Registration errors.
	ErrInvalidEmail = errors.New("invalid email format")
	ErrWeakPassword = errors.New("weak password")
	ErrUserExists   = errors.New("user with this email already exists")

	// Authentication errors. Unknown email and wrong password both collapse
	// to ErrInvalidCredentials so the caller cannot probe for accounts.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserNotFound        = errors.New("user not found")

	// Access token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
