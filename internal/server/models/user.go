// Package models holds the persistent entities of the auth service.
package models

import "time"

// User is an identity record. IDs are assigned by the store; email is unique
// (case-sensitive as stored). PasswordHash is opaque to everything except
// the password package.
type User struct {
	ID            int64
	Email         string
	PasswordHash  string
	FullName      string
	EmailVerified bool
	CreatedAt     time.Time
}
