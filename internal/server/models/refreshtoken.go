package models

import "time"

// RefreshToken is a session credential record. Only the argon2 hash of the
// secret is stored; the raw secret exists just once, in the login/refresh
// response. Rows are never deleted: revocation sets RevokedAt, keeping an
// audit trail. A token is usable iff RevokedAt is nil and ExpiresAt is in
// the future.
type RefreshToken struct {
	ID        int64
	UserID    int64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
