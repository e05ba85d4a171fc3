// Package refreshtokens declares the repository contract for refresh-token
// records in persistent storage.
//
// Secrets are stored as salted argon2 hashes, so there is no direct lookup
// by secret: the service fetches a bounded, newest-first window of active
// tokens and tests the presented secret against each candidate. The window
// bounds the verification cost and favors recently issued sessions.
package refreshtokens

import (
	"context"
	"time"
)

// Candidate is the projection of an active token row needed for matching.
type Candidate struct {
	ID        int64
	UserID    int64
	TokenHash string
}

// Repository defines operations for issuing and revoking refresh tokens.
// Rows are never deleted; revocation stamps revoked_at.
type Repository interface {
	// Create stores a new refresh token hash for userID expiring at expiresAt.
	Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error

	// FindActiveCandidates returns up to limit tokens that are neither revoked
	// nor expired as of now, ordered newest-created-first.
	FindActiveCandidates(ctx context.Context, now time.Time, limit int) ([]Candidate, error)

	// Revoke stamps the token revoked as of now, only if it is not revoked
	// yet. Returns false when the row was already revoked or does not exist,
	// which lets concurrent rotations of the same token decide a single winner.
	Revoke(ctx context.Context, id int64, now time.Time) (bool, error)
}
