package refreshtokens

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/dbx"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindActiveCandidates(ctx context.Context, now time.Time, limit int) ([]Candidate, error) {
	query := `
		SELECT id, user_id, token_hash
		FROM refresh_tokens
		WHERE revoked_at IS NULL AND expires_at > $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.UserID, &c.TokenHash); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return candidates, nil
}

func (r *PostgresRepository) Revoke(ctx context.Context, id int64, now time.Time) (bool, error) {
	// Conditional update: the revoked_at IS NULL guard makes revocation
	// single-shot under concurrent rotations of the same token.
	query := `
		UPDATE refresh_tokens
		SET revoked_at = $2
		WHERE id = $1 AND revoked_at IS NULL
	`

	res, err := r.db.ExecContext(ctx, query, id, now)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected == 1, nil
}
