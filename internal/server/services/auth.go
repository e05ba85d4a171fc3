// Package services contains the server-side business logic. This file
// implements AuthService, which handles registration, credential
// verification, and the refresh-token lifecycle (issue, rotate, revoke).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/dbx"
	"github.com/dmitrijs2005/gatekeeper/internal/server/config"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gatekeeper/internal/server/repositories/repomanager"
)

// Hasher is the credential-hashing contract consumed by the service. It
// covers both user passwords and refresh-token secrets, so a compromised
// store yields neither.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, encoded string) bool
}

// TokenMinter signs access tokens carrying user identity claims.
type TokenMinter interface {
	Sign(userID int64, email string) (string, error)
}

// AuthResult bundles a signed access token, the raw (unhashed) refresh
// token, and the authenticated user. The raw refresh token exists only here;
// the store keeps its hash.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// Profile is the projection returned by GetUserProfile.
type Profile struct {
	UserID        int64
	Email         string
	EmailVerified bool
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService implements the four auth operations. It keeps no state between
// calls; everything lives in the store, so concurrent calls for different
// users are independent.
type AuthService struct {
	db              *sql.DB
	repos           repomanager.RepositoryManager
	hasher          Hasher
	minter          TokenMinter
	refreshValidity time.Duration
	candidateLimit  int
	now             func() time.Time
}

// NewAuthService constructs an AuthService. All collaborators are injected;
// the service never reads ambient global state.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher Hasher, minter TokenMinter, cfg *config.Config) *AuthService {
	return &AuthService{
		db:              db,
		repos:           m,
		hasher:          hasher,
		minter:          minter,
		refreshValidity: cfg.RefreshTokenValidity,
		candidateLimit:  cfg.RefreshCandidateLimit,
		now:             time.Now,
	}
}

// Register creates a new user. The duplicate-email check runs before
// password validation, so a taken email is reported even when the password
// is also weak. The store's unique index on email is the backstop for
// concurrent registrations of the same address.
func (s *AuthService) Register(ctx context.Context, email, pass, fullname string) (*models.User, error) {
	if !emailPattern.MatchString(email) {
		return nil, common.ErrInvalidEmail
	}

	repo := s.repos.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrUserExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking existing user: %w", err)
	}

	if err := validatePassword(pass); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullname,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrUserExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues a token pair. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, pass string) (*AuthResult, error) {
	user, err := s.repos.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !s.hasher.Verify(pass, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, s.db, user)
}

// Refresh rotates a refresh token: the presented secret is matched against a
// bounded, newest-first window of active token hashes, the matched row is
// revoked, and a fresh pair is issued. Revoke and re-issue run in one
// transaction, so a matched token is spent exactly once even under
// concurrent use, and no session is lost to a partial rotation.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*AuthResult, error) {
	now := s.now()

	match, err := s.findMatch(ctx, rawToken, now)
	if err != nil {
		return nil, err
	}

	user, err := s.repos.Users(s.db).GetByID(ctx, match.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Orphaned token: store inconsistency, not a retryable condition.
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error resolving token owner: %w", err)
	}

	var result *AuthResult
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		revoked, err := s.repos.RefreshTokens(tx).Revoke(ctx, match.ID, now)
		if err != nil {
			return fmt.Errorf("error revoking refresh token: %w", err)
		}
		if !revoked {
			// A concurrent rotation of the same token won the race.
			return common.ErrInvalidRefreshToken
		}

		result, err = s.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Logout revokes the refresh token matching rawToken. It is idempotent and
// silent: an unknown or already-spent token is not reported, so callers
// cannot probe session state.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	now := s.now()

	match, err := s.findMatch(ctx, rawToken, now)
	if err != nil {
		if errors.Is(err, common.ErrInvalidRefreshToken) {
			return nil
		}
		return err
	}

	if _, err := s.repos.RefreshTokens(s.db).Revoke(ctx, match.ID, now); err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	return nil
}

// GetUserProfile returns the profile projection for the given user id.
func (s *AuthService) GetUserProfile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	return &Profile{
		UserID:        user.ID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
	}, nil
}

// findMatch scans the active-candidate window for the token whose hash
// matches rawToken. Salted hashes are not indexable, so matching is a
// sequential verify over a recency-ordered window; the window size bounds
// the worst case and favors recently issued sessions.
func (s *AuthService) findMatch(ctx context.Context, rawToken string, now time.Time) (*refreshtokens.Candidate, error) {
	candidates, err := s.repos.RefreshTokens(s.db).FindActiveCandidates(ctx, now, s.candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("error loading refresh token candidates: %w", err)
	}

	for i := range candidates {
		if s.hasher.Verify(rawToken, candidates[i].TokenHash) {
			return &candidates[i], nil
		}
	}
	return nil, common.ErrInvalidRefreshToken
}

// issueTokens signs an access token and persists a new refresh token for
// user, returning the raw refresh secret. db may be a transaction handle.
func (s *AuthService) issueTokens(ctx context.Context, db dbx.DBTX, user *models.User) (*AuthResult, error) {
	accessToken, err := s.minter.Sign(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error signing access token: %w", err)
	}

	// Two concatenated v4 UUIDs give 244 bits of randomness for the secret.
	rawToken := uuid.NewString() + "-" + uuid.NewString()

	tokenHash, err := s.hasher.Hash(rawToken)
	if err != nil {
		return nil, fmt.Errorf("error hashing refresh token: %w", err)
	}

	expiresAt := s.now().Add(s.refreshValidity)
	if err := s.repos.RefreshTokens(db).Create(ctx, user.ID, tokenHash, expiresAt); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: rawToken,
		User:         user,
	}, nil
}

// validatePassword enforces the password policy. Rules are checked in a
// fixed order and the first failure names its rule.
func validatePassword(pass string) error {
	if len(pass) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", common.ErrWeakPassword)
	}
	if !strings.ContainsFunc(pass, unicode.IsUpper) {
		return fmt.Errorf("%w: password must contain at least one uppercase letter", common.ErrWeakPassword)
	}
	if !strings.ContainsFunc(pass, unicode.IsLower) {
		return fmt.Errorf("%w: password must contain at least one lowercase letter", common.ErrWeakPassword)
	}
	if !strings.ContainsFunc(pass, unicode.IsDigit) {
		return fmt.Errorf("%w: password must contain at least one number", common.ErrWeakPassword)
	}
	return nil
}
