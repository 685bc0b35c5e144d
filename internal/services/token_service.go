package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/flextrack/timetrack-be/internal/models"
)

// Number of random bytes in a freshly minted token.
const tokenEntropyBytes = 24

// A stored token is reused only while it has more than this much validity
// left, so rapid successive logins do not churn tokens.
const reuseWindow = 60 * time.Second

// TokenServiceProvider defines the interface for the token service.
type TokenServiceProvider interface {
	GetOrIssue(ctx context.Context, userID string) (string, error)
	Revoke(ctx context.Context, userID string) error
	Resolve(ctx context.Context, token string) (models.User, error)
}

// TokenService issues and resolves opaque bearer tokens. A user has at most
// one active token; the stored expiration timestamp is authoritative.
type TokenService struct {
	db  *sql.DB
	ttl time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewTokenService creates a new TokenService issuing tokens valid for ttl.
func NewTokenService(db *sql.DB, ttl time.Duration) *TokenService {
	return &TokenService{db: db, ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

// GetOrIssue returns the user's current token if it is valid for more than
// another minute, otherwise mints a new one and persists it. The new token
// overwrites any previous one.
func (s *TokenService) GetOrIssue(ctx context.Context, userID string) (string, error) {
	var token sql.NullString
	var expiration sql.NullTime
	row := s.db.QueryRowContext(ctx, "SELECT token, token_expiration FROM users WHERE id = ?", userID)
	if err := row.Scan(&token, &expiration); err != nil {
		if err == sql.ErrNoRows {
			return "", notFoundErr("there is no user with given id")
		}
		return "", err
	}

	now := s.now()
	if token.Valid && token.String != "" && expiration.Valid && expiration.Time.After(now.Add(reuseWindow)) {
		return token.String, nil
	}

	fresh, err := newToken()
	if err != nil {
		return "", err
	}
	expiresAt := now.Add(s.ttl)

	_, err = s.db.ExecContext(ctx, "UPDATE users SET token = ?, token_expiration = ? WHERE id = ?",
		fresh, expiresAt, userID)
	if err != nil {
		return "", err
	}
	return fresh, nil
}

// Revoke invalidates the user's token by moving its expiration into the
// past. The token value itself stays in place; only the expiration counts.
func (s *TokenService) Revoke(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE users SET token_expiration = ? WHERE id = ?",
		s.now().Add(-time.Second), userID)
	return err
}

// Resolve looks up the user owning the given token. An expired token is
// indistinguishable from a nonexistent one.
func (s *TokenService) Resolve(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, unauthorizedErr("invalid authorization token")
	}

	var user models.User
	var company, job sql.NullString
	var expiration sql.NullTime
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, email, company, job, target_time, token_expiration FROM users WHERE token = ?", token)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &company, &job, &user.TargetTime, &expiration)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, unauthorizedErr("invalid authorization token")
		}
		return models.User{}, err
	}

	// Expiration exactly at the current instant counts as expired.
	if !expiration.Valid || !expiration.Time.After(s.now()) {
		return models.User{}, unauthorizedErr("invalid authorization token")
	}

	user.Company = company.String
	user.Job = job.String
	return user, nil
}

// PurgeExpired clears token columns for tokens that expired before the
// cutoff. Housekeeping only; Resolve never trusts a stale token anyway.
func (s *TokenService) PurgeExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan)
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET token = NULL, token_expiration = NULL WHERE token_expiration IS NOT NULL AND token_expiration < ?",
		cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func newToken() (string, error) {
	b := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
