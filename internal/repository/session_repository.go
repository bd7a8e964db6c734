package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SessionRepo persists issued session ids so that logout can revoke a
// still-unexpired signed cookie.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Store inserts a session row.
func (r *SessionRepo) Store(ctx context.Context, id string, userID uint64, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (id, user_id, expires_at) VALUES (?,?,?)",
		id, userID, exp.UTC())
	return err
}

// IsActive reports whether a non-revoked, non-expired session exists.
func (r *SessionRepo) IsActive(ctx context.Context, id string, now time.Time) (bool, error) {
	var (
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT expires_at, revoked_at FROM sessions WHERE id=? LIMIT 1",
		id).Scan(&expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if revokedAt.Valid || !now.UTC().Before(expiresAt) {
		return false, nil
	}
	return true, nil
}

// Revoke marks a session as ended.  Revoking an unknown or already
// revoked session is not an error.
func (r *SessionRepo) Revoke(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked_at=UTC_TIMESTAMP() WHERE id=? AND revoked_at IS NULL",
		id)
	return err
}
