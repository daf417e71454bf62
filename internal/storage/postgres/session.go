package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rinesakuci/campus-hub/internal/models"
	"github.com/rinesakuci/campus-hub/internal/storage"
)

type SessionRepository struct {
	db storage.DBTX
}

func NewSessionRepository(db storage.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) CreateSession(ctx context.Context, session models.RefreshSession) (int64, error) {
	query := `INSERT INTO refresh_sessions (user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	err := r.db.QueryRowContext(
		ctx,
		query,
		session.UserID,
		session.TokenHash,
		session.ExpiresAt,
		session.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}
	return id, nil
}

func (r *SessionRepository) GetActiveSessionByHash(ctx context.Context, tokenHash string) (*models.RefreshSession, error) {
	var session models.RefreshSession
	query := `SELECT id, user_id, token_hash, expires_at, created_at, revoked_at, replaced_by_token_hash
		FROM refresh_sessions WHERE token_hash = $1 AND revoked_at IS NULL`
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.RevokedAt,
		&session.ReplacedByTokenHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// RevokeSession is a conditional update: it only touches a still-active row.
// Zero matched rows means the session was already rotated, revoked, or never
// existed, and surfaces as ErrSessionNotFound.
func (r *SessionRepository) RevokeSession(ctx context.Context, tokenHash string, replacedByHash *string) error {
	query := `UPDATE refresh_sessions
		SET revoked_at = NOW(), replaced_by_token_hash = $2
		WHERE token_hash = $1 AND revoked_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, tokenHash, replacedByHash)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) RevokeAllUserSessions(ctx context.Context, userID int64) error {
	query := `UPDATE refresh_sessions SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}
	return nil
}
