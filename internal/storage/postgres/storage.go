package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rinesakuci/campus-hub/internal/models"
)

type Storage struct {
	db *sql.DB
	*UserRepository
	*SessionRepository
	*CourseRepository
	*EventRepository
	*AssignmentRepository
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		db:                   db,
		UserRepository:       NewUserRepository(db),
		SessionRepository:    NewSessionRepository(db),
		CourseRepository:     NewCourseRepository(db),
		EventRepository:      NewEventRepository(db),
		AssignmentRepository: NewAssignmentRepository(db),
	}
}

// RotateSessionTx performs the refresh rotation in a single transaction.
// The conditional revoke matches zero rows when another request already
// rotated the same value, so exactly one of two concurrent refreshes wins.
func (s *Storage) RotateSessionTx(ctx context.Context, oldHash string, newSession models.RefreshSession) (*models.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	sessionRepoTx := NewSessionRepository(tx)
	userRepoTx := NewUserRepository(tx)

	if err := sessionRepoTx.RevokeSession(ctx, oldHash, &newSession.TokenHash); err != nil {
		return nil, fmt.Errorf("revoke old session in tx: %w", err)
	}

	if _, err := sessionRepoTx.CreateSession(ctx, newSession); err != nil {
		return nil, fmt.Errorf("create new session in tx: %w", err)
	}

	user, err := userRepoTx.GetUserByID(ctx, newSession.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user by id in tx: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return user, nil
}

// DeleteUserTx revokes all of the user's refresh sessions and deletes the
// user row in one transaction.
func (s *Storage) DeleteUserTx(ctx context.Context, userID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	sessionRepoTx := NewSessionRepository(tx)
	userRepoTx := NewUserRepository(tx)

	if err := sessionRepoTx.RevokeAllUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("revoke user sessions in tx: %w", err)
	}

	if err := userRepoTx.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user in tx: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
