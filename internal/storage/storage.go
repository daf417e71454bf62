package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rinesakuci/campus-hub/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Storage interface {
	UserRepository
	SessionRepository
	CourseRepository
	EventRepository
	AssignmentRepository

	// RotateSessionTx atomically revokes the session identified by oldHash
	// (pointing it at newSession's hash), inserts newSession, and returns the
	// owning user. Returns ErrSessionNotFound when the old session is already
	// revoked or absent, which is what makes concurrent rotation single-winner.
	RotateSessionTx(ctx context.Context, oldHash string, newSession models.RefreshSession) (*models.User, error)

	// DeleteUserTx revokes every outstanding session for the user and then
	// deletes the user row, in one transaction.
	DeleteUserTx(ctx context.Context, userID int64) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, query string) ([]models.PublicUser, error)
	UpdateUser(ctx context.Context, id int64, upd models.UpdateUserRequest) (*models.User, error)
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session models.RefreshSession) (int64, error)
	GetActiveSessionByHash(ctx context.Context, tokenHash string) (*models.RefreshSession, error)
	// RevokeSession marks the session revoked only if it is still active and
	// returns ErrSessionNotFound when no active row matched.
	RevokeSession(ctx context.Context, tokenHash string, replacedByHash *string) error
	RevokeAllUserSessions(ctx context.Context, userID int64) error
}

type CourseRepository interface {
	CreateCourse(ctx context.Context, course models.Course) (*models.Course, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
}

type EventRepository interface {
	CreateEvent(ctx context.Context, event models.Event) (*models.Event, error)
	ListEvents(ctx context.Context, courseID *int64) ([]models.Event, error)
}

type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, assignment models.Assignment) (*models.Assignment, error)
	GetAssignmentByID(ctx context.Context, id int64) (*models.Assignment, error)
	ListAssignments(ctx context.Context) ([]models.Assignment, error)
	ListAssignmentsByCourse(ctx context.Context, courseID int64) ([]models.Assignment, error)
}

// DocumentStorage covers the document-store side: comments and notifications.
type DocumentStorage interface {
	CommentRepository
	NotificationRepository
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error)
	ListComments(ctx context.Context, entityType models.EntityType, entityID int64, limit int64) ([]models.Comment, error)
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, n models.Notification) (*models.Notification, error)
	// ListNotificationsForUser returns broadcasts plus the user's own items,
	// newest first.
	ListNotificationsForUser(ctx context.Context, userID int64, limit int64) ([]models.Notification, error)
}
