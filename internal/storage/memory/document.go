package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/rinesakuci/campus-hub/internal/models"
)

// DocumentStorage is an in-memory stand-in for the Mongo-backed comment and
// notification repositories.
type DocumentStorage struct {
	mu            sync.Mutex
	comments      []models.Comment
	notifications []models.Notification
}

func NewDocumentStorage() *DocumentStorage {
	return &DocumentStorage{}
}

func (m *DocumentStorage) CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	comment.ID = bson.NewObjectID()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	m.comments = append(m.comments, comment)
	return &comment, nil
}

func (m *DocumentStorage) ListComments(ctx context.Context, entityType models.EntityType, entityID int64, limit int64) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	comments := []models.Comment{}
	for i := len(m.comments) - 1; i >= 0 && int64(len(comments)) < limit; i-- {
		c := m.comments[i]
		if c.EntityType == entityType && c.EntityID == entityID {
			comments = append(comments, c)
		}
	}
	return comments, nil
}

func (m *DocumentStorage) CreateNotification(ctx context.Context, n models.Notification) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n.ID = bson.NewObjectID()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	m.notifications = append(m.notifications, n)
	return &n, nil
}

func (m *DocumentStorage) ListNotificationsForUser(ctx context.Context, userID int64, limit int64) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	notifications := []models.Notification{}
	for i := len(m.notifications) - 1; i >= 0 && int64(len(notifications)) < limit; i-- {
		n := m.notifications[i]
		if n.UserID == nil || *n.UserID == userID {
			notifications = append(notifications, n)
		}
	}
	return notifications, nil
}
