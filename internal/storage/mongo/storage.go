package mongo

import (
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	commentsCollection      = "comments"
	notificationsCollection = "notifications"
)

// Storage is the document-store counterpart of the relational storage. The
// relational user ids stored here are references by value; nothing enforces
// them.
type Storage struct {
	*CommentRepository
	*NotificationRepository
}

func NewStorage(db *mongo.Database) *Storage {
	return &Storage{
		CommentRepository:      NewCommentRepository(db.Collection(commentsCollection)),
		NotificationRepository: NewNotificationRepository(db.Collection(notificationsCollection)),
	}
}
