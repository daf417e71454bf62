package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type EntityType string

const (
	EntityEvent      EntityType = "event"
	EntityAssignment EntityType = "assignment"
)

func (t EntityType) Valid() bool {
	return t == EntityEvent || t == EntityAssignment
}

// Comment lives in the document store. UserID references a relational user
// by value; neither store enforces the reference.
type Comment struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	EntityType EntityType    `bson:"entityType" json:"entityType"`
	EntityID   int64         `bson:"entityId" json:"entityId"`
	UserID     int64         `bson:"userId" json:"userId"`
	AuthorName string        `bson:"authorName" json:"authorName"`
	Text       string        `bson:"text" json:"text"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
}

// Notification with a nil UserID is a broadcast visible to everyone.
type Notification struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    *int64        `bson:"userId,omitempty" json:"userId,omitempty"`
	Title     string        `bson:"title" json:"title"`
	Message   string        `bson:"message" json:"message"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

type CreateCommentRequest struct {
	EntityType EntityType `json:"entityType"`
	EntityID   int64      `json:"entityId"`
	Text       string     `json:"text"`
}

type CreateNotificationRequest struct {
	UserID  *int64 `json:"userId"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
