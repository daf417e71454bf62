package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/rinesakuci/campus-hub/internal/models"
)

type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(col *mongo.Collection) *NotificationRepository {
	return &NotificationRepository{col: col}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n models.Notification) (*models.Notification, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	res, err := r.col.InsertOne(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		n.ID = id
	}
	return &n, nil
}

func (r *NotificationRepository) ListNotificationsForUser(ctx context.Context, userID int64, limit int64) ([]models.Notification, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"userId": userID},
		bson.M{"userId": bson.M{"$exists": false}},
		bson.M{"userId": nil},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}
