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

type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(col *mongo.Collection) *CommentRepository {
	return &CommentRepository{col: col}
}

func (r *CommentRepository) CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	res, err := r.col.InsertOne(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		comment.ID = id
	}
	return &comment, nil
}

func (r *CommentRepository) ListComments(ctx context.Context, entityType models.EntityType, entityID int64, limit int64) ([]models.Comment, error) {
	filter := bson.M{"entityType": entityType, "entityId": entityID}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}
