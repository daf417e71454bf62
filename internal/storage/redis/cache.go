package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rinesakuci/campus-hub/internal/models"
)

const (
	coursesCacheKey = "courses:all"
	coursesCacheTTL = 5 * time.Minute
)

// CourseCache is a read-through cache for the course catalog. Misses and
// marshal failures fall back to the relational store.
type CourseCache struct {
	client *redis.Client
}

func NewCourseCache(client *redis.Client) *CourseCache {
	return &CourseCache{client: client}
}

func (c *CourseCache) GetCourses(ctx context.Context) ([]models.Course, bool, error) {
	payload, err := c.client.Get(ctx, coursesCacheKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	var courses []models.Course
	if err := json.Unmarshal(payload, &courses); err != nil {
		return nil, false, err
	}
	return courses, true, nil
}

func (c *CourseCache) SetCourses(ctx context.Context, courses []models.Course) error {
	payload, err := json.Marshal(courses)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, coursesCacheKey, payload, coursesCacheTTL).Err()
}

// Invalidate drops the cached catalog after a mutation.
func (c *CourseCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, coursesCacheKey).Err()
}
