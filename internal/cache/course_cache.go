package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nishtha/internal/model"
)

// CourseCache keeps generated course plans hot by video id
type CourseCache interface {
	Set(ctx context.Context, course *model.Course) error
	Get(ctx context.Context, videoID string) (*model.Course, error)
	Delete(ctx context.Context, videoID string) error
}

type courseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCourseCache creates a new course cache
func NewCourseCache(client *redis.Client) CourseCache {
	return &courseCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *courseCache) key(videoID string) string {
	return fmt.Sprintf("course:%s", videoID)
}

func (c *courseCache) Set(ctx context.Context, course *model.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(course.VideoID), data, c.ttl).Err()
}

func (c *courseCache) Get(ctx context.Context, videoID string) (*model.Course, error) {
	data, err := c.client.Get(ctx, c.key(videoID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var course model.Course
	if err := json.Unmarshal([]byte(data), &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *courseCache) Delete(ctx context.Context, videoID string) error {
	return c.client.Del(ctx, c.key(videoID)).Err()
}
