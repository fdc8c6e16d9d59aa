package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/eslsoft/islamic-sources/internal/core"
	"github.com/eslsoft/islamic-sources/internal/platform/logger"
)

const courseKeyPrefix = "course:detail:"

// store is the subset of the redis client used by the cache.
type store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CourseCache keeps course detail documents in redis. Failures are logged and
// treated as misses so reads fall through to the database.
type CourseCache struct {
	client store
	ttl    time.Duration
	log    *logger.Logger
}

// NewCourseCache constructs a redis-backed course cache.
func NewCourseCache(client store, ttl time.Duration, log *logger.Logger) *CourseCache {
	return &CourseCache{client: client, ttl: ttl, log: log.With("component", "course_cache")}
}

var _ core.CourseCache = (*CourseCache)(nil)

func courseKey(id uuid.UUID) string {
	return courseKeyPrefix + id.String()
}

// GetCourse returns the cached course for id.
func (c *CourseCache) GetCourse(ctx context.Context, id uuid.UUID) (*core.Course, bool) {
	raw, err := c.client.Get(ctx, courseKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("course cache read failed", "course_id", id, "error", err)
		return nil, false
	}
	var course core.Course
	if err := json.Unmarshal(raw, &course); err != nil {
		c.log.Warn("course cache entry is corrupt", "course_id", id, "error", err)
		c.Invalidate(ctx, id)
		return nil, false
	}
	return &course, true
}

// SetCourse stores course until the configured ttl elapses.
func (c *CourseCache) SetCourse(ctx context.Context, course *core.Course) {
	if course == nil {
		return
	}
	raw, err := json.Marshal(course)
	if err != nil {
		c.log.Warn("course cache encode failed", "course_id", course.ID, "error", err)
		return
	}
	if err := c.client.Set(ctx, courseKey(course.ID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("course cache write failed", "course_id", course.ID, "error", err)
	}
}

// Invalidate drops the cached course for id.
func (c *CourseCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, courseKey(id)).Err(); err != nil {
		c.log.Warn("course cache invalidation failed", "course_id", id, "error", err)
	}
}

// Noop is used when no redis is configured.
type Noop struct{}

var _ core.CourseCache = Noop{}

func (Noop) GetCourse(context.Context, uuid.UUID) (*core.Course, bool) { return nil, false }
func (Noop) SetCourse(context.Context, *core.Course)                   {}
func (Noop) Invalidate(context.Context, uuid.UUID)                     {}
