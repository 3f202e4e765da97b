package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/yigit/coursescope/internal/app/models"
)

// Per-course keys never collide with allSemestersKey, whatever the course name.
const (
	semesterKeyPrefix       = "semesters:"
	allSemestersKey         = semesterKeyPrefix + "all"
	courseSemesterKeyPrefix = semesterKeyPrefix + "course:"
)

// GradeStore is the store decorated by SemesterCache
type GradeStore interface {
	DistinctSemesters(ctx context.Context, courseName *string) ([]string, error)
	FindCourse(ctx context.Context, name string) (*models.Course, error)
	FindGradeRecord(ctx context.Context, filter models.GradeFilter) (*models.Grade, error)
	ListGradeRecords(ctx context.Context, filter models.GradeFilter) ([]*models.Grade, error)
}

// SemesterCache caches DistinctSemesters in Redis and forwards every other
// call to the wrapped store. Redis failures fall through to the store.
type SemesterCache struct {
	GradeStore
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewSemesterCache wraps store with a read-through semester cache
func NewSemesterCache(store GradeStore, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *SemesterCache {
	return &SemesterCache{
		GradeStore: store,
		client:     client,
		ttl:        ttl,
		logger:     logger,
	}
}

func semesterKey(courseName *string) string {
	if courseName == nil {
		return allSemestersKey
	}
	return courseSemesterKeyPrefix + *courseName
}

// DistinctSemesters returns the cached list when present, otherwise loads and caches it
func (c *SemesterCache) DistinctSemesters(ctx context.Context, courseName *string) ([]string, error) {
	key := semesterKey(courseName)

	cached, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var semesters []string
		jsonErr := json.Unmarshal(cached, &semesters)
		if jsonErr == nil {
			return semesters, nil
		}
		c.logger.Warn().Err(jsonErr).Str("key", key).Msg("Discarding malformed cached semesters")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Str("key", key).Msg("Semester cache read failed")
	}

	semesters, err := c.GradeStore.DistinctSemesters(ctx, courseName)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(semesters)
	if err == nil {
		err = c.client.Set(ctx, key, payload, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Semester cache write failed")
	}

	return semesters, nil
}

// Invalidate drops every cached semester list
func (c *SemesterCache) Invalidate(ctx context.Context) error {
	return InvalidateSemesters(ctx, c.client)
}

// InvalidateSemesters deletes all semester cache keys from client
func InvalidateSemesters(ctx context.Context, client *redis.Client) error {
	iter := client.Scan(ctx, 0, semesterKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan semester cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete semester cache keys: %w", err)
	}

	return nil
}
