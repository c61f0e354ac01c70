package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wellness/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	foodCachePrefix     = "wellness:food-item:"
	exerciseCachePrefix = "wellness:exercise-activity:"
)

// CachedItemStore puts Redis in front of another ResolvedItemStore. Resolved
// items never change, so entries only expire by TTL. Redis failures are
// logged and the call falls through to the wrapped store.
type CachedItemStore struct {
	next ResolvedItemStore
	rdb  *redis.Client
	ttl  time.Duration
	log  *zap.Logger
}

func NewCachedItemStore(next ResolvedItemStore, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedItemStore {
	return &CachedItemStore{next: next, rdb: rdb, ttl: ttl, log: log}
}

func (s *CachedItemStore) FindFoodItemByKey(ctx context.Context, key string) (*models.FoodItem, error) {
	return cachedFind(ctx, s, foodCachePrefix+key, func() (*models.FoodItem, error) {
		return s.next.FindFoodItemByKey(ctx, key)
	})
}

func (s *CachedItemStore) CreateFoodItem(ctx context.Context, item *models.FoodItem) error {
	if err := s.next.CreateFoodItem(ctx, item); err != nil {
		return err
	}
	s.store(ctx, foodCachePrefix+item.Key, item)
	return nil
}

func (s *CachedItemStore) FindExerciseActivityByKey(ctx context.Context, key string) (*models.ExerciseActivity, error) {
	return cachedFind(ctx, s, exerciseCachePrefix+key, func() (*models.ExerciseActivity, error) {
		return s.next.FindExerciseActivityByKey(ctx, key)
	})
}

func (s *CachedItemStore) CreateExerciseActivity(ctx context.Context, activity *models.ExerciseActivity) error {
	if err := s.next.CreateExerciseActivity(ctx, activity); err != nil {
		return err
	}
	s.store(ctx, exerciseCachePrefix+activity.Key, activity)
	return nil
}

func cachedFind[T any](ctx context.Context, s *CachedItemStore, cacheKey string, load func() (*T, error)) (*T, error) {
	b, err := s.rdb.Get(ctx, cacheKey).Bytes()
	switch {
	case err == nil:
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return &v, nil
		}
		s.log.Warn("discarding undecodable cache entry", zap.String("key", cacheKey))
	case !errors.Is(err, redis.Nil):
		s.log.Warn("redis get failed", zap.String("key", cacheKey), zap.Error(err))
	}

	v, err := load()
	if err != nil {
		return nil, err
	}
	s.store(ctx, cacheKey, v)
	return v, nil
}

func (s *CachedItemStore) store(ctx context.Context, cacheKey string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, cacheKey, b, s.ttl).Err(); err != nil {
		s.log.Warn("redis set failed", zap.String("key", cacheKey), zap.Error(err))
	}
}
