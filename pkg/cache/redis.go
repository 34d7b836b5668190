// pkg/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"quiz-platform/internal/models"
	"quiz-platform/pkg/logger"
)

const questionStatsKey = "stats:questions"

type StatsLoader func(ctx context.Context) (models.QuestionStats, error)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisCacheWithClient(client, ttl)
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// QuestionStats serves the catalogue totals from Redis and calls load on a miss.
// Concurrent misses share one load. Redis failures fall through to load.
func (c *RedisCache) QuestionStats(ctx context.Context, load StatsLoader) (models.QuestionStats, error) {
	if stats, ok := c.getStats(ctx); ok {
		return stats, nil
	}

	// Waiters share this load; it ignores the cancellation of the caller that started it.
	shared := context.WithoutCancel(ctx)
	result, err, _ := c.sf.Do(questionStatsKey, func() (interface{}, error) {
		if stats, ok := c.getStats(shared); ok {
			return stats, nil
		}

		stats, err := load(shared)
		if err != nil {
			return models.QuestionStats{}, err
		}

		data, err := json.Marshal(stats)
		if err == nil {
			err = c.client.Set(shared, questionStatsKey, data, c.ttl).Err()
		}
		if err != nil {
			logger.Log.Warn("Failed to cache question stats", zap.Error(err))
		}
		return stats, nil
	})
	if err != nil {
		return models.QuestionStats{}, err
	}
	return result.(models.QuestionStats), nil
}

func (c *RedisCache) getStats(ctx context.Context) (models.QuestionStats, bool) {
	data, err := c.client.Get(ctx, questionStatsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("Failed to read question stats from cache", zap.Error(err))
		}
		return models.QuestionStats{}, false
	}

	var stats models.QuestionStats
	if err := json.Unmarshal(data, &stats); err != nil {
		logger.Log.Warn("Discarding malformed question stats cache entry", zap.Error(err))
		return models.QuestionStats{}, false
	}
	return stats, true
}
