// Package cache wraps read models with a Redis read-through cache.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/protocol-blackout/internal/domain/entity"
	repo "github.com/oksasatya/protocol-blackout/internal/domain/repository"
	"github.com/oksasatya/protocol-blackout/pkg/helpers"
)

const (
	questionsKeyPrefix = "catalog:questions:"
	targetsKey         = "catalog:password-targets"
)

func questionsKey(category string) string {
	if category == "" {
		return questionsKeyPrefix + "all"
	}
	return questionsKeyPrefix + category
}

// CatalogCache serves CatalogRepository reads from Redis when possible.
// Redis errors fall through to the wrapped repository.
type CatalogCache struct {
	next   repo.CatalogRepository
	rdb    redis.Cmdable
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewCatalogCache(next repo.CatalogRepository, rdb redis.Cmdable, ttl time.Duration, logger logrus.FieldLogger) *CatalogCache {
	return &CatalogCache{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CatalogCache) ListQuestions(ctx context.Context, category string) ([]entity.Question, error) {
	return readThrough(ctx, c, questionsKey(category), func(ctx context.Context) ([]entity.Question, error) {
		return c.next.ListQuestions(ctx, category)
	})
}

func (c *CatalogCache) ListPasswordTargets(ctx context.Context) ([]entity.PasswordTarget, error) {
	return readThrough(ctx, c, targetsKey, c.next.ListPasswordTargets)
}

// Invalidate drops every cached catalog entry. The seeder calls it after writing.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	keys, err := c.rdb.Keys(ctx, questionsKeyPrefix+"*").Result()
	if err != nil {
		return err
	}
	return helpers.RedisDel(ctx, c.rdb, append(keys, targetsKey)...)
}

func readThrough[T any](ctx context.Context, c *CatalogCache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var cached []T
	hit, err := helpers.RedisGetJSON(ctx, c.rdb, key, &cached)
	if err != nil {
		helpers.LogWarn(c.logger, "catalog cache read failed", err, logrus.Fields{"key": key})
	} else if hit {
		return cached, nil
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := helpers.RedisSetJSON(ctx, c.rdb, key, out, c.ttl); err != nil {
		helpers.LogWarn(c.logger, "catalog cache write failed", err, logrus.Fields{"key": key})
	}
	return out, nil
}

var _ repo.CatalogRepository = (*CatalogCache)(nil)
