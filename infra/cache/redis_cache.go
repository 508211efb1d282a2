package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/casevault/casevault/pkg/cache"
	"github.com/casevault/casevault/pkg/config"
	"github.com/casevault/casevault/pkg/domain/document"
	"github.com/redis/go-redis/v9"
)

// RedisDocumentCache stores documents as JSON under prefix+key.
type RedisDocumentCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

func NewRedisDocumentCache(
	client *redis.Client,
	prefix string,
	logger *slog.Logger,
) *RedisDocumentCache {
	return &RedisDocumentCache{client: client, prefix: prefix, logger: logger}
}

// NewRedisClient builds a client from REDIS_URL and the pool settings.
func NewRedisClient(cfg *config.Redis) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout
	return redis.NewClient(opt), nil
}

func (r *RedisDocumentCache) key(key string) string {
	return r.prefix + key
}

func (r *RedisDocumentCache) Get(ctx context.Context, key string) (*document.Document, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "key", key)
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "key", key, "error", err)
		return nil, err
	}
	var doc document.Document
	if err := json.Unmarshal(val, &doc); err != nil {
		r.logger.Error("Redis cache unmarshal error", "key", key, "error", err)
		return nil, err
	}
	r.logger.Debug("Redis cache hit", "key", key)
	return &doc, nil
}

func (r *RedisDocumentCache) Set(
	ctx context.Context,
	key string,
	doc *document.Document,
	ttl time.Duration,
) error {
	data, err := json.Marshal(doc)
	if err != nil {
		r.logger.Error("Redis cache marshal error", "key", key, "error", err)
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "key", key, "ttl", ttl)
	return nil
}

func (r *RedisDocumentCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache delete", "key", key)
	return nil
}

var _ cache.DocumentCache = (*RedisDocumentCache)(nil)
