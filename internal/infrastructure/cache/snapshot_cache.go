// Package cache keeps the bonus snapshot feed in Redis so devices polling the
// feed do not hit postgres on every refresh.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-sales-sync/internal/config"
	"github.com/LavaJover/shvark-sales-sync/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	schemesKey     = "sales-sync:snapshot:bonus-schemes"
	motivationsKey = "sales-sync:snapshot:motivations"
)

type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotCache(cfg config.RedisCache) *RedisSnapshotCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisSnapshotCache{client: rdb, ttl: ttl}
}

func (c *RedisSnapshotCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisSnapshotCache) Close() error {
	return c.client.Close()
}

func (c *RedisSnapshotCache) GetSchemes(ctx context.Context) ([]*domain.BonusScheme, bool, error) {
	var schemes []*domain.BonusScheme
	ok, err := c.get(ctx, schemesKey, &schemes)
	return schemes, ok, err
}

func (c *RedisSnapshotCache) SetSchemes(ctx context.Context, schemes []*domain.BonusScheme) error {
	return c.set(ctx, schemesKey, schemes)
}

func (c *RedisSnapshotCache) GetMotivations(ctx context.Context) ([]*domain.Motivation, bool, error) {
	var motivations []*domain.Motivation
	ok, err := c.get(ctx, motivationsKey, &motivations)
	return motivations, ok, err
}

func (c *RedisSnapshotCache) SetMotivations(ctx context.Context, motivations []*domain.Motivation) error {
	return c.set(ctx, motivationsKey, motivations)
}

func (c *RedisSnapshotCache) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisSnapshotCache) set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
