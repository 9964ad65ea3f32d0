// Package cache provides the external key-value cache adapter of
// spec.md §6, backed by Redis. Its Get/Put shape mirrors the teacher's
// SQLDistanceCache (internal/adapters/cache/sql_distance_cache.go in the
// original delivery-routing service): a thin, tolerant-of-miss layer
// with no business logic, retargeted from a SQL table to a Redis
// key/value store per spec.md's contract.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"maritime-route-service/internal/domain"
	"maritime-route-service/internal/platform/obs"
)

const (
	routeKeyPrefix      = "routes:v1:"
	validationKeyPrefix = "validate:v1:"
	portKeyPrefix       = "port:v1:"
)

// RedisRouteCache implements ports.RouteCache over go-redis. It is safe
// for concurrent use (the underlying client is).
type RedisRouteCache struct {
	client *redis.Client
}

func NewRedisRouteCache(client *redis.Client) *RedisRouteCache {
	return &RedisRouteCache{client: client}
}

// GetRoute fetches a previously stored RouteResponse. A cache miss is
// reported as (nil, false, nil), never an error — callers degrade to a
// fresh computation.
func (c *RedisRouteCache) GetRoute(ctx context.Context, fingerprint string) (_ *domain.RouteResponse, _ bool, err error) {
	defer obs.Time(ctx, "cache.GetRoute")(&err)

	raw, err := c.client.Get(ctx, routeKeyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: %w", err)
	}

	var resp domain.RouteResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("get route cache: decode: %w", err)
	}
	resp.CacheHit = true
	return &resp, true, nil
}

// PutRoute stores resp under fingerprint with the given TTL. The stored
// copy always carries cache_hit=false, per spec.md §6 ("cache_hit flag
// cleared on write").
func (c *RedisRouteCache) PutRoute(ctx context.Context, fingerprint string, resp domain.RouteResponse, ttl time.Duration) error {
	resp.CacheHit = false

	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("put route cache: encode: %w", err)
	}

	if err := c.client.Set(ctx, routeKeyPrefix+fingerprint, raw, ttl).Err(); err != nil {
		return fmt.Errorf("put route cache: %w", err)
	}
	return nil
}

// GetValidation fetches a cached validation outcome (true = request was
// valid). A miss reports (false, false, nil).
func (c *RedisRouteCache) GetValidation(ctx context.Context, fingerprint string) (bool, bool, error) {
	raw, err := c.client.Get(ctx, validationKeyPrefix+fingerprint).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("get validation cache: %w", err)
	}
	return raw == "1", true, nil
}

// PutValidation stores a validation outcome under fingerprint.
func (c *RedisRouteCache) PutValidation(ctx context.Context, fingerprint string, ok bool, ttl time.Duration) error {
	v := "0"
	if ok {
		v = "1"
	}
	if err := c.client.Set(ctx, validationKeyPrefix+fingerprint, v, ttl).Err(); err != nil {
		return fmt.Errorf("put validation cache: %w", err)
	}
	return nil
}

// GetPort fetches a previously cached Port by UN/LOCODE.
func (c *RedisRouteCache) GetPort(ctx context.Context, code string) (_ *domain.Port, _ bool, err error) {
	defer obs.Time(ctx, "cache.GetPort")(&err)

	raw, err := c.client.Get(ctx, portKeyPrefix+code).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get port cache: %w", err)
	}

	var port domain.Port
	if err := json.Unmarshal(raw, &port); err != nil {
		return nil, false, fmt.Errorf("get port cache: decode: %w", err)
	}
	return &port, true, nil
}

// PutPort stores port under code with the given TTL.
func (c *RedisRouteCache) PutPort(ctx context.Context, code string, port domain.Port, ttl time.Duration) error {
	raw, err := json.Marshal(port)
	if err != nil {
		return fmt.Errorf("put port cache: encode: %w", err)
	}
	if err := c.client.Set(ctx, portKeyPrefix+code, raw, ttl).Err(); err != nil {
		return fmt.Errorf("put port cache: %w", err)
	}
	return nil
}
