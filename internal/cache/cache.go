// Package cache stores computed readouts keyed by instrument and request.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines the cache operations used by the server.
type Service interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Backend names accepted by New.
const (
	BackendMemory  = "memory"
	BackendRedis   = "redis"
	BackendLayered = "layered"
	BackendNone    = "none"
)

// New builds the cache for a backend name. BackendNone returns a nil Service.
func New(backend string, redisOpts []RedisOption, memOpts ...MemoryOption) (Service, error) {
	switch backend {
	case BackendNone, "":
		return nil, nil
	case BackendMemory:
		return NewMemoryCache(memOpts...), nil
	case BackendRedis:
		rc, err := NewRedisCache(redisOpts...)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case BackendLayered:
		rc, err := NewRedisCache(redisOpts...)
		if err != nil {
			return nil, err
		}
		return NewLayeredCache(rc, memOpts...), nil
	default:
		return nil, errors.New("cache: unknown backend " + backend)
	}
}
