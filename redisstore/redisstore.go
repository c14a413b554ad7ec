// Package redisstore provides a Redis-backed storage adapter for the
// hostedauth session cache, for native and server-side hosts that need
// sessions to survive process restarts or to be shared across instances.
package redisstore

import (
	"context"
	"errors"

	"github.com/hashicorp/go-hclog"
	"github.com/redis/go-redis/v9"

	"github.com/ddotx/hostedauth"
)

// Storage adapts a Redis client to the hostedauth.Storage capability. The
// storage contract is degrade-not-fail: a Redis failure surfaces as an absent
// key on reads and is logged, never returned, so a flaky medium behaves like
// an empty cache and forces a fresh sign-in instead of an error.
type Storage struct {
	client *redis.Client
	logger hclog.Logger
}

// ensure that Storage implements the hostedauth.Storage interface
var _ hostedauth.Storage = (*Storage)(nil)

// Option defines a common functional options type
type Option func(*Storage)

// WithLogger provides an optional logger for the adapter.
func WithLogger(l hclog.Logger) Option {
	return func(s *Storage) {
		s.logger = l
	}
}

// New creates a Storage over the given Redis client.
func New(client *redis.Client, opt ...Option) (*Storage, error) {
	if client == nil {
		return nil, errors.New("redisstore.New: redis client is nil")
	}
	s := &Storage{
		client: client,
		logger: hclog.NewNullLogger(),
	}
	for _, o := range opt {
		o(s)
	}
	return s, nil
}

// Get implements hostedauth.Storage.
func (s *Storage) Get(key string) (string, bool) {
	v, err := s.client.Get(context.Background(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("redis get failed", "key", key, "error", err)
		return "", false
	}
	return v, true
}

// Set implements hostedauth.Storage. Entries carry no TTL; the session cache
// owns their lifecycle through its clear operation.
func (s *Storage) Set(key, value string) {
	if err := s.client.Set(context.Background(), key, value, 0).Err(); err != nil {
		s.logger.Warn("redis set failed", "key", key, "error", err)
	}
}

// Remove implements hostedauth.Storage.
func (s *Storage) Remove(key string) {
	if err := s.client.Del(context.Background(), key).Err(); err != nil {
		s.logger.Warn("redis del failed", "key", key, "error", err)
	}
}
