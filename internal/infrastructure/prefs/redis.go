// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisAddr   = "localhost:6379"
	defaultRedisPrefix = "geocatalog:prefs"
	expandedFacetsKey  = "facets:expanded"
)

// RedisClient is the subset of the redis client the store needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore shares preferences between clients through Redis
type RedisStore struct {
	client RedisClient
	prefix string
}

var _ port.PreferenceStore = (*RedisStore)(nil)

// NewRedisStore connects to addr and checks the connection.
func NewRedisStore(ctx context.Context, addr, prefix string) (*RedisStore, error) {
	if addr == "" {
		addr = defaultRedisAddr
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return NewRedisStoreWithClient(client, prefix), nil
}

// NewRedisStoreWithClient builds a store on an existing client.
func NewRedisStoreWithClient(client RedisClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(name string) string {
	return s.prefix + ":" + name
}

// ExpandedFacets reads the expanded accordion facets.
func (s *RedisStore) ExpandedFacets(ctx context.Context) ([]string, error) {
	raw, err := s.client.Get(ctx, s.key(expandedFacetsKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read expanded facets: %w", err)
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("decode expanded facets: %w", err)
	}
	return names, nil
}

// SetExpandedFacets replaces the expanded accordion facets.
func (s *RedisStore) SetExpandedFacets(ctx context.Context, names []string) error {
	raw, err := json.Marshal(normalize(names))
	if err != nil {
		return fmt.Errorf("encode expanded facets: %w", err)
	}
	if err := s.client.Set(ctx, s.key(expandedFacetsKey), raw, 0).Err(); err != nil {
		return fmt.Errorf("write expanded facets: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
