package store

import (
	"context"
	"errors"

	backend "github.com/redis/go-redis/v9"
)

// RedisBackend stores values in Redis, for dashboards served from multiple
// instances that need to share saved layouts.
type RedisBackend struct {
	client *backend.Client
	prefix string
}

// RedisOption configures a RedisBackend.
type RedisOption func(*RedisBackend)

// WithRedisPrefix sets the key prefix. The default is "gridkit:layout:".
func WithRedisPrefix(prefix string) RedisOption {
	return func(b *RedisBackend) { b.prefix = prefix }
}

// NewRedisBackend creates a backend connected to the given address.
func NewRedisBackend(addr, password string, db int, opts ...RedisOption) *RedisBackend {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisBackendFromClient(client, opts...)
}

// NewRedisBackendFromClient wraps an existing Redis client.
func NewRedisBackendFromClient(client *backend.Client, opts ...RedisOption) *RedisBackend {
	b := &RedisBackend{client: client, prefix: "gridkit:layout:"}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Get retrieves a value. A missing key is a miss, not an error.
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := b.client.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, backend.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value without expiration. Layouts are tiny and long-lived;
// staleness is handled by validation at load time, not TTLs.
func (b *RedisBackend) Set(ctx context.Context, key string, data []byte) error {
	return b.client.Set(ctx, b.prefix+key, data, 0).Err()
}

// Delete removes a value.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, b.prefix+key).Err()
}

// Close closes the underlying client.
func (b *RedisBackend) Close() error { return b.client.Close() }

// Ensure RedisBackend implements Backend.
var _ Backend = (*RedisBackend)(nil)
