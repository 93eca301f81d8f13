// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yomira-widgets/internal/platform/apperr"
	"github.com/taibuivan/yomira-widgets/internal/platform/constants"
	redisstore "github.com/taibuivan/yomira-widgets/internal/platform/redis"
)

// Store persists session descriptors with a TTL.
type Store interface {
	Save(ctx context.Context, descriptor Descriptor, ttl time.Duration) error
	// Load returns apperr NOT_FOUND when id is unknown or expired.
	Load(ctx context.Context, id string) (Descriptor, error)
	Touch(ctx context.Context, id string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// # Redis

// RedisStore keeps descriptors as JSON strings under [constants.RedisPrefixSession].
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// SessionKey is the Redis key of session id.
func SessionKey(id string) string {
	return constants.RedisPrefixSession + id
}

// Save implements [Store].
func (store *RedisStore) Save(ctx context.Context, descriptor Descriptor, ttl time.Duration) error {
	payload, err := json.Marshal(descriptor)
	if err != nil {
		return fmt.Errorf("page: encode session: %w", err)
	}
	if err := store.client.Set(ctx, SessionKey(descriptor.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("page: save session: %w", err)
	}
	return nil
}

// Load implements [Store].
func (store *RedisStore) Load(ctx context.Context, id string) (Descriptor, error) {
	payload, err := store.client.Get(ctx, SessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Descriptor{}, apperr.NotFound("Widget session")
	}
	if err != nil {
		return Descriptor{}, fmt.Errorf("page: load session: %w", err)
	}

	var descriptor Descriptor
	if err := json.Unmarshal(payload, &descriptor); err != nil {
		return Descriptor{}, fmt.Errorf("page: decode session: %w", err)
	}
	return descriptor, nil
}

// Touch implements [Store].
func (store *RedisStore) Touch(ctx context.Context, id string, ttl time.Duration) error {
	ok, err := store.client.Expire(ctx, SessionKey(id), ttl).Result()
	if err != nil {
		return fmt.Errorf("page: touch session: %w", err)
	}
	if !ok {
		return apperr.NotFound("Widget session")
	}
	return nil
}

// Delete implements [Store].
func (store *RedisStore) Delete(ctx context.Context, id string) error {
	if err := store.client.Del(ctx, SessionKey(id)).Err(); err != nil {
		return fmt.Errorf("page: delete session: %w", err)
	}
	return nil
}

// Ping reports whether Redis answers, for readiness checks.
func (store *RedisStore) Ping(ctx context.Context) error {
	return redisstore.Ping(ctx, store.client)
}

// # Memory

type memoryEntry struct {
	descriptor Descriptor
	expires    time.Time
}

// MemoryStore is a process-local [Store], used when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty store. now may be nil.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{entries: make(map[string]memoryEntry), now: now}
}

// Save implements [Store].
func (store *MemoryStore) Save(_ context.Context, descriptor Descriptor, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.entries[descriptor.ID] = memoryEntry{descriptor: descriptor, expires: store.now().Add(ttl)}
	return nil
}

// Load implements [Store].
func (store *MemoryStore) Load(_ context.Context, id string) (Descriptor, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entry, ok := store.entries[id]
	if !ok || !store.now().Before(entry.expires) {
		delete(store.entries, id)
		return Descriptor{}, apperr.NotFound("Widget session")
	}
	return entry.descriptor, nil
}

// Touch implements [Store].
func (store *MemoryStore) Touch(_ context.Context, id string, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	entry, ok := store.entries[id]
	if !ok || !store.now().Before(entry.expires) {
		return apperr.NotFound("Widget session")
	}
	entry.expires = store.now().Add(ttl)
	store.entries[id] = entry
	return nil
}

// Delete implements [Store].
func (store *MemoryStore) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.entries, id)
	return nil
}
