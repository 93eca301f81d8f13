// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis connects the widget server to the Redis instance shared by its replicas.

The widget server keeps nothing durable. Redis holds the descriptors of mounted
widget sessions so that any replica can rehydrate a session after a restart or
a registry eviction. Every key written through it carries a TTL.
*/
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout = 3 * time.Second
	ioTimeout   = 2 * time.Second
	pingTimeout = 2 * time.Second

	// DefaultPoolSize fits one descriptor read or touch per widget event.
	DefaultPoolSize = 10
)

// Options configures [NewClient].
type Options struct {
	// URL is a redis:// or rediss:// connection URL.
	URL string
	// PoolSize overrides [DefaultPoolSize] when positive.
	PoolSize int
}

/*
NewClient opens a pooled client and checks it answers before returning.

Errors:
  - Invalid URL
  - Redis did not answer PING within the ping timeout
*/
func NewClient(ctx context.Context, opts Options, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = DefaultPoolSize
	if opts.PoolSize > 0 {
		options.PoolSize = opts.PoolSize
	}
	options.MinIdleConns = options.PoolSize / 5
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	client := redis.NewClient(options)
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)
	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(ctx context.Context, client *redis.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}

// Close releases the pool, logging instead of returning the error.
func Close(client *redis.Client, logger *slog.Logger) {
	logger.Info("redis_closing")
	if err := client.Close(); err != nil {
		logger.Error("redis_close_failed", slog.Any("error", err))
	}
}
