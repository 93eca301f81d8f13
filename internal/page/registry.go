// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/yomira-widgets/internal/platform/apperr"
	"github.com/taibuivan/yomira-widgets/internal/platform/constants"
	"github.com/taibuivan/yomira-widgets/internal/platform/metrics"
)

// Remounter rebuilds a session from its descriptor.
type Remounter interface {
	Remount(ctx context.Context, descriptor Descriptor) (*Session, error)
}

// Registry owns the live sessions of the process.
type Registry struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	store     Store
	ttl       time.Duration
	remounter Remounter
	logger    *slog.Logger
	now       func() time.Time
}

// NewRegistry creates a registry whose sessions expire after ttl of inactivity.
func NewRegistry(store Store, ttl time.Duration, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		store:    store,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// SetRemounter installs what rebuilds sessions missing from memory.
func (registry *Registry) SetRemounter(remounter Remounter) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.remounter = remounter
}

// SetClock replaces the time source.
func (registry *Registry) SetClock(now func() time.Time) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.now = now
}

// Register makes session live and persists its descriptor.
func (registry *Registry) Register(ctx context.Context, session *Session) error {
	if err := registry.store.Save(ctx, session.Descriptor(), registry.ttl); err != nil {
		return err
	}

	registry.mu.Lock()
	previous := registry.sessions[session.ID()]
	registry.sessions[session.ID()] = session
	session.touch(registry.now())
	count := len(registry.sessions)
	registry.mu.Unlock()

	if previous != nil && previous != session {
		previous.Destroy()
	}
	metrics.SessionsActive.Set(float64(count))
	return nil
}

/*
Get returns the live session id.

Description: A session evicted from memory, or mounted by another replica,
is rebuilt from its stored descriptor. Every hit extends the stored TTL.

Errors:
  - apperr.CodeNotFound: Unknown or expired session
*/
func (registry *Registry) Get(ctx context.Context, id string) (*Session, error) {
	registry.mu.Lock()
	session, ok := registry.sessions[id]
	now := registry.now()
	remounter := registry.remounter
	registry.mu.Unlock()

	if ok {
		session.touch(now)
		if err := registry.store.Touch(ctx, id, registry.ttl); err != nil && !apperr.HasCode(err, apperr.CodeNotFound) {
			registry.logger.Warn("session_touch_failed", slog.String("session", id), slog.Any("error", err))
		}
		return session, nil
	}

	descriptor, err := registry.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if remounter == nil {
		return nil, apperr.NotFound("Widget session")
	}

	session, err = remounter.Remount(ctx, descriptor)
	if err != nil {
		return nil, err
	}

	registry.mu.Lock()
	if live, raced := registry.sessions[id]; raced {
		registry.mu.Unlock()
		session.Destroy()
		return live, nil
	}
	registry.sessions[id] = session
	session.touch(now)
	count := len(registry.sessions)
	registry.mu.Unlock()

	metrics.SessionsActive.Set(float64(count))
	registry.logger.Info("session_rehydrated", slog.String("session", id), slog.String("content", descriptor.Ref.Key()))
	_ = registry.store.Touch(ctx, id, registry.ttl)
	return session, nil
}

// Remove destroys a session and forgets its descriptor.
func (registry *Registry) Remove(ctx context.Context, id string) error {
	registry.mu.Lock()
	session := registry.sessions[id]
	delete(registry.sessions, id)
	count := len(registry.sessions)
	registry.mu.Unlock()

	if session != nil {
		session.Destroy()
	}
	metrics.SessionsActive.Set(float64(count))
	return registry.store.Delete(ctx, id)
}

// Len returns the number of live sessions.
func (registry *Registry) Len() int {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return len(registry.sessions)
}

// Sweep destroys the sessions idle for longer than the TTL and returns how
// many were evicted. Their descriptors stay in the store until they expire.
func (registry *Registry) Sweep() int {
	registry.mu.Lock()
	cutoff := registry.now().Add(-registry.ttl)
	var evicted []*Session
	for id, session := range registry.sessions {
		if session.idleSince().Before(cutoff) {
			evicted = append(evicted, session)
			delete(registry.sessions, id)
		}
	}
	count := len(registry.sessions)
	registry.mu.Unlock()

	for _, session := range evicted {
		session.Destroy()
	}
	metrics.SessionsActive.Set(float64(count))
	if len(evicted) > 0 {
		registry.logger.Debug("sessions_evicted", slog.Int("evicted", len(evicted)), slog.Int("live", count))
	}
	return len(evicted)
}

// Run sweeps idle sessions until ctx is done, then destroys every live session.
func (registry *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(constants.SessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			registry.Sweep()
		case <-ctx.Done():
			registry.mu.Lock()
			live := registry.sessions
			registry.sessions = make(map[string]*Session)
			registry.mu.Unlock()
			for _, session := range live {
				session.Destroy()
			}
			metrics.SessionsActive.Set(0)
			return
		}
	}
}
