// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package page hosts the widget instances of one rendered content page.

A [Session] is the server-side twin of a page view: at most one comment thread
and any number of rating widgets. The [Registry] keeps live sessions in memory
and evicts idle ones; their [Descriptor] lives in a [Store] so a session can be
rebuilt on another replica or after eviction. The [Bootstrapper] creates
sessions and [Handler] exposes them over HTTP.
*/
package page

import (
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/yomira-widgets/internal/comments"
	"github.com/taibuivan/yomira-widgets/internal/content"
	"github.com/taibuivan/yomira-widgets/internal/ratings"
)

// Descriptor is what is needed to rebuild a session.
type Descriptor struct {
	ID        string        `json:"id"`
	Ref       content.Ref   `json:"ref"`
	Comments  bool          `json:"comments"`
	Ratings   []content.Ref `json:"ratings"`
	CreatedAt time.Time     `json:"created_at"`
}

// Session holds the widget instances of one page view.
type Session struct {
	mu       sync.Mutex
	id       string
	ref      content.Ref
	created  time.Time
	lastSeen time.Time
	comments *comments.Thread
	ratings  map[string]*ratings.Widget
}

// NewSession creates an empty session.
func NewSession(id string, ref content.Ref, now time.Time) *Session {
	return &Session{
		id:       id,
		ref:      ref,
		created:  now,
		lastSeen: now,
		ratings:  make(map[string]*ratings.Widget),
	}
}

// ID returns the session identifier.
func (session *Session) ID() string { return session.id }

// Ref returns the page content.
func (session *Session) Ref() content.Ref { return session.ref }

// AttachComments installs thread as the page's comment thread. A thread
// already attached is destroyed first, so a page never runs two.
func (session *Session) AttachComments(thread *comments.Thread) {
	session.mu.Lock()
	previous := session.comments
	session.comments = thread
	session.mu.Unlock()

	if previous != nil && previous != thread {
		previous.Destroy()
	}
}

// Comments returns the live thread, or nil.
func (session *Session) Comments() *comments.Thread {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.comments
}

// AttachRating installs rating under its instance key, replacing an older
// widget of the same key.
func (session *Session) AttachRating(rating *ratings.Widget) {
	session.mu.Lock()
	previous := session.ratings[rating.Key()]
	session.ratings[rating.Key()] = rating
	session.mu.Unlock()

	if previous != nil && previous != rating {
		previous.Destroy()
	}
}

// Rating returns the widget of key, or nil.
func (session *Session) Rating(key string) *ratings.Widget {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.ratings[key]
}

// RatingKeys returns the instance keys in stable order.
func (session *Session) RatingKeys() []string {
	session.mu.Lock()
	defer session.mu.Unlock()
	keys := make([]string, 0, len(session.ratings))
	for key := range session.ratings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Descriptor describes the session for the store.
func (session *Session) Descriptor() Descriptor {
	session.mu.Lock()
	defer session.mu.Unlock()

	descriptor := Descriptor{
		ID:        session.id,
		Ref:       session.ref,
		Comments:  session.comments != nil,
		CreatedAt: session.created,
	}
	keys := make([]string, 0, len(session.ratings))
	for key := range session.ratings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		descriptor.Ratings = append(descriptor.Ratings, session.ratings[key].Ref())
	}
	return descriptor
}

// Destroy tears down every instance of the session.
func (session *Session) Destroy() {
	session.mu.Lock()
	thread := session.comments
	widgets := session.ratings
	session.comments = nil
	session.ratings = make(map[string]*ratings.Widget)
	session.mu.Unlock()

	if thread != nil {
		thread.Destroy()
	}
	for _, rating := range widgets {
		rating.Destroy()
	}
}

func (session *Session) touch(now time.Time) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.lastSeen = now
}

func (session *Session) idleSince() time.Time {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.lastSeen
}
