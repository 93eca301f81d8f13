// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package widget

import (
	"context"
	"sync"
)

// ObserverOptions mirror the browser's intersection observer settings that the
// rendered sentinel carries.
type ObserverOptions struct {
	Root       string
	RootMargin string
	Threshold  float64
}

// Observer watches one sentinel element and fires when it becomes visible enough.
type Observer struct {
	mu        sync.Mutex
	options   ObserverOptions
	target    string
	connected bool
	callback  func(ctx context.Context)
}

// NewObserver creates a connected observer with no target yet.
func NewObserver(options ObserverOptions, callback func(ctx context.Context)) *Observer {
	if options.RootMargin == "" {
		options.RootMargin = "0px"
	}
	return &Observer{options: options, connected: true, callback: callback}
}

// Options returns the observer settings.
func (observer *Observer) Options() ObserverOptions {
	return observer.options
}

// Observe moves the observer to a new sentinel. An empty target stops watching.
func (observer *Observer) Observe(target string) {
	observer.mu.Lock()
	defer observer.mu.Unlock()
	if observer.connected {
		observer.target = target
	}
}

// Target returns the observed sentinel, "" when none.
func (observer *Observer) Target() string {
	observer.mu.Lock()
	defer observer.mu.Unlock()
	return observer.target
}

// Notify reports an intersection of target at ratio. The callback runs only if the
// observer is connected, target is the observed sentinel and ratio reaches the
// threshold. It reports whether the callback ran.
func (observer *Observer) Notify(ctx context.Context, target string, ratio float64) bool {
	observer.mu.Lock()
	fire := observer.connected && target != "" && target == observer.target && ratio >= observer.options.Threshold
	observer.mu.Unlock()

	if fire {
		observer.callback(ctx)
	}
	return fire
}

// Disconnect stops the observer for good.
func (observer *Observer) Disconnect() {
	observer.mu.Lock()
	defer observer.mu.Unlock()
	observer.connected = false
	observer.target = ""
}

// Connected reports whether the observer still watches.
func (observer *Observer) Connected() bool {
	observer.mu.Lock()
	defer observer.mu.Unlock()
	return observer.connected
}
