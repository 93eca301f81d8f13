// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package widget

import (
	"context"
	"errors"
	"sync"
)

// ErrUnknownAction is returned when no binding matches an event's action.
var ErrUnknownAction = errors.New("widget: unknown action")

// Render tells the transport which fragment answers an event.
type Render int

const (
	// RenderFull re-renders the whole instance.
	RenderFull Render = iota
	// RenderItem re-renders a single item (Outcome.ItemID).
	RenderItem
	// RenderAppend renders only the items added by the event.
	RenderAppend
	// RenderNone leaves the instance untouched (toasts and modals only).
	RenderNone
)

// Outcome is what a handler changed.
type Outcome struct {
	Render Render
	ItemID int64
}

// Full re-renders the instance.
func Full() Outcome { return Outcome{Render: RenderFull} }

// Item re-renders the item id.
func Item(id int64) Outcome { return Outcome{Render: RenderItem, ItemID: id} }

// Appended renders the newly added items.
func Appended() Outcome { return Outcome{Render: RenderAppend} }

// Unchanged renders nothing but the feed.
func Unchanged() Outcome { return Outcome{Render: RenderNone} }

// Handler reacts to one event.
type Handler func(ctx context.Context, ev Event) (Outcome, error)

// Binding is one registered listener.
type Binding struct {
	Scope     string
	EventType string
	Action    string
	handler   Handler
}

// Bindings is the dispatch table of one widget instance.
//
// A single table serves every element the instance renders, so freshly
// rendered items never need rebinding. After [Bindings.Release] every dispatch
// is ignored; calls already running are not interrupted.
type Bindings struct {
	mu       sync.RWMutex
	scope    string
	table    map[string]*Binding
	released bool
}

// NewBindings creates an empty table scoped to the instance container.
func NewBindings(scope string) *Bindings {
	return &Bindings{scope: scope, table: make(map[string]*Binding)}
}

// Scope returns the container scope of the table.
func (bindings *Bindings) Scope() string {
	return bindings.scope
}

// On binds handler to action. eventType documents which browser event carries it.
// Binding the same action twice replaces the previous handler.
func (bindings *Bindings) On(eventType, action string, handler Handler) {
	bindings.mu.Lock()
	defer bindings.mu.Unlock()
	if bindings.released {
		return
	}
	bindings.table[action] = &Binding{
		Scope:     bindings.scope,
		EventType: eventType,
		Action:    action,
		handler:   handler,
	}
}

// Dispatch routes ev to its handler.
//
// It reports handled=false with a nil error when the table has been released.
func (bindings *Bindings) Dispatch(ctx context.Context, ev Event) (outcome Outcome, handled bool, err error) {
	bindings.mu.RLock()
	if bindings.released {
		bindings.mu.RUnlock()
		return Unchanged(), false, nil
	}
	binding, ok := bindings.table[ev.Action]
	bindings.mu.RUnlock()

	if !ok {
		return Unchanged(), false, ErrUnknownAction
	}

	outcome, err = binding.handler(ctx, ev)
	return outcome, true, err
}

// Len returns the number of live bindings.
func (bindings *Bindings) Len() int {
	bindings.mu.RLock()
	defer bindings.mu.RUnlock()
	return len(bindings.table)
}

// List returns a snapshot of the live bindings.
func (bindings *Bindings) List() []Binding {
	bindings.mu.RLock()
	defer bindings.mu.RUnlock()
	list := make([]Binding, 0, len(bindings.table))
	for _, binding := range bindings.table {
		list = append(list, *binding)
	}
	return list
}

// Release removes every binding. It is idempotent.
func (bindings *Bindings) Release() {
	bindings.mu.Lock()
	defer bindings.mu.Unlock()
	bindings.released = true
	clear(bindings.table)
}

// Released reports whether [Bindings.Release] has been called.
func (bindings *Bindings) Released() bool {
	bindings.mu.RLock()
	defer bindings.mu.RUnlock()
	return bindings.released
}
