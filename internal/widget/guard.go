// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package widget

import "sync/atomic"

// Guard is an in-flight flag. Only one caller holds it at a time.
type Guard struct {
	held atomic.Bool
}

// TryAcquire takes the guard, reporting false when it is already held.
func (guard *Guard) TryAcquire() bool {
	return guard.held.CompareAndSwap(false, true)
}

// Release frees the guard.
func (guard *Guard) Release() {
	guard.held.Store(false)
}

// Held reports whether an operation is in flight.
func (guard *Guard) Held() bool {
	return guard.held.Load()
}
