// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import "sync"

// DelayQueue defers destruction of native handles until every frame
// that may still reference them has retired on the GPU. Backends keep
// one queue per handle kind and call Process once per frame with the
// current frame count. Entries are strictly FIFO: frames only grow, so
// the first entry that is still too young ends the drain.
type DelayQueue[T any] struct {
	mu      sync.Mutex
	entries []delayEntry[T]
}

type delayEntry[T any] struct {
	item  T
	frame uint64
}

// Push queues an item destroyed logically at the given frame count.
// The item stays alive until MaxInflightFrames more frames complete.
func (dq *DelayQueue[T]) Push(item T, frame uint64) {
	dq.mu.Lock()
	dq.entries = append(dq.entries, delayEntry[T]{item: item, frame: frame})
	dq.mu.Unlock()
}

// Process disposes every item whose retirement window has passed at
// the given frame count, in push order, and stops at the first item
// that is still potentially in use.
func (dq *DelayQueue[T]) Process(frame uint64, dispose func(item T)) {
	dq.mu.Lock()
	defer dq.mu.Unlock()
	n := 0
	for n < len(dq.entries) {
		e := dq.entries[n]
		if e.frame+MaxInflightFrames >= frame {
			break
		}
		dispose(e.item)
		n++
	}
	if n > 0 {
		dq.entries = dq.entries[n:]
	}
}

// Drain disposes every queued item regardless of age and empties the
// queue. Only call after the device is idle.
func (dq *DelayQueue[T]) Drain(dispose func(item T)) {
	dq.mu.Lock()
	defer dq.mu.Unlock()
	for _, e := range dq.entries {
		dispose(e.item)
	}
	dq.entries = nil
}

// Len returns the number of items awaiting destruction.
func (dq *DelayQueue[T]) Len() int {
	dq.mu.Lock()
	defer dq.mu.Unlock()
	return len(dq.entries)
}
