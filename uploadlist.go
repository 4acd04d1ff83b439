// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import "sync"

// UploadMinSize is the minimum staging allocation. Requests below it
// round up, and larger requests round up to the next power of 2, so a
// small population of contexts serves a wide mix of upload sizes.
const UploadMinSize = 64 * 1024

// UploadList recycles upload contexts (staging buffer plus command
// buffer plus fence) across frames. Acquire returns the first free
// context that is big enough and whose previous submission has
// completed on the GPU; the caller creates a fresh context when none
// qualifies, and hands every context back with Put after submitting.
type UploadList[T any] struct {
	mu        sync.Mutex
	free      []T
	completed func(ctx T) bool
	sizeOf    func(ctx T) uint64
}

// NewUploadList returns a list using the given hooks: completed
// reports whether the context's fence has signaled, sizeOf returns
// its staging capacity.
func NewUploadList[T any](completed func(ctx T) bool, sizeOf func(ctx T) uint64) *UploadList[T] {
	return &UploadList[T]{completed: completed, sizeOf: sizeOf}
}

// Acquire removes and returns the first free context with capacity
// for size whose GPU work has completed. ok is false when no context
// qualifies and the caller must create one of AllocSize(size) bytes.
func (ul *UploadList[T]) Acquire(size uint64) (ctx T, ok bool) {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	for i, c := range ul.free {
		if ul.sizeOf(c) >= size && ul.completed(c) {
			ul.free = append(ul.free[:i], ul.free[i+1:]...)
			return c, true
		}
	}
	return ctx, false
}

// Put returns a context to the free list after submission.
func (ul *UploadList[T]) Put(ctx T) {
	ul.mu.Lock()
	ul.free = append(ul.free, ctx)
	ul.mu.Unlock()
}

// Drain disposes every free context and empties the list. Only call
// after the device is idle.
func (ul *UploadList[T]) Drain(dispose func(ctx T)) {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	for _, c := range ul.free {
		dispose(c)
	}
	ul.free = nil
}

// Len returns the number of free contexts.
func (ul *UploadList[T]) Len() int {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	return len(ul.free)
}

// AllocSize returns the staging capacity for a new context serving a
// request of the given size.
func AllocSize(size uint64) uint64 {
	if size < UploadMinSize {
		size = UploadMinSize
	}
	return NextPow2(size)
}
