// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import "sync/atomic"

// RefCount is the atomic reference count embedded by every backend
// resource. New resources start at one reference; the backend's
// Release destroys (or defers destruction of) the resource when the
// count reaches zero.
type RefCount struct {
	refs int32
}

// InitRef sets the count to one for a freshly created resource.
func (rc *RefCount) InitRef() {
	atomic.StoreInt32(&rc.refs, 1)
}

// AddRef increments and returns the new count.
func (rc *RefCount) AddRef() int32 {
	return atomic.AddInt32(&rc.refs, 1)
}

// DecRef decrements and returns the new count. The caller destroys
// the resource on zero; a negative count is a double-release and
// panics.
func (rc *RefCount) DecRef() int32 {
	n := atomic.AddInt32(&rc.refs, -1)
	if n < 0 {
		panic("vgfx: resource released more times than referenced")
	}
	return n
}

// Refs returns the current count.
func (rc *RefCount) Refs() int32 {
	return atomic.LoadInt32(&rc.refs)
}
