// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import "sync/atomic"

// FramePacer tracks submitted frames and throttles the CPU to at most
// MaxInflightFrames ahead of the GPU. Backends call Advance from
// Submit; the waitReset callback blocks on the per-frame fences of the
// slot about to be reused and resets them. Advance itself must be
// externally synchronized (submission is single-threaded), while the
// accessors are safe from any goroutine.
type FramePacer struct {
	frameCount uint64
	frameIndex uint32
}

// Advance records that a frame was just submitted and returns its
// ticket (the frame count value at submission). When the new frame
// index wraps onto a slot that may still be in flight, waitReset is
// called for that slot before returning.
func (fp *FramePacer) Advance(waitReset func(slot uint32)) uint64 {
	ticket := atomic.LoadUint64(&fp.frameCount)
	atomic.AddUint64(&fp.frameCount, 1)
	idx := uint32((ticket + 1) % MaxInflightFrames)
	atomic.StoreUint32(&fp.frameIndex, idx)
	if ticket+1 >= MaxInflightFrames && waitReset != nil {
		waitReset(idx)
	}
	return ticket
}

// FrameCount returns the number of frames submitted so far.
func (fp *FramePacer) FrameCount() uint64 {
	return atomic.LoadUint64(&fp.frameCount)
}

// FrameIndex returns FrameCount modulo MaxInflightFrames: the
// in-flight slot that the next submission will use.
func (fp *FramePacer) FrameIndex() uint32 {
	return atomic.LoadUint32(&fp.frameIndex)
}
