// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramePacerTickets(t *testing.T) {
	var fp FramePacer
	var waits []uint32
	waitReset := func(slot uint32) { waits = append(waits, slot) }

	assert.Equal(t, uint64(0), fp.FrameCount())
	assert.Equal(t, uint32(0), fp.FrameIndex())

	// the first MaxInflightFrames submissions never block
	for i := 0; i < MaxInflightFrames; i++ {
		ticket := fp.Advance(waitReset)
		assert.Equal(t, uint64(i), ticket)
	}
	assert.Equal(t, []uint32{0}, waits)
	assert.Equal(t, uint64(MaxInflightFrames), fp.FrameCount())
	assert.Equal(t, uint32(0), fp.FrameIndex())

	// every later submission waits on the slot it is about to reuse
	waits = nil
	for i := 0; i < 4; i++ {
		fp.Advance(waitReset)
	}
	assert.Equal(t, []uint32{1, 0, 1, 0}, waits)
	assert.Equal(t, uint64(MaxInflightFrames+4), fp.FrameCount())
}

// TestFramePacerInflightBound drives the pacer against fake fences:
// each slot records the frame occupying it and waitReset stands in
// for the fence wait. A submission may only start on a free slot, the
// number of frames in flight never exceeds MaxInflightFrames, and the
// fence waited on always belongs to the frame exactly
// MaxInflightFrames behind.
func TestFramePacerInflightBound(t *testing.T) {
	var fp FramePacer
	occupant := map[uint32]uint64{} // fake fences: slot -> frame in flight
	inFlight := 0
	for frame := uint64(0); frame < 8; frame++ {
		slot := fp.FrameIndex()
		_, busy := occupant[slot]
		require.False(t, busy, "frame %d reused slot %d before its fence wait", frame, slot)
		occupant[slot] = frame
		inFlight++
		require.LessOrEqual(t, inFlight, MaxInflightFrames)

		fp.Advance(func(reuse uint32) {
			retired, ok := occupant[reuse]
			require.True(t, ok, "waited slot %d with no frame in flight", reuse)
			require.Equal(t, frame+1-MaxInflightFrames, retired)
			delete(occupant, reuse)
			inFlight--
		})
	}
}
