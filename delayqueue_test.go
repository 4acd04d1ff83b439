// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDelayQueueRetirement(t *testing.T) {
	var dq DelayQueue[int]
	var got []int
	dispose := func(v int) { got = append(got, v) }

	dq.Push(1, 1)

	// too young through frame 1+MaxInflightFrames
	for frame := uint64(0); frame <= 1+MaxInflightFrames; frame++ {
		dq.Process(frame, dispose)
		assert.Empty(t, got, "frame %d", frame)
	}

	dq.Process(1+MaxInflightFrames+1, dispose)
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 0, dq.Len())
}

func TestDelayQueueFIFOStopsAtYoung(t *testing.T) {
	var dq DelayQueue[int]
	dq.Push(10, 1)
	dq.Push(20, 1)
	dq.Push(30, 5)

	var got []int
	dq.Process(4+MaxInflightFrames, func(v int) { got = append(got, v) })

	// first two retired in push order, third still in its window
	assert.Equal(t, []int{10, 20}, got)
	assert.Equal(t, 1, dq.Len())

	dq.Process(5+MaxInflightFrames+1, func(v int) { got = append(got, v) })
	assert.Equal(t, []int{10, 20, 30}, got)
	assert.Equal(t, 0, dq.Len())
}

func TestDelayQueueDrain(t *testing.T) {
	var dq DelayQueue[string]
	dq.Push("a", 100)
	dq.Push("b", 200)

	var got []string
	dq.Drain(func(v string) { got = append(got, v) })
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 0, dq.Len())

	// drained queue stays usable
	dq.Push("c", 1)
	assert.Equal(t, 1, dq.Len())
}
