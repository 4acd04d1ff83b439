// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexAllocatorContiguous(t *testing.T) {
	ia := NewIndexAllocator(8, nil)

	a := ia.Allocate(3)
	b := ia.Allocate(2)
	assert.Equal(t, uint32(0), a)
	assert.Equal(t, uint32(3), b)
	assert.Equal(t, uint32(5), ia.Count())

	// release the first run; next fit reuses it from the front
	ia.Release(a, 3)
	c := ia.Allocate(2)
	assert.Equal(t, uint32(0), c)

	// a 3-slot request no longer fits at the front (one free slot
	// at index 2), so it lands after b
	d := ia.Allocate(3)
	assert.Equal(t, uint32(5), d)
	assert.Equal(t, uint32(7), ia.Count())
}

func TestIndexAllocatorGrow(t *testing.T) {
	type growCall struct{ oldCap, newCap uint32 }
	var calls []growCall
	ia := NewIndexAllocator(4, func(oldCap, newCap uint32) {
		calls = append(calls, growCall{oldCap, newCap})
	})

	a := ia.Allocate(4)
	require.Equal(t, uint32(0), a)
	assert.Empty(t, calls)

	// full: a 3-slot request forces growth to NextPow2(4+3) = 8
	b := ia.Allocate(3)
	assert.Equal(t, uint32(4), b)
	require.Len(t, calls, 1)
	assert.Equal(t, growCall{4, 8}, calls[0])
	assert.Equal(t, uint32(8), ia.Capacity())

	// a huge request grows straight to the fitting power of 2
	c := ia.Allocate(100)
	assert.Equal(t, uint32(7), c)
	require.Len(t, calls, 2)
	assert.Equal(t, growCall{8, 128}, calls[1])
}

func TestIndexAllocatorFixedCapacityFails(t *testing.T) {
	ia := NewIndexAllocator(2, nil)
	assert.Equal(t, uint32(0), ia.Allocate(2))
	assert.Equal(t, InvalidIndex, ia.Allocate(1))
	assert.Equal(t, InvalidIndex, ia.Allocate(0))
}

func TestIndexAllocatorReleaseRewind(t *testing.T) {
	ia := NewIndexAllocator(8, nil)
	a := ia.Allocate(2)
	b := ia.Allocate(2)
	_ = b
	ia.Release(a, 2)

	// the cursor rewound to the freed run
	c := ia.Allocate(1)
	assert.Equal(t, uint32(0), c)

	// releasing InvalidIndex is a no-op
	ia.Release(InvalidIndex, 4)
	assert.Equal(t, uint32(3), ia.Count())
}
