// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpload struct {
	size uint64
	done bool
}

func newFakeUploadList() *UploadList[*fakeUpload] {
	return NewUploadList(
		func(c *fakeUpload) bool { return c.done },
		func(c *fakeUpload) uint64 { return c.size },
	)
}

func TestUploadListAcquire(t *testing.T) {
	ul := newFakeUploadList()

	// empty list: caller must create
	_, ok := ul.Acquire(100)
	assert.False(t, ok)

	small := &fakeUpload{size: 65536, done: true}
	big := &fakeUpload{size: 1 << 20, done: true}
	busy := &fakeUpload{size: 1 << 20, done: false}
	ul.Put(small)
	ul.Put(busy)
	ul.Put(big)

	// first fit that is both big enough and completed
	got, ok := ul.Acquire(200000)
	require.True(t, ok)
	assert.Same(t, big, got)
	assert.Equal(t, 2, ul.Len())

	// busy context never handed out even though it fits
	_, ok = ul.Acquire(200000)
	assert.False(t, ok)

	got, ok = ul.Acquire(1000)
	require.True(t, ok)
	assert.Same(t, small, got)
}

func TestUploadListDrain(t *testing.T) {
	ul := newFakeUploadList()
	a := &fakeUpload{size: 65536}
	b := &fakeUpload{size: 65536}
	ul.Put(a)
	ul.Put(b)

	var drained []*fakeUpload
	ul.Drain(func(c *fakeUpload) { drained = append(drained, c) })
	assert.Equal(t, []*fakeUpload{a, b}, drained)
	assert.Equal(t, 0, ul.Len())
}

func TestAllocSize(t *testing.T) {
	assert.Equal(t, uint64(UploadMinSize), AllocSize(0))
	assert.Equal(t, uint64(UploadMinSize), AllocSize(1))
	assert.Equal(t, uint64(UploadMinSize), AllocSize(UploadMinSize))
	assert.Equal(t, uint64(131072), AllocSize(UploadMinSize+1))
	assert.Equal(t, uint64(1<<20), AllocSize(1<<20-3))
}
