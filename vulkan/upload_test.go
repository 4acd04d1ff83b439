// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"testing"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"

	"github.com/amerkoleci/vgfx"
)

// semHandle fabricates a distinct semaphore handle value for
// bookkeeping tests that never touch the driver.
func semHandle(n uintptr) vk.Semaphore {
	var s vk.Semaphore
	*(*uintptr)(unsafe.Pointer(&s)) = n
	return s
}

func TestUploadWaitSemsPerQueue(t *testing.T) {
	ups := []*uploadContext{{}, {}}
	next := uintptr(1)
	for _, up := range ups {
		for q := vgfx.QueueGraphics; q < vgfx.CommandQueueN; q++ {
			if q == vgfx.QueueCopy {
				continue
			}
			up.semaphores[q] = semHandle(next)
			next++
		}
	}

	// graphics and compute each wait one semaphore per pending upload
	gfx := uploadWaitSems(vgfx.QueueGraphics, ups)
	cmp := uploadWaitSems(vgfx.QueueCompute, ups)
	assert.Len(t, gfx, len(ups))
	assert.Len(t, cmp, len(ups))
	for i, up := range ups {
		assert.Equal(t, up.semaphores[vgfx.QueueGraphics], gfx[i])
		assert.Equal(t, up.semaphores[vgfx.QueueCompute], cmp[i])
	}

	// binary semaphores take a single wait each, so the queues must
	// never share one
	handleVal := func(s vk.Semaphore) uintptr { return *(*uintptr)(unsafe.Pointer(&s)) }
	for i := range ups {
		assert.NotEqual(t, handleVal(gfx[i]), handleVal(cmp[i]))
	}

	// same-queue submission order already covers the copy queue
	assert.Empty(t, uploadWaitSems(vgfx.QueueCopy, ups))
	assert.Empty(t, uploadWaitSems(vgfx.QueueGraphics, nil))
}
