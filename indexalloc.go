// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import "sync"

// GrowFunc is called by an IndexAllocator when its current capacity
// cannot satisfy an allocation. The callback reallocates the backing
// native heap at newCap slots, copies the live descriptors across and
// schedules the old heap for deferred destruction. newCap is the next
// power of 2 that fits oldCap plus the failed request.
type GrowFunc func(oldCap, newCap uint32)

// IndexAllocator hands out contiguous runs of descriptor heap slots.
// It scans a boolean occupancy table first-fit from a cursor that
// release rewinds, so freed low slots are always found again. Grows
// on demand and never fails.
type IndexAllocator struct {
	mu          sync.Mutex
	occupied    []bool
	searchStart uint32
	count       uint32
	grow        GrowFunc
}

// NewIndexAllocator returns an allocator with the given initial
// capacity. grow can be nil for fixed-capacity use, in which case an
// allocation that does not fit returns InvalidIndex.
func NewIndexAllocator(capacity uint32, grow GrowFunc) *IndexAllocator {
	return &IndexAllocator{
		occupied: make([]bool, capacity),
		grow:     grow,
	}
}

// Allocate returns the first index of a free run of count contiguous
// slots, growing the backing heap when needed.
func (ia *IndexAllocator) Allocate(count uint32) uint32 {
	if count == 0 {
		return InvalidIndex
	}
	ia.mu.Lock()
	defer ia.mu.Unlock()
	for {
		idx, ok := ia.findRun(count)
		if ok {
			for i := idx; i < idx+count; i++ {
				ia.occupied[i] = true
			}
			if idx == ia.searchStart {
				ia.searchStart = idx + count
			}
			ia.count += count
			return idx
		}
		if ia.grow == nil {
			return InvalidIndex
		}
		oldCap := uint32(len(ia.occupied))
		newCap := uint32(NextPow2(uint64(oldCap) + uint64(count)))
		ia.grow(oldCap, newCap)
		ia.occupied = append(ia.occupied, make([]bool, newCap-oldCap)...)
	}
}

// findRun scans from searchStart for count contiguous free slots.
func (ia *IndexAllocator) findRun(count uint32) (uint32, bool) {
	n := uint32(len(ia.occupied))
	run := uint32(0)
	for i := ia.searchStart; i < n; i++ {
		if ia.occupied[i] {
			run = 0
			continue
		}
		run++
		if run == count {
			return i - count + 1, true
		}
	}
	return 0, false
}

// Release frees a run previously returned by Allocate. The search
// cursor rewinds so the slots are reusable immediately; the caller is
// responsible for routing the freed run through a delay queue when
// in-flight frames may still reference it.
func (ia *IndexAllocator) Release(index, count uint32) {
	if index == InvalidIndex || count == 0 {
		return
	}
	ia.mu.Lock()
	defer ia.mu.Unlock()
	for i := index; i < index+count; i++ {
		ia.occupied[i] = false
	}
	if index < ia.searchStart {
		ia.searchStart = index
	}
	ia.count -= count
}

// Capacity returns the current number of slots.
func (ia *IndexAllocator) Capacity() uint32 {
	ia.mu.Lock()
	defer ia.mu.Unlock()
	return uint32(len(ia.occupied))
}

// Count returns the number of slots currently allocated.
func (ia *IndexAllocator) Count() uint32 {
	ia.mu.Lock()
	defer ia.mu.Unlock()
	return ia.count
}
