// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"sync"

	vk "github.com/goki/vulkan"

	"github.com/amerkoleci/vgfx"
)

// heapInitCapacity is the initial descriptor set count of a heap.
const heapInitCapacity = 16

// descSlot defers releasing a heap slot until the frames that may
// still bind its descriptor set have retired.
type descSlot struct {
	heap *descriptorHeap
	slot uint32
}

// descriptorHeap is a growable pool of descriptor sets that all share
// one layout. Slots are handed out by a first-fit index allocator;
// when the pool is exhausted it grows to the next power of 2, the
// live sets are copied into the new pool with the update-after-bind
// descriptor copy path, and the old pool rides the delay queue until
// every in-flight frame that may reference its sets has retired.
type descriptorHeap struct {
	mu     sync.Mutex
	dev    *Device
	layout *BindGroupLayout

	pool  vk.DescriptorPool
	sets  []vk.DescriptorSet
	alloc *vgfx.IndexAllocator
	live  map[uint32]bool
}

func newDescriptorHeap(dev *Device, layout *BindGroupLayout) *descriptorHeap {
	dh := &descriptorHeap{
		dev:    dev,
		layout: layout,
		live:   map[uint32]bool{},
	}
	dh.alloc = vgfx.NewIndexAllocator(heapInitCapacity, dh.grow)
	dh.pool, dh.sets = dh.makePool(heapInitCapacity)
	return dh
}

// makePool creates a pool with room for capacity sets of the heap's
// layout and allocates all of them up front.
func (dh *descriptorHeap) makePool(capacity uint32) (vk.DescriptorPool, []vk.DescriptorSet) {
	var sizes []vk.DescriptorPoolSize
	for _, ps := range dh.layout.poolSizes {
		sizes = append(sizes, vk.DescriptorPoolSize{
			Type:            ps.Type,
			DescriptorCount: ps.DescriptorCount * capacity,
		})
	}
	var pool vk.DescriptorPool
	ret := vk.CreateDescriptorPool(dh.dev.Dev, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateUpdateAfterBindBit),
		MaxSets:       capacity,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}, nil, &pool)
	IfPanic(NewError(ret))

	layouts := make([]vk.DescriptorSetLayout, capacity)
	for i := range layouts {
		layouts[i] = dh.layout.setLayout
	}
	sets := make([]vk.DescriptorSet, capacity)
	ret = vk.AllocateDescriptorSets(dh.dev.Dev, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     pool,
		DescriptorSetCount: capacity,
		PSetLayouts:        layouts,
	}, &sets[0])
	IfPanic(NewError(ret))
	return pool, sets
}

// grow is the index allocator's grow callback: reallocate at newCap
// sets, copy every live set's descriptors across and retire the old
// pool through the delay queue.
func (dh *descriptorHeap) grow(oldCap, newCap uint32) {
	newPool, newSets := dh.makePool(newCap)

	var copies []vk.CopyDescriptorSet
	for slot := uint32(0); slot < oldCap; slot++ {
		if !dh.live[slot] {
			continue
		}
		for _, e := range dh.layout.entries {
			count := e.Count
			if count == 0 {
				count = 1
			}
			copies = append(copies, vk.CopyDescriptorSet{
				SType:           vk.StructureTypeCopyDescriptorSet,
				SrcSet:          dh.sets[slot],
				SrcBinding:      e.Binding,
				DstSet:          newSets[slot],
				DstBinding:      e.Binding,
				DescriptorCount: count,
			})
		}
	}
	if len(copies) > 0 {
		vk.UpdateDescriptorSets(dh.dev.Dev, 0, nil, uint32(len(copies)), copies)
	}

	if dh.dev.isShuttingDown() {
		vk.DestroyDescriptorPool(dh.dev.Dev, dh.pool, nil)
	} else {
		dh.dev.dqDescPools.Push(dh.pool, dh.dev.pacer.FrameCount())
	}
	dh.pool = newPool
	dh.sets = newSets
}

// allocSlot returns a set slot, growing when full.
func (dh *descriptorHeap) allocSlot() uint32 {
	dh.mu.Lock()
	defer dh.mu.Unlock()
	slot := dh.alloc.Allocate(1)
	dh.live[slot] = true
	return slot
}

// releaseSlot frees a slot for reuse. The caller is responsible for
// not releasing slots that in-flight frames still reference without
// routing through a delay queue first.
func (dh *descriptorHeap) releaseSlot(slot uint32) {
	dh.mu.Lock()
	defer dh.mu.Unlock()
	delete(dh.live, slot)
	dh.alloc.Release(slot, 1)
}

// set returns the descriptor set at a slot.
func (dh *descriptorHeap) set(slot uint32) vk.DescriptorSet {
	dh.mu.Lock()
	defer dh.mu.Unlock()
	return dh.sets[slot]
}

func (dh *descriptorHeap) destroy() {
	dh.mu.Lock()
	defer dh.mu.Unlock()
	if dh.pool != vk.NullDescriptorPool {
		if dh.dev.isShuttingDown() {
			vk.DestroyDescriptorPool(dh.dev.Dev, dh.pool, nil)
		} else {
			dh.dev.dqDescPools.Push(dh.pool, dh.dev.pacer.FrameCount())
		}
		dh.pool = vk.NullDescriptorPool
	}
	dh.sets = nil
}
