// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/amerkoleci/vgfx"
)

// uploadContext is one recycled staging unit: a persistently mapped
// host buffer, a command buffer on the copy queue, a fence that
// signals when the copy retires and one semaphore per consumer queue
// that downstream submissions wait on before reading the destination.
type uploadContext struct {
	cmdPool vk.CommandPool
	cmd     vk.CommandBuffer
	fence   vk.Fence
	buffer  vk.Buffer
	memory  vk.DeviceMemory
	mapped  []byte
	size    uint64

	// semaphores are binary, so each consumer queue gets its own;
	// the copy slot stays null since same-queue submissions retire
	// in order anyway.
	semaphores [vgfx.CommandQueueN]vk.Semaphore

	// waited is false while the semaphores have pending signals that
	// the consumer queues have not consumed yet; the context cannot
	// be reused until they have.
	waited bool
}

// completed reports whether the context's last copy has retired and
// its semaphore wait has been consumed.
func (up *uploadContext) completed(dv *Device) bool {
	if !up.waited {
		return false
	}
	return vk.GetFenceStatus(dv.Dev, up.fence) == vk.Success
}

func (up *uploadContext) destroy(dv *Device) {
	if up.mapped != nil {
		vk.UnmapMemory(dv.Dev, up.memory)
		up.mapped = nil
	}
	vk.DestroyBuffer(dv.Dev, up.buffer, nil)
	freeBuffMem(dv.Dev, &up.memory)
	for q := vgfx.QueueGraphics; q < vgfx.CommandQueueN; q++ {
		if up.semaphores[q] != vk.NullSemaphore {
			vk.DestroySemaphore(dv.Dev, up.semaphores[q], nil)
		}
	}
	vk.DestroyFence(dv.Dev, up.fence, nil)
	vk.DestroyCommandPool(dv.Dev, up.cmdPool, nil)
}

// uploadAllocate returns a recording upload context whose staging
// buffer holds at least size bytes, reusing a retired one when it
// fits and creating a fresh one otherwise.
func (dv *Device) uploadAllocate(size uint64) *uploadContext {
	up, ok := dv.uploads.Acquire(size)
	if !ok {
		up = dv.newUploadContext(vgfx.AllocSize(size))
	} else {
		vk.ResetFences(dv.Dev, 1, []vk.Fence{up.fence})
		vk.ResetCommandPool(dv.Dev, up.cmdPool, 0)
	}
	ret := vk.BeginCommandBuffer(up.cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	IfPanic(NewError(ret))
	return up
}

func (dv *Device) newUploadContext(size uint64) *uploadContext {
	up := &uploadContext{size: size, waited: true}

	var pool vk.CommandPool
	ret := vk.CreateCommandPool(dv.Dev, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: dv.Queues[vgfx.QueueCopy].Family,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateTransientBit),
	}, nil, &pool)
	IfPanic(NewError(ret))
	up.cmdPool = pool

	cmdBuff := make([]vk.CommandBuffer, 1)
	ret = vk.AllocateCommandBuffers(dv.Dev, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, cmdBuff)
	IfPanic(NewError(ret))
	up.cmd = cmdBuff[0]

	var fence vk.Fence
	ret = vk.CreateFence(dv.Dev, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}, nil, &fence)
	IfPanic(NewError(ret))
	up.fence = fence

	for q := vgfx.QueueGraphics; q < vgfx.CommandQueueN; q++ {
		if q == vgfx.QueueCopy {
			continue
		}
		var sem vk.Semaphore
		ret = vk.CreateSemaphore(dv.Dev, &vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}, nil, &sem)
		IfPanic(NewError(ret))
		up.semaphores[q] = sem
	}

	up.buffer = newBuffer(dv.Dev, size, vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit))
	up.memory = allocBuffMem(dv.GP, dv.Dev, up.buffer,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit, 0)
	up.mapped = mapMemory(dv.Dev, up.memory, size)
	return up
}

// uploadSubmit ends and submits the context's command buffer on the
// copy queue, signaling its fence and all consumer-queue semaphores,
// and queues the semaphores to be waited by the next frame submission.
func (dv *Device) uploadSubmit(up *uploadContext) {
	ret := vk.EndCommandBuffer(up.cmd)
	IfPanic(NewError(ret))

	var signal []vk.Semaphore
	for q := vgfx.QueueGraphics; q < vgfx.CommandQueueN; q++ {
		if q != vgfx.QueueCopy {
			signal = append(signal, up.semaphores[q])
		}
	}
	up.waited = false
	ret = vk.QueueSubmit(dv.Queues[vgfx.QueueCopy].Queue, 1, []vk.SubmitInfo{{
		SType:                vk.StructureTypeSubmitInfo,
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{up.cmd},
		SignalSemaphoreCount: uint32(len(signal)),
		PSignalSemaphores:    signal,
	}}, up.fence)
	IfPanic(NewError(ret))

	dv.uploadMu.Lock()
	dv.pendingUploads = append(dv.pendingUploads, up)
	dv.uploadMu.Unlock()
	dv.uploads.Put(up)
}

// uploadWaitSems collects the semaphores queue q must wait on before
// this frame's commands read anything the pending uploads wrote. Each
// consumer queue gets its own slot; the copy queue never waits, since
// later submissions on the same queue retire in order.
func uploadWaitSems(q vgfx.CommandQueue, pend []*uploadContext) []vk.Semaphore {
	if q == vgfx.QueueCopy || len(pend) == 0 {
		return nil
	}
	sems := make([]vk.Semaphore, len(pend))
	for i, up := range pend {
		sems[i] = up.semaphores[q]
	}
	return sems
}
