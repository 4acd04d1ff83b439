// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/amerkoleci/vgfx"
)

// Buffer is the vulkan implementation of vgfx.Buffer.
type Buffer struct {
	vgfx.RefCount
	dev       *Device
	buf       vk.Buffer
	mem       vk.DeviceMemory
	size      uint64
	usage     vgfx.BufferUsage
	cpuAccess vgfx.CpuAccessMode
	mapped    []byte
	address   uint64
	label     string
}

// CreateBuffer creates a buffer, uploading initial data when given.
// Device-local buffers stage the data through an upload context on
// the copy queue.
func (dv *Device) CreateBuffer(desc *vgfx.BufferDesc, data []byte) vgfx.Buffer {
	if desc.Size == 0 {
		vgfx.Logf(vgfx.LogError, "CreateBuffer: zero size")
		return nil
	}
	bf := &Buffer{
		dev:       dv,
		size:      desc.Size,
		usage:     desc.Usage,
		cpuAccess: desc.CpuAccess,
		label:     desc.Label,
	}
	bf.InitRef()

	bf.buf = newBuffer(dv.Dev, desc.Size, VulkanBufferUsage(desc.Usage))

	switch desc.CpuAccess {
	case vgfx.CpuAccessWrite, vgfx.CpuAccessRead:
		bf.mem = allocBuffMem(dv.GP, dv.Dev, bf.buf,
			vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit, 0)
		bf.mapped = mapMemory(dv.Dev, bf.mem, desc.Size)
	default:
		var flags vk.MemoryAllocateFlags
		if dv.hasDeviceAddress {
			flags = vk.MemoryAllocateFlags(vk.MemoryAllocateDeviceAddressBit)
		}
		bf.mem = allocBuffMem(dv.GP, dv.Dev, bf.buf, vk.MemoryPropertyDeviceLocalBit, flags)
	}

	if dv.hasDeviceAddress && desc.CpuAccess == vgfx.CpuAccessNone {
		bf.address = uint64(vk.GetBufferDeviceAddress(dv.Dev, &vk.BufferDeviceAddressInfo{
			SType:  vk.StructureTypeBufferDeviceAddressInfo,
			Buffer: bf.buf,
		}))
	}

	if len(data) > 0 {
		if bf.mapped != nil {
			copy(bf.mapped, data)
		} else {
			up := dv.uploadAllocate(uint64(len(data)))
			copy(up.mapped, data)
			vk.CmdCopyBuffer(up.cmd, up.buffer, bf.buf, 1, []vk.BufferCopy{{
				SrcOffset: 0, DstOffset: 0, Size: vk.DeviceSize(len(data)),
			}})
			dv.uploadSubmit(up)
		}
	}
	return bf
}

func (bf *Buffer) Size() uint64            { return bf.size }
func (bf *Buffer) Usage() vgfx.BufferUsage { return bf.usage }
func (bf *Buffer) Map() []byte             { return bf.mapped }
func (bf *Buffer) GPUAddress() uint64      { return bf.address }

func (bf *Buffer) SetLabel(label string) { bf.label = label }

func (bf *Buffer) AddRef() int32 { return bf.RefCount.AddRef() }

// Release schedules the buffer for destruction once all in-flight
// frames that may reference it have retired.
func (bf *Buffer) Release() int32 {
	n := bf.DecRef()
	if n == 0 {
		bf.destroy()
	}
	return n
}

func (bf *Buffer) destroy() {
	dv := bf.dev
	if bf.mapped != nil {
		vk.UnmapMemory(dv.Dev, bf.mem)
		bf.mapped = nil
	}
	if dv.isShuttingDown() {
		vk.DestroyBuffer(dv.Dev, bf.buf, nil)
		freeBuffMem(dv.Dev, &bf.mem)
	} else {
		dv.dqBuffers.Push(bufferDel{bf.buf, bf.mem}, dv.pacer.FrameCount())
	}
	bf.buf = vk.NullBuffer
}
