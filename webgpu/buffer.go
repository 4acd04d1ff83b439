// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webgpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/amerkoleci/vgfx"
)

// Buffer is the webgpu implementation of vgfx.Buffer.
//
// webgpu has no persistent mapping while a buffer is in GPU use, so
// cpu-access buffers keep a shadow slice: writes made through Map are
// uploaded at the next Submit, and reads refresh the shadow with a
// blocking readback.
type Buffer struct {
	vgfx.RefCount
	dev       *Device
	buf       *wgpu.Buffer
	size      uint64
	usage     vgfx.BufferUsage
	cpuAccess vgfx.CpuAccessMode
	shadow    []byte
	label     string
}

// CreateBuffer creates a buffer, uploading initial data when given.
func (dv *Device) CreateBuffer(desc *vgfx.BufferDesc, data []byte) vgfx.Buffer {
	if desc.Size == 0 {
		vgfx.Logf(vgfx.LogError, "CreateBuffer: zero size")
		return nil
	}
	usage := WebGPUBufferUsage(desc.Usage)
	if desc.CpuAccess == vgfx.CpuAccessRead {
		usage |= wgpu.BufferUsageMapRead
	}
	buf, err := dv.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: usage,
	})
	if err != nil {
		vgfx.Logf(vgfx.LogError, "CreateBuffer: %v", err)
		return nil
	}
	bf := &Buffer{
		dev:       dv,
		buf:       buf,
		size:      desc.Size,
		usage:     desc.Usage,
		cpuAccess: desc.CpuAccess,
		label:     desc.Label,
	}
	bf.InitRef()

	if desc.CpuAccess != vgfx.CpuAccessNone {
		bf.shadow = make([]byte, desc.Size)
	}
	if len(data) > 0 {
		copy(bf.shadow, data)
		dv.queue.WriteBuffer(buf, 0, data)
	}
	if desc.CpuAccess == vgfx.CpuAccessWrite {
		dv.registerWriteBuffer(bf)
	}
	return bf
}

func (bf *Buffer) Size() uint64            { return bf.size }
func (bf *Buffer) Usage() vgfx.BufferUsage { return bf.usage }

// GPUAddress returns 0; webgpu does not expose device addresses.
func (bf *Buffer) GPUAddress() uint64 { return 0 }

// Map returns the shadow contents for buffers created with CPU access,
// or nil for device-local buffers. For readback buffers the shadow is
// refreshed from the GPU first, blocking until the copy completes.
func (bf *Buffer) Map() []byte {
	if bf.shadow == nil {
		return nil
	}
	if bf.cpuAccess == vgfx.CpuAccessRead {
		bf.readSync()
	}
	return bf.shadow
}

// readSync maps the buffer for reading, waiting on the device until
// the map completes, and copies the contents into the shadow.
func (bf *Buffer) readSync() {
	dv := bf.dev
	var status wgpu.BufferMapAsyncStatus
	err := bf.buf.MapAsync(wgpu.MapModeRead, 0, bf.size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if err != nil {
		vgfx.Logf(vgfx.LogError, "webgpu: buffer map: %v", err)
		return
	}
	dv.device.Poll(true, nil)
	if status != wgpu.BufferMapAsyncStatusSuccess {
		vgfx.Logf(vgfx.LogError, "webgpu: buffer map status %d", status)
		return
	}
	copy(bf.shadow, bf.buf.GetMappedRange(0, uint(bf.size)))
	bf.buf.Unmap()
}

func (bf *Buffer) SetLabel(label string) { bf.label = label }

func (bf *Buffer) AddRef() int32 { return bf.RefCount.AddRef() }

// Release schedules the buffer release once all in-flight frames that
// may reference it have retired.
func (bf *Buffer) Release() int32 {
	n := bf.DecRef()
	if n == 0 {
		bf.destroy()
	}
	return n
}

func (bf *Buffer) destroy() {
	if bf.cpuAccess == vgfx.CpuAccessWrite {
		bf.dev.unregisterWriteBuffer(bf)
	}
	bf.dev.deferRelease(bf.buf)
	bf.buf = nil
	bf.shadow = nil
}
