// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webgpu

import (
	"sync"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/amerkoleci/vgfx"
)

// releaser is any native wgpu handle with deferred release semantics.
type releaser interface {
	Release()
}

// Device is the webgpu implementation of vgfx.GraphicsDevice.
//
// wgpu-native keeps native resources alive until the GPU is done with
// them, so unlike the vulkan backend this device only has to order
// wrapper releases, not raw handle destruction. A single delay queue
// covers every handle kind.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	pacer vgfx.FramePacer

	cmdMu      sync.Mutex
	cmdBuffers []*CommandBuffer

	// cpu-writable buffers whose shadow is flushed at submit
	writeMu   sync.Mutex
	writeBufs map[*Buffer]struct{}

	dqReleases vgfx.DelayQueue[releaser]

	shuttingDown int32

	// null resources backing unbound bind group slots
	nullBuffer   *wgpu.Buffer
	nullTex      *wgpu.Texture
	nullTexView  *wgpu.TextureView
	nullStorView *wgpu.TextureView
	nullSampler  *wgpu.Sampler

	label string
}

// NewDevice creates a webgpu device, or nil after logging on failure.
func NewDevice(desc *vgfx.DeviceDesc) *Device {
	dv := &Device{
		label:     desc.Label,
		writeBufs: map[*Buffer]struct{}{},
	}
	dv.instance = wgpu.CreateInstance(nil)
	if dv.instance == nil {
		vgfx.Logf(vgfx.LogError, "webgpu: failed to create instance")
		return nil
	}

	opts := &wgpu.RequestAdapterOptions{}
	switch desc.PowerPreference {
	case vgfx.PowerLowPower:
		opts.PowerPreference = wgpu.PowerPreferenceLowPower
	case vgfx.PowerHighPerformance:
		opts.PowerPreference = wgpu.PowerPreferenceHighPerformance
	}
	adapter, err := dv.instance.RequestAdapter(opts)
	if err != nil {
		vgfx.Logf(vgfx.LogError, "webgpu: request adapter: %v", err)
		dv.instance.Release()
		return nil
	}
	dv.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: desc.Label,
	})
	if err != nil {
		vgfx.Logf(vgfx.LogError, "webgpu: request device: %v", err)
		dv.adapter.Release()
		dv.instance.Release()
		return nil
	}
	dv.device = device
	dv.queue = device.GetQueue()
	if err := dv.initNullResources(); err != nil {
		vgfx.Logf(vgfx.LogError, "webgpu: null resources: %v", err)
		dv.Destroy()
		return nil
	}
	return dv
}

// initNullResources creates the buffer, texture views and sampler
// bound to unmatched bind group slots, so reads of unbound slots
// return zero instead of failing validation.
func (dv *Device) initNullResources() error {
	buf, err := dv.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "null buffer",
		Size:  256,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	dv.nullBuffer = buf
	dv.queue.WriteBuffer(buf, 0, make([]byte, 256))

	tex, err := dv.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "null texture",
		Size:          wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageStorageBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return err
	}
	dv.nullTex = tex
	dv.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: tex, Aspect: wgpu.TextureAspectAll},
		make([]byte, 4),
		&wgpu.TextureDataLayout{BytesPerRow: 4, RowsPerImage: 1},
		&wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	)
	if dv.nullTexView, err = tex.CreateView(nil); err != nil {
		return err
	}
	if dv.nullStorView, err = tex.CreateView(nil); err != nil {
		return err
	}

	sampler, err := dv.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "null sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   1,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return err
	}
	dv.nullSampler = sampler
	return nil
}

func (dv *Device) Backend() vgfx.Backend { return vgfx.BackendWebGPU }

// AdapterInfo returns static adapter information; the binding does not
// expose the native adapter properties.
func (dv *Device) AdapterInfo() *vgfx.AdapterInfo {
	return &vgfx.AdapterInfo{
		Name:              "wgpu adapter",
		DriverDescription: "wgpu-native",
		Type:              vgfx.AdapterOther,
	}
}

// HasFeature reports guaranteed core webgpu capabilities only.
func (dv *Device) HasFeature(f vgfx.Feature) bool {
	switch f {
	case vgfx.FeatureIndirectDraw, vgfx.FeatureSamplerAnisotropy:
		return true
	}
	return false
}

// CreateQueryHeap is unsupported: the binding does not expose query
// sets, so query recording and resolve are no-ops.
func (dv *Device) CreateQueryHeap(desc *vgfx.QueryHeapDesc) vgfx.QueryHeap {
	vgfx.Logf(vgfx.LogError, "CreateQueryHeap: queries not supported on webgpu")
	return nil
}

func (dv *Device) FrameCount() uint64 { return dv.pacer.FrameCount() }
func (dv *Device) FrameIndex() uint32 { return dv.pacer.FrameIndex() }

func (dv *Device) isShuttingDown() bool {
	return atomic.LoadInt32(&dv.shuttingDown) != 0
}

// deferRelease queues a native handle release until every in-flight
// frame has retired, or releases immediately during shutdown.
func (dv *Device) deferRelease(r releaser) {
	if dv.isShuttingDown() {
		r.Release()
		return
	}
	dv.dqReleases.Push(r, dv.pacer.FrameCount())
}

func (dv *Device) registerWriteBuffer(bf *Buffer) {
	dv.writeMu.Lock()
	dv.writeBufs[bf] = struct{}{}
	dv.writeMu.Unlock()
}

func (dv *Device) unregisterWriteBuffer(bf *Buffer) {
	dv.writeMu.Lock()
	delete(dv.writeBufs, bf)
	dv.writeMu.Unlock()
}

// flushWrites uploads the shadow contents of every cpu-writable buffer
// so shader reads in this submission see the latest Map() writes.
func (dv *Device) flushWrites() {
	dv.writeMu.Lock()
	for bf := range dv.writeBufs {
		dv.queue.WriteBuffer(bf.buf, 0, bf.shadow)
	}
	dv.writeMu.Unlock()
}

// Submit finishes the given command buffers (all recorded ones when
// none are given), submits them, presents acquired swapchain textures,
// advances the frame and reclaims retired wrappers.
func (dv *Device) Submit(cmds ...vgfx.CommandBuffer) uint64 {
	dv.cmdMu.Lock()
	var list []*CommandBuffer
	if len(cmds) == 0 {
		for _, cb := range dv.cmdBuffers {
			if cb.recording {
				list = append(list, cb)
			}
		}
	} else {
		for _, c := range cmds {
			list = append(list, c.(*CommandBuffer))
		}
	}
	dv.cmdMu.Unlock()

	dv.flushWrites()

	var bufs []*wgpu.CommandBuffer
	var swapchains []*SwapChain
	for _, cb := range list {
		if buf := cb.finish(); buf != nil {
			bufs = append(bufs, buf)
		}
		swapchains = append(swapchains, cb.swapchains...)
		cb.swapchains = nil
	}
	if len(bufs) > 0 {
		dv.queue.Submit(bufs...)
		for _, b := range bufs {
			b.Release()
		}
	}

	for _, sc := range swapchains {
		sc.present()
	}

	dv.cmdMu.Lock()
	for _, cb := range list {
		cb.recording = false
	}
	dv.cmdMu.Unlock()

	// wgpu-native paces the CPU through surface acquisition, so no
	// fence wait is needed when the frame slot wraps
	ticket := dv.pacer.Advance(nil)
	dv.dqReleases.Process(dv.pacer.FrameCount(), func(r releaser) { r.Release() })
	return ticket
}

// WaitIdle blocks until the GPU finishes all submitted work, then
// reclaims every pending deferred wrapper.
func (dv *Device) WaitIdle() {
	if dv.device == nil {
		return
	}
	dv.device.Poll(true, nil)
	dv.dqReleases.Drain(func(r releaser) { r.Release() })
}

// Destroy waits for the device to go idle and releases everything.
// Resources released while shutting down release synchronously.
func (dv *Device) Destroy() {
	if dv.device == nil {
		return
	}
	atomic.StoreInt32(&dv.shuttingDown, 1)
	dv.device.Poll(true, nil)

	dv.dqReleases.Drain(func(r releaser) { r.Release() })

	for _, cb := range dv.cmdBuffers {
		cb.destroy()
	}
	dv.cmdBuffers = nil

	if dv.nullSampler != nil {
		dv.nullSampler.Release()
	}
	if dv.nullStorView != nil {
		dv.nullStorView.Release()
	}
	if dv.nullTexView != nil {
		dv.nullTexView.Release()
	}
	if dv.nullTex != nil {
		dv.nullTex.Release()
	}
	if dv.nullBuffer != nil {
		dv.nullBuffer.Release()
	}

	dv.queue.Release()
	dv.device.Release()
	dv.adapter.Release()
	dv.instance.Release()
	dv.device = nil
}
