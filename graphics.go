// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import (
	"errors"

	"goki.dev/mat32/v2"
)

// ErrDeviceLost is returned by operations that detect the physical
// device has been lost (driver reset, hang recovery). The device and
// all resources created from it must be destroyed and recreated.
var ErrDeviceLost = errors.New("vgfx: device lost")

// Feature is an optional device capability queried with HasFeature.
type Feature int32

const (
	FeatureTextureCompressionBC Feature = iota
	FeatureTextureCompressionETC2
	FeatureTextureCompressionASTC
	FeatureTimestampQuery
	FeatureOcclusionQuery
	FeatureIndirectDraw
	FeatureSamplerAnisotropy
	FeatureDepthClamp
	FeatureN
)

// Resource is the common surface of every GPU object. Objects are
// reference counted; Release of the last reference queues native
// destruction until all in-flight frames that may use the object have
// retired.
type Resource interface {
	// AddRef increments the reference count, returning the new count.
	AddRef() int32

	// Release decrements the reference count, returning the new count,
	// and schedules destruction when it reaches zero.
	Release() int32

	// SetLabel sets the debug name on the native object.
	SetLabel(label string)
}

// Buffer is a linear block of GPU memory.
type Buffer interface {
	Resource

	// Size returns the buffer size in bytes.
	Size() uint64

	// Usage returns the allowed GPU usages.
	Usage() BufferUsage

	// Map returns the persistently-mapped contents for buffers created
	// with CPU access, or nil for device-local buffers.
	Map() []byte

	// GPUAddress returns the buffer's device address, or 0 when the
	// backend does not expose addresses.
	GPUAddress() uint64
}

// Texture is an image resource of 1-3 dimensions with mip levels.
type Texture interface {
	Resource

	Dimension() TextureDimension
	Format() TextureFormat
	Width() int
	Height() int
	Depth() int
	MipLevels() int
}

// Sampler is an immutable texture sampling state object.
type Sampler interface {
	Resource
}

// BindGroupLayout declares the slots of a bind group.
type BindGroupLayout interface {
	Resource
}

// PipelineLayout is the full binding interface of a pipeline.
type PipelineLayout interface {
	Resource
}

// BindGroup is a set of resources bound together, created against a
// BindGroupLayout.
type BindGroup interface {
	Resource

	// Update rebinds all slots from the descriptor. Slots with no
	// entry are bound to null resources with defined all-zero reads.
	// The previous bindings remain valid for frames already submitted.
	Update(desc *BindGroupDesc)
}

// Pipeline is a compiled render or compute pipeline.
type Pipeline interface {
	Resource
}

// QueryHeap holds a number of GPU query slots.
type QueryHeap interface {
	Resource

	Type() QueryType
	Count() uint32
}

// SwapChain presents rendered frames to a window surface.
type SwapChain interface {
	Resource

	Width() int
	Height() int
	Format() TextureFormat
	PresentMode() PresentMode
}

// CommandBuffer records GPU commands for one queue. Command buffers
// are checked out from the device with BeginCommandBuffer and handed
// back with Submit; they are pooled and reused, never destroyed by
// the caller.
type CommandBuffer interface {
	// Queue returns the queue this command buffer records for.
	Queue() CommandQueue

	PushDebugGroup(name string)
	PopDebugGroup()
	InsertDebugMarker(name string)

	// AcquireSwapchainTexture acquires the next backbuffer, resizing
	// the swapchain first if the window size changed. Returns nil with
	// no error when the window is minimized, and a nil texture with
	// ErrDeviceLost when the device is gone. The texture is valid until
	// the command buffer is submitted, and is presented at submit.
	AcquireSwapchainTexture(sc SwapChain) (Texture, error)

	// BufferBarrier transitions a buffer between resource states.
	// Barriers batch up and flush before the next draw, dispatch or
	// copy command.
	BufferBarrier(buf Buffer, before, after ResourceState)

	// TextureBarrier transitions a texture between resource states.
	TextureBarrier(tex Texture, before, after ResourceState)

	SetPipeline(pl Pipeline)
	SetBindGroup(index uint32, bg BindGroup)
	SetPushConstants(data []byte)

	CopyBufferToBuffer(src Buffer, srcOffset uint64, dst Buffer, dstOffset, size uint64)
	CopyTextureToBuffer(src Texture, mipLevel, slice uint32, dst Buffer, dstOffset uint64)

	Dispatch(x, y, z uint32)
	DispatchIndirect(args Buffer, offset uint64)

	BeginQuery(qh QueryHeap, index uint32)
	EndQuery(qh QueryHeap, index uint32)
	ResolveQuery(qh QueryHeap, start, count uint32, dst Buffer, dstOffset uint64)

	BeginRenderPass(desc *RenderPassDesc)
	EndRenderPass()

	SetViewport(vp Viewport)
	SetScissorRect(x, y, width, height int)
	SetBlendColor(color mat32.Vec4)
	SetVertexBuffer(slot uint32, buf Buffer, offset uint64)
	SetIndexBuffer(buf Buffer, tp IndexType, offset uint64)

	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
	DrawIndirect(args Buffer, offset uint64)
	DrawIndexedIndirect(args Buffer, offset uint64)
}

// GraphicsDevice is a logical GPU device on one backend. All Create
// methods return nil on failure after logging the native error.
// Command recording and submission must be externally synchronized;
// resource creation and release are safe to call from any goroutine.
type GraphicsDevice interface {
	// Backend returns the backend this device runs on.
	Backend() Backend

	// AdapterInfo returns information about the physical adapter.
	AdapterInfo() *AdapterInfo

	// HasFeature reports whether an optional capability is supported.
	HasFeature(f Feature) bool

	// CreateBuffer creates a buffer, uploading initial data when
	// provided (staged through the copy queue for device-local
	// buffers).
	CreateBuffer(desc *BufferDesc, data []byte) Buffer

	// CreateTexture creates a texture, uploading one initial data
	// slice per mip level when provided.
	CreateTexture(desc *TextureDesc, data [][]byte) Texture

	CreateSampler(desc *SamplerDesc) Sampler
	CreateBindGroupLayout(desc *BindGroupLayoutDesc) BindGroupLayout
	CreatePipelineLayout(desc *PipelineLayoutDesc) PipelineLayout

	// CreateBindGroup creates a bind group against the given layout.
	// Layout slots with no matching entry read as zero.
	CreateBindGroup(layout BindGroupLayout, desc *BindGroupDesc) BindGroup

	CreateRenderPipeline(desc *RenderPipelineDesc) Pipeline
	CreateComputePipeline(desc *ComputePipelineDesc) Pipeline
	CreateQueryHeap(desc *QueryHeapDesc) QueryHeap

	// CreateSwapChain creates a swapchain for a native window handle
	// (a *glfw.Window pointer, HWND, or similar per platform).
	CreateSwapChain(window uintptr, desc *SwapChainDesc) SwapChain

	// BeginCommandBuffer checks a pooled command buffer out for
	// recording on the given queue.
	BeginCommandBuffer(queue CommandQueue, label string) CommandBuffer

	// Submit submits the given command buffers (all outstanding ones
	// when none are given), presents any acquired swapchain textures,
	// advances the frame, and returns the submitted frame's ticket.
	// Blocks when MaxInflightFrames are already in flight.
	Submit(cmds ...CommandBuffer) uint64

	// FrameCount returns the number of submitted frames.
	FrameCount() uint64

	// FrameIndex returns FrameCount modulo MaxInflightFrames.
	FrameIndex() uint32

	// WaitIdle blocks until the GPU has finished all submitted work.
	WaitIdle()

	// Destroy waits for the GPU to go idle, destroys all pending
	// deferred resources and then the device itself.
	Destroy()
}
