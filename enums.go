// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import "github.com/goki/ki/kit"

// Backend identifies a native graphics API that a device can run on.
type Backend int32

const (
	// BackendDefault picks the highest-priority supported backend.
	BackendDefault Backend = iota
	BackendVulkan
	BackendWebGPU
	BackendD3D12
	BackendOpenGL
	BackendN
)

var KiT_Backend = kit.Enums.AddEnum(BackendN, kit.NotBitFlag, nil)

// ValidationMode controls native API validation layers.
type ValidationMode int32

const (
	// ValidationDisabled turns off all validation (release mode).
	ValidationDisabled ValidationMode = iota
	// ValidationEnabled prints errors and warnings from the native
	// validation layers.
	ValidationEnabled
	// ValidationVerbose additionally prints info and perf messages.
	ValidationVerbose
	// ValidationGPU enables GPU-assisted validation where available.
	ValidationGPU
	ValidationModeN
)

var KiT_ValidationMode = kit.Enums.AddEnum(ValidationModeN, kit.NotBitFlag, nil)

// PowerPreference selects between adapters when more than one is present.
type PowerPreference int32

const (
	PowerDefault PowerPreference = iota
	PowerLowPower
	PowerHighPerformance
	PowerPreferenceN
)

var KiT_PowerPreference = kit.Enums.AddEnum(PowerPreferenceN, kit.NotBitFlag, nil)

// AdapterType classifies the physical adapter a device runs on.
type AdapterType int32

const (
	AdapterOther AdapterType = iota
	AdapterIntegratedGPU
	AdapterDiscreteGPU
	AdapterVirtualGPU
	AdapterCPU
	AdapterTypeN
)

var KiT_AdapterType = kit.Enums.AddEnum(AdapterTypeN, kit.NotBitFlag, nil)

// CommandQueue identifies one of the device's hardware queues.
type CommandQueue int32

const (
	QueueGraphics CommandQueue = iota
	QueueCompute
	QueueCopy
	CommandQueueN
)

var KiT_CommandQueue = kit.Enums.AddEnum(CommandQueueN, kit.NotBitFlag, nil)

// CpuAccessMode determines whether and how the CPU can map a buffer.
type CpuAccessMode int32

const (
	// CpuAccessNone is device-local memory with no CPU mapping.
	CpuAccessNone CpuAccessMode = iota
	// CpuAccessWrite is upload memory, persistently mapped for writing.
	CpuAccessWrite
	// CpuAccessRead is readback memory, persistently mapped for reading.
	CpuAccessRead
	CpuAccessModeN
)

var KiT_CpuAccessMode = kit.Enums.AddEnum(CpuAccessModeN, kit.NotBitFlag, nil)

// DescriptorType is the kind of resource bound at a bind group slot.
type DescriptorType int32

const (
	DescriptorSampler DescriptorType = iota
	DescriptorSampledTexture
	DescriptorStorageTexture
	DescriptorReadOnlyStorageTexture
	DescriptorConstantBuffer
	DescriptorDynamicConstantBuffer
	DescriptorStorageBuffer
	DescriptorReadOnlyStorageBuffer
	DescriptorTypeN
)

var KiT_DescriptorType = kit.Enums.AddEnum(DescriptorTypeN, kit.NotBitFlag, nil)

// IsSampler returns true for slots that live in the sampler descriptor
// family, which is managed separately from all buffer and texture views.
func (dt DescriptorType) IsSampler() bool {
	return dt == DescriptorSampler
}

// IsBuffer returns true for buffer-backed descriptor types.
func (dt DescriptorType) IsBuffer() bool {
	switch dt {
	case DescriptorConstantBuffer, DescriptorDynamicConstantBuffer,
		DescriptorStorageBuffer, DescriptorReadOnlyStorageBuffer:
		return true
	}
	return false
}

// BufferUsage is a bitmask of the ways a buffer can be used on the GPU.
type BufferUsage int32

const (
	BufferUsageNone     BufferUsage = 0
	BufferUsageVertex   BufferUsage = 1 << 0
	BufferUsageIndex    BufferUsage = 1 << 1
	BufferUsageConstant BufferUsage = 1 << 2
	// BufferUsageShaderRead allows read-only access from shaders.
	BufferUsageShaderRead BufferUsage = 1 << 3
	// BufferUsageShaderWrite allows read-write storage access from shaders.
	BufferUsageShaderWrite BufferUsage = 1 << 4
	BufferUsageIndirect    BufferUsage = 1 << 5
)

// TextureUsage is a bitmask of the ways a texture can be used on the GPU.
type TextureUsage int32

const (
	TextureUsageNone         TextureUsage = 0
	TextureUsageShaderRead   TextureUsage = 1 << 0
	TextureUsageShaderWrite  TextureUsage = 1 << 1
	TextureUsageRenderTarget TextureUsage = 1 << 2
)

// ShaderStage is a bitmask of pipeline stages.
type ShaderStage int32

const (
	ShaderStageNone     ShaderStage = 0
	ShaderStageVertex   ShaderStage = 1 << 0
	ShaderStageFragment ShaderStage = 1 << 1
	ShaderStageCompute  ShaderStage = 1 << 2
	ShaderStageAll      ShaderStage = ShaderStageVertex | ShaderStageFragment | ShaderStageCompute
)

// TextureDimension is the dimensionality of a texture resource.
type TextureDimension int32

const (
	TextureDim1D TextureDimension = iota
	TextureDim2D
	TextureDim3D
	TextureDimCube
	TextureDimensionN
)

var KiT_TextureDimension = kit.Enums.AddEnum(TextureDimensionN, kit.NotBitFlag, nil)

// PresentMode selects how swapchain presentation is paced.
type PresentMode int32

const (
	// PresentFifo is vsync, always available.
	PresentFifo PresentMode = iota
	// PresentImmediate presents without waiting, may tear.
	PresentImmediate
	// PresentMailbox is low-latency vsync when the driver supports it.
	PresentMailbox
	PresentModeN
)

var KiT_PresentMode = kit.Enums.AddEnum(PresentModeN, kit.NotBitFlag, nil)

// LoadAction determines render pass attachment load behavior.
type LoadAction int32

const (
	LoadActionLoad LoadAction = iota
	LoadActionClear
	LoadActionDiscard
	LoadActionN
)

// StoreAction determines render pass attachment store behavior.
type StoreAction int32

const (
	StoreActionStore StoreAction = iota
	StoreActionDiscard
	StoreActionN
)

// IndexType is the element type of an index buffer.
type IndexType int32

const (
	IndexUint16 IndexType = iota
	IndexUint32
	IndexTypeN
)

// Bytes returns the size of one index of this type.
func (it IndexType) Bytes() uint64 {
	if it == IndexUint16 {
		return 2
	}
	return 4
}

// QueryType is the kind of GPU query recorded into a query heap.
type QueryType int32

const (
	QueryTimestamp QueryType = iota
	QueryOcclusion
	QueryBinaryOcclusion
	QueryTypeN
)

// PrimitiveTopology is the vertex assembly topology of a render pipeline.
type PrimitiveTopology int32

const (
	TopologyPointList PrimitiveTopology = iota
	TopologyLineList
	TopologyLineStrip
	TopologyTriangleList
	TopologyTriangleStrip
	PrimitiveTopologyN
)

var KiT_PrimitiveTopology = kit.Enums.AddEnum(PrimitiveTopologyN, kit.NotBitFlag, nil)

// CompareFunction is a depth / sampler comparison function.
type CompareFunction int32

const (
	CompareNever CompareFunction = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
	CompareFunctionN
)

// FilterMode is a sampler min / mag / mip filter.
type FilterMode int32

const (
	FilterNearest FilterMode = iota
	FilterLinear
	FilterModeN
)

// AddressMode is a sampler texture addressing mode.
type AddressMode int32

const (
	AddressWrap AddressMode = iota
	AddressMirror
	AddressClamp
	AddressBorder
	AddressModeN
)

// ResourceState is the synchronization state of a resource used by
// barrier commands; it maps to access masks and image layouts on
// Vulkan and to resource states on other explicit APIs.
type ResourceState int32

const (
	StateUndefined ResourceState = iota
	StateCommon
	StateVertexBuffer
	StateIndexBuffer
	StateConstantBuffer
	StateShaderRead
	StateShaderWrite
	StateRenderTarget
	StateDepthWrite
	StateDepthRead
	StateCopySource
	StateCopyDest
	StateIndirectArgument
	StatePresent
	ResourceStateN
)

var KiT_ResourceState = kit.Enums.AddEnum(ResourceStateN, kit.NotBitFlag, nil)
