// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webgpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/amerkoleci/vgfx"
)

// WebGPUFormats maps texture formats to wgpu formats.
// FormatDepth24UnormStencil8 maps to Depth24PlusStencil8, which is the
// closest format webgpu guarantees.
var WebGPUFormats = map[vgfx.TextureFormat]wgpu.TextureFormat{
	vgfx.FormatUndefined:            wgpu.TextureFormatUndefined,
	vgfx.FormatR8Unorm:              wgpu.TextureFormatR8Unorm,
	vgfx.FormatRG8Unorm:             wgpu.TextureFormatRG8Unorm,
	vgfx.FormatRGBA8Unorm:           wgpu.TextureFormatRGBA8Unorm,
	vgfx.FormatRGBA8Srgb:            wgpu.TextureFormatRGBA8UnormSrgb,
	vgfx.FormatBGRA8Unorm:           wgpu.TextureFormatBGRA8Unorm,
	vgfx.FormatBGRA8Srgb:            wgpu.TextureFormatBGRA8UnormSrgb,
	vgfx.FormatRGB10A2Unorm:         wgpu.TextureFormatRGB10A2Unorm,
	vgfx.FormatR16Float:             wgpu.TextureFormatR16Float,
	vgfx.FormatRG16Float:            wgpu.TextureFormatRG16Float,
	vgfx.FormatRGBA16Float:          wgpu.TextureFormatRGBA16Float,
	vgfx.FormatR32Float:             wgpu.TextureFormatR32Float,
	vgfx.FormatRG32Float:            wgpu.TextureFormatRG32Float,
	vgfx.FormatRGBA32Float:          wgpu.TextureFormatRGBA32Float,
	vgfx.FormatR32Uint:              wgpu.TextureFormatR32Uint,
	vgfx.FormatRG32Uint:             wgpu.TextureFormatRG32Uint,
	vgfx.FormatRGBA32Uint:           wgpu.TextureFormatRGBA32Uint,
	vgfx.FormatDepth16Unorm:         wgpu.TextureFormatDepth16Unorm,
	vgfx.FormatDepth32Float:         wgpu.TextureFormatDepth32Float,
	vgfx.FormatDepth24UnormStencil8: wgpu.TextureFormatDepth24PlusStencil8,
}

// TextureFormats is the inverse of WebGPUFormats, for swapchain
// formats reported by the surface.
var TextureFormats = func() map[wgpu.TextureFormat]vgfx.TextureFormat {
	m := make(map[wgpu.TextureFormat]vgfx.TextureFormat, len(WebGPUFormats))
	for tf, wf := range WebGPUFormats {
		m[wf] = tf
	}
	return m
}()

// WebGPUVertexFormats maps vertex attribute formats to wgpu.
var WebGPUVertexFormats = map[vgfx.VertexFormat]wgpu.VertexFormat{
	vgfx.VertexFloat32:    wgpu.VertexFormatFloat32,
	vgfx.VertexFloat32x2:  wgpu.VertexFormatFloat32x2,
	vgfx.VertexFloat32x3:  wgpu.VertexFormatFloat32x3,
	vgfx.VertexFloat32x4:  wgpu.VertexFormatFloat32x4,
	vgfx.VertexUint32:     wgpu.VertexFormatUint32,
	vgfx.VertexUint32x2:   wgpu.VertexFormatUint32x2,
	vgfx.VertexUint32x4:   wgpu.VertexFormatUint32x4,
	vgfx.VertexUByte4Norm: wgpu.VertexFormatUnorm8x4,
}

// WebGPUTopologies maps primitive topologies to wgpu.
var WebGPUTopologies = map[vgfx.PrimitiveTopology]wgpu.PrimitiveTopology{
	vgfx.TopologyPointList:     wgpu.PrimitiveTopologyPointList,
	vgfx.TopologyLineList:      wgpu.PrimitiveTopologyLineList,
	vgfx.TopologyLineStrip:     wgpu.PrimitiveTopologyLineStrip,
	vgfx.TopologyTriangleList:  wgpu.PrimitiveTopologyTriangleList,
	vgfx.TopologyTriangleStrip: wgpu.PrimitiveTopologyTriangleStrip,
}

// WebGPUCompareOps maps comparison functions to wgpu.
var WebGPUCompareOps = map[vgfx.CompareFunction]wgpu.CompareFunction{
	vgfx.CompareNever:        wgpu.CompareFunctionNever,
	vgfx.CompareLess:         wgpu.CompareFunctionLess,
	vgfx.CompareEqual:        wgpu.CompareFunctionEqual,
	vgfx.CompareLessEqual:    wgpu.CompareFunctionLessEqual,
	vgfx.CompareGreater:      wgpu.CompareFunctionGreater,
	vgfx.CompareNotEqual:     wgpu.CompareFunctionNotEqual,
	vgfx.CompareGreaterEqual: wgpu.CompareFunctionGreaterEqual,
	vgfx.CompareAlways:       wgpu.CompareFunctionAlways,
}

// WebGPUFilters maps filter modes to wgpu.
var WebGPUFilters = map[vgfx.FilterMode]wgpu.FilterMode{
	vgfx.FilterNearest: wgpu.FilterModeNearest,
	vgfx.FilterLinear:  wgpu.FilterModeLinear,
}

// WebGPUMipmapModes maps mip filter modes to wgpu.
var WebGPUMipmapModes = map[vgfx.FilterMode]wgpu.MipmapFilterMode{
	vgfx.FilterNearest: wgpu.MipmapFilterModeNearest,
	vgfx.FilterLinear:  wgpu.MipmapFilterModeLinear,
}

// WebGPUAddressModes maps sampler addressing modes to wgpu.
// Border clamping is not in core webgpu and falls back to edge clamping.
var WebGPUAddressModes = map[vgfx.AddressMode]wgpu.AddressMode{
	vgfx.AddressWrap:   wgpu.AddressModeRepeat,
	vgfx.AddressMirror: wgpu.AddressModeMirrorRepeat,
	vgfx.AddressClamp:  wgpu.AddressModeClampToEdge,
	vgfx.AddressBorder: wgpu.AddressModeClampToEdge,
}

// WebGPUPresentModes maps presentation pacing to wgpu.
var WebGPUPresentModes = map[vgfx.PresentMode]wgpu.PresentMode{
	vgfx.PresentFifo:      wgpu.PresentModeFifo,
	vgfx.PresentImmediate: wgpu.PresentModeImmediate,
	vgfx.PresentMailbox:   wgpu.PresentModeMailbox,
}

// WebGPUShaderStages converts a stage bitmask to wgpu stage flags.
func WebGPUShaderStages(stages vgfx.ShaderStage) wgpu.ShaderStage {
	var fl wgpu.ShaderStage
	if stages&vgfx.ShaderStageVertex != 0 {
		fl |= wgpu.ShaderStageVertex
	}
	if stages&vgfx.ShaderStageFragment != 0 {
		fl |= wgpu.ShaderStageFragment
	}
	if stages&vgfx.ShaderStageCompute != 0 {
		fl |= wgpu.ShaderStageCompute
	}
	return fl
}

// WebGPUBufferUsage converts buffer usage flags, always including copy
// src and dst so staging writes and readback work.
func WebGPUBufferUsage(usage vgfx.BufferUsage) wgpu.BufferUsage {
	fl := wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
	if usage&vgfx.BufferUsageVertex != 0 {
		fl |= wgpu.BufferUsageVertex
	}
	if usage&vgfx.BufferUsageIndex != 0 {
		fl |= wgpu.BufferUsageIndex
	}
	if usage&vgfx.BufferUsageConstant != 0 {
		fl |= wgpu.BufferUsageUniform
	}
	if usage&(vgfx.BufferUsageShaderRead|vgfx.BufferUsageShaderWrite) != 0 {
		fl |= wgpu.BufferUsageStorage
	}
	if usage&vgfx.BufferUsageIndirect != 0 {
		fl |= wgpu.BufferUsageIndirect
	}
	return fl
}

// WebGPUTextureUsage converts texture usage flags, always including
// copy src and dst so upload and readback work.
func WebGPUTextureUsage(usage vgfx.TextureUsage) wgpu.TextureUsage {
	fl := wgpu.TextureUsageCopySrc | wgpu.TextureUsageCopyDst
	if usage&vgfx.TextureUsageShaderRead != 0 {
		fl |= wgpu.TextureUsageTextureBinding
	}
	if usage&vgfx.TextureUsageShaderWrite != 0 {
		fl |= wgpu.TextureUsageStorageBinding
	}
	if usage&vgfx.TextureUsageRenderTarget != 0 {
		fl |= wgpu.TextureUsageRenderAttachment
	}
	return fl
}

func wgpuLoadOp(la vgfx.LoadAction) wgpu.LoadOp {
	if la == vgfx.LoadActionLoad {
		return wgpu.LoadOpLoad
	}
	// webgpu has no explicit discard; clear is the cheapest defined load
	return wgpu.LoadOpClear
}

func wgpuStoreOp(sa vgfx.StoreAction) wgpu.StoreOp {
	if sa == vgfx.StoreActionDiscard {
		return wgpu.StoreOpDiscard
	}
	return wgpu.StoreOpStore
}

func wgpuIndexFormat(it vgfx.IndexType) wgpu.IndexFormat {
	if it == vgfx.IndexUint16 {
		return wgpu.IndexFormatUint16
	}
	return wgpu.IndexFormatUint32
}

func wgpuCullMode(cm vgfx.CullMode) wgpu.CullMode {
	switch cm {
	case vgfx.CullFront:
		return wgpu.CullModeFront
	case vgfx.CullBack:
		return wgpu.CullModeBack
	}
	return wgpu.CullModeNone
}

func wgpuTextureDimension(td vgfx.TextureDimension) wgpu.TextureDimension {
	switch td {
	case vgfx.TextureDim1D:
		return wgpu.TextureDimension1D
	case vgfx.TextureDim3D:
		return wgpu.TextureDimension3D
	}
	// cube textures are 2D arrays of 6 layers
	return wgpu.TextureDimension2D
}
