// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webgpu

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"

	"github.com/amerkoleci/vgfx"
)

func TestFormatTables(t *testing.T) {
	for tf := vgfx.FormatUndefined; tf < vgfx.TextureFormatN; tf++ {
		wf, ok := WebGPUFormats[tf]
		assert.True(t, ok, "format %d has no wgpu mapping", tf)
		assert.Equal(t, tf, TextureFormats[wf], "format %d does not round-trip", tf)
	}
	assert.Equal(t, wgpu.TextureFormatDepth24PlusStencil8,
		WebGPUFormats[vgfx.FormatDepth24UnormStencil8])
}

func TestVertexFormatTable(t *testing.T) {
	for vf := vgfx.VertexFloat32; vf < vgfx.VertexFormatN; vf++ {
		_, ok := WebGPUVertexFormats[vf]
		assert.True(t, ok, "vertex format %d has no wgpu mapping", vf)
	}
	assert.Equal(t, wgpu.VertexFormatUnorm8x4, WebGPUVertexFormats[vgfx.VertexUByte4Norm])
}

func TestTopologyAndCompareTables(t *testing.T) {
	for tp := vgfx.TopologyPointList; tp < vgfx.PrimitiveTopologyN; tp++ {
		_, ok := WebGPUTopologies[tp]
		assert.True(t, ok, "topology %d has no wgpu mapping", tp)
	}
	for cf := vgfx.CompareNever; cf < vgfx.CompareFunctionN; cf++ {
		_, ok := WebGPUCompareOps[cf]
		assert.True(t, ok, "compare %d has no wgpu mapping", cf)
	}
}

func TestSamplerTables(t *testing.T) {
	for fm := vgfx.FilterNearest; fm < vgfx.FilterModeN; fm++ {
		_, ok := WebGPUFilters[fm]
		assert.True(t, ok, "filter %d has no wgpu mapping", fm)
		_, ok = WebGPUMipmapModes[fm]
		assert.True(t, ok, "mip filter %d has no wgpu mapping", fm)
	}
	for am := vgfx.AddressWrap; am < vgfx.AddressModeN; am++ {
		_, ok := WebGPUAddressModes[am]
		assert.True(t, ok, "address mode %d has no wgpu mapping", am)
	}
	// border clamping falls back to edge clamping
	assert.Equal(t, wgpu.AddressModeClampToEdge, WebGPUAddressModes[vgfx.AddressBorder])
}

func TestPresentModeTable(t *testing.T) {
	for pm := vgfx.PresentFifo; pm < vgfx.PresentModeN; pm++ {
		_, ok := WebGPUPresentModes[pm]
		assert.True(t, ok, "present mode %d has no wgpu mapping", pm)
	}
}

func TestShaderStageFlags(t *testing.T) {
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment,
		WebGPUShaderStages(vgfx.ShaderStageVertex|vgfx.ShaderStageFragment))
	assert.Equal(t, wgpu.ShaderStageCompute, WebGPUShaderStages(vgfx.ShaderStageCompute))
}

func TestBufferUsageAlwaysTransferable(t *testing.T) {
	fl := WebGPUBufferUsage(vgfx.BufferUsageNone)
	assert.NotZero(t, fl&wgpu.BufferUsageCopySrc)
	assert.NotZero(t, fl&wgpu.BufferUsageCopyDst)

	fl = WebGPUBufferUsage(vgfx.BufferUsageVertex | vgfx.BufferUsageShaderRead)
	assert.NotZero(t, fl&wgpu.BufferUsageVertex)
	assert.NotZero(t, fl&wgpu.BufferUsageStorage)

	fl = WebGPUBufferUsage(vgfx.BufferUsageConstant)
	assert.NotZero(t, fl&wgpu.BufferUsageUniform)
	assert.Zero(t, fl&wgpu.BufferUsageStorage)
}

func TestTextureUsage(t *testing.T) {
	fl := WebGPUTextureUsage(vgfx.TextureUsageShaderRead)
	assert.NotZero(t, fl&wgpu.TextureUsageTextureBinding)
	assert.Zero(t, fl&wgpu.TextureUsageStorageBinding)

	fl = WebGPUTextureUsage(vgfx.TextureUsageShaderWrite | vgfx.TextureUsageRenderTarget)
	assert.NotZero(t, fl&wgpu.TextureUsageStorageBinding)
	assert.NotZero(t, fl&wgpu.TextureUsageRenderAttachment)
	assert.NotZero(t, fl&wgpu.TextureUsageCopySrc)
}

func TestPassOps(t *testing.T) {
	assert.Equal(t, wgpu.LoadOpLoad, wgpuLoadOp(vgfx.LoadActionLoad))
	assert.Equal(t, wgpu.LoadOpClear, wgpuLoadOp(vgfx.LoadActionClear))
	assert.Equal(t, wgpu.LoadOpClear, wgpuLoadOp(vgfx.LoadActionDiscard))

	assert.Equal(t, wgpu.StoreOpStore, wgpuStoreOp(vgfx.StoreActionStore))
	assert.Equal(t, wgpu.StoreOpDiscard, wgpuStoreOp(vgfx.StoreActionDiscard))
}

func TestIndexAndCullHelpers(t *testing.T) {
	assert.Equal(t, wgpu.IndexFormatUint16, wgpuIndexFormat(vgfx.IndexUint16))
	assert.Equal(t, wgpu.IndexFormatUint32, wgpuIndexFormat(vgfx.IndexUint32))

	assert.Equal(t, wgpu.CullModeNone, wgpuCullMode(vgfx.CullNone))
	assert.Equal(t, wgpu.CullModeFront, wgpuCullMode(vgfx.CullFront))
	assert.Equal(t, wgpu.CullModeBack, wgpuCullMode(vgfx.CullBack))
}

func TestTextureDimensionHelper(t *testing.T) {
	assert.Equal(t, wgpu.TextureDimension1D, wgpuTextureDimension(vgfx.TextureDim1D))
	assert.Equal(t, wgpu.TextureDimension2D, wgpuTextureDimension(vgfx.TextureDim2D))
	assert.Equal(t, wgpu.TextureDimension3D, wgpuTextureDimension(vgfx.TextureDim3D))
	assert.Equal(t, wgpu.TextureDimension2D, wgpuTextureDimension(vgfx.TextureDimCube))
}
