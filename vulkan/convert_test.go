// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"

	"github.com/amerkoleci/vgfx"
)

func TestFormatTables(t *testing.T) {
	for tf := vgfx.FormatUndefined; tf < vgfx.TextureFormatN; tf++ {
		vf, ok := VulkanFormats[tf]
		assert.True(t, ok, "format %d has no vulkan mapping", tf)
		assert.Equal(t, tf, TextureFormats[vf], "format %d does not round-trip", tf)
	}
}

func TestVertexFormatTable(t *testing.T) {
	for vf := vgfx.VertexFloat32; vf < vgfx.VertexFormatN; vf++ {
		_, ok := VulkanVertexFormats[vf]
		assert.True(t, ok, "vertex format %d has no vulkan mapping", vf)
	}
}

func TestDescriptorTypeTable(t *testing.T) {
	for dt := vgfx.DescriptorType(0); dt < vgfx.DescriptorTypeN; dt++ {
		_, ok := VulkanDescriptorTypes[dt]
		assert.True(t, ok, "descriptor type %d has no vulkan mapping", dt)
	}
	assert.Equal(t, vk.DescriptorTypeSampler, VulkanDescriptorTypes[vgfx.DescriptorSampler])
	assert.Equal(t, vk.DescriptorTypeUniformBufferDynamic, VulkanDescriptorTypes[vgfx.DescriptorDynamicConstantBuffer])
}

func TestStateInfoTable(t *testing.T) {
	for st := vgfx.StateUndefined; st <= vgfx.StatePresent; st++ {
		_, ok := resourceStates[st]
		assert.True(t, ok, "state %d has no vulkan mapping", st)
	}

	access, stage, layout := StateInfo(vgfx.StateShaderRead)
	assert.Equal(t, vk.AccessFlags(vk.AccessShaderReadBit), access)
	assert.NotZero(t, stage)
	assert.Equal(t, vk.ImageLayoutShaderReadOnlyOptimal, layout)

	_, _, layout = StateInfo(vgfx.StatePresent)
	assert.Equal(t, vk.ImageLayoutPresentSrc, layout)

	_, _, layout = StateInfo(vgfx.StateVertexBuffer)
	assert.Equal(t, vk.ImageLayoutUndefined, layout)
}

func TestBufferUsageAlwaysTransferable(t *testing.T) {
	fl := VulkanBufferUsage(vgfx.BufferUsageNone)
	assert.NotZero(t, fl&vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit))
	assert.NotZero(t, fl&vk.BufferUsageFlags(vk.BufferUsageTransferDstBit))

	fl = VulkanBufferUsage(vgfx.BufferUsageVertex | vgfx.BufferUsageShaderRead)
	assert.NotZero(t, fl&vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit))
	assert.NotZero(t, fl&vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit))
	assert.Zero(t, fl&vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit))
}

func TestImageUsageByFormat(t *testing.T) {
	fl := VulkanImageUsage(vgfx.TextureUsageRenderTarget, vgfx.FormatBGRA8Unorm)
	assert.NotZero(t, fl&vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit))
	assert.Zero(t, fl&vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit))

	fl = VulkanImageUsage(vgfx.TextureUsageRenderTarget, vgfx.FormatDepth32Float)
	assert.NotZero(t, fl&vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit))
	assert.Zero(t, fl&vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit))
}

func TestImageAspect(t *testing.T) {
	assert.Equal(t, vk.ImageAspectFlags(vk.ImageAspectColorBit), ImageAspect(vgfx.FormatRGBA8Unorm))
	assert.Equal(t, vk.ImageAspectFlags(vk.ImageAspectDepthBit), ImageAspect(vgfx.FormatDepth32Float))
	assert.Equal(t, vk.ImageAspectFlags(vk.ImageAspectDepthBit|vk.ImageAspectStencilBit),
		ImageAspect(vgfx.FormatDepth24UnormStencil8))
}

func TestShaderStageFlags(t *testing.T) {
	fl := VulkanShaderStages(vgfx.ShaderStageVertex | vgfx.ShaderStageFragment)
	assert.Equal(t, vk.ShaderStageFlags(vk.ShaderStageVertexBit|vk.ShaderStageFragmentBit), fl)
	assert.Zero(t, VulkanShaderStages(0))
}
