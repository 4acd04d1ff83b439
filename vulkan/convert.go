// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/amerkoleci/vgfx"
)

// VulkanFormats maps vgfx texture formats to vulkan formats.
var VulkanFormats = map[vgfx.TextureFormat]vk.Format{
	vgfx.FormatUndefined:            vk.FormatUndefined,
	vgfx.FormatR8Unorm:              vk.FormatR8Unorm,
	vgfx.FormatRG8Unorm:             vk.FormatR8g8Unorm,
	vgfx.FormatRGBA8Unorm:           vk.FormatR8g8b8a8Unorm,
	vgfx.FormatRGBA8Srgb:            vk.FormatR8g8b8a8Srgb,
	vgfx.FormatBGRA8Unorm:           vk.FormatB8g8r8a8Unorm,
	vgfx.FormatBGRA8Srgb:            vk.FormatB8g8r8a8Srgb,
	vgfx.FormatRGB10A2Unorm:         vk.FormatA2b10g10r10UnormPack32,
	vgfx.FormatR16Float:             vk.FormatR16Sfloat,
	vgfx.FormatRG16Float:            vk.FormatR16g16Sfloat,
	vgfx.FormatRGBA16Float:          vk.FormatR16g16b16a16Sfloat,
	vgfx.FormatR32Float:             vk.FormatR32Sfloat,
	vgfx.FormatRG32Float:            vk.FormatR32g32Sfloat,
	vgfx.FormatRGBA32Float:          vk.FormatR32g32b32a32Sfloat,
	vgfx.FormatR32Uint:              vk.FormatR32Uint,
	vgfx.FormatRG32Uint:             vk.FormatR32g32Uint,
	vgfx.FormatRGBA32Uint:           vk.FormatR32g32b32a32Uint,
	vgfx.FormatDepth16Unorm:         vk.FormatD16Unorm,
	vgfx.FormatDepth32Float:         vk.FormatD32Sfloat,
	vgfx.FormatDepth24UnormStencil8: vk.FormatD24UnormS8Uint,
}

// TextureFormats is the inverse of VulkanFormats, for swapchain
// formats reported by the surface.
var TextureFormats = func() map[vk.Format]vgfx.TextureFormat {
	m := make(map[vk.Format]vgfx.TextureFormat, len(VulkanFormats))
	for tf, vf := range VulkanFormats {
		m[vf] = tf
	}
	return m
}()

// VulkanVertexFormats maps vertex attribute formats to vulkan formats.
var VulkanVertexFormats = map[vgfx.VertexFormat]vk.Format{
	vgfx.VertexFloat32:    vk.FormatR32Sfloat,
	vgfx.VertexFloat32x2:  vk.FormatR32g32Sfloat,
	vgfx.VertexFloat32x3:  vk.FormatR32g32b32Sfloat,
	vgfx.VertexFloat32x4:  vk.FormatR32g32b32a32Sfloat,
	vgfx.VertexUint32:     vk.FormatR32Uint,
	vgfx.VertexUint32x2:   vk.FormatR32g32Uint,
	vgfx.VertexUint32x4:   vk.FormatR32g32b32a32Uint,
	vgfx.VertexUByte4Norm: vk.FormatR8g8b8a8Unorm,
}

// VulkanTopologies maps primitive topologies to vulkan.
var VulkanTopologies = map[vgfx.PrimitiveTopology]vk.PrimitiveTopology{
	vgfx.TopologyPointList:     vk.PrimitiveTopologyPointList,
	vgfx.TopologyLineList:      vk.PrimitiveTopologyLineList,
	vgfx.TopologyLineStrip:     vk.PrimitiveTopologyLineStrip,
	vgfx.TopologyTriangleList:  vk.PrimitiveTopologyTriangleList,
	vgfx.TopologyTriangleStrip: vk.PrimitiveTopologyTriangleStrip,
}

// VulkanCompareOps maps comparison functions to vulkan.
var VulkanCompareOps = map[vgfx.CompareFunction]vk.CompareOp{
	vgfx.CompareNever:        vk.CompareOpNever,
	vgfx.CompareLess:         vk.CompareOpLess,
	vgfx.CompareEqual:        vk.CompareOpEqual,
	vgfx.CompareLessEqual:    vk.CompareOpLessOrEqual,
	vgfx.CompareGreater:      vk.CompareOpGreater,
	vgfx.CompareNotEqual:     vk.CompareOpNotEqual,
	vgfx.CompareGreaterEqual: vk.CompareOpGreaterOrEqual,
	vgfx.CompareAlways:       vk.CompareOpAlways,
}

// VulkanFilters maps filter modes to vulkan.
var VulkanFilters = map[vgfx.FilterMode]vk.Filter{
	vgfx.FilterNearest: vk.FilterNearest,
	vgfx.FilterLinear:  vk.FilterLinear,
}

// VulkanMipmapModes maps mip filter modes to vulkan.
var VulkanMipmapModes = map[vgfx.FilterMode]vk.SamplerMipmapMode{
	vgfx.FilterNearest: vk.SamplerMipmapModeNearest,
	vgfx.FilterLinear:  vk.SamplerMipmapModeLinear,
}

// VulkanAddressModes maps sampler addressing modes to vulkan.
var VulkanAddressModes = map[vgfx.AddressMode]vk.SamplerAddressMode{
	vgfx.AddressWrap:   vk.SamplerAddressModeRepeat,
	vgfx.AddressMirror: vk.SamplerAddressModeMirroredRepeat,
	vgfx.AddressClamp:  vk.SamplerAddressModeClampToEdge,
	vgfx.AddressBorder: vk.SamplerAddressModeClampToBorder,
}

// VulkanDescriptorTypes maps descriptor types to vulkan.
var VulkanDescriptorTypes = map[vgfx.DescriptorType]vk.DescriptorType{
	vgfx.DescriptorSampler:                vk.DescriptorTypeSampler,
	vgfx.DescriptorSampledTexture:         vk.DescriptorTypeSampledImage,
	vgfx.DescriptorStorageTexture:         vk.DescriptorTypeStorageImage,
	vgfx.DescriptorReadOnlyStorageTexture: vk.DescriptorTypeStorageImage,
	vgfx.DescriptorConstantBuffer:         vk.DescriptorTypeUniformBuffer,
	vgfx.DescriptorDynamicConstantBuffer:  vk.DescriptorTypeUniformBufferDynamic,
	vgfx.DescriptorStorageBuffer:          vk.DescriptorTypeStorageBuffer,
	vgfx.DescriptorReadOnlyStorageBuffer:  vk.DescriptorTypeStorageBuffer,
}

// VulkanShaderStages converts a stage bitmask to vulkan stage flags.
func VulkanShaderStages(stages vgfx.ShaderStage) vk.ShaderStageFlags {
	var fl vk.ShaderStageFlags
	if stages&vgfx.ShaderStageVertex != 0 {
		fl |= vk.ShaderStageFlags(vk.ShaderStageVertexBit)
	}
	if stages&vgfx.ShaderStageFragment != 0 {
		fl |= vk.ShaderStageFlags(vk.ShaderStageFragmentBit)
	}
	if stages&vgfx.ShaderStageCompute != 0 {
		fl |= vk.ShaderStageFlags(vk.ShaderStageComputeBit)
	}
	return fl
}

// VulkanBufferUsage converts buffer usage flags, always including
// transfer src and dst so staging copies and readback work.
func VulkanBufferUsage(usage vgfx.BufferUsage) vk.BufferUsageFlags {
	fl := vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit | vk.BufferUsageTransferDstBit)
	if usage&vgfx.BufferUsageVertex != 0 {
		fl |= vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit)
	}
	if usage&vgfx.BufferUsageIndex != 0 {
		fl |= vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit)
	}
	if usage&vgfx.BufferUsageConstant != 0 {
		fl |= vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit)
	}
	if usage&(vgfx.BufferUsageShaderRead|vgfx.BufferUsageShaderWrite) != 0 {
		fl |= vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit)
	}
	if usage&vgfx.BufferUsageIndirect != 0 {
		fl |= vk.BufferUsageFlags(vk.BufferUsageIndirectBufferBit)
	}
	return fl
}

// VulkanImageUsage converts texture usage flags, always including
// transfer src and dst so upload and readback work.
func VulkanImageUsage(usage vgfx.TextureUsage, format vgfx.TextureFormat) vk.ImageUsageFlags {
	fl := vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit | vk.ImageUsageTransferDstBit)
	if usage&vgfx.TextureUsageShaderRead != 0 {
		fl |= vk.ImageUsageFlags(vk.ImageUsageSampledBit)
	}
	if usage&vgfx.TextureUsageShaderWrite != 0 {
		fl |= vk.ImageUsageFlags(vk.ImageUsageStorageBit)
	}
	if usage&vgfx.TextureUsageRenderTarget != 0 {
		if format.HasDepth() {
			fl |= vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit)
		} else {
			fl |= vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit)
		}
	}
	return fl
}

// ImageAspect returns the aspect flags for a format.
func ImageAspect(format vgfx.TextureFormat) vk.ImageAspectFlags {
	if format.HasDepth() {
		asp := vk.ImageAspectFlags(vk.ImageAspectDepthBit)
		if format.HasStencil() {
			asp |= vk.ImageAspectFlags(vk.ImageAspectStencilBit)
		}
		return asp
	}
	return vk.ImageAspectFlags(vk.ImageAspectColorBit)
}

// stateInfo is the vulkan translation of one ResourceState.
type stateInfo struct {
	access vk.AccessFlags
	stage  vk.PipelineStageFlags
	layout vk.ImageLayout
}

var resourceStates = map[vgfx.ResourceState]stateInfo{
	vgfx.StateUndefined: {
		0,
		vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
		vk.ImageLayoutUndefined,
	},
	vgfx.StateCommon: {
		vk.AccessFlags(vk.AccessMemoryReadBit | vk.AccessMemoryWriteBit),
		vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit),
		vk.ImageLayoutGeneral,
	},
	vgfx.StateVertexBuffer: {
		vk.AccessFlags(vk.AccessVertexAttributeReadBit),
		vk.PipelineStageFlags(vk.PipelineStageVertexInputBit),
		vk.ImageLayoutUndefined,
	},
	vgfx.StateIndexBuffer: {
		vk.AccessFlags(vk.AccessIndexReadBit),
		vk.PipelineStageFlags(vk.PipelineStageVertexInputBit),
		vk.ImageLayoutUndefined,
	},
	vgfx.StateConstantBuffer: {
		vk.AccessFlags(vk.AccessUniformReadBit),
		vk.PipelineStageFlags(vk.PipelineStageVertexShaderBit | vk.PipelineStageFragmentShaderBit | vk.PipelineStageComputeShaderBit),
		vk.ImageLayoutUndefined,
	},
	vgfx.StateShaderRead: {
		vk.AccessFlags(vk.AccessShaderReadBit),
		vk.PipelineStageFlags(vk.PipelineStageVertexShaderBit | vk.PipelineStageFragmentShaderBit | vk.PipelineStageComputeShaderBit),
		vk.ImageLayoutShaderReadOnlyOptimal,
	},
	vgfx.StateShaderWrite: {
		vk.AccessFlags(vk.AccessShaderReadBit | vk.AccessShaderWriteBit),
		vk.PipelineStageFlags(vk.PipelineStageVertexShaderBit | vk.PipelineStageFragmentShaderBit | vk.PipelineStageComputeShaderBit),
		vk.ImageLayoutGeneral,
	},
	vgfx.StateRenderTarget: {
		vk.AccessFlags(vk.AccessColorAttachmentReadBit | vk.AccessColorAttachmentWriteBit),
		vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		vk.ImageLayoutColorAttachmentOptimal,
	},
	vgfx.StateDepthWrite: {
		vk.AccessFlags(vk.AccessDepthStencilAttachmentReadBit | vk.AccessDepthStencilAttachmentWriteBit),
		vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit | vk.PipelineStageLateFragmentTestsBit),
		vk.ImageLayoutDepthStencilAttachmentOptimal,
	},
	vgfx.StateDepthRead: {
		vk.AccessFlags(vk.AccessDepthStencilAttachmentReadBit),
		vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit | vk.PipelineStageLateFragmentTestsBit),
		vk.ImageLayoutDepthStencilReadOnlyOptimal,
	},
	vgfx.StateCopySource: {
		vk.AccessFlags(vk.AccessTransferReadBit),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.ImageLayoutTransferSrcOptimal,
	},
	vgfx.StateCopyDest: {
		vk.AccessFlags(vk.AccessTransferWriteBit),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.ImageLayoutTransferDstOptimal,
	},
	vgfx.StateIndirectArgument: {
		vk.AccessFlags(vk.AccessIndirectCommandReadBit),
		vk.PipelineStageFlags(vk.PipelineStageDrawIndirectBit),
		vk.ImageLayoutUndefined,
	},
	vgfx.StatePresent: {
		0,
		vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit),
		vk.ImageLayoutPresentSrc,
	},
}

// StateInfo returns the access mask, stage mask and image layout for
// a resource state.
func StateInfo(st vgfx.ResourceState) (vk.AccessFlags, vk.PipelineStageFlags, vk.ImageLayout) {
	si := resourceStates[st]
	return si.access, si.stage, si.layout
}
