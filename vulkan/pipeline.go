// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/amerkoleci/vgfx"
)

// Pipeline is a compiled render or compute pipeline plus the layout
// state that command recording needs when it is bound.
type Pipeline struct {
	vgfx.RefCount
	dev       *Device
	pipeline  vk.Pipeline
	layout    *PipelineLayout
	bindPoint vk.PipelineBindPoint
	label     string

	// push constant shape, for SetPushConstants
	pushStages vk.ShaderStageFlags
	pushSize   uint32
}

// shaderModule compiles one stage's SPIR-V into a module. Modules are
// only needed during pipeline creation and are destroyed right after.
func (dv *Device) shaderModule(code []byte) (vk.ShaderModule, error) {
	var mod vk.ShaderModule
	ret := vk.CreateShaderModule(dv.Dev, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(code)),
		PCode:    repackUint32(code),
	}, nil, &mod)
	return mod, NewError(ret)
}

// repackUint32 converts SPIR-V bytes into the word slice the C API
// wants.
func repackUint32(data []byte) []uint32 {
	if len(data) < 4 {
		return nil
	}
	buf := make([]uint32, len(data)/4)
	vk.Memcopy(unsafe.Pointer(&buf[0]), data)
	return buf
}

func shaderStage(stage vk.ShaderStageFlagBits, mod vk.ShaderModule, entry string) vk.PipelineShaderStageCreateInfo {
	if entry == "" {
		entry = "main"
	}
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  stage,
		Module: mod,
		PName:  safeString(entry),
	}
}

func (dv *Device) CreateRenderPipeline(desc *vgfx.RenderPipelineDesc) vgfx.Pipeline {
	lo := desc.Layout.(*PipelineLayout)

	vertMod, err := dv.shaderModule(desc.Vertex.ByteCode)
	if err != nil {
		vgfx.Logf(vgfx.LogError, "CreateRenderPipeline: vertex shader: %v", err)
		return nil
	}
	defer vk.DestroyShaderModule(dv.Dev, vertMod, nil)
	stages := []vk.PipelineShaderStageCreateInfo{
		shaderStage(vk.ShaderStageVertexBit, vertMod, desc.Vertex.EntryPoint),
	}
	if len(desc.Fragment.ByteCode) > 0 {
		fragMod, err := dv.shaderModule(desc.Fragment.ByteCode)
		if err != nil {
			vgfx.Logf(vgfx.LogError, "CreateRenderPipeline: fragment shader: %v", err)
			return nil
		}
		defer vk.DestroyShaderModule(dv.Dev, fragMod, nil)
		stages = append(stages, shaderStage(vk.ShaderStageFragmentBit, fragMod, desc.Fragment.EntryPoint))
	}

	var vtxBinds []vk.VertexInputBindingDescription
	var vtxAttrs []vk.VertexInputAttributeDescription
	for slot, vl := range desc.VertexLayouts {
		rate := vk.VertexInputRateVertex
		if vl.PerInstance {
			rate = vk.VertexInputRateInstance
		}
		vtxBinds = append(vtxBinds, vk.VertexInputBindingDescription{
			Binding:   uint32(slot),
			Stride:    vl.Stride,
			InputRate: rate,
		})
		for _, at := range vl.Attributes {
			vtxAttrs = append(vtxAttrs, vk.VertexInputAttributeDescription{
				Location: at.Location,
				Binding:  uint32(slot),
				Format:   VulkanVertexFormats[at.Format],
				Offset:   at.Offset,
			})
		}
	}

	cull := vk.CullModeNone
	switch desc.Cull {
	case vgfx.CullFront:
		cull = vk.CullModeFrontBit
	case vgfx.CullBack:
		cull = vk.CullModeBackBit
	}
	front := vk.FrontFaceClockwise
	if desc.FrontCCW {
		front = vk.FrontFaceCounterClockwise
	}

	samples := desc.SampleCount
	if samples == 0 {
		samples = 1
	}

	var blends []vk.PipelineColorBlendAttachmentState
	key := passKey{samples: sampleCountFlag(samples)}
	for i, cf := range desc.ColorFormats {
		if i >= vgfx.MaxColorAttachments {
			break
		}
		key.colors[i] = passAttach{
			format: VulkanFormats[cf],
			load:   vgfx.LoadActionClear,
			store:  vgfx.StoreActionStore,
		}
		key.numColors++
		bl := vk.PipelineColorBlendAttachmentState{
			ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit |
				vk.ColorComponentBBit | vk.ColorComponentABit),
		}
		if desc.BlendEnabled {
			bl.BlendEnable = vk.True
			bl.SrcColorBlendFactor = vk.BlendFactorOne
			bl.DstColorBlendFactor = vk.BlendFactorOneMinusSrcAlpha
			bl.ColorBlendOp = vk.BlendOpAdd
			bl.SrcAlphaBlendFactor = vk.BlendFactorOne
			bl.DstAlphaBlendFactor = vk.BlendFactorOneMinusSrcAlpha
			bl.AlphaBlendOp = vk.BlendOpAdd
		}
		blends = append(blends, bl)
	}

	var depthState *vk.PipelineDepthStencilStateCreateInfo
	if desc.DepthFormat != vgfx.FormatUndefined {
		key.hasDepth = true
		key.depth = passAttach{
			format: VulkanFormats[desc.DepthFormat],
			load:   vgfx.LoadActionClear,
			store:  vgfx.StoreActionStore,
		}
		testOn := desc.DepthWrite || desc.DepthCompare != vgfx.CompareNever
		depthState = &vk.PipelineDepthStencilStateCreateInfo{
			SType:          vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthCompareOp: VulkanCompareOps[desc.DepthCompare],
		}
		if testOn {
			depthState.DepthTestEnable = vk.True
		}
		if desc.DepthWrite {
			depthState.DepthWriteEnable = vk.True
		}
	}

	renderPass := dv.renderPasses.pass(key)

	info := vk.GraphicsPipelineCreateInfo{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: uint32(len(stages)),
		PStages:    stages,
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
			VertexBindingDescriptionCount:   uint32(len(vtxBinds)),
			PVertexBindingDescriptions:      vtxBinds,
			VertexAttributeDescriptionCount: uint32(len(vtxAttrs)),
			PVertexAttributeDescriptions:    vtxAttrs,
		},
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology: VulkanTopologies[desc.Topology],
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			ScissorCount:  1,
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
			PolygonMode: vk.PolygonModeFill,
			CullMode:    vk.CullModeFlags(cull),
			FrontFace:   front,
			LineWidth:   1,
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: sampleCountFlag(samples),
		},
		PDepthStencilState: depthState,
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			AttachmentCount: uint32(len(blends)),
			PAttachments:    blends,
		},
		PDynamicState: &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: 3,
			PDynamicStates: []vk.DynamicState{
				vk.DynamicStateViewport,
				vk.DynamicStateScissor,
				vk.DynamicStateBlendConstants,
			},
		},
		Layout:     lo.layout,
		RenderPass: renderPass,
		Subpass:    0,
	}

	pipes := make([]vk.Pipeline, 1)
	ret := vk.CreateGraphicsPipelines(dv.Dev, dv.pipelineCache, 1,
		[]vk.GraphicsPipelineCreateInfo{info}, nil, pipes)
	if err := NewError(ret); err != nil {
		vgfx.Logf(vgfx.LogError, "CreateRenderPipeline: %v", err)
		return nil
	}
	return dv.newPipeline(pipes[0], lo, vk.PipelineBindPointGraphics, desc.Label)
}

func (dv *Device) CreateComputePipeline(desc *vgfx.ComputePipelineDesc) vgfx.Pipeline {
	lo := desc.Layout.(*PipelineLayout)
	mod, err := dv.shaderModule(desc.Shader.ByteCode)
	if err != nil {
		vgfx.Logf(vgfx.LogError, "CreateComputePipeline: shader: %v", err)
		return nil
	}
	defer vk.DestroyShaderModule(dv.Dev, mod, nil)

	pipes := make([]vk.Pipeline, 1)
	ret := vk.CreateComputePipelines(dv.Dev, dv.pipelineCache, 1,
		[]vk.ComputePipelineCreateInfo{{
			SType:  vk.StructureTypeComputePipelineCreateInfo,
			Stage:  shaderStage(vk.ShaderStageComputeBit, mod, desc.Shader.EntryPoint),
			Layout: lo.layout,
		}}, nil, pipes)
	if err := NewError(ret); err != nil {
		vgfx.Logf(vgfx.LogError, "CreateComputePipeline: %v", err)
		return nil
	}
	return dv.newPipeline(pipes[0], lo, vk.PipelineBindPointCompute, desc.Label)
}

func (dv *Device) newPipeline(pp vk.Pipeline, lo *PipelineLayout, bp vk.PipelineBindPoint, label string) *Pipeline {
	var pushStages vk.ShaderStageFlags
	var pushSize uint32
	for _, pc := range lo.pushRanges {
		pushStages |= pc.StageFlags
		pushSize += pc.Size
	}
	lo.AddRef()
	pl := &Pipeline{
		dev:        dv,
		pipeline:   pp,
		layout:     lo,
		bindPoint:  bp,
		label:      label,
		pushStages: pushStages,
		pushSize:   pushSize,
	}
	pl.InitRef()
	return pl
}

func (pl *Pipeline) SetLabel(label string) { pl.label = label }

func (pl *Pipeline) AddRef() int32 { return pl.RefCount.AddRef() }

func (pl *Pipeline) Release() int32 {
	refs := pl.DecRef()
	if refs == 0 {
		pl.destroy()
	}
	return refs
}

func (pl *Pipeline) destroy() {
	dv := pl.dev
	if pl.pipeline != vk.NullPipeline {
		if dv.isShuttingDown() {
			vk.DestroyPipeline(dv.Dev, pl.pipeline, nil)
		} else {
			dv.dqPipelines.Push(pl.pipeline, dv.pacer.FrameCount())
		}
		pl.pipeline = vk.NullPipeline
	}
	pl.layout.Release()
}
