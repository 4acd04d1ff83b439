// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webgpu

import (
	"encoding/binary"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/amerkoleci/vgfx"
)

// Pipeline is the webgpu implementation of vgfx.Pipeline, wrapping
// either a render or a compute pipeline.
type Pipeline struct {
	vgfx.RefCount
	dev     *Device
	render  *wgpu.RenderPipeline
	compute *wgpu.ComputePipeline
	layout  *PipelineLayout
	label   string
}

// shaderModule creates a module from SPIR-V bytecode.
func (dv *Device) shaderModule(sd *vgfx.ShaderDesc, label string) *wgpu.ShaderModule {
	if len(sd.ByteCode) < 4 {
		vgfx.Logf(vgfx.LogError, "shader %q: empty bytecode", label)
		return nil
	}
	code := make([]uint32, len(sd.ByteCode)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(sd.ByteCode[i*4:])
	}
	// wgpu takes the SPIR-V stream as bytes.
	raw := make([]byte, len(code)*4)
	for i, w := range code {
		binary.LittleEndian.PutUint32(raw[i*4:], w)
	}
	mod, err := dv.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:           label,
		SPIRVDescriptor: &wgpu.ShaderModuleSPIRVDescriptor{Code: raw},
	})
	if err != nil {
		vgfx.Logf(vgfx.LogError, "shader %q: %v", label, err)
		return nil
	}
	return mod
}

func entryPoint(sd *vgfx.ShaderDesc) string {
	if sd.EntryPoint == "" {
		return "main"
	}
	return sd.EntryPoint
}

// CreateRenderPipeline compiles a render pipeline.
func (dv *Device) CreateRenderPipeline(desc *vgfx.RenderPipelineDesc) vgfx.Pipeline {
	layout, ok := desc.Layout.(*PipelineLayout)
	if !ok || layout == nil {
		vgfx.Logf(vgfx.LogError, "CreateRenderPipeline: nil layout")
		return nil
	}
	vs := dv.shaderModule(&desc.Vertex, desc.Label+" vertex")
	if vs == nil {
		return nil
	}
	defer vs.Release()

	var vtxLayouts []wgpu.VertexBufferLayout
	for _, vl := range desc.VertexLayouts {
		attrs := make([]wgpu.VertexAttribute, 0, len(vl.Attributes))
		for _, a := range vl.Attributes {
			attrs = append(attrs, wgpu.VertexAttribute{
				Format:         WebGPUVertexFormats[a.Format],
				Offset:         uint64(a.Offset),
				ShaderLocation: a.Location,
			})
		}
		step := wgpu.VertexStepModeVertex
		if vl.PerInstance {
			step = wgpu.VertexStepModeInstance
		}
		vtxLayouts = append(vtxLayouts, wgpu.VertexBufferLayout{
			ArrayStride: uint64(vl.Stride),
			StepMode:    step,
			Attributes:  attrs,
		})
	}

	samples := desc.SampleCount
	if samples == 0 {
		samples = 1
	}
	frontFace := wgpu.FrontFaceCW
	if desc.FrontCCW {
		frontFace = wgpu.FrontFaceCCW
	}

	pd := &wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: layout.layout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: entryPoint(&desc.Vertex),
			Buffers:    vtxLayouts,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  WebGPUTopologies[desc.Topology],
			FrontFace: frontFace,
			CullMode:  wgpuCullMode(desc.Cull),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(samples),
			Mask:  0xFFFFFFFF,
		},
	}

	if len(desc.Fragment.ByteCode) > 0 {
		fs := dv.shaderModule(&desc.Fragment, desc.Label+" fragment")
		if fs == nil {
			return nil
		}
		defer fs.Release()
		targets := make([]wgpu.ColorTargetState, 0, len(desc.ColorFormats))
		for _, cf := range desc.ColorFormats {
			ct := wgpu.ColorTargetState{
				Format:    WebGPUFormats[cf],
				WriteMask: wgpu.ColorWriteMaskAll,
			}
			if desc.BlendEnabled {
				ct.Blend = &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
				}
			}
			targets = append(targets, ct)
		}
		pd.Fragment = &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: entryPoint(&desc.Fragment),
			Targets:    targets,
		}
	}

	if desc.DepthFormat != vgfx.FormatUndefined {
		// webgpu has no separate test-enable flag: a disabled test is
		// expressed as an always-passing compare.
		compare := WebGPUCompareOps[desc.DepthCompare]
		if desc.DepthCompare == vgfx.CompareNever && !desc.DepthWrite {
			compare = wgpu.CompareFunctionAlways
		}
		pd.DepthStencil = &wgpu.DepthStencilState{
			Format:            WebGPUFormats[desc.DepthFormat],
			DepthWriteEnabled: desc.DepthWrite,
			DepthCompare:      compare,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		}
	}

	rp, err := dv.device.CreateRenderPipeline(pd)
	if err != nil {
		vgfx.Logf(vgfx.LogError, "CreateRenderPipeline: %v", err)
		return nil
	}
	pl := &Pipeline{dev: dv, render: rp, layout: layout, label: desc.Label}
	pl.InitRef()
	layout.AddRef()
	return pl
}

// CreateComputePipeline compiles a compute pipeline.
func (dv *Device) CreateComputePipeline(desc *vgfx.ComputePipelineDesc) vgfx.Pipeline {
	layout, ok := desc.Layout.(*PipelineLayout)
	if !ok || layout == nil {
		vgfx.Logf(vgfx.LogError, "CreateComputePipeline: nil layout")
		return nil
	}
	cs := dv.shaderModule(&desc.Shader, desc.Label+" compute")
	if cs == nil {
		return nil
	}
	defer cs.Release()

	cp, err := dv.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  desc.Label,
		Layout: layout.layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     cs,
			EntryPoint: entryPoint(&desc.Shader),
		},
	})
	if err != nil {
		vgfx.Logf(vgfx.LogError, "CreateComputePipeline: %v", err)
		return nil
	}
	pl := &Pipeline{dev: dv, compute: cp, layout: layout, label: desc.Label}
	pl.InitRef()
	layout.AddRef()
	return pl
}

func (pl *Pipeline) SetLabel(label string) { pl.label = label }

func (pl *Pipeline) AddRef() int32 { return pl.RefCount.AddRef() }

func (pl *Pipeline) Release() int32 {
	n := pl.DecRef()
	if n == 0 {
		if pl.render != nil {
			pl.dev.deferRelease(pl.render)
			pl.render = nil
		}
		if pl.compute != nil {
			pl.dev.deferRelease(pl.compute)
			pl.compute = nil
		}
		pl.layout.Release()
	}
	return n
}
