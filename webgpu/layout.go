// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webgpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/amerkoleci/vgfx"
)

// BindGroupLayout is the webgpu implementation of vgfx.BindGroupLayout.
type BindGroupLayout struct {
	vgfx.RefCount
	dev     *Device
	layout  *wgpu.BindGroupLayout
	entries []vgfx.BindGroupLayoutEntry
	label   string
}

// CreateBindGroupLayout creates a bind group layout. Arrayed slots are
// not expressible in core webgpu and fail creation.
func (dv *Device) CreateBindGroupLayout(desc *vgfx.BindGroupLayoutDesc) vgfx.BindGroupLayout {
	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(desc.Entries))
	for _, e := range desc.Entries {
		if e.Count > 1 {
			vgfx.Logf(vgfx.LogError, "CreateBindGroupLayout: arrayed binding %d not supported on webgpu", e.Binding)
			return nil
		}
		we := wgpu.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: WebGPUShaderStages(e.Visibility),
		}
		switch e.Type {
		case vgfx.DescriptorSampler:
			we.Sampler = wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}
		case vgfx.DescriptorSampledTexture:
			we.Texture = wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			}
		case vgfx.DescriptorStorageTexture, vgfx.DescriptorReadOnlyStorageTexture:
			access := wgpu.StorageTextureAccessWriteOnly
			if e.Type == vgfx.DescriptorReadOnlyStorageTexture {
				access = wgpu.StorageTextureAccessReadOnly
			}
			// webgpu requires the format in the layout; rgba8unorm is
			// the only storage format this backend supports
			we.StorageTexture = wgpu.StorageTextureBindingLayout{
				Access:        access,
				Format:        wgpu.TextureFormatRGBA8Unorm,
				ViewDimension: wgpu.TextureViewDimension2D,
			}
		case vgfx.DescriptorConstantBuffer:
			we.Buffer = wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}
		case vgfx.DescriptorDynamicConstantBuffer:
			we.Buffer = wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: true,
			}
		case vgfx.DescriptorStorageBuffer:
			we.Buffer = wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}
		case vgfx.DescriptorReadOnlyStorageBuffer:
			we.Buffer = wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}
		}
		entries = append(entries, we)
	}

	layout, err := dv.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		vgfx.Logf(vgfx.LogError, "CreateBindGroupLayout: %v", err)
		return nil
	}
	bl := &BindGroupLayout{
		dev:     dv,
		layout:  layout,
		entries: append([]vgfx.BindGroupLayoutEntry(nil), desc.Entries...),
		label:   desc.Label,
	}
	bl.InitRef()
	return bl
}

func (bl *BindGroupLayout) SetLabel(label string) { bl.label = label }

func (bl *BindGroupLayout) AddRef() int32 { return bl.RefCount.AddRef() }

func (bl *BindGroupLayout) Release() int32 {
	n := bl.DecRef()
	if n == 0 {
		bl.dev.deferRelease(bl.layout)
		bl.layout = nil
	}
	return n
}

// PipelineLayout is the webgpu implementation of vgfx.PipelineLayout.
type PipelineLayout struct {
	vgfx.RefCount
	dev    *Device
	layout *wgpu.PipelineLayout
	groups []*BindGroupLayout
	label  string
}

// CreatePipelineLayout creates a pipeline layout from bind group
// layouts. Push constant blocks are not in core webgpu; declaring any
// logs a warning and they are ignored.
func (dv *Device) CreatePipelineLayout(desc *vgfx.PipelineLayoutDesc) vgfx.PipelineLayout {
	if len(desc.PushConstants) > 0 {
		vgfx.Logf(vgfx.LogWarn, "CreatePipelineLayout: push constants not supported on webgpu")
	}
	groups := make([]*BindGroupLayout, len(desc.Layouts))
	layouts := make([]*wgpu.BindGroupLayout, len(desc.Layouts))
	for i, l := range desc.Layouts {
		bl, ok := l.(*BindGroupLayout)
		if !ok || bl == nil {
			vgfx.Logf(vgfx.LogError, "CreatePipelineLayout: nil bind group layout at %d", i)
			return nil
		}
		groups[i] = bl
		layouts[i] = bl.layout
	}
	layout, err := dv.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		vgfx.Logf(vgfx.LogError, "CreatePipelineLayout: %v", err)
		return nil
	}
	pl := &PipelineLayout{dev: dv, layout: layout, groups: groups, label: desc.Label}
	pl.InitRef()
	for _, g := range groups {
		g.AddRef()
	}
	return pl
}

func (pl *PipelineLayout) SetLabel(label string) { pl.label = label }

func (pl *PipelineLayout) AddRef() int32 { return pl.RefCount.AddRef() }

func (pl *PipelineLayout) Release() int32 {
	n := pl.DecRef()
	if n == 0 {
		pl.dev.deferRelease(pl.layout)
		pl.layout = nil
		for _, g := range pl.groups {
			g.Release()
		}
	}
	return n
}
