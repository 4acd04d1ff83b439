// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webgpu

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/amerkoleci/vgfx"
)

// BindGroup is the webgpu implementation of vgfx.BindGroup. Update
// swaps in a freshly created native group and defers the old one, so
// frames already submitted keep the bindings they were recorded with.
type BindGroup struct {
	vgfx.RefCount
	dev    *Device
	layout *BindGroupLayout
	label  string

	mu    sync.Mutex
	group *wgpu.BindGroup
	held  []vgfx.Resource
}

// CreateBindGroup creates a bind group against the given layout.
// Layout slots with no matching entry bind the device null resources.
func (dv *Device) CreateBindGroup(layout vgfx.BindGroupLayout, desc *vgfx.BindGroupDesc) vgfx.BindGroup {
	bl, ok := layout.(*BindGroupLayout)
	if !ok || bl == nil {
		vgfx.Logf(vgfx.LogError, "CreateBindGroup: nil layout")
		return nil
	}
	bg := &BindGroup{dev: dv, layout: bl, label: desc.Label}
	bg.InitRef()
	bl.AddRef()
	if !bg.write(desc) {
		bl.Release()
		return nil
	}
	return bg
}

// Update rebinds all slots from the descriptor. The previous native
// group stays alive until the frames recorded against it retire.
func (bg *BindGroup) Update(desc *vgfx.BindGroupDesc) {
	bg.mu.Lock()
	old := bg.group
	oldHeld := bg.held
	bg.group = nil
	bg.held = nil
	bg.mu.Unlock()

	if !bg.write(desc) {
		return
	}
	if old != nil {
		bg.dev.deferRelease(old)
	}
	for _, r := range oldHeld {
		r.Release()
	}
}

// write builds and sets the native bind group from the descriptor.
func (bg *BindGroup) write(desc *vgfx.BindGroupDesc) bool {
	dv := bg.dev

	byBinding := map[uint32]*vgfx.BindGroupEntry{}
	for i := range desc.Entries {
		e := &desc.Entries[i]
		byBinding[e.Binding] = e
	}

	var held []vgfx.Resource
	entries := make([]wgpu.BindGroupEntry, 0, len(bg.layout.entries))
	for _, le := range bg.layout.entries {
		we := wgpu.BindGroupEntry{Binding: le.Binding}
		e := byBinding[le.Binding]
		switch {
		case le.Type.IsBuffer():
			if e != nil && e.Buffer != nil {
				buf := e.Buffer.(*Buffer)
				we.Buffer = buf.buf
				we.Offset = e.Offset
				we.Size = wgpu.WholeSize
				if e.Size != 0 && e.Size != vgfx.WholeSize {
					we.Size = e.Size
				}
				e.Buffer.AddRef()
				held = append(held, e.Buffer)
			} else {
				we.Buffer = dv.nullBuffer
				we.Size = wgpu.WholeSize
			}
		case le.Type.IsSampler():
			if e != nil && e.Sampler != nil {
				we.Sampler = e.Sampler.(*Sampler).sampler
				e.Sampler.AddRef()
				held = append(held, e.Sampler)
			} else {
				we.Sampler = dv.nullSampler
			}
		default:
			if e != nil && e.Texture != nil {
				tx := e.Texture.(*Texture)
				layers := uint32(tx.desc.Depth)
				if tx.desc.Dimension == vgfx.TextureDimCube {
					layers *= 6
				}
				if le.Type == vgfx.DescriptorStorageTexture || le.Type == vgfx.DescriptorReadOnlyStorageTexture {
					we.TextureView = tx.view(e.MipLevel, 1, 0, layers)
				} else if e.MipLevel == 0 {
					we.TextureView = tx.fullView()
				} else {
					we.TextureView = tx.view(e.MipLevel, uint32(tx.desc.MipLevels)-e.MipLevel, 0, layers)
				}
				e.Texture.AddRef()
				held = append(held, e.Texture)
			} else {
				we.TextureView = dv.nullTexView
				if le.Type == vgfx.DescriptorStorageTexture || le.Type == vgfx.DescriptorReadOnlyStorageTexture {
					we.TextureView = dv.nullStorView
				}
			}
		}
		entries = append(entries, we)
	}

	group, err := dv.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   bg.label,
		Layout:  bg.layout.layout,
		Entries: entries,
	})
	if err != nil {
		vgfx.Logf(vgfx.LogError, "CreateBindGroup: %v", err)
		for _, r := range held {
			r.Release()
		}
		return false
	}

	bg.mu.Lock()
	bg.group = group
	bg.held = held
	bg.mu.Unlock()
	return true
}

// bindGroup returns the current native group.
func (bg *BindGroup) bindGroup() *wgpu.BindGroup {
	bg.mu.Lock()
	defer bg.mu.Unlock()
	return bg.group
}

func (bg *BindGroup) SetLabel(label string) { bg.label = label }

func (bg *BindGroup) AddRef() int32 { return bg.RefCount.AddRef() }

func (bg *BindGroup) Release() int32 {
	n := bg.DecRef()
	if n == 0 {
		bg.destroy()
	}
	return n
}

func (bg *BindGroup) destroy() {
	bg.mu.Lock()
	group := bg.group
	held := bg.held
	bg.group = nil
	bg.held = nil
	bg.mu.Unlock()
	if group != nil {
		bg.dev.deferRelease(group)
	}
	for _, r := range held {
		r.Release()
	}
	bg.layout.Release()
}
