// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"sync"

	vk "github.com/goki/vulkan"

	"github.com/amerkoleci/vgfx"
)

// BindGroup is a descriptor set slot in its layout's heap. Update
// moves the group to a fresh slot and rewrites it in full, so frames
// already submitted keep reading the previous set until it retires
// through the delay queue.
type BindGroup struct {
	vgfx.RefCount
	dev    *Device
	layout *BindGroupLayout
	label  string

	mu   sync.Mutex
	slot uint32
	held []vgfx.Resource
}

func (dv *Device) CreateBindGroup(layout vgfx.BindGroupLayout, desc *vgfx.BindGroupDesc) vgfx.BindGroup {
	bl := layout.(*BindGroupLayout)
	bg := &BindGroup{
		dev:    dv,
		layout: bl,
		label:  desc.Label,
		slot:   bl.getHeap().allocSlot(),
	}
	bl.AddRef()
	bg.InitRef()
	bg.write(desc)
	return bg
}

// Update rebinds every slot from the descriptor.
func (bg *BindGroup) Update(desc *vgfx.BindGroupDesc) {
	dv := bg.dev
	heap := bg.layout.getHeap()
	newSlot := heap.allocSlot()

	bg.mu.Lock()
	oldSlot := bg.slot
	bg.slot = newSlot
	bg.mu.Unlock()

	bg.write(desc)
	if dv.isShuttingDown() {
		heap.releaseSlot(oldSlot)
	} else {
		dv.dqDescSlots.Push(descSlot{heap, oldSlot}, dv.pacer.FrameCount())
	}
}

// write fills the group's current descriptor set: user entries where
// given, device null resources everywhere else.
func (bg *BindGroup) write(desc *vgfx.BindGroupDesc) {
	dv := bg.dev
	bg.mu.Lock()
	set := bg.layout.getHeap().set(bg.slot)
	writes, held := bg.buildWrites(set, desc)
	if len(writes) > 0 {
		vk.UpdateDescriptorSets(dv.Dev, uint32(len(writes)), writes, 0, nil)
	}

	oldHeld := bg.held
	bg.held = held
	bg.mu.Unlock()
	for _, r := range oldHeld {
		r.Release()
	}
}

// buildWrites assembles the full write list for one descriptor set:
// one write per layout entry covering every array element, with the
// device null resources filling any element the descriptor leaves
// unbound. Returns the writes and the resources they reference, each
// with a reference taken.
func (bg *BindGroup) buildWrites(set vk.DescriptorSet, desc *vgfx.BindGroupDesc) ([]vk.WriteDescriptorSet, []vgfx.Resource) {
	dv := bg.dev

	byBinding := map[uint32][]*vgfx.BindGroupEntry{}
	for i := range desc.Entries {
		e := &desc.Entries[i]
		byBinding[e.Binding] = append(byBinding[e.Binding], e)
	}

	var held []vgfx.Resource
	var writes []vk.WriteDescriptorSet

	for _, le := range bg.layout.entries {
		count := le.Count
		if count == 0 {
			count = 1
		}
		vtyp := VulkanDescriptorTypes[le.Type]
		wr := vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set,
			DstBinding:      le.Binding,
			DescriptorCount: count,
			DescriptorType:  vtyp,
		}
		if le.Type.IsBuffer() {
			infos := make([]vk.DescriptorBufferInfo, count)
			for i := range infos {
				infos[i] = vk.DescriptorBufferInfo{
					Buffer: dv.nullBuffer,
					Range:  vk.DeviceSize(vk.WholeSize),
				}
			}
			for _, e := range byBinding[le.Binding] {
				if e.Buffer == nil || e.ArrayElement >= count {
					continue
				}
				bf := e.Buffer.(*Buffer)
				rng := vk.DeviceSize(vk.WholeSize)
				if e.Size != 0 && e.Size != vgfx.WholeSize {
					rng = vk.DeviceSize(e.Size)
				}
				infos[e.ArrayElement] = vk.DescriptorBufferInfo{
					Buffer: bf.buf,
					Offset: vk.DeviceSize(e.Offset),
					Range:  rng,
				}
				e.Buffer.AddRef()
				held = append(held, e.Buffer)
			}
			wr.PBufferInfo = infos
		} else {
			infos := make([]vk.DescriptorImageInfo, count)
			for i := range infos {
				infos[i] = bg.nullImageInfo(le.Type)
			}
			for _, e := range byBinding[le.Binding] {
				if e.ArrayElement >= count {
					continue
				}
				switch {
				case le.Type == vgfx.DescriptorSampler && e.Sampler != nil:
					sp := e.Sampler.(*Sampler)
					infos[e.ArrayElement] = vk.DescriptorImageInfo{Sampler: sp.smp}
					e.Sampler.AddRef()
					held = append(held, e.Sampler)
				case e.Texture != nil:
					tx := e.Texture.(*Texture)
					infos[e.ArrayElement] = bg.textureInfo(tx, le.Type, e.MipLevel)
					e.Texture.AddRef()
					held = append(held, e.Texture)
				}
			}
			wr.PImageInfo = infos
		}
		writes = append(writes, wr)
	}
	return writes, held
}

// nullImageInfo is the null-resource descriptor for an image slot.
func (bg *BindGroup) nullImageInfo(typ vgfx.DescriptorType) vk.DescriptorImageInfo {
	dv := bg.dev
	switch typ {
	case vgfx.DescriptorSampler:
		return vk.DescriptorImageInfo{Sampler: dv.nullSampler}
	case vgfx.DescriptorStorageTexture, vgfx.DescriptorReadOnlyStorageTexture:
		return vk.DescriptorImageInfo{
			ImageView:   dv.nullStorview,
			ImageLayout: vk.ImageLayoutGeneral,
		}
	default:
		return vk.DescriptorImageInfo{
			ImageView:   dv.nullView,
			ImageLayout: vk.ImageLayoutGeneral,
		}
	}
}

// textureInfo builds the descriptor for a bound texture view. Storage
// bindings get a single-mip view in general layout; sampled bindings
// get the mip tail from the requested level in read-only layout.
func (bg *BindGroup) textureInfo(tx *Texture, typ vgfx.DescriptorType, mip uint32) vk.DescriptorImageInfo {
	layers := tx.layerCount()
	if typ == vgfx.DescriptorStorageTexture || typ == vgfx.DescriptorReadOnlyStorageTexture {
		return vk.DescriptorImageInfo{
			ImageView:   tx.view(mip, 1, 0, layers),
			ImageLayout: vk.ImageLayoutGeneral,
		}
	}
	view := tx.fullView()
	if mip != 0 {
		view = tx.view(mip, uint32(tx.desc.MipLevels)-mip, 0, layers)
	}
	return vk.DescriptorImageInfo{
		ImageView:   view,
		ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
	}
}

// descriptorSet returns the set to bind for the group's current slot.
func (bg *BindGroup) descriptorSet() vk.DescriptorSet {
	bg.mu.Lock()
	defer bg.mu.Unlock()
	return bg.layout.getHeap().set(bg.slot)
}

func (bg *BindGroup) SetLabel(label string) { bg.label = label }

func (bg *BindGroup) AddRef() int32 { return bg.RefCount.AddRef() }

func (bg *BindGroup) Release() int32 {
	refs := bg.DecRef()
	if refs == 0 {
		bg.destroy()
	}
	return refs
}

func (bg *BindGroup) destroy() {
	dv := bg.dev
	heap := bg.layout.getHeap()
	bg.mu.Lock()
	slot := bg.slot
	held := bg.held
	bg.held = nil
	bg.mu.Unlock()

	if dv.isShuttingDown() {
		heap.releaseSlot(slot)
	} else {
		dv.dqDescSlots.Push(descSlot{heap, slot}, dv.pacer.FrameCount())
	}
	for _, r := range held {
		r.Release()
	}
	bg.layout.Release()
}
