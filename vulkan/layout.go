// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"sync"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/amerkoleci/vgfx"
)

// BindGroupLayout wraps a descriptor set layout plus the table shape
// derived from its entries, and owns the descriptor heap that bind
// groups of this layout allocate their sets from.
type BindGroupLayout struct {
	vgfx.RefCount
	dev       *Device
	setLayout vk.DescriptorSetLayout
	entries   []vgfx.BindGroupLayoutEntry
	table     vgfx.BindTableLayout
	poolSizes []vk.DescriptorPoolSize
	label     string

	heapOnce sync.Once
	heap     *descriptorHeap
}

// CreateBindGroupLayout makes a descriptor set layout. All bindings
// are created with the update-after-bind and partially-bound flags so
// heaps can rewrite live sets and leave unused slots null-filled.
func (dv *Device) CreateBindGroupLayout(desc *vgfx.BindGroupLayoutDesc) vgfx.BindGroupLayout {
	var binds []vk.DescriptorSetLayoutBinding
	var bindFlags []vk.DescriptorBindingFlags
	poolCounts := map[vk.DescriptorType]uint32{}
	for _, e := range desc.Entries {
		vtyp, ok := VulkanDescriptorTypes[e.Type]
		if !ok {
			vgfx.Logf(vgfx.LogError, "vulkan: unsupported descriptor type %d at binding %d", e.Type, e.Binding)
			return nil
		}
		count := e.Count
		if count == 0 {
			count = 1
		}
		binds = append(binds, vk.DescriptorSetLayoutBinding{
			Binding:         e.Binding,
			DescriptorType:  vtyp,
			DescriptorCount: count,
			StageFlags:      VulkanShaderStages(e.Visibility),
		})
		bindFlags = append(bindFlags, vk.DescriptorBindingFlags(
			vk.DescriptorBindingUpdateAfterBindBit|
				vk.DescriptorBindingUpdateUnusedWhilePendingBit|
				vk.DescriptorBindingPartiallyBoundBit))
		poolCounts[vtyp] += count
	}

	flagsInfo := vk.DescriptorSetLayoutBindingFlagsCreateInfo{
		SType:         vk.StructureTypeDescriptorSetLayoutBindingFlagsCreateInfo,
		BindingCount:  uint32(len(bindFlags)),
		PBindingFlags: bindFlags,
	}
	var sl vk.DescriptorSetLayout
	ret := vk.CreateDescriptorSetLayout(dv.Dev, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		PNext:        unsafe.Pointer(&flagsInfo),
		Flags:        vk.DescriptorSetLayoutCreateFlags(vk.DescriptorSetLayoutCreateUpdateAfterBindPoolBit),
		BindingCount: uint32(len(binds)),
		PBindings:    binds,
	}, nil, &sl)
	if err := NewError(ret); err != nil {
		vgfx.Logf(vgfx.LogError, "vulkan: create bind group layout: %v", err)
		return nil
	}

	entries := make([]vgfx.BindGroupLayoutEntry, len(desc.Entries))
	copy(entries, desc.Entries)
	var sizes []vk.DescriptorPoolSize
	for vtyp, count := range poolCounts {
		sizes = append(sizes, vk.DescriptorPoolSize{Type: vtyp, DescriptorCount: count})
	}
	bl := &BindGroupLayout{
		dev:       dv,
		setLayout: sl,
		entries:   entries,
		table:     vgfx.GroupLayoutEntries(entries),
		poolSizes: sizes,
		label:     desc.Label,
	}
	bl.InitRef()
	return bl
}

// getHeap lazily creates the layout's descriptor heap. Layouts that
// never back a bind group never pay for a pool.
func (bl *BindGroupLayout) getHeap() *descriptorHeap {
	bl.heapOnce.Do(func() {
		bl.heap = newDescriptorHeap(bl.dev, bl)
	})
	return bl.heap
}

// TableLayout returns the descriptor table shape of this layout.
func (bl *BindGroupLayout) TableLayout() vgfx.BindTableLayout { return bl.table }

func (bl *BindGroupLayout) SetLabel(label string) { bl.label = label }

func (bl *BindGroupLayout) AddRef() int32 { return bl.RefCount.AddRef() }

func (bl *BindGroupLayout) Release() int32 {
	refs := bl.DecRef()
	if refs == 0 {
		bl.destroy()
	}
	return refs
}

func (bl *BindGroupLayout) destroy() {
	dv := bl.dev
	if bl.heap != nil {
		bl.heap.destroy()
		bl.heap = nil
	}
	if bl.setLayout != vk.NullDescriptorSetLayout {
		if dv.isShuttingDown() {
			vk.DestroyDescriptorSetLayout(dv.Dev, bl.setLayout, nil)
		} else {
			dv.dqSetLayouts.Push(bl.setLayout, dv.pacer.FrameCount())
		}
		bl.setLayout = vk.NullDescriptorSetLayout
	}
}

// PipelineLayout wraps a pipeline layout built from bind group
// layouts by group index plus any push constant blocks.
type PipelineLayout struct {
	vgfx.RefCount
	dev        *Device
	layout     vk.PipelineLayout
	groups     []*BindGroupLayout
	pushRanges []vk.PushConstantRange
	label      string
}

// CreatePipelineLayout makes a pipeline layout. Push constant blocks
// are laid out back to back in declaration order.
func (dv *Device) CreatePipelineLayout(desc *vgfx.PipelineLayoutDesc) vgfx.PipelineLayout {
	groups := make([]*BindGroupLayout, len(desc.Layouts))
	setLayouts := make([]vk.DescriptorSetLayout, len(desc.Layouts))
	for i, gl := range desc.Layouts {
		groups[i] = gl.(*BindGroupLayout)
		setLayouts[i] = groups[i].setLayout
	}
	var ranges []vk.PushConstantRange
	offset := uint32(0)
	for _, pc := range desc.PushConstants {
		ranges = append(ranges, vk.PushConstantRange{
			StageFlags: VulkanShaderStages(pc.Stages),
			Offset:     offset,
			Size:       pc.Size,
		})
		offset += pc.Size
	}
	var pl vk.PipelineLayout
	ret := vk.CreatePipelineLayout(dv.Dev, &vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         uint32(len(setLayouts)),
		PSetLayouts:            setLayouts,
		PushConstantRangeCount: uint32(len(ranges)),
		PPushConstantRanges:    ranges,
	}, nil, &pl)
	if err := NewError(ret); err != nil {
		vgfx.Logf(vgfx.LogError, "vulkan: create pipeline layout: %v", err)
		return nil
	}
	for _, g := range groups {
		g.AddRef()
	}
	lo := &PipelineLayout{dev: dv, layout: pl, groups: groups, pushRanges: ranges, label: desc.Label}
	lo.InitRef()
	return lo
}

func (pl *PipelineLayout) SetLabel(label string) { pl.label = label }

func (pl *PipelineLayout) AddRef() int32 { return pl.RefCount.AddRef() }

func (pl *PipelineLayout) Release() int32 {
	refs := pl.DecRef()
	if refs == 0 {
		pl.destroy()
	}
	return refs
}

func (pl *PipelineLayout) destroy() {
	dv := pl.dev
	if pl.layout != vk.NullPipelineLayout {
		if dv.isShuttingDown() {
			vk.DestroyPipelineLayout(dv.Dev, pl.layout, nil)
		} else {
			dv.dqPipeLayouts.Push(pl.layout, dv.pacer.FrameCount())
		}
		pl.layout = vk.NullPipelineLayout
	}
	for _, g := range pl.groups {
		g.Release()
	}
	pl.groups = nil
}
