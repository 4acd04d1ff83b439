// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import "sort"

// BindRange is a run of descriptor table slots covering contiguous
// bindings of one descriptor type.
type BindRange struct {
	// Type is the descriptor type of every slot in the range.
	Type DescriptorType

	// BaseBinding is the shader binding index of the first slot.
	BaseBinding uint32

	// Count is the number of slots (arrayed bindings count each
	// element).
	Count uint32

	// Offset is the slot offset of the range within its family's
	// descriptor table.
	Offset uint32
}

// Contains reports whether the given binding falls in this range, and
// its slot offset within the range when it does.
func (br *BindRange) Contains(binding uint32) (uint32, bool) {
	if binding < br.BaseBinding || binding >= br.BaseBinding+br.Count {
		return 0, false
	}
	return binding - br.BaseBinding, true
}

// BindTableLayout is the descriptor table shape of one bind group
// layout: resource (buffer and texture view) slots and sampler slots
// are separate families, because native APIs keep samplers in their
// own descriptor heap.
type BindTableLayout struct {
	// Resources are the buffer and texture ranges, in binding order.
	Resources []BindRange

	// Samplers are the sampler ranges, in binding order.
	Samplers []BindRange

	// ResourceCount is the total resource table slots.
	ResourceCount uint32

	// SamplerCount is the total sampler table slots.
	SamplerCount uint32
}

// GroupLayoutEntries converts a bind group layout's entries into
// table ranges. Entries may arrive in any order; they are processed
// by ascending binding, and a new range starts whenever the
// descriptor type changes or the binding index is not contiguous
// with the previous entry.
func GroupLayoutEntries(entries []BindGroupLayoutEntry) BindTableLayout {
	sorted := make([]BindGroupLayoutEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Binding < sorted[j].Binding
	})

	var tl BindTableLayout
	for _, e := range sorted {
		count := e.Count
		if count == 0 {
			count = 1
		}
		fam := &tl.Resources
		total := &tl.ResourceCount
		if e.Type.IsSampler() {
			fam = &tl.Samplers
			total = &tl.SamplerCount
		}
		n := len(*fam)
		if n > 0 {
			last := &(*fam)[n-1]
			if last.Type == e.Type && last.BaseBinding+last.Count == e.Binding {
				last.Count += count
				*total += count
				continue
			}
		}
		*fam = append(*fam, BindRange{
			Type:        e.Type,
			BaseBinding: e.Binding,
			Count:       count,
			Offset:      *total,
		})
		*total += count
	}
	return tl
}

// ResourceSlot returns the resource table slot for a binding, or
// InvalidIndex when the layout has no such resource binding.
func (tl *BindTableLayout) ResourceSlot(binding uint32) uint32 {
	return slotIn(tl.Resources, binding)
}

// SamplerSlot returns the sampler table slot for a binding, or
// InvalidIndex when the layout has no such sampler binding.
func (tl *BindTableLayout) SamplerSlot(binding uint32) uint32 {
	return slotIn(tl.Samplers, binding)
}

func slotIn(ranges []BindRange, binding uint32) uint32 {
	for i := range ranges {
		if off, ok := ranges[i].Contains(binding); ok {
			return ranges[i].Offset + off
		}
	}
	return InvalidIndex
}
