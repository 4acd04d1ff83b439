// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupLayoutEntriesMerging(t *testing.T) {
	tl := GroupLayoutEntries([]BindGroupLayoutEntry{
		{Binding: 0, Type: DescriptorConstantBuffer},
		{Binding: 1, Type: DescriptorConstantBuffer},
		{Binding: 2, Type: DescriptorSampledTexture},
		{Binding: 3, Type: DescriptorSampledTexture},
	})

	// contiguous same-type bindings merge, type change splits
	require.Len(t, tl.Resources, 2)
	assert.Equal(t, BindRange{DescriptorConstantBuffer, 0, 2, 0}, tl.Resources[0])
	assert.Equal(t, BindRange{DescriptorSampledTexture, 2, 2, 2}, tl.Resources[1])
	assert.Equal(t, uint32(4), tl.ResourceCount)
	assert.Empty(t, tl.Samplers)
}

func TestGroupLayoutEntriesGaps(t *testing.T) {
	tl := GroupLayoutEntries([]BindGroupLayoutEntry{
		{Binding: 0, Type: DescriptorStorageBuffer},
		{Binding: 5, Type: DescriptorStorageBuffer},
	})

	// a binding gap splits even with the same type
	require.Len(t, tl.Resources, 2)
	assert.Equal(t, uint32(0), tl.Resources[0].Offset)
	assert.Equal(t, uint32(1), tl.Resources[1].Offset)
	assert.Equal(t, uint32(5), tl.Resources[1].BaseBinding)
	assert.Equal(t, uint32(2), tl.ResourceCount)
}

func TestGroupLayoutEntriesSamplerFamily(t *testing.T) {
	tl := GroupLayoutEntries([]BindGroupLayoutEntry{
		{Binding: 3, Type: DescriptorSampler},
		{Binding: 0, Type: DescriptorSampledTexture},
		{Binding: 1, Type: DescriptorSampledTexture, Count: 4},
		{Binding: 2, Type: DescriptorSampler},
	})

	// samplers are their own family with their own table offsets
	require.Len(t, tl.Samplers, 1)
	assert.Equal(t, BindRange{DescriptorSampler, 2, 2, 0}, tl.Samplers[0])
	assert.Equal(t, uint32(2), tl.SamplerCount)

	// arrayed binding consumes Count slots
	require.Len(t, tl.Resources, 1)
	assert.Equal(t, uint32(5), tl.ResourceCount)
}

func TestBindTableLayoutSlots(t *testing.T) {
	tl := GroupLayoutEntries([]BindGroupLayoutEntry{
		{Binding: 0, Type: DescriptorConstantBuffer},
		{Binding: 4, Type: DescriptorSampledTexture, Count: 3},
		{Binding: 8, Type: DescriptorSampler},
	})

	assert.Equal(t, uint32(0), tl.ResourceSlot(0))
	assert.Equal(t, uint32(1), tl.ResourceSlot(4))
	assert.Equal(t, uint32(3), tl.ResourceSlot(6))
	assert.Equal(t, InvalidIndex, tl.ResourceSlot(7))
	assert.Equal(t, InvalidIndex, tl.ResourceSlot(8))

	assert.Equal(t, uint32(0), tl.SamplerSlot(8))
	assert.Equal(t, InvalidIndex, tl.SamplerSlot(0))
}
