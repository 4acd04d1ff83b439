// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"testing"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amerkoleci/vgfx"
)

func bufHandle(n uintptr) vk.Buffer {
	var b vk.Buffer
	*(*uintptr)(unsafe.Pointer(&b)) = n
	return b
}

// TestBindGroupNullFill updates a group with a strict subset of its
// layout's bindings and checks that every element of every slot still
// gets written: user resources where bound, the device null resources
// everywhere else.
func TestBindGroupNullFill(t *testing.T) {
	dv := &Device{}
	bl := &BindGroupLayout{
		dev: dv,
		entries: []vgfx.BindGroupLayoutEntry{
			{Binding: 0, Type: vgfx.DescriptorConstantBuffer},
			{Binding: 1, Type: vgfx.DescriptorSampledTexture, Count: 4},
			{Binding: 2, Type: vgfx.DescriptorSampler},
			{Binding: 3, Type: vgfx.DescriptorStorageBuffer, Count: 2},
		},
	}
	bl.InitRef()
	bg := &BindGroup{dev: dv, layout: bl}
	bg.InitRef()

	buf := &Buffer{dev: dv, size: 256}
	buf.InitRef()
	buf.buf = bufHandle(1)

	writes, held := bg.buildWrites(vk.NullDescriptorSet, &vgfx.BindGroupDesc{
		Entries: []vgfx.BindGroupEntry{
			{Binding: 0, Buffer: buf},
			{Binding: 3, ArrayElement: 1, Buffer: buf, Offset: 64, Size: 128},
		},
	})
	require.Len(t, writes, len(bl.entries))

	// binding 0: the bound buffer over its whole range
	require.EqualValues(t, 1, writes[0].DescriptorCount)
	require.Len(t, writes[0].PBufferInfo, 1)
	assert.Equal(t, buf.buf, writes[0].PBufferInfo[0].Buffer)
	assert.Equal(t, vk.DeviceSize(vk.WholeSize), writes[0].PBufferInfo[0].Range)

	// binding 1: unbound, all four elements resolve to the null view
	require.EqualValues(t, 4, writes[1].DescriptorCount)
	require.Len(t, writes[1].PImageInfo, 4)
	for _, info := range writes[1].PImageInfo {
		assert.Equal(t, dv.nullView, info.ImageView)
		assert.Equal(t, vk.ImageLayoutGeneral, info.ImageLayout)
	}

	// binding 2: unbound sampler slot resolves to the null sampler
	require.Len(t, writes[2].PImageInfo, 1)
	assert.Equal(t, dv.nullSampler, writes[2].PImageInfo[0].Sampler)

	// binding 3: element 1 bound with its range, element 0 null-filled
	require.EqualValues(t, 2, writes[3].DescriptorCount)
	require.Len(t, writes[3].PBufferInfo, 2)
	assert.Equal(t, dv.nullBuffer, writes[3].PBufferInfo[0].Buffer)
	assert.Equal(t, vk.DeviceSize(vk.WholeSize), writes[3].PBufferInfo[0].Range)
	assert.Equal(t, buf.buf, writes[3].PBufferInfo[1].Buffer)
	assert.Equal(t, vk.DeviceSize(64), writes[3].PBufferInfo[1].Offset)
	assert.Equal(t, vk.DeviceSize(128), writes[3].PBufferInfo[1].Range)

	// one reference held per bound entry
	assert.Len(t, held, 2)
	assert.Equal(t, int32(3), buf.Refs())
}
