// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPow2(t *testing.T) {
	assert.Equal(t, uint64(1), NextPow2(0))
	assert.Equal(t, uint64(1), NextPow2(1))
	assert.Equal(t, uint64(2), NextPow2(2))
	assert.Equal(t, uint64(4), NextPow2(3))
	assert.Equal(t, uint64(65536), NextPow2(65536))
	assert.Equal(t, uint64(131072), NextPow2(65537))
	assert.Equal(t, uint64(1<<33), NextPow2(1<<32+1))
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uint64(0), AlignUp(0, 256))
	assert.Equal(t, uint64(256), AlignUp(1, 256))
	assert.Equal(t, uint64(256), AlignUp(256, 256))
	assert.Equal(t, uint64(512), AlignUp(257, 256))
}

func TestMipLevelCount(t *testing.T) {
	assert.Equal(t, 1, MipLevelCount(1, 1, 1))
	assert.Equal(t, 9, MipLevelCount(256, 256, 1))
	assert.Equal(t, 11, MipLevelCount(1024, 512, 1))
	assert.Equal(t, 3, MipLevelCount(4, 4, 4))
}

func TestTextureDescDefaults(t *testing.T) {
	td := TextureDesc{Width: 256, Height: 128}
	td.Defaults()
	assert.Equal(t, 1, td.Depth)
	assert.Equal(t, 1, td.SampleCount)
	assert.Equal(t, 9, td.MipLevels)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, uint64(4), FormatRGBA8Unorm.Bytes())
	assert.Equal(t, uint64(16), FormatRGBA32Float.Bytes())
	assert.True(t, FormatDepth32Float.HasDepth())
	assert.False(t, FormatDepth32Float.HasStencil())
	assert.True(t, FormatDepth24UnormStencil8.HasStencil())
	assert.True(t, FormatBGRA8Srgb.IsSrgb())
	assert.False(t, FormatBGRA8Unorm.IsSrgb())
}

func TestRefCount(t *testing.T) {
	var rc RefCount
	rc.InitRef()
	assert.Equal(t, int32(1), rc.Refs())
	assert.Equal(t, int32(2), rc.AddRef())
	assert.Equal(t, int32(1), rc.DecRef())
	assert.Equal(t, int32(0), rc.DecRef())
	assert.Panics(t, func() { rc.DecRef() })
}
