// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amerkoleci/vgfx"
)

func backbufferTexture(dv *Device, w, h int) *Texture {
	tx := &Texture{
		dev: dv,
		desc: vgfx.TextureDesc{
			Dimension:   vgfx.TextureDim2D,
			Width:       w,
			Height:      h,
			Depth:       1,
			MipLevels:   1,
			SampleCount: 1,
			Format:      vgfx.FormatBGRA8Unorm,
			Usage:       vgfx.TextureUsageRenderTarget,
		},
	}
	tx.InitRef()
	return tx
}

func TestAcquireTransitionsBackbuffer(t *testing.T) {
	dv := &Device{}
	tx := backbufferTexture(dv, 800, 600)
	sc := &SwapChain{
		dev:      dv,
		width:    800,
		height:   600,
		textures: []*Texture{tx},
		acquired: true,
	}
	cb := &CommandBuffer{dev: dv}

	got, err := cb.AcquireSwapchainTexture(sc)
	require.NoError(t, err)
	require.Same(t, tx, got)

	// the acquired image starts undefined, so the command buffer must
	// carry a transition to color attachment before any pass uses it
	assert.Equal(t, vgfx.StateRenderTarget, tx.state)
	require.Len(t, cb.imgBarriers, 1)
	b := cb.imgBarriers[0]
	assert.Equal(t, vk.ImageLayoutUndefined, b.OldLayout)
	assert.Equal(t, vk.ImageLayoutColorAttachmentOptimal, b.NewLayout)

	// a second acquire in the same recording reuses the image without
	// another transition
	got, err = cb.AcquireSwapchainTexture(sc)
	require.NoError(t, err)
	require.Same(t, tx, got)
	assert.Len(t, cb.imgBarriers, 1)
}

func TestSwapChainResizeRecreates(t *testing.T) {
	sc := &SwapChain{width: 800, height: 600}
	assert.False(t, sc.needsInit(800, 600))
	assert.True(t, sc.needsInit(1024, 768))
	assert.True(t, sc.needsInit(800, 601))

	// an out-of-date present forces a recreate even at the same size
	sc.outdated = true
	assert.True(t, sc.needsInit(800, 600))
}

func TestSwapChainReleaseDropsBackbuffers(t *testing.T) {
	dv := &Device{}
	sc := &SwapChain{dev: dv, width: 800, height: 600}
	for i := 0; i < 3; i++ {
		sc.textures = append(sc.textures, backbufferTexture(dv, 800, 600))
	}
	old := append([]*Texture(nil), sc.textures...)

	sc.releaseImages()
	assert.Nil(t, sc.textures)
	for _, tx := range old {
		assert.Equal(t, int32(0), tx.Refs())
	}
}
