// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webgpu

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/amerkoleci/vgfx"
)

// Texture is the webgpu implementation of vgfx.Texture. Swapchain
// backbuffers are non-owned wrappers whose native texture is released
// at present rather than through the wrapper.
type Texture struct {
	vgfx.RefCount
	dev   *Device
	tex   *wgpu.Texture
	desc  vgfx.TextureDesc
	owned bool
	label string

	viewMu sync.Mutex
	views  map[uint64]*wgpu.TextureView
	full   *wgpu.TextureView
}

// viewKey packs a subresource selection into a cache key.
func viewKey(baseMip, mipCount, baseSlice, sliceCount uint32) uint64 {
	return uint64(baseMip)<<48 | uint64(mipCount)<<32 | uint64(baseSlice)<<16 | uint64(sliceCount)
}

// CreateTexture creates a texture, uploading one data slice per mip
// level when given.
func (dv *Device) CreateTexture(desc *vgfx.TextureDesc, data [][]byte) vgfx.Texture {
	td := *desc
	td.Defaults()
	if td.Width <= 0 || td.Height <= 0 {
		vgfx.Logf(vgfx.LogError, "CreateTexture: zero extent")
		return nil
	}
	layers := td.Depth
	if td.Dimension == vgfx.TextureDimCube {
		layers = 6 * td.Depth
	}
	tex, err := dv.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: td.Label,
		Size: wgpu.Extent3D{
			Width:              uint32(td.Width),
			Height:             uint32(td.Height),
			DepthOrArrayLayers: uint32(layers),
		},
		MipLevelCount: uint32(td.MipLevels),
		SampleCount:   uint32(td.SampleCount),
		Dimension:     wgpuTextureDimension(td.Dimension),
		Format:        WebGPUFormats[td.Format],
		Usage:         WebGPUTextureUsage(td.Usage),
	})
	if err != nil {
		vgfx.Logf(vgfx.LogError, "CreateTexture: %v", err)
		return nil
	}
	tx := &Texture{
		dev:   dv,
		tex:   tex,
		desc:  td,
		owned: true,
		label: td.Label,
		views: map[uint64]*wgpu.TextureView{},
	}
	tx.InitRef()

	for mip := 0; mip < len(data) && mip < td.MipLevels; mip++ {
		if len(data[mip]) == 0 {
			continue
		}
		tx.uploadMip(mip, data[mip])
	}
	return tx
}

// uploadMip writes one mip level through the queue.
func (tx *Texture) uploadMip(mip int, data []byte) {
	w := mipExtent(tx.desc.Width, mip)
	h := mipExtent(tx.desc.Height, mip)
	depth := tx.desc.Depth
	if tx.desc.Dimension == vgfx.TextureDim3D {
		depth = mipExtent(tx.desc.Depth, mip)
	} else if tx.desc.Dimension == vgfx.TextureDimCube {
		depth = 6 * tx.desc.Depth
	}
	tx.dev.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tx.tex,
			MipLevel: uint32(mip),
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w) * uint32(tx.desc.Format.Bytes()),
			RowsPerImage: uint32(h),
		},
		&wgpu.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: uint32(depth),
		},
	)
}

func mipExtent(v, mip int) int {
	v >>= mip
	if v < 1 {
		return 1
	}
	return v
}

// view returns a cached subresource view.
func (tx *Texture) view(baseMip, mipCount, baseSlice, sliceCount uint32) *wgpu.TextureView {
	tx.viewMu.Lock()
	defer tx.viewMu.Unlock()
	key := viewKey(baseMip, mipCount, baseSlice, sliceCount)
	if v, ok := tx.views[key]; ok {
		return v
	}
	v, err := tx.tex.CreateView(&wgpu.TextureViewDescriptor{
		Format:          WebGPUFormats[tx.desc.Format],
		Dimension:       wgpu.TextureViewDimension2D,
		BaseMipLevel:    baseMip,
		MipLevelCount:   mipCount,
		BaseArrayLayer:  baseSlice,
		ArrayLayerCount: sliceCount,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		vgfx.Logf(vgfx.LogError, "webgpu: texture view: %v", err)
		return nil
	}
	tx.views[key] = v
	return v
}

// fullView returns the default whole-resource view.
func (tx *Texture) fullView() *wgpu.TextureView {
	tx.viewMu.Lock()
	defer tx.viewMu.Unlock()
	if tx.full != nil {
		return tx.full
	}
	v, err := tx.tex.CreateView(nil)
	if err != nil {
		vgfx.Logf(vgfx.LogError, "webgpu: texture view: %v", err)
		return nil
	}
	tx.full = v
	return v
}

func (tx *Texture) Dimension() vgfx.TextureDimension { return tx.desc.Dimension }
func (tx *Texture) Format() vgfx.TextureFormat       { return tx.desc.Format }
func (tx *Texture) Width() int                       { return tx.desc.Width }
func (tx *Texture) Height() int                      { return tx.desc.Height }
func (tx *Texture) Depth() int                       { return tx.desc.Depth }
func (tx *Texture) MipLevels() int                   { return tx.desc.MipLevels }

func (tx *Texture) SetLabel(label string) { tx.label = label }

func (tx *Texture) AddRef() int32 { return tx.RefCount.AddRef() }

// Release schedules the texture release once all in-flight frames
// that may reference it have retired.
func (tx *Texture) Release() int32 {
	n := tx.DecRef()
	if n == 0 {
		tx.destroy()
	}
	return n
}

func (tx *Texture) destroy() {
	dv := tx.dev
	tx.viewMu.Lock()
	for _, v := range tx.views {
		dv.deferRelease(v)
	}
	tx.views = map[uint64]*wgpu.TextureView{}
	if tx.full != nil {
		dv.deferRelease(tx.full)
		tx.full = nil
	}
	tx.viewMu.Unlock()
	if tx.owned && tx.tex != nil {
		dv.deferRelease(tx.tex)
	}
	tx.tex = nil
}

// releaseViews drops cached views immediately; used by swapchain
// wrappers whose native texture is released at present.
func (tx *Texture) releaseViews() {
	tx.viewMu.Lock()
	for _, v := range tx.views {
		v.Release()
	}
	tx.views = map[uint64]*wgpu.TextureView{}
	if tx.full != nil {
		tx.full.Release()
		tx.full = nil
	}
	tx.viewMu.Unlock()
}
