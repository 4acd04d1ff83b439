// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webgpu

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/amerkoleci/vgfx"
)

// SwapChain is the webgpu implementation of vgfx.SwapChain. Acquire
// checks the current window size first and reconfigures the surface
// when it changed; a failed acquire also forces one reconfigure and
// retry before giving up.
type SwapChain struct {
	vgfx.RefCount
	dev    *Device
	window uintptr
	label  string

	surface *wgpu.Surface

	desc        vgfx.SwapChainDesc
	format      vgfx.TextureFormat
	wgpuFormat  wgpu.TextureFormat
	alphaMode   wgpu.CompositeAlphaMode
	width       int
	height      int
	presentMode vgfx.PresentMode

	mu       sync.Mutex
	cur      *Texture
	curTex   *wgpu.Texture
	acquired bool
	outdated bool
	lost     bool
}

func (dv *Device) CreateSwapChain(window uintptr, desc *vgfx.SwapChainDesc) vgfx.SwapChain {
	surface, err := windowSurface(dv.instance, window)
	if err != nil {
		vgfx.Logf(vgfx.LogError, "CreateSwapChain: surface: %v", err)
		return nil
	}
	caps := surface.GetCapabilities(dv.adapter)
	if len(caps.Formats) == 0 {
		vgfx.Logf(vgfx.LogError, "CreateSwapChain: surface reports no formats")
		surface.Release()
		return nil
	}

	want := WebGPUFormats[desc.Format]
	if desc.Format == vgfx.FormatUndefined {
		want = wgpu.TextureFormatBGRA8Unorm
	}
	picked := caps.Formats[0]
	for _, f := range caps.Formats {
		if f == want {
			picked = f
			break
		}
	}
	format := vgfx.FormatBGRA8Unorm
	if rf, ok := TextureFormats[picked]; ok {
		format = rf
	}

	sc := &SwapChain{
		dev:         dv,
		window:      window,
		surface:     surface,
		desc:        *desc,
		format:      format,
		wgpuFormat:  picked,
		alphaMode:   caps.AlphaModes[0],
		presentMode: desc.PresentMode,
	}
	sc.InitRef()

	w, h := windowSize(window)
	if w == 0 || h == 0 {
		w, h = desc.Width, desc.Height
	}
	if w == 0 || h == 0 {
		w, h = 1, 1
	}
	sc.configure(w, h)
	return sc
}

// configure (re)configures the surface at the given size. Configuring
// invalidates any texture acquired from the previous configuration.
func (sc *SwapChain) configure(width, height int) {
	sc.surface.Configure(sc.dev.adapter, sc.dev.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
		Format:      sc.wgpuFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: WebGPUPresentModes[sc.presentMode],
		AlphaMode:   sc.alphaMode,
	})
	sc.width = width
	sc.height = height
	sc.outdated = false
}

// acquireNext acquires the next backbuffer, reconfiguring the surface
// first when the window was resized. Returns (nil, nil) while the
// window is minimized and ErrDeviceLost when the device is gone.
func (sc *SwapChain) acquireNext() (vgfx.Texture, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.lost {
		return nil, vgfx.ErrDeviceLost
	}
	if sc.acquired {
		return sc.cur, nil
	}
	if sc.dev.device == nil {
		sc.lost = true
		return nil, vgfx.ErrDeviceLost
	}

	w, h := windowSize(sc.window)
	if w == 0 || h == 0 {
		return nil, nil
	}
	if sc.outdated || w != sc.width || h != sc.height {
		sc.configure(w, h)
	}

	var err error
	for try := 0; try < 2; try++ {
		var tex *wgpu.Texture
		tex, err = sc.surface.GetCurrentTexture()
		if err != nil {
			// out-of-date surfaces recover after a reconfigure
			sc.configure(w, h)
			continue
		}
		sc.curTex = tex
		tx := &Texture{
			dev:   sc.dev,
			tex:   tex,
			owned: false,
			views: map[uint64]*wgpu.TextureView{},
			desc: vgfx.TextureDesc{
				Label:       "backbuffer",
				Dimension:   vgfx.TextureDim2D,
				Format:      sc.format,
				Width:       sc.width,
				Height:      sc.height,
				Depth:       1,
				MipLevels:   1,
				SampleCount: 1,
				Usage:       vgfx.TextureUsageRenderTarget,
			},
		}
		tx.InitRef()
		sc.cur = tx
		sc.acquired = true
		return tx, nil
	}
	vgfx.Logf(vgfx.LogError, "swapchain acquire: %v", err)
	return nil, err
}

// present displays the acquired backbuffer and drops the wrapper. The
// views onto the surface texture are released immediately: the native
// texture belongs to the surface and goes away at present.
func (sc *SwapChain) present() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if !sc.acquired {
		return
	}
	sc.surface.Present()
	sc.cur.releaseViews()
	sc.cur.tex = nil
	sc.cur = nil
	sc.curTex.Release()
	sc.curTex = nil
	sc.acquired = false
}

func (sc *SwapChain) Width() int                    { return sc.width }
func (sc *SwapChain) Height() int                   { return sc.height }
func (sc *SwapChain) Format() vgfx.TextureFormat    { return sc.format }
func (sc *SwapChain) PresentMode() vgfx.PresentMode { return sc.presentMode }

func (sc *SwapChain) SetLabel(label string) { sc.label = label }

func (sc *SwapChain) AddRef() int32 { return sc.RefCount.AddRef() }

func (sc *SwapChain) Release() int32 {
	refs := sc.DecRef()
	if refs == 0 {
		sc.destroy()
	}
	return refs
}

func (sc *SwapChain) destroy() {
	sc.mu.Lock()
	if sc.acquired {
		sc.cur.releaseViews()
		sc.cur.tex = nil
		sc.cur = nil
		sc.curTex.Release()
		sc.curTex = nil
		sc.acquired = false
	}
	if sc.surface != nil {
		sc.dev.deferRelease(sc.surface)
		sc.surface = nil
	}
	sc.mu.Unlock()
}
