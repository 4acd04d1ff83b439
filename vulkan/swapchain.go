// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Swapchain handling is initially adapted from
// https://github.com/vulkan-go/asche
// Copyright © 2017 Maxim Kupriianov <max@kc.vc>, under the MIT License

package vulkan

import (
	"sync"

	vk "github.com/goki/vulkan"

	"github.com/amerkoleci/vgfx"
)

// SwapChain presents to a window surface. Acquire checks the window
// size first and recreates the swapchain when it changed; present
// failures with an out-of-date surface also force a recreate on the
// next acquire.
type SwapChain struct {
	vgfx.RefCount
	dev    *Device
	window uintptr
	label  string

	surface   vk.Surface
	swapchain vk.Swapchain

	desc        vgfx.SwapChainDesc
	format      vk.Format
	colorSpace  vk.ColorSpace
	width       int
	height      int
	presentMode vgfx.PresentMode

	mu          sync.Mutex
	textures    []*Texture
	acquireSems []vk.Semaphore
	releaseSems []vk.Semaphore
	semIndex    int
	imageIndex  uint32
	acquired    bool
	curAcquire  vk.Semaphore
	outdated    bool
	lost        bool
}

func (dv *Device) CreateSwapChain(window uintptr, desc *vgfx.SwapChainDesc) vgfx.SwapChain {
	surface, err := windowSurface(dv.GP.Instance, window)
	if err != nil {
		vgfx.Logf(vgfx.LogError, "CreateSwapChain: surface: %v", err)
		return nil
	}
	var supported vk.Bool32
	vk.GetPhysicalDeviceSurfaceSupport(dv.GP.GPU, dv.Queues[vgfx.QueueGraphics].Family, surface, &supported)
	if supported != vk.True {
		vgfx.Logf(vgfx.LogError, "CreateSwapChain: graphics queue cannot present to this surface")
		vk.DestroySurface(dv.GP.Instance, surface, nil)
		return nil
	}

	sc := &SwapChain{
		dev:     dv,
		window:  window,
		surface: surface,
		desc:    *desc,
	}
	sc.InitRef()
	if err := sc.initSwapchain(desc.Width, desc.Height); err != nil {
		vgfx.Logf(vgfx.LogError, "CreateSwapChain: %v", err)
		vk.DestroySurface(dv.GP.Instance, surface, nil)
		return nil
	}
	return sc
}

// initSwapchain creates or recreates the swapchain at the given size,
// reading the surface capabilities for the actual extent and image
// count. The previous swapchain, when present, is handed to the
// driver as OldSwapchain and destroyed after.
func (sc *SwapChain) initSwapchain(width, height int) error {
	dv := sc.dev

	var caps vk.SurfaceCapabilities
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(dv.GP.GPU, sc.surface, &caps)
	if err := NewError(ret); err != nil {
		return err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	var formatCount uint32
	vk.GetPhysicalDeviceSurfaceFormats(dv.GP.GPU, sc.surface, &formatCount, nil)
	if formatCount == 0 {
		return NewError(vk.ErrorSurfaceLost)
	}
	formats := make([]vk.SurfaceFormat, formatCount)
	vk.GetPhysicalDeviceSurfaceFormats(dv.GP.GPU, sc.surface, &formatCount, formats)
	for i := range formats {
		formats[i].Deref()
	}

	want := VulkanFormats[sc.desc.Format]
	if sc.desc.Format == vgfx.FormatUndefined {
		want = vk.FormatB8g8r8a8Unorm
	}
	picked := formats[0]
	if picked.Format == vk.FormatUndefined {
		picked.Format = want
	}
	for _, f := range formats {
		if f.Format == want {
			picked = f
			break
		}
	}
	sc.format = picked.Format
	sc.colorSpace = picked.ColorSpace

	extent := vk.Extent2D{Width: uint32(width), Height: uint32(height)}
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		extent = caps.CurrentExtent
	} else {
		extent.Width = clampU32(extent.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width)
		extent.Height = clampU32(extent.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height)
	}
	if extent.Width == 0 || extent.Height == 0 {
		return NewError(vk.NotReady)
	}

	// fifo is always available; others fall back when unsupported
	presentMode := vk.PresentModeFifo
	wantMode := vk.PresentModeFifo
	switch sc.desc.PresentMode {
	case vgfx.PresentImmediate:
		wantMode = vk.PresentModeImmediate
	case vgfx.PresentMailbox:
		wantMode = vk.PresentModeMailbox
	}
	sc.presentMode = vgfx.PresentFifo
	if wantMode != vk.PresentModeFifo {
		var modeCount uint32
		vk.GetPhysicalDeviceSurfacePresentModes(dv.GP.GPU, sc.surface, &modeCount, nil)
		modes := make([]vk.PresentMode, modeCount)
		vk.GetPhysicalDeviceSurfacePresentModes(dv.GP.GPU, sc.surface, &modeCount, modes)
		for _, m := range modes {
			if m == wantMode {
				presentMode = wantMode
				sc.presentMode = sc.desc.PresentMode
				break
			}
		}
	}

	imageCount := uint32(vgfx.MaxInflightFrames + 1)
	if imageCount < caps.MinImageCount {
		imageCount = caps.MinImageCount
	}
	if caps.MaxImageCount > 0 && imageCount > caps.MaxImageCount {
		imageCount = caps.MaxImageCount
	}

	preTransform := caps.CurrentTransform
	if vk.SurfaceTransformFlagBits(caps.SupportedTransforms)&vk.SurfaceTransformIdentityBit != 0 {
		preTransform = vk.SurfaceTransformIdentityBit
	}

	compositeAlpha := vk.CompositeAlphaOpaqueBit
	for _, ca := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if caps.SupportedCompositeAlpha&vk.CompositeAlphaFlags(ca) != 0 {
			compositeAlpha = ca
			break
		}
	}

	oldSwapchain := sc.swapchain
	var swapchain vk.Swapchain
	ret = vk.CreateSwapchain(dv.Dev, &vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          sc.surface,
		MinImageCount:    imageCount,
		ImageFormat:      sc.format,
		ImageColorSpace:  sc.colorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage: vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit |
			vk.ImageUsageTransferSrcBit | vk.ImageUsageTransferDstBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     preTransform,
		CompositeAlpha:   compositeAlpha,
		PresentMode:      presentMode,
		Clipped:          vk.True,
		OldSwapchain:     oldSwapchain,
	}, nil, &swapchain)
	if err := NewError(ret); err != nil {
		return err
	}
	sc.releaseImages()
	if oldSwapchain != vk.NullSwapchain {
		vk.DestroySwapchain(dv.Dev, oldSwapchain, nil)
	}
	sc.swapchain = swapchain
	sc.width = int(extent.Width)
	sc.height = int(extent.Height)

	var count uint32
	ret = vk.GetSwapchainImages(dv.Dev, sc.swapchain, &count, nil)
	IfPanic(NewError(ret))
	images := make([]vk.Image, count)
	ret = vk.GetSwapchainImages(dv.Dev, sc.swapchain, &count, images)
	IfPanic(NewError(ret))

	scFormat := vgfx.FormatBGRA8Unorm
	if f, ok := TextureFormats[sc.format]; ok {
		scFormat = f
	}
	sc.textures = make([]*Texture, count)
	for i, img := range images {
		tx := &Texture{
			dev: dv,
			img: img,
			desc: vgfx.TextureDesc{
				Dimension:   vgfx.TextureDim2D,
				Width:       sc.width,
				Height:      sc.height,
				Depth:       1,
				MipLevels:   1,
				SampleCount: 1,
				Format:      scFormat,
				Usage:       vgfx.TextureUsageRenderTarget,
			},
		}
		tx.InitRef()
		sc.textures[i] = tx
	}

	sc.acquireSems = make([]vk.Semaphore, count)
	sc.releaseSems = make([]vk.Semaphore, count)
	semInfo := &vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	for i := range sc.acquireSems {
		ret = vk.CreateSemaphore(dv.Dev, semInfo, nil, &sc.acquireSems[i])
		IfPanic(NewError(ret))
		ret = vk.CreateSemaphore(dv.Dev, semInfo, nil, &sc.releaseSems[i])
		IfPanic(NewError(ret))
	}
	sc.semIndex = 0
	sc.acquired = false
	sc.outdated = false
	return nil
}

func clampU32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// releaseImages drops the backbuffer wrappers and per-image
// semaphores of the previous swapchain. Callers have already waited
// for the device to go idle.
func (sc *SwapChain) releaseImages() {
	dv := sc.dev
	for _, tx := range sc.textures {
		tx.Release()
	}
	sc.textures = nil
	for i := range sc.acquireSems {
		vk.DestroySemaphore(dv.Dev, sc.acquireSems[i], nil)
		vk.DestroySemaphore(dv.Dev, sc.releaseSems[i], nil)
	}
	sc.acquireSems = nil
	sc.releaseSems = nil
}

// acquireNext acquires the next backbuffer, recreating the swapchain
// first when the window was resized or the surface went out of date.
// Returns (nil, nil) while the window is minimized and ErrDeviceLost
// when the device or surface is gone.
func (sc *SwapChain) acquireNext() (vgfx.Texture, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	dv := sc.dev

	if sc.lost {
		return nil, vgfx.ErrDeviceLost
	}
	if sc.acquired {
		return sc.textures[sc.imageIndex], nil
	}

	w, h := windowSize(sc.window)
	if w == 0 || h == 0 {
		return nil, nil
	}
	if sc.needsInit(w, h) {
		vk.DeviceWaitIdle(dv.Dev)
		if err := sc.initSwapchain(w, h); err != nil {
			if IsDeviceLostErr(err) {
				sc.lost = true
				return nil, vgfx.ErrDeviceLost
			}
			return nil, err
		}
	}

	for try := 0; try < 2; try++ {
		sem := sc.acquireSems[sc.semIndex]
		var idx uint32
		ret := vk.AcquireNextImage(dv.Dev, sc.swapchain, vk.MaxUint64, sem, vk.NullFence, &idx)
		switch ret {
		case vk.Success, vk.Suboptimal:
			sc.imageIndex = idx
			sc.semIndex = (sc.semIndex + 1) % len(sc.acquireSems)
			sc.curAcquire = sem
			sc.acquired = true
			tx := sc.textures[idx]
			tx.state = vgfx.StateUndefined
			return tx, nil
		case vk.ErrorOutOfDate:
			vk.DeviceWaitIdle(dv.Dev)
			if err := sc.initSwapchain(w, h); err != nil {
				return nil, err
			}
		case vk.ErrorDeviceLost, vk.ErrorSurfaceLost:
			sc.lost = true
			return nil, vgfx.ErrDeviceLost
		default:
			return nil, NewError(ret)
		}
	}
	return nil, nil
}

// needsInit reports whether acquire must recreate the swapchain
// before acquiring for a window of the given size.
func (sc *SwapChain) needsInit(w, h int) bool {
	return sc.outdated || w != sc.width || h != sc.height
}

// acquireSem is the semaphore the acquired image's submission must
// wait on.
func (sc *SwapChain) acquireSem() vk.Semaphore {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.curAcquire
}

// releaseSem is the semaphore presentation waits on for the acquired
// image.
func (sc *SwapChain) releaseSem() vk.Semaphore {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.releaseSems[sc.imageIndex]
}

// backbuffer is the currently acquired texture, nil outside an
// acquire/present cycle.
func (sc *SwapChain) backbuffer() *Texture {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if !sc.acquired {
		return nil
	}
	return sc.textures[sc.imageIndex]
}

// present queues the acquired image for presentation. An out-of-date
// result is not an error; the next acquire recreates the swapchain.
func (sc *SwapChain) present(queue vk.Queue) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if !sc.acquired {
		return
	}
	sc.acquired = false
	ret := vk.QueuePresent(queue, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{sc.releaseSems[sc.imageIndex]},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{sc.swapchain},
		PImageIndices:      []uint32{sc.imageIndex},
	})
	switch ret {
	case vk.Success, vk.Suboptimal:
	case vk.ErrorOutOfDate:
		sc.outdated = true
	case vk.ErrorDeviceLost, vk.ErrorSurfaceLost:
		sc.lost = true
	default:
		vgfx.Logf(vgfx.LogError, "vulkan: present: %v", NewError(ret))
	}
}

func (sc *SwapChain) Width() int                    { return sc.width }
func (sc *SwapChain) Height() int                   { return sc.height }
func (sc *SwapChain) PresentMode() vgfx.PresentMode { return sc.presentMode }

func (sc *SwapChain) Format() vgfx.TextureFormat {
	if len(sc.textures) > 0 {
		return sc.textures[0].desc.Format
	}
	return sc.desc.Format
}

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
	dv := sc.dev
	sc.mu.Lock()
	defer sc.mu.Unlock()
	vk.DeviceWaitIdle(dv.Dev)
	sc.releaseImages()
	if sc.swapchain != vk.NullSwapchain {
		vk.DestroySwapchain(dv.Dev, sc.swapchain, nil)
		sc.swapchain = vk.NullSwapchain
	}
	if sc.surface != vk.NullSurface {
		vk.DestroySurface(dv.GP.Instance, sc.surface, nil)
		sc.surface = vk.NullSurface
	}
}
