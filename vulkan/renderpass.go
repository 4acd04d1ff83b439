// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"sync"

	vk "github.com/goki/vulkan"
	"goki.dev/ordmap"

	"github.com/amerkoleci/vgfx"
)

// passAttach is one attachment's contribution to a render pass cache
// key. Load and store ops are part of the key even though vulkan pass
// compatibility ignores them, so begin and pipeline lookups that agree
// share an entry.
type passAttach struct {
	format vk.Format
	load   vgfx.LoadAction
	store  vgfx.StoreAction
}

type passKey struct {
	colors    [vgfx.MaxColorAttachments]passAttach
	numColors uint32
	depth     passAttach
	hasDepth  bool
	samples   vk.SampleCountFlagBits
}

type fboKey struct {
	pass   vk.RenderPass
	views  [vgfx.MaxColorAttachments + 1]vk.ImageView
	width  uint32
	height uint32
}

// renderPassCache caches render passes by attachment shape and
// framebuffers by (pass, views, extent). Both live for the device's
// lifetime; entries are destroyed only at shutdown, as the handle
// count stays small in practice.
type renderPassCache struct {
	dev    *Device
	mu     sync.Mutex
	passes ordmap.Map[passKey, vk.RenderPass]
	fbos   ordmap.Map[fboKey, vk.Framebuffer]
}

func newRenderPassCache(dv *Device) *renderPassCache {
	return &renderPassCache{dev: dv}
}

func vkLoadOp(load vgfx.LoadAction) vk.AttachmentLoadOp {
	switch load {
	case vgfx.LoadActionClear:
		return vk.AttachmentLoadOpClear
	case vgfx.LoadActionDiscard:
		return vk.AttachmentLoadOpDontCare
	default:
		return vk.AttachmentLoadOpLoad
	}
}

func vkStoreOp(store vgfx.StoreAction) vk.AttachmentStoreOp {
	if store == vgfx.StoreActionDiscard {
		return vk.AttachmentStoreOpDontCare
	}
	return vk.AttachmentStoreOpStore
}

// pass returns the cached render pass for the key, creating it on
// first use.
func (rc *renderPassCache) pass(key passKey) vk.RenderPass {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rp, ok := rc.passes.ValByKeyTry(key); ok {
		return rp
	}

	var atts []vk.AttachmentDescription
	var colorRefs []vk.AttachmentReference
	for i := uint32(0); i < key.numColors; i++ {
		ca := key.colors[i]
		initial := vk.ImageLayoutUndefined
		if ca.load == vgfx.LoadActionLoad {
			initial = vk.ImageLayoutColorAttachmentOptimal
		}
		atts = append(atts, vk.AttachmentDescription{
			Format:         ca.format,
			Samples:        key.samples,
			LoadOp:         vkLoadOp(ca.load),
			StoreOp:        vkStoreOp(ca.store),
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  initial,
			FinalLayout:    vk.ImageLayoutColorAttachmentOptimal,
		})
		colorRefs = append(colorRefs, vk.AttachmentReference{
			Attachment: i,
			Layout:     vk.ImageLayoutColorAttachmentOptimal,
		})
	}
	var depthRef *vk.AttachmentReference
	if key.hasDepth {
		initial := vk.ImageLayoutUndefined
		if key.depth.load == vgfx.LoadActionLoad {
			initial = vk.ImageLayoutDepthStencilAttachmentOptimal
		}
		atts = append(atts, vk.AttachmentDescription{
			Format:         key.depth.format,
			Samples:        key.samples,
			LoadOp:         vkLoadOp(key.depth.load),
			StoreOp:        vkStoreOp(key.depth.store),
			StencilLoadOp:  vkLoadOp(key.depth.load),
			StencilStoreOp: vkStoreOp(key.depth.store),
			InitialLayout:  initial,
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		})
		depthRef = &vk.AttachmentReference{
			Attachment: key.numColors,
			Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
		}
	}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:       vk.PipelineBindPointGraphics,
		ColorAttachmentCount:    key.numColors,
		PColorAttachments:       colorRefs,
		PDepthStencilAttachment: depthRef,
	}
	dep := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit | vk.PipelineStageEarlyFragmentTestsBit),
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit | vk.PipelineStageEarlyFragmentTestsBit),
		SrcAccessMask: 0,
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit | vk.AccessDepthStencilAttachmentWriteBit),
	}

	var rp vk.RenderPass
	ret := vk.CreateRenderPass(rc.dev.Dev, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(atts)),
		PAttachments:    atts,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dep},
	}, nil, &rp)
	IfPanic(NewError(ret))
	rc.passes.Add(key, rp)
	return rp
}

// framebuffer returns the cached framebuffer for a pass and view set,
// creating it on first use.
func (rc *renderPassCache) framebuffer(key fboKey, numViews uint32) vk.Framebuffer {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if fb, ok := rc.fbos.ValByKeyTry(key); ok {
		return fb
	}
	var fb vk.Framebuffer
	ret := vk.CreateFramebuffer(rc.dev.Dev, &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      key.pass,
		AttachmentCount: numViews,
		PAttachments:    key.views[:numViews],
		Width:           key.width,
		Height:          key.height,
		Layers:          1,
	}, nil, &fb)
	IfPanic(NewError(ret))
	rc.fbos.Add(key, fb)
	return fb
}

// invalidateView drops every cached framebuffer that references a
// view about to be destroyed, returning the dead handles so the
// caller can route them through the same retirement window as the
// view.
func (rc *renderPassCache) invalidateView(view vk.ImageView) []vk.Framebuffer {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	var dead []vk.Framebuffer
	var deadKeys []fboKey
	for _, kv := range rc.fbos.Order {
		for _, v := range kv.Key.views {
			if v == view {
				dead = append(dead, kv.Val)
				deadKeys = append(deadKeys, kv.Key)
				break
			}
		}
	}
	for _, k := range deadKeys {
		rc.fbos.DeleteKey(k)
	}
	return dead
}

func (rc *renderPassCache) destroy() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	for _, kv := range rc.fbos.Order {
		vk.DestroyFramebuffer(rc.dev.Dev, kv.Val, nil)
	}
	rc.fbos.Reset()
	for _, kv := range rc.passes.Order {
		vk.DestroyRenderPass(rc.dev.Dev, kv.Val, nil)
	}
	rc.passes.Reset()
}
