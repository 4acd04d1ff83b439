// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webgpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"goki.dev/mat32/v2"

	"github.com/amerkoleci/vgfx"
)

// maxBindGroups is the size of the bind group cache replayed into each
// compute pass and freshly opened render pass.
const maxBindGroups = 8

// CommandBuffer is a pooled recorder backed by a command encoder.
// webgpu scopes draw state to pass encoders, so the recorder caches the
// bound pipeline and bind groups and replays them when a pass opens:
// render passes stay open between BeginRenderPass and EndRenderPass,
// while each Dispatch runs in its own compute pass.
type CommandBuffer struct {
	dev   *Device
	queue vgfx.CommandQueue
	label string

	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder

	recording bool

	// swapchains acquired during this recording, presented at submit
	swapchains []*SwapChain

	bound      *Pipeline
	groups     [maxBindGroups]*BindGroup
	pushWarned bool
	debugDepth int
}

// BeginCommandBuffer checks a pooled command buffer out for recording
// on the given queue, creating one when all are busy.
func (dv *Device) BeginCommandBuffer(queue vgfx.CommandQueue, label string) vgfx.CommandBuffer {
	dv.cmdMu.Lock()
	var cb *CommandBuffer
	for _, c := range dv.cmdBuffers {
		if c.queue == queue && !c.recording {
			cb = c
			break
		}
	}
	if cb == nil {
		cb = &CommandBuffer{dev: dv, queue: queue}
		dv.cmdBuffers = append(dv.cmdBuffers, cb)
	}
	cb.recording = true
	dv.cmdMu.Unlock()

	cb.label = label
	cb.begin()
	return cb
}

// begin opens a fresh encoder and resets cached draw state.
func (cb *CommandBuffer) begin() {
	enc, err := cb.dev.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: cb.label})
	if err != nil {
		vgfx.Logf(vgfx.LogError, "BeginCommandBuffer: %v", err)
	}
	cb.encoder = enc
	cb.bound = nil
	cb.groups = [maxBindGroups]*BindGroup{}
	cb.debugDepth = 0
}

// finish closes any open pass and seals the encoder into a submittable
// command buffer. Returns nil when nothing was recorded.
func (cb *CommandBuffer) finish() *wgpu.CommandBuffer {
	if cb.pass != nil {
		cb.EndRenderPass()
	}
	if cb.encoder == nil {
		return nil
	}
	buf, err := cb.encoder.Finish(nil)
	cb.encoder.Release()
	cb.encoder = nil
	if err != nil {
		vgfx.Logf(vgfx.LogError, "command buffer finish: %v", err)
		return nil
	}
	return buf
}

func (cb *CommandBuffer) destroy() {
	if cb.pass != nil {
		cb.pass.End()
		cb.pass.Release()
		cb.pass = nil
	}
	if cb.encoder != nil {
		cb.encoder.Release()
		cb.encoder = nil
	}
}

func (cb *CommandBuffer) Queue() vgfx.CommandQueue { return cb.queue }

func (cb *CommandBuffer) PushDebugGroup(name string) {
	cb.debugDepth++
	if cb.pass != nil {
		cb.pass.PushDebugGroup(name)
	} else if cb.encoder != nil {
		cb.encoder.PushDebugGroup(name)
	}
}

func (cb *CommandBuffer) PopDebugGroup() {
	if cb.debugDepth == 0 {
		return
	}
	cb.debugDepth--
	if cb.pass != nil {
		cb.pass.PopDebugGroup()
	} else if cb.encoder != nil {
		cb.encoder.PopDebugGroup()
	}
}

func (cb *CommandBuffer) InsertDebugMarker(name string) {
	if cb.pass != nil {
		cb.pass.InsertDebugMarker(name)
	} else if cb.encoder != nil {
		cb.encoder.InsertDebugMarker(name)
	}
}

// AcquireSwapchainTexture acquires the next backbuffer of the
// swapchain, reconfiguring it first when the window size has changed.
func (cb *CommandBuffer) AcquireSwapchainTexture(sc vgfx.SwapChain) (vgfx.Texture, error) {
	sw := sc.(*SwapChain)
	tx, err := sw.acquireNext()
	if err != nil || tx == nil {
		return nil, err
	}
	cb.swapchains = append(cb.swapchains, sw)
	return tx, nil
}

// BufferBarrier is a no-op: wgpu-native tracks resource hazards itself.
func (cb *CommandBuffer) BufferBarrier(buf vgfx.Buffer, before, after vgfx.ResourceState) {}

// TextureBarrier is a no-op: wgpu-native tracks layout transitions.
func (cb *CommandBuffer) TextureBarrier(tex vgfx.Texture, before, after vgfx.ResourceState) {}

func (cb *CommandBuffer) SetPipeline(pl vgfx.Pipeline) {
	p := pl.(*Pipeline)
	cb.bound = p
	if p.render != nil && cb.pass != nil {
		cb.pass.SetPipeline(p.render)
	}
}

func (cb *CommandBuffer) SetBindGroup(index uint32, bg vgfx.BindGroup) {
	if index >= maxBindGroups {
		vgfx.Logf(vgfx.LogWarn, "SetBindGroup: index %d out of range", index)
		return
	}
	g := bg.(*BindGroup)
	cb.groups[index] = g
	if cb.pass != nil {
		cb.pass.SetBindGroup(index, g.bindGroup(), nil)
	}
}

func (cb *CommandBuffer) SetPushConstants(data []byte) {
	if !cb.pushWarned {
		vgfx.Logf(vgfx.LogWarn, "push constants not supported on webgpu; use a uniform buffer")
		cb.pushWarned = true
	}
}

func (cb *CommandBuffer) CopyBufferToBuffer(src vgfx.Buffer, srcOffset uint64, dst vgfx.Buffer, dstOffset, size uint64) {
	sb := src.(*Buffer)
	db := dst.(*Buffer)
	if size == vgfx.WholeSize {
		size = sb.size - srcOffset
	}
	cb.encoder.CopyBufferToBuffer(sb.buf, srcOffset, db.buf, dstOffset, size)
}

func (cb *CommandBuffer) CopyTextureToBuffer(src vgfx.Texture, mipLevel, slice uint32, dst vgfx.Buffer, dstOffset uint64) {
	tx := src.(*Texture)
	db := dst.(*Buffer)
	w := uint32(tx.desc.Width) >> mipLevel
	h := uint32(tx.desc.Height) >> mipLevel
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	bpr := w * uint32(tx.desc.Format.Bytes())
	if bpr%256 != 0 {
		// webgpu requires 256-byte row alignment; rows land padded in
		// the destination when the tight pitch is narrower
		bpr = (bpr + 255) &^ 255
	}
	cb.encoder.CopyTextureToBuffer(
		&wgpu.ImageCopyTexture{
			Texture:  tx.tex,
			MipLevel: mipLevel,
			Origin:   wgpu.Origin3D{Z: slice},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyBuffer{
			Buffer: db.buf,
			Layout: wgpu.TextureDataLayout{
				Offset:       dstOffset,
				BytesPerRow:  bpr,
				RowsPerImage: h,
			},
		},
		&wgpu.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1})
}

// computePass opens a compute pass and replays the cached pipeline and
// bind groups into it.
func (cb *CommandBuffer) computePass() *wgpu.ComputePassEncoder {
	if cb.bound == nil || cb.bound.compute == nil {
		vgfx.Logf(vgfx.LogWarn, "Dispatch: no compute pipeline bound")
		return nil
	}
	pass := cb.encoder.BeginComputePass(nil)
	pass.SetPipeline(cb.bound.compute)
	for i, g := range cb.groups {
		if g != nil {
			pass.SetBindGroup(uint32(i), g.bindGroup(), nil)
		}
	}
	return pass
}

func (cb *CommandBuffer) Dispatch(x, y, z uint32) {
	pass := cb.computePass()
	if pass == nil {
		return
	}
	pass.DispatchWorkgroups(x, y, z)
	pass.End()
	pass.Release()
}

func (cb *CommandBuffer) DispatchIndirect(args vgfx.Buffer, offset uint64) {
	pass := cb.computePass()
	if pass == nil {
		return
	}
	pass.DispatchWorkgroupsIndirect(args.(*Buffer).buf, offset)
	pass.End()
	pass.Release()
}

// Queries are unsupported on this backend; see CreateQueryHeap.
func (cb *CommandBuffer) BeginQuery(qh vgfx.QueryHeap, index uint32) {}

func (cb *CommandBuffer) EndQuery(qh vgfx.QueryHeap, index uint32) {}

func (cb *CommandBuffer) ResolveQuery(qh vgfx.QueryHeap, start, count uint32, dst vgfx.Buffer, dstOffset uint64) {
}

// BeginRenderPass opens a render pass over the given attachments and
// replays cached pipeline and bind group state into it.
func (cb *CommandBuffer) BeginRenderPass(desc *vgfx.RenderPassDesc) {
	if cb.pass != nil {
		cb.EndRenderPass()
	}

	var colors []wgpu.RenderPassColorAttachment
	width, height := uint32(0), uint32(0)
	for i, ca := range desc.Colors {
		if i >= vgfx.MaxColorAttachments {
			break
		}
		tx := ca.Texture.(*Texture)
		colors = append(colors, wgpu.RenderPassColorAttachment{
			View:    tx.view(ca.MipLevel, 1, ca.Slice, 1),
			LoadOp:  wgpuLoadOp(ca.Load),
			StoreOp: wgpuStoreOp(ca.Store),
			ClearValue: wgpu.Color{
				R: float64(ca.ClearColor.X),
				G: float64(ca.ClearColor.Y),
				B: float64(ca.ClearColor.Z),
				A: float64(ca.ClearColor.W),
			},
		})
		w := uint32(tx.desc.Width) >> ca.MipLevel
		h := uint32(tx.desc.Height) >> ca.MipLevel
		if w == 0 {
			w = 1
		}
		if h == 0 {
			h = 1
		}
		if width == 0 || w < width {
			width = w
		}
		if height == 0 || h < height {
			height = h
		}
	}

	var depth *wgpu.RenderPassDepthStencilAttachment
	if desc.Depth != nil {
		tx := desc.Depth.Texture.(*Texture)
		depth = &wgpu.RenderPassDepthStencilAttachment{
			View:            tx.fullView(),
			DepthLoadOp:     wgpuLoadOp(desc.Depth.Load),
			DepthStoreOp:    wgpuStoreOp(desc.Depth.Store),
			DepthClearValue: desc.Depth.ClearDepth,
		}
		if tx.desc.Format == vgfx.FormatDepth24UnormStencil8 {
			depth.StencilLoadOp = wgpuLoadOp(desc.Depth.Load)
			depth.StencilStoreOp = wgpuStoreOp(desc.Depth.Store)
			depth.StencilClearValue = desc.Depth.ClearStencil
		}
		if width == 0 {
			width = uint32(tx.desc.Width)
			height = uint32(tx.desc.Height)
		}
	}

	cb.pass = cb.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:                  desc.Label,
		ColorAttachments:       colors,
		DepthStencilAttachment: depth,
	})

	cb.SetViewport(vgfx.Viewport{
		Width: float32(width), Height: float32(height), MaxDepth: 1,
	})
	cb.SetScissorRect(0, 0, int(width), int(height))

	if cb.bound != nil && cb.bound.render != nil {
		cb.pass.SetPipeline(cb.bound.render)
	}
	for i, g := range cb.groups {
		if g != nil {
			cb.pass.SetBindGroup(uint32(i), g.bindGroup(), nil)
		}
	}
}

func (cb *CommandBuffer) EndRenderPass() {
	if cb.pass == nil {
		return
	}
	cb.pass.End()
	cb.pass.Release()
	cb.pass = nil
}

func (cb *CommandBuffer) SetViewport(vp vgfx.Viewport) {
	if cb.pass == nil {
		return
	}
	cb.pass.SetViewport(vp.X, vp.Y, vp.Width, vp.Height, vp.MinDepth, vp.MaxDepth)
}

func (cb *CommandBuffer) SetScissorRect(x, y, width, height int) {
	if cb.pass == nil {
		return
	}
	cb.pass.SetScissorRect(uint32(x), uint32(y), uint32(width), uint32(height))
}

func (cb *CommandBuffer) SetBlendColor(color mat32.Vec4) {
	if cb.pass == nil {
		return
	}
	cb.pass.SetBlendConstant(&wgpu.Color{
		R: float64(color.X),
		G: float64(color.Y),
		B: float64(color.Z),
		A: float64(color.W),
	})
}

func (cb *CommandBuffer) SetVertexBuffer(slot uint32, buf vgfx.Buffer, offset uint64) {
	if cb.pass == nil {
		return
	}
	cb.pass.SetVertexBuffer(slot, buf.(*Buffer).buf, offset, wgpu.WholeSize)
}

func (cb *CommandBuffer) SetIndexBuffer(buf vgfx.Buffer, tp vgfx.IndexType, offset uint64) {
	if cb.pass == nil {
		return
	}
	cb.pass.SetIndexBuffer(buf.(*Buffer).buf, wgpuIndexFormat(tp), offset, wgpu.WholeSize)
}

func (cb *CommandBuffer) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	if cb.pass == nil {
		return
	}
	cb.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (cb *CommandBuffer) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	if cb.pass == nil {
		return
	}
	cb.pass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (cb *CommandBuffer) DrawIndirect(args vgfx.Buffer, offset uint64) {
	if cb.pass == nil {
		return
	}
	cb.pass.DrawIndirect(args.(*Buffer).buf, offset)
}

func (cb *CommandBuffer) DrawIndexedIndirect(args vgfx.Buffer, offset uint64) {
	if cb.pass == nil {
		return
	}
	cb.pass.DrawIndexedIndirect(args.(*Buffer).buf, offset)
}
