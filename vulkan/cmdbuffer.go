// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"
	"goki.dev/mat32/v2"

	"github.com/amerkoleci/vgfx"
)

// maxBatchedBarriers is how many barriers accumulate before they are
// flushed even without a draw or copy forcing it.
const maxBatchedBarriers = 16

// CommandBuffer is a pooled recorder for one queue. It keeps one
// command pool per in-flight frame slot so resetting a pool never
// touches work the GPU is still consuming.
type CommandBuffer struct {
	dev   *Device
	queue vgfx.CommandQueue
	label string

	pools [vgfx.MaxInflightFrames]vk.CommandPool
	bufs  [vgfx.MaxInflightFrames]vk.CommandBuffer

	cur       vk.CommandBuffer
	recording bool
	inFlight  bool

	// swapchains acquired during this recording, presented at submit
	swapchains []*SwapChain

	bound *Pipeline

	// batched barriers, flushed before the next action command
	bufBarriers []vk.BufferMemoryBarrier
	imgBarriers []vk.ImageMemoryBarrier
	srcStages   vk.PipelineStageFlags
	dstStages   vk.PipelineStageFlags

	inPass     bool
	passColors []*Texture
	passDepth  *Texture
	debugDepth int
}

// BeginCommandBuffer checks a pooled command buffer out for recording
// on the given queue, creating one when all are busy.
func (dv *Device) BeginCommandBuffer(queue vgfx.CommandQueue, label string) vgfx.CommandBuffer {
	dv.cmdMu.Lock()
	var cb *CommandBuffer
	for _, c := range dv.cmdBuffers {
		if c.queue == queue && !c.recording && !c.inFlight {
			cb = c
			break
		}
	}
	if cb == nil {
		cb = newCommandBuffer(dv, queue)
		dv.cmdBuffers = append(dv.cmdBuffers, cb)
	}
	cb.recording = true
	cb.inFlight = true
	dv.cmdMu.Unlock()

	cb.label = label
	cb.begin()
	return cb
}

func newCommandBuffer(dv *Device, queue vgfx.CommandQueue) *CommandBuffer {
	cb := &CommandBuffer{dev: dv, queue: queue}
	for slot := 0; slot < vgfx.MaxInflightFrames; slot++ {
		ret := vk.CreateCommandPool(dv.Dev, &vk.CommandPoolCreateInfo{
			SType:            vk.StructureTypeCommandPoolCreateInfo,
			QueueFamilyIndex: dv.Queues[queue].Family,
			Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateTransientBit),
		}, nil, &cb.pools[slot])
		IfPanic(NewError(ret))
		buf := make([]vk.CommandBuffer, 1)
		ret = vk.AllocateCommandBuffers(dv.Dev, &vk.CommandBufferAllocateInfo{
			SType:              vk.StructureTypeCommandBufferAllocateInfo,
			CommandPool:        cb.pools[slot],
			Level:              vk.CommandBufferLevelPrimary,
			CommandBufferCount: 1,
		}, buf)
		IfPanic(NewError(ret))
		cb.bufs[slot] = buf[0]
	}
	return cb
}

// begin resets this frame slot's pool and opens its command buffer.
func (cb *CommandBuffer) begin() {
	slot := cb.dev.pacer.FrameIndex()
	vk.ResetCommandPool(cb.dev.Dev, cb.pools[slot], 0)
	cb.cur = cb.bufs[slot]
	ret := vk.BeginCommandBuffer(cb.cur, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	IfPanic(NewError(ret))
	cb.bound = nil
	cb.debugDepth = 0
}

// end closes the recording: any still-open render pass or debug group
// is closed, batched barriers flush, and acquired backbuffers not yet
// in present state get their transition appended.
func (cb *CommandBuffer) end() {
	if cb.inPass {
		cb.EndRenderPass()
	}
	cb.flushBarriers()
	for _, sc := range cb.swapchains {
		tx := sc.backbuffer()
		if tx == nil || tx.state == vgfx.StatePresent {
			continue
		}
		cb.TextureBarrier(tx, tx.state, vgfx.StatePresent)
	}
	cb.flushBarriers()
	ret := vk.EndCommandBuffer(cb.cur)
	IfPanic(NewError(ret))
}

func (cb *CommandBuffer) destroy() {
	for slot := 0; slot < vgfx.MaxInflightFrames; slot++ {
		vk.DestroyCommandPool(cb.dev.Dev, cb.pools[slot], nil)
	}
}

func (cb *CommandBuffer) Queue() vgfx.CommandQueue { return cb.queue }

// The vulkan binding exposes no debug-utils label or object-name
// entry points, so debug groups only track nesting depth to keep Pop
// calls balanced.
func (cb *CommandBuffer) PushDebugGroup(name string) { cb.debugDepth++ }

func (cb *CommandBuffer) PopDebugGroup() {
	if cb.debugDepth > 0 {
		cb.debugDepth--
	}
}

func (cb *CommandBuffer) InsertDebugMarker(name string) {}

// AcquireSwapchainTexture acquires the next backbuffer of the
// swapchain, recreating it first when the window size has changed.
// The backbuffer comes back in an undefined layout, so a transition
// to render target is recorded before it is returned.
func (cb *CommandBuffer) AcquireSwapchainTexture(sc vgfx.SwapChain) (vgfx.Texture, error) {
	sw := sc.(*SwapChain)
	tx, err := sw.acquireNext()
	if err != nil || tx == nil {
		return nil, err
	}
	cb.swapchains = append(cb.swapchains, sw)
	if bb := tx.(*Texture); bb.state == vgfx.StateUndefined {
		cb.TextureBarrier(bb, vgfx.StateUndefined, vgfx.StateRenderTarget)
	}
	return tx, nil
}

// BufferBarrier batches a buffer transition; it flushes with the next
// action command.
func (cb *CommandBuffer) BufferBarrier(buf vgfx.Buffer, before, after vgfx.ResourceState) {
	bf := buf.(*Buffer)
	srcAccess, srcStage, _ := StateInfo(before)
	dstAccess, dstStage, _ := StateInfo(after)
	cb.bufBarriers = append(cb.bufBarriers, vk.BufferMemoryBarrier{
		SType:               vk.StructureTypeBufferMemoryBarrier,
		SrcAccessMask:       srcAccess,
		DstAccessMask:       dstAccess,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Buffer:              bf.buf,
		Size:                vk.DeviceSize(vk.WholeSize),
	})
	cb.srcStages |= srcStage
	cb.dstStages |= dstStage
	if len(cb.bufBarriers)+len(cb.imgBarriers) >= maxBatchedBarriers {
		cb.flushBarriers()
	}
}

// TextureBarrier batches an image layout transition.
func (cb *CommandBuffer) TextureBarrier(tex vgfx.Texture, before, after vgfx.ResourceState) {
	tx := tex.(*Texture)
	srcAccess, srcStage, oldLayout := StateInfo(before)
	dstAccess, dstStage, newLayout := StateInfo(after)
	cb.imgBarriers = append(cb.imgBarriers, vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       srcAccess,
		DstAccessMask:       dstAccess,
		OldLayout:           oldLayout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               tx.img,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: ImageAspect(tx.desc.Format),
			LevelCount: uint32(tx.desc.MipLevels),
			LayerCount: tx.layerCount(),
		},
	})
	cb.srcStages |= srcStage
	cb.dstStages |= dstStage
	tx.state = after
	if len(cb.bufBarriers)+len(cb.imgBarriers) >= maxBatchedBarriers {
		cb.flushBarriers()
	}
}

// flushBarriers emits all batched barriers in one pipeline barrier.
func (cb *CommandBuffer) flushBarriers() {
	if len(cb.bufBarriers) == 0 && len(cb.imgBarriers) == 0 {
		return
	}
	src := cb.srcStages
	if src == 0 {
		src = vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit)
	}
	dst := cb.dstStages
	if dst == 0 {
		dst = vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit)
	}
	vk.CmdPipelineBarrier(cb.cur, src, dst, 0, 0, nil,
		uint32(len(cb.bufBarriers)), cb.bufBarriers,
		uint32(len(cb.imgBarriers)), cb.imgBarriers)
	cb.bufBarriers = cb.bufBarriers[:0]
	cb.imgBarriers = cb.imgBarriers[:0]
	cb.srcStages = 0
	cb.dstStages = 0
}

func (cb *CommandBuffer) SetPipeline(pl vgfx.Pipeline) {
	p := pl.(*Pipeline)
	cb.bound = p
	vk.CmdBindPipeline(cb.cur, p.bindPoint, p.pipeline)
}

func (cb *CommandBuffer) SetBindGroup(index uint32, bg vgfx.BindGroup) {
	if cb.bound == nil {
		vgfx.Logf(vgfx.LogWarn, "SetBindGroup: no pipeline bound")
		return
	}
	g := bg.(*BindGroup)
	vk.CmdBindDescriptorSets(cb.cur, cb.bound.bindPoint, cb.bound.layout.layout,
		index, 1, []vk.DescriptorSet{g.descriptorSet()}, 0, nil)
}

func (cb *CommandBuffer) SetPushConstants(data []byte) {
	if cb.bound == nil || len(data) == 0 {
		return
	}
	size := uint32(len(data))
	if cb.bound.pushSize > 0 && size > cb.bound.pushSize {
		size = cb.bound.pushSize
	}
	vk.CmdPushConstants(cb.cur, cb.bound.layout.layout, cb.bound.pushStages,
		0, size, unsafe.Pointer(&data[0]))
}

func (cb *CommandBuffer) CopyBufferToBuffer(src vgfx.Buffer, srcOffset uint64, dst vgfx.Buffer, dstOffset, size uint64) {
	cb.flushBarriers()
	sb := src.(*Buffer)
	db := dst.(*Buffer)
	if size == vgfx.WholeSize {
		size = sb.size - srcOffset
	}
	vk.CmdCopyBuffer(cb.cur, sb.buf, db.buf, 1, []vk.BufferCopy{{
		SrcOffset: vk.DeviceSize(srcOffset),
		DstOffset: vk.DeviceSize(dstOffset),
		Size:      vk.DeviceSize(size),
	}})
}

func (cb *CommandBuffer) CopyTextureToBuffer(src vgfx.Texture, mipLevel, slice uint32, dst vgfx.Buffer, dstOffset uint64) {
	cb.flushBarriers()
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
	vk.CmdCopyImageToBuffer(cb.cur, tx.img, vk.ImageLayoutTransferSrcOptimal, db.buf, 1,
		[]vk.BufferImageCopy{{
			BufferOffset: vk.DeviceSize(dstOffset),
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask:     ImageAspect(tx.desc.Format),
				MipLevel:       mipLevel,
				BaseArrayLayer: slice,
				LayerCount:     1,
			},
			ImageExtent: vk.Extent3D{Width: w, Height: h, Depth: 1},
		}})
}

func (cb *CommandBuffer) Dispatch(x, y, z uint32) {
	cb.flushBarriers()
	vk.CmdDispatch(cb.cur, x, y, z)
}

func (cb *CommandBuffer) DispatchIndirect(args vgfx.Buffer, offset uint64) {
	cb.flushBarriers()
	vk.CmdDispatchIndirect(cb.cur, args.(*Buffer).buf, vk.DeviceSize(offset))
}

func (cb *CommandBuffer) BeginQuery(qh vgfx.QueryHeap, index uint32) {
	q := qh.(*QueryHeap)
	if q.typ == vgfx.QueryTimestamp {
		return
	}
	vk.CmdResetQueryPool(cb.cur, q.pool, index, 1)
	flags := vk.QueryControlFlags(0)
	if q.typ == vgfx.QueryOcclusion {
		flags = vk.QueryControlFlags(vk.QueryControlPreciseBit)
	}
	vk.CmdBeginQuery(cb.cur, q.pool, index, flags)
}

func (cb *CommandBuffer) EndQuery(qh vgfx.QueryHeap, index uint32) {
	q := qh.(*QueryHeap)
	if q.typ == vgfx.QueryTimestamp {
		vk.CmdResetQueryPool(cb.cur, q.pool, index, 1)
		vk.CmdWriteTimestamp(cb.cur, vk.PipelineStageBottomOfPipeBit, q.pool, index)
		return
	}
	vk.CmdEndQuery(cb.cur, q.pool, index)
}

func (cb *CommandBuffer) ResolveQuery(qh vgfx.QueryHeap, start, count uint32, dst vgfx.Buffer, dstOffset uint64) {
	cb.flushBarriers()
	q := qh.(*QueryHeap)
	vk.CmdCopyQueryPoolResults(cb.cur, q.pool, start, count,
		dst.(*Buffer).buf, vk.DeviceSize(dstOffset), 8,
		vk.QueryResultFlags(vk.QueryResult64Bit|vk.QueryResultWaitBit))
}

// BeginRenderPass flushes pending barriers, then begins a cached
// compatible render pass on a cached framebuffer for the attachments.
func (cb *CommandBuffer) BeginRenderPass(desc *vgfx.RenderPassDesc) {
	cb.flushBarriers()
	dv := cb.dev

	var key passKey
	var fk fboKey
	var clears []vk.ClearValue
	width, height := uint32(0), uint32(0)
	samples := 1

	cb.passColors = cb.passColors[:0]
	for i, ca := range desc.Colors {
		if i >= vgfx.MaxColorAttachments {
			break
		}
		tx := ca.Texture.(*Texture)
		key.colors[i] = passAttach{
			format: VulkanFormats[tx.desc.Format],
			load:   ca.Load,
			store:  ca.Store,
		}
		key.numColors++
		fk.views[i] = tx.rtView(ca.MipLevel, ca.Slice)
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
		samples = tx.desc.SampleCount
		var cv vk.ClearValue
		cv.SetColor([]float32{ca.ClearColor.X, ca.ClearColor.Y, ca.ClearColor.Z, ca.ClearColor.W})
		clears = append(clears, cv)
		cb.passColors = append(cb.passColors, tx)
	}
	cb.passDepth = nil
	if desc.Depth != nil {
		tx := desc.Depth.Texture.(*Texture)
		key.hasDepth = true
		key.depth = passAttach{
			format: VulkanFormats[tx.desc.Format],
			load:   desc.Depth.Load,
			store:  desc.Depth.Store,
		}
		fk.views[key.numColors] = tx.fullView()
		if width == 0 {
			width = uint32(tx.desc.Width)
			height = uint32(tx.desc.Height)
			samples = tx.desc.SampleCount
		}
		var cv vk.ClearValue
		cv.SetDepthStencil(desc.Depth.ClearDepth, desc.Depth.ClearStencil)
		clears = append(clears, cv)
		cb.passDepth = tx
	}
	key.samples = sampleCountFlag(samples)

	pass := dv.renderPasses.pass(key)
	fk.pass = pass
	fk.width = width
	fk.height = height
	numViews := key.numColors
	if key.hasDepth {
		numViews++
	}
	fb := dv.renderPasses.framebuffer(fk, numViews)

	vk.CmdBeginRenderPass(cb.cur, &vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  pass,
		Framebuffer: fb,
		RenderArea: vk.Rect2D{
			Extent: vk.Extent2D{Width: width, Height: height},
		},
		ClearValueCount: uint32(len(clears)),
		PClearValues:    clears,
	}, vk.SubpassContentsInline)
	cb.inPass = true

	cb.SetViewport(vgfx.Viewport{
		Width: float32(width), Height: float32(height), MaxDepth: 1,
	})
	cb.SetScissorRect(0, 0, int(width), int(height))
}

func (cb *CommandBuffer) EndRenderPass() {
	if !cb.inPass {
		return
	}
	vk.CmdEndRenderPass(cb.cur)
	cb.inPass = false
	for _, tx := range cb.passColors {
		tx.state = vgfx.StateRenderTarget
	}
	if cb.passDepth != nil {
		cb.passDepth.state = vgfx.StateDepthWrite
	}
	cb.passColors = cb.passColors[:0]
	cb.passDepth = nil
}

func (cb *CommandBuffer) SetViewport(vp vgfx.Viewport) {
	vk.CmdSetViewport(cb.cur, 0, 1, []vk.Viewport{{
		X:        vp.X,
		Y:        vp.Y,
		Width:    vp.Width,
		Height:   vp.Height,
		MinDepth: vp.MinDepth,
		MaxDepth: vp.MaxDepth,
	}})
}

func (cb *CommandBuffer) SetScissorRect(x, y, width, height int) {
	vk.CmdSetScissor(cb.cur, 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: int32(x), Y: int32(y)},
		Extent: vk.Extent2D{Width: uint32(width), Height: uint32(height)},
	}})
}

func (cb *CommandBuffer) SetBlendColor(color mat32.Vec4) {
	vk.CmdSetBlendConstants(cb.cur, &[4]float32{color.X, color.Y, color.Z, color.W})
}

func (cb *CommandBuffer) SetVertexBuffer(slot uint32, buf vgfx.Buffer, offset uint64) {
	vk.CmdBindVertexBuffers(cb.cur, slot, 1,
		[]vk.Buffer{buf.(*Buffer).buf}, []vk.DeviceSize{vk.DeviceSize(offset)})
}

func (cb *CommandBuffer) SetIndexBuffer(buf vgfx.Buffer, tp vgfx.IndexType, offset uint64) {
	ixt := vk.IndexTypeUint32
	if tp == vgfx.IndexUint16 {
		ixt = vk.IndexTypeUint16
	}
	vk.CmdBindIndexBuffer(cb.cur, buf.(*Buffer).buf, vk.DeviceSize(offset), ixt)
}

func (cb *CommandBuffer) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	vk.CmdDraw(cb.cur, vertexCount, instanceCount, firstVertex, firstInstance)
}

func (cb *CommandBuffer) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	vk.CmdDrawIndexed(cb.cur, indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (cb *CommandBuffer) DrawIndirect(args vgfx.Buffer, offset uint64) {
	vk.CmdDrawIndirect(cb.cur, args.(*Buffer).buf, vk.DeviceSize(offset), 1, 0)
}

func (cb *CommandBuffer) DrawIndexedIndirect(args vgfx.Buffer, offset uint64) {
	vk.CmdDrawIndexedIndirect(cb.cur, args.(*Buffer).buf, vk.DeviceSize(offset), 1, 0)
}
