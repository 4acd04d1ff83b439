// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"sync"
	"sync/atomic"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/amerkoleci/vgfx"
)

// queue is one hardware queue with its family index.
type queue struct {
	Queue  vk.Queue
	Family uint32
}

// bufferDel pairs a buffer with its memory for deferred destruction.
type bufferDel struct {
	buf vk.Buffer
	mem vk.DeviceMemory
}

// imageDel pairs an image with its memory for deferred destruction.
type imageDel struct {
	img vk.Image
	mem vk.DeviceMemory
}

// Device is the vulkan implementation of vgfx.GraphicsDevice.
type Device struct {
	GP  *GPU
	Dev vk.Device

	// hardware queues by role; roles can share a queue
	Queues [vgfx.CommandQueueN]queue `desc:"hardware queues by role; roles can share a queue"`

	// all distinct queue families, for concurrent sharing mode
	Families []uint32 `desc:"all distinct queue families, for concurrent sharing mode"`

	pacer       vgfx.FramePacer
	frameFences [vgfx.CommandQueueN][vgfx.MaxInflightFrames]vk.Fence

	cmdMu      sync.Mutex
	cmdBuffers []*CommandBuffer

	uploadMu       sync.Mutex
	uploads        *vgfx.UploadList[*uploadContext]
	pendingUploads []*uploadContext

	// deferred destruction, one queue per handle kind
	dqBuffers     vgfx.DelayQueue[bufferDel]
	dqImages      vgfx.DelayQueue[imageDel]
	dqFramebufs   vgfx.DelayQueue[vk.Framebuffer]
	dqViews       vgfx.DelayQueue[vk.ImageView]
	dqSamplers    vgfx.DelayQueue[vk.Sampler]
	dqPipelines   vgfx.DelayQueue[vk.Pipeline]
	dqPipeLayouts vgfx.DelayQueue[vk.PipelineLayout]
	dqDescPools   vgfx.DelayQueue[vk.DescriptorPool]
	dqSetLayouts  vgfx.DelayQueue[vk.DescriptorSetLayout]
	dqQueryPools  vgfx.DelayQueue[vk.QueryPool]
	dqSemaphores  vgfx.DelayQueue[vk.Semaphore]
	dqDescSlots   vgfx.DelayQueue[descSlot]

	shuttingDown int32

	// null resources backing unbound descriptor slots
	nullBuffer    vk.Buffer
	nullBufferMem vk.DeviceMemory
	nullImage     vk.Image
	nullImageMem  vk.DeviceMemory
	nullView      vk.ImageView
	nullStorview  vk.ImageView
	nullSampler   vk.Sampler

	pipelineCache vk.PipelineCache
	renderPasses  *renderPassCache

	hasDeviceAddress bool
	label            string
}

// NewDevice creates a fully initialized vulkan device, or nil after
// logging on failure.
func NewDevice(desc *vgfx.DeviceDesc) *Device {
	gp := NewGPU(desc)
	if gp == nil {
		return nil
	}
	dv := &Device{GP: gp, label: desc.Label}
	if err := dv.init(); err != nil {
		vgfx.Logf(vgfx.LogError, "vulkan: device init: %v", err)
		dv.Destroy()
		return nil
	}
	return dv
}

func (dv *Device) init() error {
	if err := dv.findQueues(); err != nil {
		return err
	}
	if err := dv.makeDevice(); err != nil {
		return err
	}
	for q := vgfx.QueueGraphics; q < vgfx.CommandQueueN; q++ {
		var vq vk.Queue
		vk.GetDeviceQueue(dv.Dev, dv.Queues[q].Family, 0, &vq)
		dv.Queues[q].Queue = vq
		for s := 0; s < vgfx.MaxInflightFrames; s++ {
			var fence vk.Fence
			ret := vk.CreateFence(dv.Dev, &vk.FenceCreateInfo{
				SType: vk.StructureTypeFenceCreateInfo,
			}, nil, &fence)
			IfPanic(NewError(ret))
			dv.frameFences[q][s] = fence
		}
	}

	var pc vk.PipelineCache
	ret := vk.CreatePipelineCache(dv.Dev, &vk.PipelineCacheCreateInfo{
		SType: vk.StructureTypePipelineCacheCreateInfo,
	}, nil, &pc)
	IfPanic(NewError(ret))
	dv.pipelineCache = pc

	dv.renderPasses = newRenderPassCache(dv)
	dv.uploads = vgfx.NewUploadList(
		func(c *uploadContext) bool { return c.completed(dv) },
		func(c *uploadContext) uint64 { return c.size },
	)
	dv.initNullResources()
	return nil
}

// findQueues selects the graphics, compute and copy queue families.
// Dedicated compute and transfer families are preferred; roles fall
// back to the graphics family.
func (dv *Device) findQueues() error {
	var queueCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(dv.GP.GPU, &queueCount, nil)
	queueProps := make([]vk.QueueFamilyProperties, queueCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(dv.GP.GPU, &queueCount, queueProps)
	if queueCount == 0 {
		return NewError(vk.ErrorInitializationFailed)
	}
	for i := range queueProps {
		queueProps[i].Deref()
	}

	const (
		gfx = vk.QueueFlags(vk.QueueGraphicsBit)
		cmp = vk.QueueFlags(vk.QueueComputeBit)
		cpy = vk.QueueFlags(vk.QueueTransferBit)
	)

	graphics := uint32(vgfx.InvalidIndex)
	for i := uint32(0); i < queueCount; i++ {
		if queueProps[i].QueueFlags&gfx != 0 {
			graphics = i
			break
		}
	}
	if graphics == uint32(vgfx.InvalidIndex) {
		return NewError(vk.ErrorInitializationFailed)
	}

	compute := graphics
	for i := uint32(0); i < queueCount; i++ {
		if i != graphics && queueProps[i].QueueFlags&cmp != 0 && queueProps[i].QueueFlags&gfx == 0 {
			compute = i
			break
		}
	}
	copyq := compute
	for i := uint32(0); i < queueCount; i++ {
		fl := queueProps[i].QueueFlags
		if fl&cpy != 0 && fl&gfx == 0 && fl&cmp == 0 {
			copyq = i
			break
		}
	}

	dv.Queues[vgfx.QueueGraphics].Family = graphics
	dv.Queues[vgfx.QueueCompute].Family = compute
	dv.Queues[vgfx.QueueCopy].Family = copyq

	seen := map[uint32]bool{}
	for q := vgfx.QueueGraphics; q < vgfx.CommandQueueN; q++ {
		fam := dv.Queues[q].Family
		if !seen[fam] {
			seen[fam] = true
			dv.Families = append(dv.Families, fam)
		}
	}
	return nil
}

func (dv *Device) makeDevice() error {
	var queueInfos []vk.DeviceQueueCreateInfo
	for _, fam := range dv.Families {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: fam,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		})
	}

	dv.hasDeviceAddress = true
	var device vk.Device
	ret := vk.CreateDevice(dv.GP.GPU, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(dv.GP.DeviceExts)),
		PpEnabledExtensionNames: dv.GP.DeviceExts,
		EnabledLayerCount:       uint32(len(dv.GP.ValidationLayers)),
		PpEnabledLayerNames:     dv.GP.ValidationLayers,
		PEnabledFeatures: []vk.PhysicalDeviceFeatures{{
			SamplerAnisotropy:                      dv.GP.GPUFeats.SamplerAnisotropy,
			ShaderSampledImageArrayDynamicIndexing: vk.True,
			MultiDrawIndirect:                      dv.GP.GPUFeats.MultiDrawIndirect,
			DepthClamp:                             dv.GP.GPUFeats.DepthClamp,
			OcclusionQueryPrecise:                  dv.GP.GPUFeats.OcclusionQueryPrecise,
		}},
		PNext: unsafe.Pointer(&vk.PhysicalDeviceVulkan12Features{
			SType:              vk.StructureTypePhysicalDeviceVulkan12Features,
			DescriptorIndexing: vk.True,
			DescriptorBindingSampledImageUpdateAfterBind:  vk.True,
			DescriptorBindingStorageImageUpdateAfterBind:  vk.True,
			DescriptorBindingStorageBufferUpdateAfterBind: vk.True,
			DescriptorBindingUniformBufferUpdateAfterBind: vk.True,
			DescriptorBindingUpdateUnusedWhilePending:     vk.True,
			DescriptorBindingPartiallyBound:               vk.True,
			RuntimeDescriptorArray:                        vk.True,
			BufferDeviceAddress:                           vk.True,
		}),
	}, nil, &device)
	if err := NewError(ret); err != nil {
		return err
	}
	dv.Dev = device
	return nil
}

// initNullResources creates the buffer, image views and sampler used
// to fill unbound descriptor slots, so reads of unbound slots return
// zero instead of faulting.
func (dv *Device) initNullResources() {
	dv.nullBuffer = newBuffer(dv.Dev, 256,
		vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit|vk.BufferUsageStorageBufferBit|vk.BufferUsageTransferDstBit))
	dv.nullBufferMem = allocBuffMem(dv.GP, dv.Dev, dv.nullBuffer, vk.MemoryPropertyDeviceLocalBit, 0)

	var img vk.Image
	ret := vk.CreateImage(dv.Dev, &vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    vk.FormatR8g8b8a8Unorm,
		Extent:    vk.Extent3D{Width: 1, Height: 1, Depth: 1},
		MipLevels: 1, ArrayLayers: 1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         vk.ImageUsageFlags(vk.ImageUsageSampledBit | vk.ImageUsageStorageBit | vk.ImageUsageTransferDstBit),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil, &img)
	IfPanic(NewError(ret))
	dv.nullImage = img
	dv.nullImageMem = allocImageMem(dv.GP, dv.Dev, img)

	mkView := func() vk.ImageView {
		var view vk.ImageView
		ret := vk.CreateImageView(dv.Dev, &vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    img,
			ViewType: vk.ImageViewType2d,
			Format:   vk.FormatR8g8b8a8Unorm,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1, LayerCount: 1,
			},
		}, nil, &view)
		IfPanic(NewError(ret))
		return view
	}
	dv.nullView = mkView()
	dv.nullStorview = mkView()

	var smp vk.Sampler
	ret = vk.CreateSampler(dv.Dev, &vk.SamplerCreateInfo{
		SType:     vk.StructureTypeSamplerCreateInfo,
		MagFilter: vk.FilterNearest,
		MinFilter: vk.FilterNearest,
		MaxLod:    1,
	}, nil, &smp)
	IfPanic(NewError(ret))
	dv.nullSampler = smp

	// zero-fill and move the null image into General so both sampled
	// and storage descriptors can reference it
	dv.oneTimeCommands(vgfx.QueueGraphics, func(cmd vk.CommandBuffer) {
		vk.CmdPipelineBarrier(cmd,
			vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
			vk.PipelineStageFlags(vk.PipelineStageTransferBit),
			0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{{
				SType:         vk.StructureTypeImageMemoryBarrier,
				DstAccessMask: vk.AccessFlags(vk.AccessTransferWriteBit),
				OldLayout:     vk.ImageLayoutUndefined,
				NewLayout:     vk.ImageLayoutTransferDstOptimal,
				Image:         img,
				SubresourceRange: vk.ImageSubresourceRange{
					AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
					LevelCount: 1, LayerCount: 1,
				},
			}})
		vk.CmdClearColorImage(cmd, img, vk.ImageLayoutTransferDstOptimal,
			&vk.ClearColorValue{}, 1, []vk.ImageSubresourceRange{{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1, LayerCount: 1,
			}})
		vk.CmdFillBuffer(cmd, dv.nullBuffer, 0, vk.DeviceSize(256), 0)
		vk.CmdPipelineBarrier(cmd,
			vk.PipelineStageFlags(vk.PipelineStageTransferBit),
			vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit),
			0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{{
				SType:         vk.StructureTypeImageMemoryBarrier,
				SrcAccessMask: vk.AccessFlags(vk.AccessTransferWriteBit),
				DstAccessMask: vk.AccessFlags(vk.AccessShaderReadBit | vk.AccessShaderWriteBit),
				OldLayout:     vk.ImageLayoutTransferDstOptimal,
				NewLayout:     vk.ImageLayoutGeneral,
				Image:         img,
				SubresourceRange: vk.ImageSubresourceRange{
					AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
					LevelCount: 1, LayerCount: 1,
				},
			}})
	})
}

// oneTimeCommands records and submits a transient command buffer on
// the given queue, waiting for completion.
func (dv *Device) oneTimeCommands(q vgfx.CommandQueue, record func(cmd vk.CommandBuffer)) {
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(dv.Dev, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: dv.Queues[q].Family,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateTransientBit),
	}, nil, &pool)
	IfPanic(NewError(ret))
	defer vk.DestroyCommandPool(dv.Dev, pool, nil)

	cmdBuff := make([]vk.CommandBuffer, 1)
	ret = vk.AllocateCommandBuffers(dv.Dev, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, cmdBuff)
	IfPanic(NewError(ret))
	cmd := cmdBuff[0]

	ret = vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	IfPanic(NewError(ret))
	record(cmd)
	ret = vk.EndCommandBuffer(cmd)
	IfPanic(NewError(ret))

	var fence vk.Fence
	ret = vk.CreateFence(dv.Dev, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}, nil, &fence)
	IfPanic(NewError(ret))
	defer vk.DestroyFence(dv.Dev, fence, nil)

	ret = vk.QueueSubmit(dv.Queues[q].Queue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cmd},
	}}, fence)
	IfPanic(NewError(ret))
	vk.WaitForFences(dv.Dev, 1, []vk.Fence{fence}, vk.True, vk.MaxUint64)
}

func (dv *Device) Backend() vgfx.Backend { return vgfx.BackendVulkan }

func (dv *Device) AdapterInfo() *vgfx.AdapterInfo { return &dv.GP.Info }

func (dv *Device) HasFeature(f vgfx.Feature) bool {
	switch f {
	case vgfx.FeatureTextureCompressionBC:
		return dv.GP.GPUFeats.TextureCompressionBC == vk.True
	case vgfx.FeatureTextureCompressionETC2:
		return dv.GP.GPUFeats.TextureCompressionETC2 == vk.True
	case vgfx.FeatureTextureCompressionASTC:
		return dv.GP.GPUFeats.TextureCompressionASTC_LDR == vk.True
	case vgfx.FeatureTimestampQuery:
		return dv.GP.GPUProps.Limits.TimestampComputeAndGraphics == vk.True
	case vgfx.FeatureOcclusionQuery:
		return true
	case vgfx.FeatureIndirectDraw:
		return dv.GP.GPUFeats.MultiDrawIndirect == vk.True
	case vgfx.FeatureSamplerAnisotropy:
		return dv.GP.GPUFeats.SamplerAnisotropy == vk.True
	case vgfx.FeatureDepthClamp:
		return dv.GP.GPUFeats.DepthClamp == vk.True
	}
	return false
}

func (dv *Device) FrameCount() uint64 { return dv.pacer.FrameCount() }
func (dv *Device) FrameIndex() uint32 { return dv.pacer.FrameIndex() }

func (dv *Device) isShuttingDown() bool {
	return atomic.LoadInt32(&dv.shuttingDown) != 0
}

// Submit submits the given command buffers (all recorded ones when
// none are given), presents acquired swapchain textures, advances the
// frame and reclaims retired deferred resources.
func (dv *Device) Submit(cmds ...vgfx.CommandBuffer) uint64 {
	dv.cmdMu.Lock()
	var list []*CommandBuffer
	if len(cmds) == 0 {
		for _, cb := range dv.cmdBuffers {
			if cb.recording {
				list = append(list, cb)
			}
		}
	} else {
		for _, c := range cmds {
			list = append(list, c.(*CommandBuffer))
		}
	}
	dv.cmdMu.Unlock()

	// group by queue, preserving order
	var perQueue [vgfx.CommandQueueN][]vk.CommandBuffer
	var swapchains []*SwapChain
	for _, cb := range list {
		cb.end()
		perQueue[cb.queue] = append(perQueue[cb.queue], cb.cur)
		swapchains = append(swapchains, cb.swapchains...)
		cb.swapchains = nil
	}

	// every consumer queue waits on its own per-upload semaphore
	dv.uploadMu.Lock()
	pendUp := dv.pendingUploads
	dv.pendingUploads = nil
	dv.uploadMu.Unlock()

	slot := dv.pacer.FrameIndex()
	for q := vgfx.QueueGraphics; q < vgfx.CommandQueueN; q++ {
		si := vk.SubmitInfo{
			SType:              vk.StructureTypeSubmitInfo,
			CommandBufferCount: uint32(len(perQueue[q])),
			PCommandBuffers:    perQueue[q],
		}
		waitSems := uploadWaitSems(q, pendUp)
		waitStages := make([]vk.PipelineStageFlags, len(waitSems))
		for i := range waitStages {
			waitStages[i] = vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit)
		}
		var signalSems []vk.Semaphore
		if q == vgfx.QueueGraphics {
			for _, sc := range swapchains {
				waitSems = append(waitSems, sc.acquireSem())
				waitStages = append(waitStages, vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit))
				signalSems = append(signalSems, sc.releaseSem())
			}
		}
		si.WaitSemaphoreCount = uint32(len(waitSems))
		si.PWaitSemaphores = waitSems
		si.PWaitDstStageMask = waitStages
		si.SignalSemaphoreCount = uint32(len(signalSems))
		si.PSignalSemaphores = signalSems

		ret := vk.QueueSubmit(dv.Queues[q].Queue, 1, []vk.SubmitInfo{si}, dv.frameFences[q][slot])
		if IsError(ret) {
			vgfx.Logf(vgfx.LogError, "vulkan: queue submit failed: %v", NewError(ret))
		}
	}
	for _, up := range pendUp {
		up.waited = true
	}

	for _, sc := range swapchains {
		sc.present(dv.Queues[vgfx.QueueGraphics].Queue)
	}

	dv.cmdMu.Lock()
	for _, cb := range list {
		cb.recording = false
		cb.inFlight = false
	}
	dv.cmdMu.Unlock()

	ticket := dv.pacer.Advance(dv.waitResetSlot)
	dv.processDeletionQueue()
	return ticket
}

// waitResetSlot blocks until every queue's fence for the slot has
// signaled, then resets them for reuse.
func (dv *Device) waitResetSlot(slot uint32) {
	fences := make([]vk.Fence, 0, vgfx.CommandQueueN)
	for q := vgfx.QueueGraphics; q < vgfx.CommandQueueN; q++ {
		fences = append(fences, dv.frameFences[q][slot])
	}
	ret := vk.WaitForFences(dv.Dev, uint32(len(fences)), fences, vk.True, vk.MaxUint64)
	IfPanic(NewError(ret))
	vk.ResetFences(dv.Dev, uint32(len(fences)), fences)
}

// processDeletionQueue destroys every deferred resource whose
// retirement window has passed.
func (dv *Device) processDeletionQueue() {
	frame := dv.pacer.FrameCount()
	dv.dqBuffers.Process(frame, func(d bufferDel) {
		if d.buf != vk.NullBuffer {
			vk.DestroyBuffer(dv.Dev, d.buf, nil)
		}
		freeBuffMem(dv.Dev, &d.mem)
	})
	dv.dqFramebufs.Process(frame, func(fb vk.Framebuffer) {
		vk.DestroyFramebuffer(dv.Dev, fb, nil)
	})
	dv.dqViews.Process(frame, func(v vk.ImageView) {
		vk.DestroyImageView(dv.Dev, v, nil)
	})
	dv.dqImages.Process(frame, func(d imageDel) {
		if d.img != vk.NullImage {
			vk.DestroyImage(dv.Dev, d.img, nil)
		}
		freeBuffMem(dv.Dev, &d.mem)
	})
	dv.dqSamplers.Process(frame, func(s vk.Sampler) {
		vk.DestroySampler(dv.Dev, s, nil)
	})
	dv.dqPipelines.Process(frame, func(p vk.Pipeline) {
		vk.DestroyPipeline(dv.Dev, p, nil)
	})
	dv.dqPipeLayouts.Process(frame, func(pl vk.PipelineLayout) {
		vk.DestroyPipelineLayout(dv.Dev, pl, nil)
	})
	dv.dqDescPools.Process(frame, func(p vk.DescriptorPool) {
		vk.DestroyDescriptorPool(dv.Dev, p, nil)
	})
	dv.dqSetLayouts.Process(frame, func(sl vk.DescriptorSetLayout) {
		vk.DestroyDescriptorSetLayout(dv.Dev, sl, nil)
	})
	dv.dqQueryPools.Process(frame, func(qp vk.QueryPool) {
		vk.DestroyQueryPool(dv.Dev, qp, nil)
	})
	dv.dqSemaphores.Process(frame, func(s vk.Semaphore) {
		vk.DestroySemaphore(dv.Dev, s, nil)
	})
	dv.dqDescSlots.Process(frame, func(ds descSlot) {
		ds.heap.releaseSlot(ds.slot)
	})
}

// drainDeletionQueues destroys everything pending regardless of age.
// The device must be idle.
func (dv *Device) drainDeletionQueues() {
	dv.dqBuffers.Drain(func(d bufferDel) {
		if d.buf != vk.NullBuffer {
			vk.DestroyBuffer(dv.Dev, d.buf, nil)
		}
		freeBuffMem(dv.Dev, &d.mem)
	})
	dv.dqFramebufs.Drain(func(fb vk.Framebuffer) {
		vk.DestroyFramebuffer(dv.Dev, fb, nil)
	})
	dv.dqViews.Drain(func(v vk.ImageView) {
		vk.DestroyImageView(dv.Dev, v, nil)
	})
	dv.dqImages.Drain(func(d imageDel) {
		if d.img != vk.NullImage {
			vk.DestroyImage(dv.Dev, d.img, nil)
		}
		freeBuffMem(dv.Dev, &d.mem)
	})
	dv.dqSamplers.Drain(func(s vk.Sampler) {
		vk.DestroySampler(dv.Dev, s, nil)
	})
	dv.dqPipelines.Drain(func(p vk.Pipeline) {
		vk.DestroyPipeline(dv.Dev, p, nil)
	})
	dv.dqPipeLayouts.Drain(func(pl vk.PipelineLayout) {
		vk.DestroyPipelineLayout(dv.Dev, pl, nil)
	})
	dv.dqDescPools.Drain(func(p vk.DescriptorPool) {
		vk.DestroyDescriptorPool(dv.Dev, p, nil)
	})
	dv.dqSetLayouts.Drain(func(sl vk.DescriptorSetLayout) {
		vk.DestroyDescriptorSetLayout(dv.Dev, sl, nil)
	})
	dv.dqQueryPools.Drain(func(qp vk.QueryPool) {
		vk.DestroyQueryPool(dv.Dev, qp, nil)
	})
	dv.dqSemaphores.Drain(func(s vk.Semaphore) {
		vk.DestroySemaphore(dv.Dev, s, nil)
	})
	dv.dqDescSlots.Drain(func(ds descSlot) {
		ds.heap.releaseSlot(ds.slot)
	})
}

// WaitIdle blocks until the GPU finishes all submitted work, then
// reclaims every pending deferred resource.
func (dv *Device) WaitIdle() {
	if dv.Dev == nil {
		return
	}
	vk.DeviceWaitIdle(dv.Dev)
	dv.drainDeletionQueues()
}

// Destroy waits for the device to go idle, then destroys everything:
// pending deferred resources, pools, null resources, the logical
// device and the instance. Resources released while shutting down are
// destroyed synchronously.
func (dv *Device) Destroy() {
	if dv.Dev != nil {
		atomic.StoreInt32(&dv.shuttingDown, 1)
		vk.DeviceWaitIdle(dv.Dev)

		dv.uploads.Drain(func(c *uploadContext) { c.destroy(dv) })
		dv.uploadMu.Lock()
		for _, up := range dv.pendingUploads {
			up.destroy(dv)
		}
		dv.pendingUploads = nil
		dv.uploadMu.Unlock()

		dv.drainDeletionQueues()

		for _, cb := range dv.cmdBuffers {
			cb.destroy()
		}
		dv.cmdBuffers = nil

		dv.renderPasses.destroy()

		vk.DestroyImageView(dv.Dev, dv.nullView, nil)
		vk.DestroyImageView(dv.Dev, dv.nullStorview, nil)
		vk.DestroyImage(dv.Dev, dv.nullImage, nil)
		freeBuffMem(dv.Dev, &dv.nullImageMem)
		vk.DestroyBuffer(dv.Dev, dv.nullBuffer, nil)
		freeBuffMem(dv.Dev, &dv.nullBufferMem)
		vk.DestroySampler(dv.Dev, dv.nullSampler, nil)

		for q := vgfx.QueueGraphics; q < vgfx.CommandQueueN; q++ {
			for s := 0; s < vgfx.MaxInflightFrames; s++ {
				vk.DestroyFence(dv.Dev, dv.frameFences[q][s], nil)
			}
		}
		vk.DestroyPipelineCache(dv.Dev, dv.pipelineCache, nil)
		vk.DestroyDevice(dv.Dev, nil)
		dv.Dev = nil
	}
	if dv.GP != nil {
		dv.GP.Destroy()
		dv.GP = nil
	}
}
