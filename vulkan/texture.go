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

// Texture is the vulkan implementation of vgfx.Texture. Views are
// created lazily per subresource and cached for the texture lifetime.
type Texture struct {
	vgfx.RefCount
	dev   *Device
	img   vk.Image
	mem   vk.DeviceMemory
	desc  vgfx.TextureDesc
	label string

	// owned is false for swapchain images, which the swapchain
	// destroys
	owned bool

	// state is the last barrier target, used to auto-transition
	// swapchain backbuffers to present at submit
	state vgfx.ResourceState

	viewMu sync.Mutex
	views  ordmap.Map[uint64, vk.ImageView]
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
		vgfx.Logf(vgfx.LogError, "CreateTexture: invalid size %dx%d", td.Width, td.Height)
		return nil
	}
	format, ok := VulkanFormats[td.Format]
	if !ok || format == vk.FormatUndefined {
		vgfx.Logf(vgfx.LogError, "CreateTexture: unsupported format %d", td.Format)
		return nil
	}

	tx := &Texture{dev: dv, desc: td, label: td.Label, owned: true}
	tx.InitRef()

	imgType := vk.ImageType2d
	layers := uint32(1)
	depth := uint32(1)
	var flags vk.ImageCreateFlags
	switch td.Dimension {
	case vgfx.TextureDim1D:
		imgType = vk.ImageType1d
		layers = uint32(td.Depth)
	case vgfx.TextureDim3D:
		imgType = vk.ImageType3d
		depth = uint32(td.Depth)
	case vgfx.TextureDimCube:
		layers = uint32(td.Depth)
		flags = vk.ImageCreateFlags(vk.ImageCreateCubeCompatibleBit)
	default:
		layers = uint32(td.Depth)
	}

	sharing := vk.SharingModeExclusive
	var famIdx []uint32
	if len(dv.Families) > 1 {
		sharing = vk.SharingModeConcurrent
		famIdx = dv.Families
	}

	var img vk.Image
	ret := vk.CreateImage(dv.Dev, &vk.ImageCreateInfo{
		SType:                 vk.StructureTypeImageCreateInfo,
		Flags:                 flags,
		ImageType:             imgType,
		Format:                format,
		Extent:                vk.Extent3D{Width: uint32(td.Width), Height: uint32(td.Height), Depth: depth},
		MipLevels:             uint32(td.MipLevels),
		ArrayLayers:           layers,
		Samples:               sampleCountFlag(td.SampleCount),
		Tiling:                vk.ImageTilingOptimal,
		Usage:                 VulkanImageUsage(td.Usage, td.Format),
		SharingMode:           sharing,
		QueueFamilyIndexCount: uint32(len(famIdx)),
		PQueueFamilyIndices:   famIdx,
		InitialLayout:         vk.ImageLayoutUndefined,
	}, nil, &img)
	if IsError(ret) {
		vgfx.Logf(vgfx.LogError, "CreateTexture: %v", NewError(ret))
		return nil
	}
	tx.img = img
	tx.mem = allocImageMem(dv.GP, dv.Dev, img)

	if len(data) > 0 {
		dv.uploadTexture(tx, data)
		tx.state = vgfx.StateShaderRead
	}
	return tx
}

func sampleCountFlag(n int) vk.SampleCountFlagBits {
	switch n {
	case 2:
		return vk.SampleCount2Bit
	case 4:
		return vk.SampleCount4Bit
	case 8:
		return vk.SampleCount8Bit
	default:
		return vk.SampleCount1Bit
	}
}

// uploadTexture stages initial mip data through an upload context:
// transition to transfer dest, one buffer-to-image copy per mip, then
// transition to shader read.
func (dv *Device) uploadTexture(tx *Texture, data [][]byte) {
	var total uint64
	for _, d := range data {
		total += vgfx.AlignUp(uint64(len(d)), 16)
	}
	up := dv.uploadAllocate(total)

	fullRange := vk.ImageSubresourceRange{
		AspectMask: ImageAspect(tx.desc.Format),
		LevelCount: uint32(tx.desc.MipLevels),
		LayerCount: tx.layerCount(),
	}
	vk.CmdPipelineBarrier(up.cmd,
		vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{{
			SType:            vk.StructureTypeImageMemoryBarrier,
			DstAccessMask:    vk.AccessFlags(vk.AccessTransferWriteBit),
			OldLayout:        vk.ImageLayoutUndefined,
			NewLayout:        vk.ImageLayoutTransferDstOptimal,
			Image:            tx.img,
			SubresourceRange: fullRange,
		}})

	var offset uint64
	w, h := tx.desc.Width, tx.desc.Height
	for mip := 0; mip < len(data) && mip < tx.desc.MipLevels; mip++ {
		copy(up.mapped[offset:], data[mip])
		vk.CmdCopyBufferToImage(up.cmd, up.buffer, tx.img, vk.ImageLayoutTransferDstOptimal, 1,
			[]vk.BufferImageCopy{{
				BufferOffset: vk.DeviceSize(offset),
				ImageSubresource: vk.ImageSubresourceLayers{
					AspectMask: ImageAspect(tx.desc.Format),
					MipLevel:   uint32(mip),
					LayerCount: tx.layerCount(),
				},
				ImageExtent: vk.Extent3D{Width: uint32(w), Height: uint32(h), Depth: 1},
			}})
		offset += vgfx.AlignUp(uint64(len(data[mip])), 16)
		if w > 1 {
			w >>= 1
		}
		if h > 1 {
			h >>= 1
		}
	}

	vk.CmdPipelineBarrier(up.cmd,
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit),
		0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{{
			SType:            vk.StructureTypeImageMemoryBarrier,
			SrcAccessMask:    vk.AccessFlags(vk.AccessTransferWriteBit),
			DstAccessMask:    vk.AccessFlags(vk.AccessShaderReadBit),
			OldLayout:        vk.ImageLayoutTransferDstOptimal,
			NewLayout:        vk.ImageLayoutShaderReadOnlyOptimal,
			Image:            tx.img,
			SubresourceRange: fullRange,
		}})
	dv.uploadSubmit(up)
}

func (tx *Texture) layerCount() uint32 {
	if tx.desc.Dimension == vgfx.TextureDim3D {
		return 1
	}
	return uint32(tx.desc.Depth)
}

func (tx *Texture) Dimension() vgfx.TextureDimension { return tx.desc.Dimension }
func (tx *Texture) Format() vgfx.TextureFormat       { return tx.desc.Format }
func (tx *Texture) Width() int                       { return tx.desc.Width }
func (tx *Texture) Height() int                      { return tx.desc.Height }
func (tx *Texture) Depth() int                       { return tx.desc.Depth }
func (tx *Texture) MipLevels() int                   { return tx.desc.MipLevels }

func (tx *Texture) SetLabel(label string) { tx.label = label }

func (tx *Texture) AddRef() int32 { return tx.RefCount.AddRef() }

// Release schedules the texture and its cached views for destruction
// once all in-flight frames that may reference them have retired.
func (tx *Texture) Release() int32 {
	n := tx.DecRef()
	if n == 0 {
		tx.destroy()
	}
	return n
}

// view returns the cached image view for a subresource selection,
// creating it on first use.
func (tx *Texture) view(baseMip, mipCount, baseSlice, sliceCount uint32) vk.ImageView {
	tx.viewMu.Lock()
	defer tx.viewMu.Unlock()
	key := viewKey(baseMip, mipCount, baseSlice, sliceCount)
	if v, ok := tx.views.ValByKeyTry(key); ok {
		return v
	}

	viewType := vk.ImageViewType2d
	switch tx.desc.Dimension {
	case vgfx.TextureDim1D:
		viewType = vk.ImageViewType1d
	case vgfx.TextureDim3D:
		viewType = vk.ImageViewType3d
	case vgfx.TextureDimCube:
		viewType = vk.ImageViewTypeCube
	default:
		if sliceCount > 1 {
			viewType = vk.ImageViewType2dArray
		}
	}

	var view vk.ImageView
	ret := vk.CreateImageView(tx.dev.Dev, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    tx.img,
		ViewType: viewType,
		Format:   VulkanFormats[tx.desc.Format],
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     ImageAspect(tx.desc.Format),
			BaseMipLevel:   baseMip,
			LevelCount:     mipCount,
			BaseArrayLayer: baseSlice,
			LayerCount:     sliceCount,
		},
	}, nil, &view)
	IfPanic(NewError(ret))
	tx.views.Add(key, view)
	return view
}

// fullView returns the view covering every mip and slice.
func (tx *Texture) fullView() vk.ImageView {
	return tx.view(0, uint32(tx.desc.MipLevels), 0, tx.layerCount())
}

// rtView returns a single-mip single-slice view for render target use.
func (tx *Texture) rtView(mip, slice uint32) vk.ImageView {
	return tx.view(mip, 1, slice, 1)
}

func (tx *Texture) destroy() {
	dv := tx.dev
	tx.viewMu.Lock()
	views := make([]vk.ImageView, 0, tx.views.Len())
	for _, kv := range tx.views.Order {
		views = append(views, kv.Val)
	}
	tx.views.Reset()
	tx.viewMu.Unlock()

	if dv.isShuttingDown() {
		for _, v := range views {
			for _, fb := range dv.renderPasses.invalidateView(v) {
				vk.DestroyFramebuffer(dv.Dev, fb, nil)
			}
			vk.DestroyImageView(dv.Dev, v, nil)
		}
		if tx.owned {
			vk.DestroyImage(dv.Dev, tx.img, nil)
			freeBuffMem(dv.Dev, &tx.mem)
		}
	} else {
		frame := dv.pacer.FrameCount()
		for _, v := range views {
			for _, fb := range dv.renderPasses.invalidateView(v) {
				dv.dqFramebufs.Push(fb, frame)
			}
			dv.dqViews.Push(v, frame)
		}
		if tx.owned {
			dv.dqImages.Push(imageDel{tx.img, tx.mem}, frame)
		}
	}
	tx.img = vk.NullImage
}
