// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/amerkoleci/vgfx"
)

// Sampler is the vulkan implementation of vgfx.Sampler.
type Sampler struct {
	vgfx.RefCount
	dev   *Device
	smp   vk.Sampler
	label string
}

func (dv *Device) CreateSampler(desc *vgfx.SamplerDesc) vgfx.Sampler {
	sp := &Sampler{dev: dv, label: desc.Label}
	sp.InitRef()

	maxAniso := float32(desc.MaxAnisotropy)
	anisoEnable := vk.False
	if desc.MaxAnisotropy > 1 && dv.HasFeature(vgfx.FeatureSamplerAnisotropy) {
		anisoEnable = vk.True
		limit := dv.GP.GPUProps.Limits.MaxSamplerAnisotropy
		if maxAniso > limit {
			maxAniso = limit
		}
	}
	compareEnable := vk.False
	if desc.Compare != vgfx.CompareNever {
		compareEnable = vk.True
	}
	maxLod := desc.LodMaxClamp
	if maxLod == 0 {
		maxLod = vk.LodClampNone
	}

	var smp vk.Sampler
	ret := vk.CreateSampler(dv.Dev, &vk.SamplerCreateInfo{
		SType:            vk.StructureTypeSamplerCreateInfo,
		MagFilter:        VulkanFilters[desc.MagFilter],
		MinFilter:        VulkanFilters[desc.MinFilter],
		MipmapMode:       VulkanMipmapModes[desc.MipFilter],
		AddressModeU:     VulkanAddressModes[desc.AddressU],
		AddressModeV:     VulkanAddressModes[desc.AddressV],
		AddressModeW:     VulkanAddressModes[desc.AddressW],
		AnisotropyEnable: vk.Bool32(anisoEnable),
		MaxAnisotropy:    maxAniso,
		CompareEnable:    vk.Bool32(compareEnable),
		CompareOp:        VulkanCompareOps[desc.Compare],
		MinLod:           desc.LodMinClamp,
		MaxLod:           maxLod,
	}, nil, &smp)
	if IsError(ret) {
		vgfx.Logf(vgfx.LogError, "CreateSampler: %v", NewError(ret))
		return nil
	}
	sp.smp = smp
	return sp
}

func (sp *Sampler) SetLabel(label string) { sp.label = label }

func (sp *Sampler) AddRef() int32 { return sp.RefCount.AddRef() }

func (sp *Sampler) Release() int32 {
	n := sp.DecRef()
	if n == 0 {
		dv := sp.dev
		if dv.isShuttingDown() {
			vk.DestroySampler(dv.Dev, sp.smp, nil)
		} else {
			dv.dqSamplers.Push(sp.smp, dv.pacer.FrameCount())
		}
		sp.smp = vk.NullSampler
	}
	return n
}
