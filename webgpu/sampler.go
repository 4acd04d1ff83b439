// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webgpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/amerkoleci/vgfx"
)

// Sampler is the webgpu implementation of vgfx.Sampler.
type Sampler struct {
	vgfx.RefCount
	dev     *Device
	sampler *wgpu.Sampler
	label   string
}

// CreateSampler creates an immutable sampler state object.
func (dv *Device) CreateSampler(desc *vgfx.SamplerDesc) vgfx.Sampler {
	maxLod := desc.LodMaxClamp
	if maxLod == 0 {
		maxLod = 32
	}
	maxAniso := uint16(desc.MaxAnisotropy)
	if maxAniso == 0 {
		maxAniso = 1
	}
	sd := &wgpu.SamplerDescriptor{
		Label:         desc.Label,
		AddressModeU:  WebGPUAddressModes[desc.AddressU],
		AddressModeV:  WebGPUAddressModes[desc.AddressV],
		AddressModeW:  WebGPUAddressModes[desc.AddressW],
		MagFilter:     WebGPUFilters[desc.MagFilter],
		MinFilter:     WebGPUFilters[desc.MinFilter],
		MipmapFilter:  WebGPUMipmapModes[desc.MipFilter],
		LodMinClamp:   desc.LodMinClamp,
		LodMaxClamp:   maxLod,
		MaxAnisotropy: maxAniso,
	}
	if desc.Compare != vgfx.CompareNever {
		sd.Compare = WebGPUCompareOps[desc.Compare]
	}
	sampler, err := dv.device.CreateSampler(sd)
	if err != nil {
		vgfx.Logf(vgfx.LogError, "CreateSampler: %v", err)
		return nil
	}
	sp := &Sampler{dev: dv, sampler: sampler, label: desc.Label}
	sp.InitRef()
	return sp
}

func (sp *Sampler) SetLabel(label string) { sp.label = label }

func (sp *Sampler) AddRef() int32 { return sp.RefCount.AddRef() }

func (sp *Sampler) Release() int32 {
	n := sp.DecRef()
	if n == 0 {
		sp.dev.deferRelease(sp.sampler)
		sp.sampler = nil
	}
	return n
}
