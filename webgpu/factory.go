// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package webgpu

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/amerkoleci/vgfx"
)

func init() {
	vgfx.RegisterBackend(&factory{})
}

// factory creates webgpu devices through the backend registry.
type factory struct {
	probeOnce sync.Once
	supported bool
}

func (f *factory) Backend() vgfx.Backend { return vgfx.BackendWebGPU }

// Supported probes once whether wgpu-native can create an instance.
func (f *factory) Supported() bool {
	f.probeOnce.Do(func() {
		inst := wgpu.CreateInstance(nil)
		if inst == nil {
			vgfx.Logf(vgfx.LogDebug, "webgpu: wgpu-native instance unavailable")
			return
		}
		inst.Release()
		f.supported = true
	})
	return f.supported
}

func (f *factory) CreateDevice(desc *vgfx.DeviceDesc) vgfx.GraphicsDevice {
	if !f.Supported() {
		return nil
	}
	dev := NewDevice(desc)
	if dev == nil {
		return nil
	}
	return dev
}
