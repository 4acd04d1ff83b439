// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"sync"

	vk "github.com/goki/vulkan"

	"github.com/amerkoleci/vgfx"
)

func init() {
	vgfx.RegisterBackend(&factory{})
}

// factory creates vulkan devices through the backend registry.
type factory struct {
	probeOnce sync.Once
	supported bool
}

func (f *factory) Backend() vgfx.Backend { return vgfx.BackendVulkan }

// Supported probes once whether a vulkan loader with instance support
// is present. Init must have been called first on desktop platforms.
func (f *factory) Supported() bool {
	f.probeOnce.Do(func() {
		if err := vk.Init(); err != nil {
			vgfx.Logf(vgfx.LogDebug, "vulkan: loader unavailable: %v", err)
			return
		}
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
