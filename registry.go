// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import (
	"sort"
	"sync"
)

// BackendFactory creates devices for one backend. Backend packages
// register a factory from an init function, so importing a backend
// package makes it available:
//
//	import _ "github.com/amerkoleci/vgfx/vulkan"
type BackendFactory interface {
	// Backend returns the backend this factory creates.
	Backend() Backend

	// Supported probes once whether the backend can run here
	// (loader present, required API version available).
	Supported() bool

	// CreateDevice creates a device, or nil on failure.
	CreateDevice(desc *DeviceDesc) GraphicsDevice
}

var (
	regMu     sync.Mutex
	factories = map[Backend]BackendFactory{}

	// probe order when PreferredBackend is BackendDefault
	priority = map[Backend]int{
		BackendVulkan: 0,
		BackendD3D12:  1,
		BackendWebGPU: 2,
		BackendOpenGL: 3,
	}
)

// RegisterBackend registers a backend factory. Registering the same
// backend twice panics.
func RegisterBackend(f BackendFactory) {
	regMu.Lock()
	defer regMu.Unlock()
	be := f.Backend()
	if _, dup := factories[be]; dup {
		panic("vgfx: RegisterBackend called twice for backend")
	}
	factories[be] = f
}

// IsBackendSupported reports whether the given backend is registered
// and can run on this system. BackendDefault reports whether any can.
func IsBackendSupported(be Backend) bool {
	regMu.Lock()
	defer regMu.Unlock()
	if be == BackendDefault {
		for _, f := range factories {
			if f.Supported() {
				return true
			}
		}
		return false
	}
	f, ok := factories[be]
	return ok && f.Supported()
}

// CreateDevice creates a device on the preferred backend, or on the
// highest-priority supported backend when the descriptor asks for
// BackendDefault. Returns nil when no backend can serve the request.
func CreateDevice(desc *DeviceDesc) GraphicsDevice {
	if desc == nil {
		desc = &DeviceDesc{}
	}
	regMu.Lock()
	var cands []BackendFactory
	if desc.PreferredBackend == BackendDefault {
		for _, f := range factories {
			cands = append(cands, f)
		}
		sort.Slice(cands, func(i, j int) bool {
			return priority[cands[i].Backend()] < priority[cands[j].Backend()]
		})
	} else if f, ok := factories[desc.PreferredBackend]; ok {
		cands = append(cands, f)
	}
	regMu.Unlock()

	for _, f := range cands {
		if !f.Supported() {
			continue
		}
		if dev := f.CreateDevice(desc); dev != nil {
			return dev
		}
	}
	Logf(LogError, "CreateDevice: no supported backend for request")
	return nil
}
