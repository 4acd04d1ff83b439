// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFactory stands in for a backend package's registered factory.
type fakeFactory struct {
	backend   Backend
	supported bool
	created   int
}

func (f *fakeFactory) Backend() Backend { return f.backend }
func (f *fakeFactory) Supported() bool  { return f.supported }
func (f *fakeFactory) CreateDevice(desc *DeviceDesc) GraphicsDevice {
	f.created++
	if !f.supported {
		return nil
	}
	return fakeDevice{}
}

// fakeDevice is a non-nil GraphicsDevice for registry tests.
type fakeDevice struct{ GraphicsDevice }

func TestRegistryProbe(t *testing.T) {
	d3d := &fakeFactory{backend: BackendD3D12, supported: false}
	gl := &fakeFactory{backend: BackendOpenGL, supported: true}
	RegisterBackend(d3d)
	RegisterBackend(gl)

	assert.False(t, IsBackendSupported(BackendD3D12))
	assert.True(t, IsBackendSupported(BackendOpenGL))
	assert.True(t, IsBackendSupported(BackendDefault))

	// default request skips the unsupported higher-priority backend
	dev := CreateDevice(nil)
	require.NotNil(t, dev)
	assert.Equal(t, 0, d3d.created)
	assert.Equal(t, 1, gl.created)

	// explicit request for an unsupported backend fails
	dev = CreateDevice(&DeviceDesc{PreferredBackend: BackendD3D12})
	assert.Nil(t, dev)

	assert.Panics(t, func() {
		RegisterBackend(&fakeFactory{backend: BackendOpenGL})
	})
}
