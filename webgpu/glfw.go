// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd

package webgpu

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// note: this file contains the glfw dependencies, for desktop platform
// builds. Other platforms need to provide their own surface creation.

// windowSurface creates a surface for a native window handle, which
// on desktop platforms is a *glfw.Window.
func windowSurface(instance *wgpu.Instance, window uintptr) (*wgpu.Surface, error) {
	win := (*glfw.Window)(unsafe.Pointer(window))
	return instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(win)), nil
}

// windowSize returns the current framebuffer size of a native window
// handle in pixels.
func windowSize(window uintptr) (int, int) {
	return (*glfw.Window)(unsafe.Pointer(window)).GetFramebufferSize()
}
