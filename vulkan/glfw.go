// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd

package vulkan

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
)

// note: this file contains the glfw dependencies, for desktop platform
// builds. Other platforms need to provide their own Init, Terminate
// and surface creation.

// Init initializes the vulkan loader through glfw. Must be called on
// the main thread before creating any device with a swapchain.
func Init() error {
	if err := glfw.Init(); err != nil {
		return err
	}
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	return vk.Init()
}

// Terminate shuts glfw down. Call after all devices are destroyed.
func Terminate() {
	glfw.Terminate()
}

// requiredInstanceExts returns the instance extensions the window
// system needs for surface creation.
func requiredInstanceExts() []string {
	var exts []string
	// The binding exposes glfwGetRequiredInstanceExtensions as a
	// *Window method but never touches the receiver.
	var w *glfw.Window
	for _, e := range w.GetRequiredInstanceExtensions() {
		exts = append(exts, safeString(e))
	}
	return exts
}

// createWindowSurface creates a vulkan surface for a glfw window.
func createWindowSurface(instance vk.Instance, window *glfw.Window) (vk.Surface, error) {
	sfp, err := window.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, err
	}
	return vk.SurfaceFromPointer(sfp), nil
}

// windowSurface creates a surface for a native window handle, which
// on desktop platforms is a *glfw.Window.
func windowSurface(instance vk.Instance, window uintptr) (vk.Surface, error) {
	return createWindowSurface(instance, (*glfw.Window)(unsafe.Pointer(window)))
}

// windowSize returns the current framebuffer size of a native window
// handle in pixels.
func windowSize(window uintptr) (int, int) {
	return (*glfw.Window)(unsafe.Pointer(window)).GetFramebufferSize()
}
