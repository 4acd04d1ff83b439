// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vgfx provides a backend-independent graphics and compute API
// on top of the modern explicit GPU APIs, with full Vulkan and WebGPU
// backends in subpackages. The root package defines the device and
// resource interfaces, the descriptor structs used to create resources,
// and the frame-lifetime machinery (delayed destruction, descriptor
// index allocation, upload context recycling) that the backends share.
package vgfx

//go:generate stringer -type=Backend,ValidationMode,PowerPreference,AdapterType,CommandQueue,CpuAccessMode,DescriptorType,LogLevel

import "github.com/goki/ki/ints"

const (
	// MaxInflightFrames is the number of frames that can be in flight
	// on the GPU at once. Submission N+MaxInflightFrames blocks until
	// frame N has fully retired, and deferred resource destruction is
	// keyed off the same window.
	MaxInflightFrames = 2

	// WholeSize as a size argument means the remainder of the resource.
	WholeSize = ^uint64(0)

	// InvalidIndex is returned by descriptor allocation on failure
	// and marks unassigned descriptor table slots.
	InvalidIndex = ^uint32(0)

	// MaxColorAttachments is the most color targets one render pass
	// can have.
	MaxColorAttachments = 8
)

// Debug enables extra backend validation and object naming.
// Set before creating a device.
var Debug = false

// NextPow2 returns the next power of 2 >= v, with a minimum of 1.
func NextPow2(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	return v + 1
}

// AlignUp rounds v up to the nearest multiple of align (a power of 2).
func AlignUp(v, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}

// MipLevelCount returns the full mip chain length for given dimensions.
func MipLevelCount(width, height, depth int) int {
	mx := ints.MaxInt(ints.MaxInt(width, height), depth)
	n := 1
	for mx > 1 {
		mx >>= 1
		n++
	}
	return n
}
