// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"log"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// IsNil returns true if the given vulkan handle is nil.
// Handles are dispatchable or non-dispatchable pointers underneath.
func IsNil(ptr unsafe.Pointer) bool {
	return ptr == nil
}

// safeString null-terminates a string for the vulkan C API.
func safeString(s string) string {
	if len(s) == 0 {
		return "\x00"
	}
	if s[len(s)-1] != '\x00' {
		s += "\x00"
	}
	return s
}

// safeStrings null-terminates every string in a list.
func safeStrings(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = safeString(s)
	}
	return out
}

// cleanString trims the null padding from a fixed C string buffer.
func cleanString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// newBuffer makes a vulkan buffer of given size and usage.
func newBuffer(dev vk.Device, size uint64, usage vk.BufferUsageFlags) vk.Buffer {
	if size == 0 {
		return vk.NullBuffer
	}
	var buffer vk.Buffer
	ret := vk.CreateBuffer(dev, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Usage:       usage,
		Size:        vk.DeviceSize(size),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &buffer)
	IfPanic(NewError(ret))
	return buffer
}

// allocBuffMem allocates and binds memory for a buffer with the given
// properties.
func allocBuffMem(gp *GPU, dev vk.Device, buffer vk.Buffer, props vk.MemoryPropertyFlagBits, flags vk.MemoryAllocateFlags) vk.DeviceMemory {
	var memReqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(dev, buffer, &memReqs)
	memReqs.Deref()

	memType, ok := findRequiredMemoryType(gp.MemoryProps, vk.MemoryPropertyFlagBits(memReqs.MemoryTypeBits), props)
	if !ok {
		log.Println("vulkan warning: failed to find required memory type")
	}

	mai := &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memType,
	}
	if flags != 0 {
		mai.PNext = unsafe.Pointer(&vk.MemoryAllocateFlagsInfo{
			SType: vk.StructureTypeMemoryAllocateFlagsInfo,
			Flags: flags,
		})
	}
	var memory vk.DeviceMemory
	ret := vk.AllocateMemory(dev, mai, nil, &memory)
	IfPanic(NewError(ret))
	vk.BindBufferMemory(dev, buffer, memory, 0)
	return memory
}

// allocImageMem allocates and binds device-local memory for an image.
func allocImageMem(gp *GPU, dev vk.Device, image vk.Image) vk.DeviceMemory {
	var memReqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(dev, image, &memReqs)
	memReqs.Deref()

	memType, ok := findRequiredMemoryType(gp.MemoryProps, vk.MemoryPropertyFlagBits(memReqs.MemoryTypeBits), vk.MemoryPropertyDeviceLocalBit)
	if !ok {
		log.Println("vulkan warning: failed to find device-local memory type")
	}
	var memory vk.DeviceMemory
	ret := vk.AllocateMemory(dev, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memType,
	}, nil, &memory)
	IfPanic(NewError(ret))
	vk.BindImageMemory(dev, image, memory, 0)
	return memory
}

// mapMemory maps size bytes of memory, returning the mapped slice.
func mapMemory(dev vk.Device, mem vk.DeviceMemory, size uint64) []byte {
	var ptr unsafe.Pointer
	ret := vk.MapMemory(dev, mem, 0, vk.DeviceSize(size), 0, &ptr)
	if IsError(ret) {
		log.Printf("vulkan MapMemory warning: failed to map device memory (len=%d)", size)
		return nil
	}
	return unsafe.Slice((*byte)(ptr), size)
}

// freeBuffMem frees device memory and nils the handle.
func freeBuffMem(dev vk.Device, memory *vk.DeviceMemory) {
	if *memory == vk.NullDeviceMemory {
		return
	}
	vk.FreeMemory(dev, *memory, nil)
	*memory = vk.NullDeviceMemory
}

func findRequiredMemoryType(props vk.PhysicalDeviceMemoryProperties,
	deviceRequirements, hostRequirements vk.MemoryPropertyFlagBits) (uint32, bool) {

	for i := uint32(0); i < vk.MaxMemoryTypes; i++ {
		if deviceRequirements&(vk.MemoryPropertyFlagBits(1)<<i) != 0 {
			props.MemoryTypes[i].Deref()
			flags := props.MemoryTypes[i].PropertyFlags
			if flags&vk.MemoryPropertyFlags(hostRequirements) == vk.MemoryPropertyFlags(hostRequirements) {
				return i, true
			}
		}
	}
	return 0, false
}
