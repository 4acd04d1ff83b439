// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"errors"
	"log"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/amerkoleci/vgfx"
)

// GPU holds the vulkan instance and the selected physical device,
// with its cached properties.
type GPU struct {
	// vulkan instance
	Instance vk.Instance `desc:"vulkan instance"`

	// selected physical device
	GPU vk.PhysicalDevice `desc:"selected physical device"`

	// physical device properties
	GPUProps vk.PhysicalDeviceProperties `desc:"physical device properties"`

	// physical device memory properties
	MemoryProps vk.PhysicalDeviceMemoryProperties `desc:"physical device memory properties"`

	// physical device features
	GPUFeats vk.PhysicalDeviceFeatures `desc:"physical device features"`

	// enabled instance extensions
	InstanceExts []string `desc:"enabled instance extensions"`

	// enabled device extensions
	DeviceExts []string `desc:"enabled device extensions"`

	// enabled validation layers
	ValidationLayers []string `desc:"enabled validation layers"`

	// adapter info derived from the physical device
	Info vgfx.AdapterInfo `desc:"adapter info derived from the physical device"`

	debugCallback vk.DebugReportCallback
}

// NewGPU creates the instance and selects a physical device per the
// device descriptor. Returns nil after logging on failure.
func NewGPU(desc *vgfx.DeviceDesc) *GPU {
	gp := &GPU{}
	if err := gp.init(desc); err != nil {
		vgfx.Logf(vgfx.LogError, "vulkan: %v", err)
		gp.Destroy()
		return nil
	}
	return gp
}

func (gp *GPU) init(desc *vgfx.DeviceDesc) error {
	gp.InstanceExts = requiredInstanceExts()
	if desc.ValidationMode != vgfx.ValidationDisabled || vgfx.Debug {
		gp.InstanceExts = append(gp.InstanceExts, safeString(vk.ExtDebugReportExtensionName))
		gp.ValidationLayers = []string{safeString("VK_LAYER_KHRONOS_validation")}
	}
	gp.DeviceExts = []string{safeString(vk.KhrSwapchainExtensionName)}

	appName := desc.Label
	if appName == "" {
		appName = "vgfx"
	}
	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			PApplicationName:   safeString(appName),
			ApplicationVersion: vk.MakeVersion(1, 0, 0),
			PEngineName:        safeString("vgfx"),
			EngineVersion:      vk.MakeVersion(1, 0, 0),
			ApiVersion:         vk.MakeVersion(1, 2, 0),
		},
		EnabledExtensionCount:   uint32(len(gp.InstanceExts)),
		PpEnabledExtensionNames: gp.InstanceExts,
		EnabledLayerCount:       uint32(len(gp.ValidationLayers)),
		PpEnabledLayerNames:     gp.ValidationLayers,
	}, nil, &instance)
	if err := NewError(ret); err != nil {
		return err
	}
	gp.Instance = instance
	vk.InitInstance(instance)

	if desc.ValidationMode != vgfx.ValidationDisabled || vgfx.Debug {
		gp.initDebugReport(desc.ValidationMode)
	}

	if err := gp.selectGPU(desc.PowerPreference); err != nil {
		return err
	}

	vk.GetPhysicalDeviceProperties(gp.GPU, &gp.GPUProps)
	gp.GPUProps.Deref()
	gp.GPUProps.Limits.Deref()
	vk.GetPhysicalDeviceMemoryProperties(gp.GPU, &gp.MemoryProps)
	gp.MemoryProps.Deref()
	vk.GetPhysicalDeviceFeatures(gp.GPU, &gp.GPUFeats)
	gp.GPUFeats.Deref()

	gp.Info = vgfx.AdapterInfo{
		VendorID: gp.GPUProps.VendorID,
		DeviceID: gp.GPUProps.DeviceID,
		Name:     cleanString(gp.GPUProps.DeviceName[:]),
		Type:     adapterType(gp.GPUProps.DeviceType),
	}
	return nil
}

// selectGPU picks a physical device honoring the power preference:
// HighPerformance prefers discrete, LowPower prefers integrated.
func (gp *GPU) selectGPU(power vgfx.PowerPreference) error {
	var gpuCount uint32
	ret := vk.EnumeratePhysicalDevices(gp.Instance, &gpuCount, nil)
	if err := NewError(ret); err != nil {
		return err
	}
	if gpuCount == 0 {
		return errors.New("no vulkan physical devices found")
	}
	gpus := make([]vk.PhysicalDevice, gpuCount)
	vk.EnumeratePhysicalDevices(gp.Instance, &gpuCount, gpus)

	preferred := vk.PhysicalDeviceTypeDiscreteGpu
	if power == vgfx.PowerLowPower {
		preferred = vk.PhysicalDeviceTypeIntegratedGpu
	}
	gp.GPU = gpus[0]
	for _, pd := range gpus {
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(pd, &props)
		props.Deref()
		if props.DeviceType == preferred {
			gp.GPU = pd
			break
		}
	}
	return nil
}

func (gp *GPU) initDebugReport(mode vgfx.ValidationMode) {
	flags := vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit)
	if mode == vgfx.ValidationVerbose {
		flags |= vk.DebugReportFlags(vk.DebugReportInformationBit | vk.DebugReportPerformanceWarningBit)
	}
	var dbg vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(gp.Instance, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       flags,
		PfnCallback: dbgReportCallback,
	}, nil, &dbg)
	if IsError(ret) {
		log.Println("vulkan warning: could not install debug report callback")
		return
	}
	gp.debugCallback = dbg
}

func dbgReportCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint64, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		vgfx.Logf(vgfx.LogError, "[%s] %s", pLayerPrefix, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		vgfx.Logf(vgfx.LogWarn, "[%s] %s", pLayerPrefix, pMessage)
	default:
		vgfx.Logf(vgfx.LogInfo, "[%s] %s", pLayerPrefix, pMessage)
	}
	return vk.Bool32(vk.False)
}

func adapterType(dt vk.PhysicalDeviceType) vgfx.AdapterType {
	switch dt {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return vgfx.AdapterIntegratedGPU
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return vgfx.AdapterDiscreteGPU
	case vk.PhysicalDeviceTypeVirtualGpu:
		return vgfx.AdapterVirtualGPU
	case vk.PhysicalDeviceTypeCpu:
		return vgfx.AdapterCPU
	}
	return vgfx.AdapterOther
}

// Destroy destroys the instance. All devices must be destroyed first.
func (gp *GPU) Destroy() {
	if gp.debugCallback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(gp.Instance, gp.debugCallback, nil)
		gp.debugCallback = vk.NullDebugReportCallback
	}
	if gp.Instance != nil {
		vk.DestroyInstance(gp.Instance, nil)
		gp.Instance = nil
	}
}
