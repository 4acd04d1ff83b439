// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import (
	"goki.dev/mat32/v2"
)

// DeviceDesc configures device creation.
type DeviceDesc struct {
	// Label is a debug name for the device.
	Label string `desc:"debug name for the device"`

	// PreferredBackend requests a specific backend; BackendDefault
	// probes the registered backends in priority order.
	PreferredBackend Backend `desc:"requested backend; Default probes in priority order"`

	// ValidationMode enables native API validation.
	ValidationMode ValidationMode `desc:"native API validation level"`

	// PowerPreference selects the adapter when several are present.
	PowerPreference PowerPreference `desc:"adapter selection preference"`
}

// AdapterInfo describes the physical adapter backing a device.
type AdapterInfo struct {
	VendorID          uint32      `desc:"PCI vendor id"`
	DeviceID          uint32      `desc:"PCI device id"`
	Name              string      `desc:"adapter name as reported by the driver"`
	DriverDescription string      `desc:"driver name and version"`
	Type              AdapterType `desc:"adapter classification"`
}

// BufferDesc configures buffer creation.
type BufferDesc struct {
	Label     string        `desc:"debug name"`
	Size      uint64        `desc:"size in bytes"`
	Usage     BufferUsage   `desc:"allowed GPU usages"`
	CpuAccess CpuAccessMode `desc:"CPU mapping mode; None is device-local"`
}

// TextureDesc configures texture creation.
type TextureDesc struct {
	Label       string           `desc:"debug name"`
	Dimension   TextureDimension `desc:"1D, 2D, 3D or Cube"`
	Format      TextureFormat    `desc:"pixel format"`
	Width       int              `desc:"width in pixels"`
	Height      int              `desc:"height in pixels"`
	Depth       int              `desc:"depth for 3D, array layers otherwise; 0 = 1"`
	MipLevels   int              `desc:"number of mip levels; 0 = full chain"`
	SampleCount int              `desc:"MSAA sample count; 0 = 1"`
	Usage       TextureUsage     `desc:"allowed GPU usages"`
}

// Defaults fills in zero-valued fields with their defaults.
func (td *TextureDesc) Defaults() {
	if td.Depth == 0 {
		td.Depth = 1
	}
	if td.SampleCount == 0 {
		td.SampleCount = 1
	}
	if td.MipLevels == 0 {
		td.MipLevels = MipLevelCount(td.Width, td.Height, td.Depth)
	}
}

// SamplerDesc configures sampler creation.
type SamplerDesc struct {
	Label         string          `desc:"debug name"`
	MinFilter     FilterMode      `desc:"minification filter"`
	MagFilter     FilterMode      `desc:"magnification filter"`
	MipFilter     FilterMode      `desc:"filter between mip levels"`
	AddressU      AddressMode     `desc:"addressing in u"`
	AddressV      AddressMode     `desc:"addressing in v"`
	AddressW      AddressMode     `desc:"addressing in w"`
	MaxAnisotropy uint32          `desc:"max anisotropy; 0 or 1 disables"`
	Compare       CompareFunction `desc:"comparison sampler function; Never disables"`
	LodMinClamp   float32         `desc:"minimum level of detail"`
	LodMaxClamp   float32         `desc:"maximum level of detail; 0 = unbounded"`
}

// BindGroupLayoutEntry declares one binding slot in a bind group layout.
type BindGroupLayoutEntry struct {
	Binding    uint32         `desc:"shader binding index"`
	Count      uint32         `desc:"array size; 0 = 1"`
	Type       DescriptorType `desc:"kind of resource bound here"`
	Visibility ShaderStage    `desc:"stages that can access the slot"`
}

// BindGroupLayoutDesc configures bind group layout creation.
type BindGroupLayoutDesc struct {
	Label   string                 `desc:"debug name"`
	Entries []BindGroupLayoutEntry `desc:"binding slots, any order"`
}

// PushConstantRange declares a push constant block in a pipeline layout.
type PushConstantRange struct {
	Stages ShaderStage `desc:"stages that read the block"`
	Size   uint32      `desc:"size in bytes"`
}

// PipelineLayoutDesc configures pipeline layout creation.
type PipelineLayoutDesc struct {
	Label         string              `desc:"debug name"`
	Layouts       []BindGroupLayout   `desc:"bind group layouts by group index"`
	PushConstants []PushConstantRange `desc:"push constant blocks"`
}

// BindGroupEntry binds one resource to a slot declared in the layout.
// Exactly one of Buffer, Texture, Sampler is non-nil.
type BindGroupEntry struct {
	Binding      uint32  `desc:"shader binding index, matching a layout entry"`
	ArrayElement uint32  `desc:"element within an arrayed slot"`
	Buffer       Buffer  `desc:"buffer to bind"`
	Offset       uint64  `desc:"byte offset into the buffer"`
	Size         uint64  `desc:"bound range; 0 or WholeSize = remainder"`
	Texture      Texture `desc:"texture to bind"`
	MipLevel     uint32  `desc:"base mip of the bound view"`
	Sampler      Sampler `desc:"sampler to bind"`
}

// BindGroupDesc configures bind group creation, and is also accepted
// by BindGroup.Update to rebind all slots.
type BindGroupDesc struct {
	Label   string           `desc:"debug name"`
	Entries []BindGroupEntry `desc:"resources; slots with no entry are null-filled"`
}

// ShaderDesc is one shader stage's SPIR-V bytecode.
type ShaderDesc struct {
	Stage      ShaderStage `desc:"stage this module is for"`
	ByteCode   []byte      `desc:"SPIR-V bytecode"`
	EntryPoint string      `desc:"entry point; empty = main"`
}

// VertexFormat is the data type of a vertex attribute.
type VertexFormat int32

const (
	VertexFloat32 VertexFormat = iota
	VertexFloat32x2
	VertexFloat32x3
	VertexFloat32x4
	VertexUint32
	VertexUint32x2
	VertexUint32x4
	VertexUByte4Norm
	VertexFormatN
)

// Bytes returns the size of one attribute of this format.
func (vf VertexFormat) Bytes() uint32 {
	switch vf {
	case VertexFloat32, VertexUint32, VertexUByte4Norm:
		return 4
	case VertexFloat32x2, VertexUint32x2:
		return 8
	case VertexFloat32x3:
		return 12
	default:
		return 16
	}
}

// VertexAttribute is one attribute within a vertex buffer layout.
type VertexAttribute struct {
	Location uint32       `desc:"shader input location"`
	Offset   uint32       `desc:"byte offset within the vertex"`
	Format   VertexFormat `desc:"attribute data type"`
}

// VertexBufferLayout describes one bound vertex buffer slot.
type VertexBufferLayout struct {
	Stride      uint32            `desc:"byte stride between elements"`
	PerInstance bool              `desc:"step per instance instead of per vertex"`
	Attributes  []VertexAttribute `desc:"attributes sourced from this buffer"`
}

// CullMode selects triangle face culling.
type CullMode int32

const (
	CullNone CullMode = iota
	CullFront
	CullBack
	CullModeN
)

// RenderPipelineDesc configures render pipeline creation.
type RenderPipelineDesc struct {
	Label         string               `desc:"debug name"`
	Layout        PipelineLayout       `desc:"pipeline layout"`
	Vertex        ShaderDesc           `desc:"vertex stage"`
	Fragment      ShaderDesc           `desc:"fragment stage; empty ByteCode for depth-only"`
	VertexLayouts []VertexBufferLayout `desc:"vertex buffer slots"`
	Topology      PrimitiveTopology    `desc:"primitive assembly"`
	Cull          CullMode             `desc:"face culling"`
	FrontCCW      bool                 `desc:"counter-clockwise front faces"`
	ColorFormats  []TextureFormat      `desc:"render target formats"`
	DepthFormat   TextureFormat        `desc:"depth attachment format; Undefined = none"`
	DepthWrite    bool                 `desc:"write depth"`
	DepthCompare  CompareFunction      `desc:"depth test; Never with no write disables"`
	BlendEnabled  bool                 `desc:"standard premultiplied alpha blending"`
	SampleCount   int                  `desc:"MSAA samples; 0 = 1"`
}

// ComputePipelineDesc configures compute pipeline creation.
type ComputePipelineDesc struct {
	Label  string         `desc:"debug name"`
	Layout PipelineLayout `desc:"pipeline layout"`
	Shader ShaderDesc     `desc:"compute stage"`
}

// QueryHeapDesc configures query heap creation.
type QueryHeapDesc struct {
	Label string    `desc:"debug name"`
	Type  QueryType `desc:"query kind"`
	Count uint32    `desc:"number of query slots"`
}

// SwapChainDesc configures swapchain creation.
type SwapChainDesc struct {
	Width       int           `desc:"initial width in pixels"`
	Height      int           `desc:"initial height in pixels"`
	Format      TextureFormat `desc:"backbuffer format; Undefined picks the surface's preferred"`
	PresentMode PresentMode   `desc:"presentation pacing"`
}

// RenderPassColorAttachment is one color target of a render pass.
type RenderPassColorAttachment struct {
	Texture    Texture     `desc:"target texture"`
	MipLevel   uint32      `desc:"target mip"`
	Slice      uint32      `desc:"target array slice"`
	Load       LoadAction  `desc:"load behavior"`
	Store      StoreAction `desc:"store behavior"`
	ClearColor mat32.Vec4  `desc:"clear color when Load is Clear"`
}

// RenderPassDepthAttachment is the depth-stencil target of a render pass.
type RenderPassDepthAttachment struct {
	Texture      Texture     `desc:"target texture"`
	Load         LoadAction  `desc:"load behavior"`
	Store        StoreAction `desc:"store behavior"`
	ClearDepth   float32     `desc:"clear depth when Load is Clear"`
	ClearStencil uint32      `desc:"clear stencil when Load is Clear"`
}

// RenderPassDesc configures a render pass begun on a command buffer.
type RenderPassDesc struct {
	Label  string                      `desc:"debug name"`
	Colors []RenderPassColorAttachment `desc:"color targets"`
	Depth  *RenderPassDepthAttachment  `desc:"optional depth-stencil target"`
}

// Viewport is a render viewport with depth range.
type Viewport struct {
	X        float32
	Y        float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}
