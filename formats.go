// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import "github.com/goki/ki/kit"

// TextureFormat is the pixel format of a texture or swapchain.
// This is a compact set covering the formats in common use; each
// backend maps it to the corresponding native format.
type TextureFormat int32

const (
	FormatUndefined TextureFormat = iota

	FormatR8Unorm
	FormatRG8Unorm
	FormatRGBA8Unorm
	FormatRGBA8Srgb
	FormatBGRA8Unorm
	FormatBGRA8Srgb
	FormatRGB10A2Unorm

	FormatR16Float
	FormatRG16Float
	FormatRGBA16Float

	FormatR32Float
	FormatRG32Float
	FormatRGBA32Float

	FormatR32Uint
	FormatRG32Uint
	FormatRGBA32Uint

	FormatDepth16Unorm
	FormatDepth32Float
	FormatDepth24UnormStencil8

	TextureFormatN
)

//go:generate stringer -type=TextureFormat

var KiT_TextureFormat = kit.Enums.AddEnum(TextureFormatN, kit.NotBitFlag, nil)

// FormatBytes gives the size of one pixel of each format in bytes.
var FormatBytes = map[TextureFormat]uint64{
	FormatUndefined:            0,
	FormatR8Unorm:              1,
	FormatRG8Unorm:             2,
	FormatRGBA8Unorm:           4,
	FormatRGBA8Srgb:            4,
	FormatBGRA8Unorm:           4,
	FormatBGRA8Srgb:            4,
	FormatRGB10A2Unorm:         4,
	FormatR16Float:             2,
	FormatRG16Float:            4,
	FormatRGBA16Float:          8,
	FormatR32Float:             4,
	FormatRG32Float:            8,
	FormatRGBA32Float:          16,
	FormatR32Uint:              4,
	FormatRG32Uint:             8,
	FormatRGBA32Uint:           16,
	FormatDepth16Unorm:         2,
	FormatDepth32Float:         4,
	FormatDepth24UnormStencil8: 4,
}

// Bytes returns the size of one pixel of this format.
func (tf TextureFormat) Bytes() uint64 {
	return FormatBytes[tf]
}

// HasDepth returns true if the format has a depth component.
func (tf TextureFormat) HasDepth() bool {
	switch tf {
	case FormatDepth16Unorm, FormatDepth32Float, FormatDepth24UnormStencil8:
		return true
	}
	return false
}

// HasStencil returns true if the format has a stencil component.
func (tf TextureFormat) HasStencil() bool {
	return tf == FormatDepth24UnormStencil8
}

// IsSrgb returns true for sRGB-encoded formats.
func (tf TextureFormat) IsSrgb() bool {
	return tf == FormatRGBA8Srgb || tf == FormatBGRA8Srgb
}
