// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "BackendVulkan", BackendVulkan.String())
	assert.Equal(t, "BackendWebGPU", BackendWebGPU.String())
	assert.Equal(t, "ValidationEnabled", ValidationEnabled.String())
	assert.Equal(t, "QueueCompute", QueueCompute.String())
	assert.Equal(t, "CpuAccessWrite", CpuAccessWrite.String())
	assert.Equal(t, "DescriptorReadOnlyStorageBuffer", DescriptorReadOnlyStorageBuffer.String())
	assert.Equal(t, "LogError", LogError.String())
	assert.Equal(t, "FormatBGRA8Unorm", FormatBGRA8Unorm.String())
	assert.Equal(t, "FormatDepth24UnormStencil8", FormatDepth24UnormStencil8.String())

	// out-of-range values fall back to the numeric form
	assert.Equal(t, "Backend(-1)", Backend(-1).String())
	assert.Equal(t, "TextureFormat(99)", TextureFormat(99).String())
}
