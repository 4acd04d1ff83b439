// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"errors"
	"fmt"
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassification(t *testing.T) {
	assert.NoError(t, NewError(vk.Success))

	err := NewError(vk.ErrorDeviceLost)
	require.Error(t, err)
	assert.True(t, IsDeviceLostErr(err))
	assert.True(t, IsDeviceLostErr(NewError(vk.ErrorSurfaceLost)))

	assert.False(t, IsDeviceLostErr(NewError(vk.ErrorOutOfDate)))
	assert.False(t, IsDeviceLostErr(NewError(vk.ErrorOutOfDeviceMemory)))
	assert.False(t, IsDeviceLostErr(nil))
	assert.False(t, IsDeviceLostErr(errors.New("window closed")))

	// classification survives wrapping
	assert.True(t, IsDeviceLostErr(fmt.Errorf("acquire: %w", NewError(vk.ErrorDeviceLost))))

	var ve *Error
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, vk.ErrorDeviceLost, ve.Result)
}
