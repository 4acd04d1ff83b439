// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestIsNil(t *testing.T) {
	assert.True(t, IsNil(nil))
	var x int
	assert.False(t, IsNil(unsafe.Pointer(&x)))
}

func TestSafeString(t *testing.T) {
	assert.Equal(t, "\x00", safeString(""))
	assert.Equal(t, "main\x00", safeString("main"))
	assert.Equal(t, "main\x00", safeString("main\x00"))

	ss := safeStrings([]string{"a", "b\x00"})
	assert.Equal(t, []string{"a\x00", "b\x00"}, ss)
}

func TestCleanString(t *testing.T) {
	buf := make([]byte, 16)
	copy(buf, "hello")
	assert.Equal(t, "hello", cleanString(buf))
	assert.Equal(t, "full", cleanString([]byte("full")))
	assert.Equal(t, "", cleanString(make([]byte, 4)))
}

func TestViewKey(t *testing.T) {
	assert.Equal(t, uint64(0), viewKey(0, 0, 0, 0))
	assert.NotEqual(t, viewKey(1, 0, 0, 0), viewKey(0, 1, 0, 0))
	assert.NotEqual(t, viewKey(0, 0, 1, 0), viewKey(0, 0, 0, 1))
	assert.Equal(t, uint64(2)<<48|uint64(3)<<32|uint64(4)<<16|5, viewKey(2, 3, 4, 5))
}
