// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This is initially adapted from https://github.com/vulkan-go/asche
// Copyright © 2017 Maxim Kupriianov <max@kc.vc>, under the MIT License

package vulkan

import (
	"errors"
	"fmt"

	vk "github.com/goki/vulkan"
)

// Error is a failed vulkan call, carrying the result code so callers
// can classify it after it has passed through error returns.
type Error struct {
	Result vk.Result
}

func (e *Error) Error() string {
	return fmt.Sprintf("vulkan error: %s (%d)", vk.Error(e.Result).Error(), e.Result)
}

// NewError returns an error for a non-Success result, else nil.
func NewError(ret vk.Result) error {
	if ret != vk.Success {
		return &Error{Result: ret}
	}
	return nil
}

// IsError returns true if ret is not Success.
func IsError(ret vk.Result) bool {
	return ret != vk.Success
}

// IsDeviceLost returns true for results that indicate the physical
// device is gone and the logical device must be recreated.
func IsDeviceLost(ret vk.Result) bool {
	return ret == vk.ErrorDeviceLost || ret == vk.ErrorSurfaceLost
}

// IsDeviceLostErr reports whether err wraps a device-lost or
// surface-lost result.
func IsDeviceLostErr(err error) bool {
	var ve *Error
	return errors.As(err, &ve) && IsDeviceLost(ve.Result)
}

// IfPanic panics on a non-nil error, running any deferred cleanup
// functions first. Used for contract violations where no recovery
// is possible.
func IfPanic(err error, finalizers ...func()) {
	if err != nil {
		for _, fn := range finalizers {
			fn()
		}
		panic(err)
	}
}

// CheckErr recovers a panic raised through IfPanic into *err.
func CheckErr(err *error) {
	if v := recover(); v != nil {
		switch v := v.(type) {
		case error:
			*err = v
		default:
			*err = errors.New(fmt.Sprint(v))
		}
	}
}
