// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import (
	"fmt"
	"log"
	"sync/atomic"
)

// LogLevel is the severity of a log message emitted by a backend.
type LogLevel int32

const (
	LogOff LogLevel = iota
	LogError
	LogWarn
	LogInfo
	LogDebug
	LogTrace
	LogLevelN
)

// LogFunc receives every message at or below the current log level.
type LogFunc func(level LogLevel, msg string)

var (
	logLevel    int32 = int32(LogWarn)
	logCallback atomic.Pointer[LogFunc]
)

// SetLogCallback installs the process-wide log callback. It can only
// be set once; later calls are ignored. If never set, messages go to
// the standard log package with a vgfx: prefix.
func SetLogCallback(cb LogFunc) {
	if cb == nil {
		return
	}
	logCallback.CompareAndSwap(nil, &cb)
}

// SetLogLevel sets the maximum severity that will be reported.
func SetLogLevel(level LogLevel) {
	atomic.StoreInt32(&logLevel, int32(level))
}

// GetLogLevel returns the current maximum reported severity.
func GetLogLevel() LogLevel {
	return LogLevel(atomic.LoadInt32(&logLevel))
}

// Logf formats and reports a message at the given level.
// Backends call this at the site of native failures.
func Logf(level LogLevel, format string, args ...any) {
	if level == LogOff || level > GetLogLevel() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if cb := logCallback.Load(); cb != nil {
		(*cb)(level, msg)
		return
	}
	log.Printf("vgfx: %s\n", msg)
}
