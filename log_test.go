// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vgfx

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogCallback(t *testing.T) {
	var mu sync.Mutex
	var got []string
	SetLogCallback(func(level LogLevel, msg string) {
		mu.Lock()
		got = append(got, msg)
		mu.Unlock()
	})
	// the callback is process-wide and first-set wins
	SetLogCallback(func(level LogLevel, msg string) {
		t.Error("second callback must not be installed")
	})

	SetLogLevel(LogWarn)
	Logf(LogError, "first %d", 1)
	Logf(LogInfo, "filtered")
	Logf(LogOff, "never reported")
	SetLogLevel(LogInfo)
	Logf(LogInfo, "second")

	// Logf must be safe against concurrent use from backend goroutines
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Logf(LogError, "concurrent")
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, got, "first 1")
	assert.Contains(t, got, "second")
	assert.NotContains(t, got, "filtered")
	assert.NotContains(t, got, "never reported")
	assert.Equal(t, 6, len(got))
}
