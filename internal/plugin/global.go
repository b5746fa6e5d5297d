// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package plugin

import (
	"sync"
)

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry, creating it on first use.
// Repeated calls return the same registry, so bindings are never
// duplicated by re-initialization.
func Default() *Registry {
	defaultOnce.Do(func() {
		if defaultRegistry == nil {
			defaultRegistry = NewRegistry()
		}
	})
	return defaultRegistry
}

// Register registers a binding to the process-wide registry.
// See Registry.Register.
func Register(name string, keys []string, opts ...Option) func(Func) Func {
	return Default().Register(name, keys, opts...)
}

// SetDefaultForTesting temporarily sets reg as the process-wide registry.
// The caller must call the returned function later to restore the original
// registry. This is intended to be used by unit tests that register plugins
// but don't want to affect subsequent unit tests.
func SetDefaultForTesting(reg *Registry) (restore func()) {
	orig := Default()
	defaultRegistry = reg
	return func() {
		defaultRegistry = orig
	}
}
