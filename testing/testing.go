// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package testing provides public API for metaplugins and test units.
//
// Metaplugins are usually registered from init functions:
//
//	func init() {
//		testing.AddPlugin("owner", nil, func(ctx context.Context, env *testing.Env) error {
//			testing.ContextLogf(ctx, "Owned by %s", env.String("owner"))
//			return nil
//		})
//	}
//
// A plugin with several arities is built with Plugin:
//
//	testing.Plugin("provider").
//		Variant(nil, setupProvider).
//		Variant([]string{"provider", "version"}, setupProviderVersion)
package testing

import (
	"context"

	"github.com/matthewd/cfme-tests/internal/logging"
	"github.com/matthewd/cfme-tests/internal/meta"
	"github.com/matthewd/cfme-tests/internal/planner"
	"github.com/matthewd/cfme-tests/internal/plugin"
	"github.com/matthewd/cfme-tests/internal/testing"
)

type (
	// Func is the callback of a metaplugin.
	Func = plugin.Func
	// Env is the argument environment a metaplugin is called with.
	Env = plugin.Env
	// Phase is a point in the unit lifecycle at which metaplugins run.
	Phase = plugin.Phase
	// Option customizes a metaplugin registration.
	Option = plugin.Option
	// Registry holds metaplugin registrations.
	Registry = plugin.Registry
	// Unit is a single executable test case.
	Unit = testing.Unit
	// Decl is a single metadata declaration.
	Decl = meta.Decl
	// Metadata is the merged metadata of a unit.
	Metadata = meta.Metadata
)

// Lifecycle phases.
const (
	Setup     = plugin.Setup
	Teardown  = plugin.Teardown
	BeforeRun = plugin.BeforeRun
	AfterRun  = plugin.AfterRun
)

// Run selects the phase a metaplugin runs at. The default is Setup.
func Run(p Phase) Option { return plugin.Run(p) }

// Optional declares parameter names a metaplugin accepts without requiring.
func Optional(names ...string) Option { return plugin.Optional(names...) }

// Desc sets the description of a metaplugin.
func Desc(desc string) Option { return plugin.Desc(desc) }

// Register returns a function registering its argument as the metaplugin
// name, run when all of keys are present. A nil keys means the single key
// name. The argument is returned unchanged so registrations can be stacked.
func Register(name string, keys []string, opts ...Option) func(Func) Func {
	return plugin.Register(name, keys, opts...)
}

// AddPlugin registers f as the metaplugin name, run when all of keys are
// present. A nil keys means the single key name.
func AddPlugin(name string, keys []string, f Func, opts ...Option) {
	plugin.Default().Plugin(name).Variant(keys, f, opts...)
}

// Plugin returns the builder of the metaplugin name in the process-wide
// registry.
func Plugin(name string) *plugin.Plugin {
	return plugin.Default().Plugin(name)
}

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return plugin.Default()
}

// MetadataFromContext returns the merged metadata of the unit running in
// ctx. It is empty outside of a unit.
func MetadataFromContext(ctx context.Context) Metadata {
	return testing.ContextMetadata(ctx)
}

// Skip returns an error that skips the unit when returned from a setup or
// before-run metaplugin.
func Skip(reason string) error {
	return planner.Skip(reason)
}

// ContextLog formats its arguments using default formatting and logs them
// via ctx.
func ContextLog(ctx context.Context, args ...interface{}) {
	logging.Info(ctx, args...)
}

// ContextLogf is similar to ContextLog but formats its arguments using
// fmt.Sprintf.
func ContextLogf(ctx context.Context, format string, args ...interface{}) {
	logging.Infof(ctx, format, args...)
}

// ContextVLogf logs at the debug level.
func ContextVLogf(ctx context.Context, format string, args ...interface{}) {
	logging.Debugf(ctx, format, args...)
}
