// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package planner

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/matthewd/cfme-tests/errors"
	"github.com/matthewd/cfme-tests/internal/plugin"
	"github.com/matthewd/cfme-tests/internal/testing"
)

// PluginError reports a failure of a metaplugin invocation.
type PluginError struct {
	Name  string
	Keys  []string
	Phase plugin.Phase
	Err   error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("metaplugin %s%v failed at %v: %v", e.Name, e.Keys, e.Phase, e.Err)
}

// Unwrap returns the error returned by the plugin.
func (e *PluginError) Unwrap() error {
	return e.Err
}

// PanicError reports a panic in a plugin callback or a unit body.
type PanicError struct {
	Val   interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Val)
}

// SkipError is returned by a setup or before-run plugin to skip the unit.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return "skipped: " + e.Reason
}

// Skip returns an error that, returned from a setup or before-run plugin,
// skips the unit with reason. The body does not run; teardown still does.
func Skip(reason string) error {
	return &SkipError{Reason: reason}
}

// SkipReason returns the reason if err is or wraps a *SkipError. An error
// joining a skip with other errors is not a skip.
func SkipReason(err error) (string, bool) {
	for err != nil {
		switch e := err.(type) {
		case *SkipError:
			return e.Reason, true
		case interface{ Unwrap() []error }:
			return "", false
		}
		err = errors.Unwrap(err)
	}
	return "", false
}

// canSkip reports whether a plugin running at phase may skip the unit.
func canSkip(phase plugin.Phase) bool {
	return phase == plugin.Setup || phase == plugin.BeforeRun
}

// safeInvoke calls the callback of b with env and converts a panic to a
// *PanicError. Errors are wrapped in a *PluginError, except skips returned
// at a phase that allows them. A skip returned later is a failure.
func safeInvoke(ctx context.Context, b *plugin.Binding, env *plugin.Env) (err error) {
	defer func() {
		if val := recover(); val != nil {
			err = &PanicError{Val: val, Stack: debug.Stack()}
		}
		if err == nil {
			return
		}
		if reason, ok := SkipReason(err); ok {
			if canSkip(b.Phase) {
				return
			}
			err = errors.Errorf("cannot skip at %v: %s", b.Phase, reason)
		}
		err = &PluginError{Name: b.Name, Keys: b.Keys, Phase: b.Phase, Err: err}
	}()
	return b.Func(ctx, env)
}

// safeBody runs the body of u and converts a panic to a *PanicError.
func safeBody(ctx context.Context, body testing.Func) (err error) {
	if body == nil {
		return nil
	}
	defer func() {
		if val := recover(); val != nil {
			err = &PanicError{Val: val, Stack: debug.Stack()}
		}
	}()
	return body(ctx)
}
