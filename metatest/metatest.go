// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package metatest runs units with metaplugins inside Go unit tests.
//
//	func TestLogin(t *testing.T) {
//		metatest.Run(t, driver, &ftesting.Unit{
//			Name: "infra.Login",
//			Meta: []ftesting.Decl{{"workdir": true}},
//			Func: testLogin,
//		})
//	}
//
// Setup failures are fatal, body and after-run failures are errors, skips
// call t.Skip, and teardown runs as a test cleanup.
package metatest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/matthewd/cfme-tests/internal/logging"
	"github.com/matthewd/cfme-tests/internal/planner"
	ftesting "github.com/matthewd/cfme-tests/internal/testing"
)

// testingT is the subset of testing.TB used by Run.
type testingT interface {
	Helper()
	Log(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Skip(args ...interface{})
	Cleanup(f func())
}

var _ testingT = (*testing.T)(nil)

// Run runs u as part of the test t, dispatching metaplugins through h.
func Run(t *testing.T, h planner.Hooks, u *ftesting.Unit) {
	t.Helper()
	run(t, h, u)
}

func run(t testingT, h planner.Hooks, u *ftesting.Unit) {
	t.Helper()
	if err := h.Collect([]*ftesting.Unit{u}); err != nil {
		t.Fatal("Collect: ", err)
	}

	logger := logging.NewFuncLogger(func(level logging.Level, ts time.Time, msg string) {
		if level >= logging.LevelWarning {
			msg = fmt.Sprintf("%v: %s", level, msg)
		}
		t.Log(msg)
	})
	ctx := logging.AttachLogger(context.Background(), logger)

	t.Cleanup(func() {
		if err := h.Teardown(ctx, u); err != nil {
			t.Error("Teardown: ", err)
		}
	})
	if err := h.Setup(ctx, u); err != nil {
		if reason, ok := planner.SkipReason(err); ok {
			t.Skip(reason)
		}
		t.Fatal("Setup: ", err)
	}
	if err := h.Call(ctx, u, u.Func); err != nil {
		if reason, ok := planner.SkipReason(err); ok {
			t.Skip(reason)
		}
		t.Error("Call: ", err)
	}
}
