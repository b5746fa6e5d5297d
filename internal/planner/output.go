// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package planner

import (
	"github.com/matthewd/cfme-tests/internal/testing"
)

// OutputStream is an interface to report streamed outputs of multiple unit
// runs. Implementations must be goroutine-safe when units run in parallel.
type OutputStream interface {
	// UnitStart reports that a unit u has started.
	UnitStart(u *testing.Unit) error
	// UnitLog reports an informational log message from u.
	UnitLog(u *testing.Unit, msg string) error
	// UnitError reports an error from u. A unit that reported one or more
	// errors should be considered failure.
	UnitError(u *testing.Unit, err error) error
	// UnitEnd reports that u has ended with res.
	UnitEnd(u *testing.Unit, res *Result) error
}
