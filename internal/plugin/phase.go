// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package plugin

import (
	"fmt"

	"github.com/matthewd/cfme-tests/errors"
)

// Phase is a point in the lifecycle of a test unit at which plugins run.
type Phase int

const (
	// Setup runs before the unit body, as part of unit setup.
	Setup Phase = iota
	// Teardown runs after the unit, even if setup or the body failed.
	Teardown
	// BeforeRun runs right before the unit body.
	BeforeRun
	// AfterRun runs right after the unit body, even if the body failed.
	AfterRun
)

// DefaultPhase is the phase of bindings registered without Run.
const DefaultPhase = Setup

// Phases lists all phases in lifecycle order.
var Phases = []Phase{Setup, BeforeRun, AfterRun, Teardown}

var phaseNames = map[Phase]string{
	Setup:     "setup",
	Teardown:  "teardown",
	BeforeRun: "before_run",
	AfterRun:  "after_run",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) valid() bool {
	_, ok := phaseNames[p]
	return ok
}

// ParsePhase parses the string form of a phase, e.g. "before_run".
func ParsePhase(s string) (Phase, error) {
	for p, name := range phaseNames {
		if name == s {
			return p, nil
		}
	}
	return 0, errors.Errorf("unknown phase %q", s)
}
