// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package metaplugins contains general-purpose metaplugins.
//
// Register adds all of them to a registry:
//
//	description  setup       logs the unit description
//	skip         setup       skips the unit, optionally with a reason
//	env          before_run  sets environment variables, restored after_run
//	workdir      setup       creates a scratch directory, removed at teardown
package metaplugins

import (
	"github.com/matthewd/cfme-tests/internal/plugin"
)

// Register registers all metaplugins of this package to reg. Calling it
// twice for one registry registers every binding twice.
func Register(reg *plugin.Registry) {
	registerDescription(reg)
	registerSkip(reg)
	registerEnv(reg)
	registerWorkDir(reg)
}
