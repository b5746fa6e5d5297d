// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package metaplugins

import (
	"context"
	"fmt"

	"github.com/spf13/cast"

	"github.com/matthewd/cfme-tests/internal/planner"
	"github.com/matthewd/cfme-tests/internal/plugin"
)

const defaultSkipReason = "skipped by metadata"

// skipReason interprets the value of the skip key. Booleans switch skipping
// on and off; any other non-empty value is the reason itself.
func skipReason(v interface{}) (reason string, skip bool) {
	if v == nil {
		return defaultSkipReason, true
	}
	if b, err := cast.ToBoolE(v); err == nil {
		return defaultSkipReason, b
	}
	if s := fmt.Sprint(v); s != "" {
		return s, true
	}
	return defaultSkipReason, true
}

func registerSkip(reg *plugin.Registry) {
	reg.Plugin("skip").
		Variant(nil, func(ctx context.Context, env *plugin.Env) error {
			if reason, ok := skipReason(env.Arg("skip")); ok {
				return planner.Skip(reason)
			}
			return nil
		}, plugin.Desc("Skips the unit")).
		Variant([]string{"skip", "reason"}, func(ctx context.Context, env *plugin.Env) error {
			if _, ok := skipReason(env.Arg("skip")); !ok {
				return nil
			}
			reason := env.String("reason")
			if reason == "" {
				reason = defaultSkipReason
			}
			return planner.Skip(reason)
		}, plugin.Desc("Skips the unit with a reason"))
}
