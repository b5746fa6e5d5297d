// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package metaplugins

import (
	"context"
	"os"

	"github.com/spf13/cast"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/matthewd/cfme-tests/errors"
	"github.com/matthewd/cfme-tests/internal/logging"
	"github.com/matthewd/cfme-tests/internal/plugin"
	"github.com/matthewd/cfme-tests/shutil"
)

// savedEnvKey is the unit value holding variables to restore after the run.
const savedEnvKey = "metaplugins.env.saved"

// savedVar is the value of an environment variable before it was set.
type savedVar struct {
	val string
	set bool
}

// The process environment is shared, so units using env should not run in
// parallel with units reading the same variables.
func registerEnv(reg *plugin.Registry) {
	reg.Plugin("env").
		Variant(nil, setEnv, plugin.Run(plugin.BeforeRun), plugin.Desc("Sets environment variables for the body")).
		Variant(nil, restoreEnv, plugin.Run(plugin.AfterRun), plugin.Desc("Restores environment variables"))
}

func setEnv(ctx context.Context, env *plugin.Env) error {
	vars := env.StringMap("env")
	names := maps.Keys(vars)
	slices.Sort(names)

	saved := make(map[string]savedVar, len(names))
	env.Item.SetValue(savedEnvKey, saved)
	for _, name := range names {
		s := cast.ToString(vars[name])
		old, ok := os.LookupEnv(name)
		saved[name] = savedVar{old, ok}
		logging.Debugf(ctx, "Setting %s=%s", name, shutil.Escape(s))
		if err := os.Setenv(name, s); err != nil {
			return errors.Wrapf(err, "failed to set %s", name)
		}
	}
	return nil
}

func restoreEnv(ctx context.Context, env *plugin.Env) error {
	saved, ok := env.Item.Value(savedEnvKey).(map[string]savedVar)
	if !ok {
		return nil
	}
	var errs []error
	for name, s := range saved {
		var err error
		if s.set {
			err = os.Setenv(name, s.val)
		} else {
			err = os.Unsetenv(name)
		}
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "failed to restore %s", name))
		}
	}
	return errors.Join(errs...)
}
