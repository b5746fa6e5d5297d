// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package metaplugins

import (
	"context"
	"os"

	"github.com/matthewd/cfme-tests/errors"
	"github.com/matthewd/cfme-tests/internal/logging"
	"github.com/matthewd/cfme-tests/internal/plugin"
	"github.com/matthewd/cfme-tests/internal/testing"
)

const workDirKey = "metaplugins.workdir"

// WorkDir returns the scratch directory created for the unit running in
// ctx, or an empty string if there is none.
func WorkDir(ctx context.Context) string {
	u, ok := testing.UnitFromContext(ctx)
	if !ok {
		return ""
	}
	dir, _ := u.Value(workDirKey).(string)
	return dir
}

func registerWorkDir(reg *plugin.Registry) {
	reg.Plugin("workdir").
		Variant(nil, createWorkDir, plugin.Desc("Creates a scratch directory")).
		Variant(nil, func(ctx context.Context, env *plugin.Env) error {
			return removeWorkDir(ctx, env.Item)
		}, plugin.Run(plugin.Teardown), plugin.Desc("Removes the scratch directory")).
		Variant([]string{"workdir", "keep"}, func(ctx context.Context, env *plugin.Env) error {
			if env.Bool("keep") {
				logging.Infof(ctx, "Keeping work directory %s", WorkDir(ctx))
				return nil
			}
			return removeWorkDir(ctx, env.Item)
		}, plugin.Run(plugin.Teardown), plugin.Desc("Removes the scratch directory unless asked to keep it"))
}

func createWorkDir(ctx context.Context, env *plugin.Env) error {
	prefix, ok := env.Arg("workdir").(string)
	if !ok || prefix == "" {
		prefix = env.Item.Name
	}
	dir, err := os.MkdirTemp("", prefix+".")
	if err != nil {
		return errors.Wrap(err, "failed to create work directory")
	}
	env.Item.SetValue(workDirKey, dir)
	logging.Debugf(ctx, "Created work directory %s", dir)
	return nil
}

func removeWorkDir(ctx context.Context, u *testing.Unit) error {
	dir, _ := u.Value(workDirKey).(string)
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, "failed to remove work directory %s", dir)
	}
	logging.Debugf(ctx, "Removed work directory %s", dir)
	return nil
}
