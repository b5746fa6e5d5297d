// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package metaplugins

import (
	"context"

	"github.com/matthewd/cfme-tests/internal/logging"
	"github.com/matthewd/cfme-tests/internal/plugin"
)

func registerDescription(reg *plugin.Registry) {
	reg.Plugin("description").Variant(nil, func(ctx context.Context, env *plugin.Env) error {
		logging.Infof(ctx, "%s: %s", env.Item.Name, env.String("description"))
		return nil
	}, plugin.Desc("Logs the unit description"))
}
