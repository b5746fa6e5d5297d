// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package suite

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"

	"github.com/matthewd/cfme-tests/errors"
	"github.com/matthewd/cfme-tests/internal/logging"
	"github.com/matthewd/cfme-tests/internal/testing"
	"github.com/matthewd/cfme-tests/metaplugins"
	"github.com/matthewd/cfme-tests/shutil"
)

// commandFunc returns a unit body running the command line. The command
// runs in the unit's work directory if the workdir metaplugin created one.
// Its output is logged line by line.
func commandFunc(line string) (testing.Func, error) {
	args, err := shutil.Split(line)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	return func(ctx context.Context) error {
		cmdline := shutil.EscapeSlice(args)
		logging.Infof(ctx, "Running %s", cmdline)
		cmd := exec.CommandContext(ctx, args[0], args[1:]...)
		cmd.Dir = metaplugins.WorkDir(ctx)
		out, err := cmd.CombinedOutput()
		sc := bufio.NewScanner(bytes.NewReader(out))
		for sc.Scan() {
			logging.Info(ctx, sc.Text())
		}
		if err != nil {
			return errors.Wrapf(err, "%s failed", cmdline)
		}
		return nil
	}, nil
}
