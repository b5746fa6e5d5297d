// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/subcommands"

	"github.com/matthewd/cfme-tests/internal/logging"
	"github.com/matthewd/cfme-tests/internal/planner"
	"github.com/matthewd/cfme-tests/internal/plugin"
)

// planCmd implements subcommands.Command to show which metaplugins would
// run for each unit without running anything.
type planCmd struct {
	units  unitFlags
	reg    *plugin.Registry
	stdout io.Writer
}

var _ = subcommands.Command(&planCmd{})

func newPlanCmd(stdout io.Writer, reg *plugin.Registry) *planCmd {
	return &planCmd{reg: reg, stdout: stdout}
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "show metaplugins selected for units" }
func (*planCmd) Usage() string {
	return `Usage: plan [flag]... <suite>...

Description:
    Print, for each unit, the metaplugins that would run at each phase.
    Nothing is run.

Flag:
`
}

func (pc *planCmd) SetFlags(f *flag.FlagSet) {
	pc.units.SetFlags(f)
}

func (pc *planCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	units, err := pc.units.load(f.Args())
	if err != nil {
		logging.Info(ctx, "Failed to load units: ", err)
		return subcommands.ExitUsageError
	}
	d, err := planner.NewDriver(pc.reg)
	if err != nil {
		logging.Infof(ctx, "%+v", err)
		return subcommands.ExitFailure
	}
	if err := d.Collect(units); err != nil {
		logging.Info(ctx, err)
		return subcommands.ExitFailure
	}

	for _, u := range units {
		fmt.Fprintln(pc.stdout, u.Name)
		for _, s := range d.Plan(u) {
			line := fmt.Sprintf("  %-10v %s", s.Phase, s.Binding.Signature())
			if len(s.Ties) > 0 {
				var tied []string
				for _, b := range s.Ties {
					tied = append(tied, b.Signature())
				}
				line += " (ambiguous with " + strings.Join(tied, ", ") + ")"
			}
			fmt.Fprintln(pc.stdout, line)
		}
	}
	return subcommands.ExitSuccess
}
