// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/subcommands"

	"github.com/matthewd/cfme-tests/internal/logging"
	"github.com/matthewd/cfme-tests/internal/meta"
	"github.com/matthewd/cfme-tests/internal/plugin"
	"github.com/matthewd/cfme-tests/internal/reporting"
	"github.com/matthewd/cfme-tests/internal/testing"
)

// listCmd implements subcommands.Command to support listing units, plugins
// and markers.
type listCmd struct {
	json    bool // marshal units to JSON instead of just printing names
	markers bool // print marker documentation
	plugins bool // print registered metaplugins
	units   unitFlags
	reg     *plugin.Registry
	stdout  io.Writer
}

var _ = subcommands.Command(&listCmd{})

func newListCmd(stdout io.Writer, reg *plugin.Registry) *listCmd {
	return &listCmd{reg: reg, stdout: stdout}
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list units, metaplugins or markers" }
func (*listCmd) Usage() string {
	return `Usage: list [flag]... <suite>...

Description:
    List units declared in suite files or directories.

    To list registered metaplugins:

        $ metarun list -plugins

    To show marker documentation:

        $ metarun list -markers

Flag:
`
}

func (lc *listCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&lc.json, "json", false, "print units with metadata as JSON")
	f.BoolVar(&lc.markers, "markers", false, "print marker documentation")
	f.BoolVar(&lc.plugins, "plugins", false, "print registered metaplugins")
	lc.units.SetFlags(f)
}

func (lc *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	switch {
	case lc.markers:
		fmt.Fprintln(lc.stdout, meta.MarkerDoc)
		return subcommands.ExitSuccess
	case lc.plugins:
		lc.printPlugins()
		return subcommands.ExitSuccess
	}

	units, err := lc.units.load(f.Args())
	if err != nil {
		logging.Info(ctx, "Failed to load units: ", err)
		return subcommands.ExitUsageError
	}
	if err := testing.Collect(units); err != nil {
		logging.Info(ctx, "Failed to collect units: ", err)
		return subcommands.ExitFailure
	}
	if err := lc.printUnits(units); err != nil {
		logging.Info(ctx, "Failed to write units: ", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// listedUnit is the JSON form of a unit printed by list -json.
type listedUnit struct {
	Name     string          `json:"name"`
	Desc     string          `json:"desc,omitempty"`
	Metadata json.RawMessage `json:"metadata"`
}

func (lc *listCmd) printUnits(units []*testing.Unit) error {
	if !lc.json {
		for _, u := range units {
			if _, err := fmt.Fprintln(lc.stdout, u.Name); err != nil {
				return err
			}
		}
		return nil
	}

	listed := make([]*listedUnit, len(units))
	for i, u := range units {
		md, err := reporting.EncodeMetadata(u.Metadata())
		if err != nil {
			return err
		}
		listed[i] = &listedUnit{Name: u.Name, Desc: u.Desc, Metadata: md}
	}
	enc := json.NewEncoder(lc.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(listed)
}

func (lc *listCmd) printPlugins() {
	for _, b := range lc.reg.Bindings() {
		line := b.Signature()
		if len(b.Optional) > 0 {
			line += fmt.Sprintf(" optional=[%s]", strings.Join(b.Optional, " "))
		}
		if b.Desc != "" {
			line += ": " + b.Desc
		}
		fmt.Fprintln(lc.stdout, line)
	}
}
