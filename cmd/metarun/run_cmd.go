// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matthewd/cfme-tests/internal/logging"
	"github.com/matthewd/cfme-tests/internal/planner"
	"github.com/matthewd/cfme-tests/internal/plugin"
	"github.com/matthewd/cfme-tests/internal/reporting"
)

// runCmd implements subcommands.Command to support running units.
type runCmd struct {
	workers     int
	resultsDir  string
	metricsFile string
	units       unitFlags
	reg         *plugin.Registry
}

var _ = subcommands.Command(&runCmd{})

func newRunCmd(reg *plugin.Registry) *runCmd {
	return &runCmd{reg: reg}
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "run units" }
func (*runCmd) Usage() string {
	return `Usage: run [flag]... <suite>...

Description:
    Run units declared in suite files or directories, dispatching
    metaplugins according to their metadata. Results are written to
    results.json in the results directory.

Flag:
`
}

func (rc *runCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&rc.workers, "workers", 1, "number of units to run in parallel")
	f.StringVar(&rc.resultsDir, "resultsdir", "", "directory for results (default: results/<timestamp>)")
	f.StringVar(&rc.metricsFile, "metricsfile", "", "write Prometheus metrics in text format to this file")
	rc.units.SetFlags(f)
}

func (rc *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	units, err := rc.units.load(f.Args())
	if err != nil {
		logging.Info(ctx, "Failed to load units: ", err)
		return subcommands.ExitUsageError
	}
	if rc.workers < 1 {
		logging.Infof(ctx, "Invalid -workers %d", rc.workers)
		return subcommands.ExitUsageError
	}
	if rc.resultsDir == "" {
		rc.resultsDir = filepath.Join("results", time.Now().Format("20060102-150405"))
	}

	metricsReg := prometheus.NewRegistry()
	d, err := planner.NewDriver(rc.reg, planner.WithMetrics(planner.NewMetrics(metricsReg)))
	if err != nil {
		logging.Infof(ctx, "%+v", err)
		return subcommands.ExitFailure
	}

	console := logging.NewFuncLogger(func(level logging.Level, ts time.Time, msg string) {
		switch level {
		case logging.LevelDebug:
			logging.Debug(ctx, msg)
		case logging.LevelWarning:
			logging.Warningf(ctx, "%s", msg)
		default:
			logging.Info(ctx, msg)
		}
	})
	rep, err := reporting.NewReporter(rc.resultsDir, console, nil)
	if err != nil {
		logging.Info(ctx, err)
		return subcommands.ExitFailure
	}
	logging.Infof(ctx, "Run %s: writing results to %s", rep.RunID(), rc.resultsDir)

	runErr := planner.RunUnits(ctx, d, units, rep, &planner.Config{Workers: rc.workers})
	res, err := rep.Close()
	if err != nil {
		logging.Info(ctx, "Failed to write results: ", err)
		return subcommands.ExitFailure
	}
	if rc.metricsFile != "" {
		if err := prometheus.WriteToTextfile(rc.metricsFile, metricsReg); err != nil {
			logging.Info(ctx, "Failed to write metrics: ", err)
			return subcommands.ExitFailure
		}
	}
	if runErr != nil {
		logging.Infof(ctx, "%+v", runErr)
		return subcommands.ExitFailure
	}

	logging.Info(ctx, fmt.Sprintf("%d passed, %d failed, %d skipped", res.Passed, res.Failed, res.Skipped))
	if res.Failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
