// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package planner

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matthewd/cfme-tests/errors"
	"github.com/matthewd/cfme-tests/internal/logging"
	"github.com/matthewd/cfme-tests/internal/testing"
)

// Config contains details about how units should be run.
type Config struct {
	// Workers is the maximum number of units run in parallel. Values
	// smaller than 1 mean 1. Phases of one unit always run sequentially.
	Workers int
}

func (c *Config) workers() int {
	if c == nil || c.Workers < 1 {
		return 1
	}
	return c.Workers
}

// RunUnits collects units and runs them with d, reporting progress to out.
//
// A unit failure is reported to out and does not stop other units. RunUnits
// returns an error only if collection fails, out fails, or ctx is canceled.
func RunUnits(ctx context.Context, d *Driver, units []*testing.Unit, out OutputStream, cfg *Config) error {
	if err := d.Collect(units); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())
	for _, u := range units {
		u := u
		g.Go(func() error {
			return runUnit(ctx, d, u, out)
		})
	}
	return g.Wait()
}

func runUnit(ctx context.Context, d *Driver, u *testing.Unit, out OutputStream) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := out.UnitStart(u); err != nil {
		return err
	}

	var mu sync.Mutex
	var logErr error
	logger := logging.NewFuncLogger(func(level logging.Level, ts time.Time, msg string) {
		if err := out.UnitLog(u, msg); err != nil {
			mu.Lock()
			if logErr == nil {
				logErr = err
			}
			mu.Unlock()
		}
	})
	res := d.Run(logging.AttachLogger(ctx, logger), u)

	for _, err := range []error{res.SetupErr, res.CallErr, res.TeardownErr} {
		if err == nil {
			continue
		}
		if err := out.UnitError(u, err); err != nil {
			return err
		}
	}
	if err := out.UnitEnd(u, res); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	if logErr != nil {
		return errors.Wrapf(logErr, "failed to report logs of %s", u.Name)
	}
	return nil
}
