// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package planner drives test units through their lifecycle and dispatches
// metaplugins at each phase.
package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"code.cloudfoundry.org/clock"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/matthewd/cfme-tests/errors"
	"github.com/matthewd/cfme-tests/internal/logging"
	"github.com/matthewd/cfme-tests/internal/meta"
	"github.com/matthewd/cfme-tests/internal/plugin"
	"github.com/matthewd/cfme-tests/internal/telemetry"
	"github.com/matthewd/cfme-tests/internal/testing"
)

// Hooks is the set of extension points a host calls into while it runs
// units. Driver implements it.
type Hooks interface {
	// Collect merges the metadata of units once they are known.
	Collect(units []*testing.Unit) error
	// Setup runs setup plugins for u. The first failure stops the phase.
	Setup(ctx context.Context, u *testing.Unit) error
	// Call runs before-run plugins, body, and after-run plugins for u.
	Call(ctx context.Context, u *testing.Unit, body testing.Func) error
	// Teardown runs teardown plugins for u. Every plugin is attempted.
	Teardown(ctx context.Context, u *testing.Unit) error
}

var _ Hooks = (*Driver)(nil)

// dispatchMode specifies how a phase reacts to a failing plugin.
type dispatchMode int

const (
	// stopOnError returns the first plugin error without running the rest.
	stopOnError dispatchMode = iota
	// attemptAll runs every plugin and joins their errors.
	attemptAll
)

// Driver dispatches metaplugins of a sealed registry over the lifecycle of
// test units. A Driver may be used from multiple goroutines.
type Driver struct {
	reg     *plugin.Registry
	clk     clock.Clock
	metrics *Metrics
}

// Option customizes a Driver.
type Option func(d *Driver)

// WithClock sets the clock used to time plugin invocations.
func WithClock(clk clock.Clock) Option {
	return func(d *Driver) { d.clk = clk }
}

// WithMetrics sets the metrics invocations are recorded to. By default no
// metrics are recorded.
func WithMetrics(m *Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

// NewDriver returns a driver dispatching the bindings of reg. It fails if
// any registration to reg failed. reg is sealed on success.
func NewDriver(reg *plugin.Registry, opts ...Option) (*Driver, error) {
	if errs := reg.Errors(); len(errs) > 0 {
		return nil, errors.Wrap(errors.Join(errs...), "invalid metaplugin registrations")
	}
	reg.Seal()
	d := &Driver{reg: reg, clk: clock.NewClock()}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Registry returns the registry d dispatches from.
func (d *Driver) Registry() *plugin.Registry {
	return d.reg
}

// Collect validates units and merges their metadata.
func (d *Driver) Collect(units []*testing.Unit) error {
	if err := testing.Collect(units); err != nil {
		return errors.Wrap(err, "collection failed")
	}
	return nil
}

// Setup runs setup plugins for u.
func (d *Driver) Setup(ctx context.Context, u *testing.Unit) error {
	return d.dispatch(ctx, u, plugin.Setup, stopOnError)
}

// Call runs before-run plugins for u, then body, then after-run plugins.
//
// If a before-run plugin fails, neither body nor after-run plugins run.
// Otherwise after-run plugins always run, even if body fails or panics, and
// the returned error lists the body error first.
func (d *Driver) Call(ctx context.Context, u *testing.Unit, body testing.Func) (err error) {
	if err := d.dispatch(ctx, u, plugin.BeforeRun, stopOnError); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, d.dispatch(ctx, u, plugin.AfterRun, attemptAll))
	}()
	return safeBody(testing.NewContext(ctx, u), body)
}

// Teardown runs teardown plugins for u.
func (d *Driver) Teardown(ctx context.Context, u *testing.Unit) error {
	return d.dispatch(ctx, u, plugin.Teardown, attemptAll)
}

// Step is one plugin selected to run for a unit.
type Step struct {
	Phase plugin.Phase
	plugin.Selection
}

// Plan returns the plugins that would run for u, in lifecycle order,
// without running any of them.
func (d *Driver) Plan(u *testing.Unit) []Step {
	md := u.Metadata()
	var steps []Step
	for _, phase := range plugin.Phases {
		for _, s := range d.reg.Resolve(md, phase) {
			steps = append(steps, Step{Phase: phase, Selection: s})
		}
	}
	return steps
}

func (d *Driver) dispatch(ctx context.Context, u *testing.Unit, phase plugin.Phase, mode dispatchMode) error {
	ctx = testing.NewContext(ctx, u)
	sels := d.reg.Resolve(u.Metadata(), phase)
	if len(sels) == 0 {
		return nil
	}
	logging.Debugf(ctx, "Running %d metaplugin(s) at %v", len(sels), phase)

	var errs []error
	for _, s := range sels {
		if len(s.Ties) > 0 {
			var others []string
			for _, b := range s.Ties {
				others = append(others, b.Signature())
			}
			logging.Warningf(ctx, "Metaplugin %s is ambiguous; picked %s over %s", s.Binding.Name, s.Binding.Signature(), strings.Join(others, ", "))
			d.metrics.observeTie(s.Binding.Name, phase.String())
		}
		if err := d.invoke(ctx, u, s.Binding); err != nil {
			if mode == stopOnError {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Driver) invoke(ctx context.Context, u *testing.Unit, b *plugin.Binding) error {
	env := plugin.NewEnv(u, b)
	ctx, span := telemetry.StartSpan(ctx, "metaplugin "+b.Name,
		telemetry.Unit(u.Name), telemetry.Plugin(b.Name),
		telemetry.Phase(b.Phase.String()), telemetry.Keys(b.Keys))
	defer span.End()

	logging.Infof(ctx, "Calling metaplugin %s with meta signature %v %s", b.Name, b.Keys, formatArgs(env))
	start := d.clk.Now()
	err := safeInvoke(ctx, b, env)
	elapsed := d.clk.Since(start)

	result := resultOK
	if _, ok := SkipReason(err); ok {
		result = resultSkip
	} else if err != nil {
		result = resultError
		telemetry.RecordError(ctx, err)
		logging.Infof(ctx, "Metaplugin %s failed: %v", b.Name, err)
	}
	telemetry.SetResult(ctx, result)
	d.metrics.observeInvocation(b.Name, b.Phase.String(), result, elapsed)
	logging.Infof(ctx, "Metaplugin %s with meta signature %v has finished (%v)", b.Name, b.Keys, elapsed.Round(time.Millisecond))
	return err
}

// formatArgs renders the arguments of env sorted by name, e.g. "{a=1 b=x}".
func formatArgs(env *plugin.Env) string {
	args := env.Args()
	delete(args, plugin.ItemArg)
	names := maps.Keys(args)
	slices.Sort(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%v", n, args[n])
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Result is the outcome of running a single unit.
type Result struct {
	Name     string
	Metadata meta.Metadata
	Start    time.Time
	End      time.Time

	// SetupErr is the error from setup plugins.
	SetupErr error
	// CallErr is the error from before-run plugins, the body, or after-run
	// plugins.
	CallErr error
	// TeardownErr is the error from teardown plugins.
	TeardownErr error
	// SkipReason is non-empty if the unit was skipped.
	SkipReason string
}

// Skipped reports whether the unit was skipped.
func (r *Result) Skipped() bool {
	return r.SkipReason != ""
}

// Err returns all errors of the unit joined, or nil.
func (r *Result) Err() error {
	return errors.Join(r.SetupErr, r.CallErr, r.TeardownErr)
}

// Passed reports whether the unit ran without errors and was not skipped.
func (r *Result) Passed() bool {
	return !r.Skipped() && r.Err() == nil
}

func (r *Result) result() string {
	switch {
	case r.Err() != nil:
		return resultError
	case r.Skipped():
		return resultSkip
	}
	return resultOK
}

// Run runs u through setup, call and teardown. Teardown always runs; the
// call runs only after a successful setup. Run collects u if needed.
func (d *Driver) Run(ctx context.Context, u *testing.Unit) *Result {
	u.Collect()
	res := &Result{Name: u.Name, Metadata: u.Metadata(), Start: d.clk.Now()}

	ctx = testing.NewContext(ctx, u)
	ctx, span := telemetry.StartSpan(ctx, "unit "+u.Name, telemetry.Unit(u.Name))
	defer span.End()

	if err := d.Setup(ctx, u); err != nil {
		if reason, ok := SkipReason(err); ok {
			res.SkipReason = reason
			logging.Infof(ctx, "Skipping %s: %s", u.Name, reason)
		} else {
			res.SetupErr = err
		}
	} else if err := d.Call(ctx, u, u.Func); err != nil {
		if reason, ok := SkipReason(err); ok {
			res.SkipReason = reason
			logging.Infof(ctx, "Skipping %s: %s", u.Name, reason)
		} else {
			res.CallErr = err
		}
	}
	res.TeardownErr = d.Teardown(ctx, u)
	res.End = d.clk.Now()

	telemetry.RecordError(ctx, res.Err())
	d.metrics.observeUnit(res.result())
	return res
}
