// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package reporting records unit results into a results directory.
package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"code.cloudfoundry.org/clock"
	"github.com/google/uuid"

	"github.com/matthewd/cfme-tests/errors"
	"github.com/matthewd/cfme-tests/internal/logging"
	"github.com/matthewd/cfme-tests/internal/planner"
	"github.com/matthewd/cfme-tests/internal/testing"
)

const unitsDir = "units"

// Reporter is a planner.OutputStream writing a results directory:
//
//	<dir>/results.json         summary of all units
//	<dir>/units/<name>/log.txt log of each unit
//
// Messages are also copied to a Logger, typically the console. Reporter is
// goroutine-safe.
type Reporter struct {
	dir     string
	console logging.Logger
	clk     clock.Clock

	mu      sync.Mutex
	res     Results
	running map[string]*running
	closed  bool
}

type running struct {
	res  *Result
	sink *logging.WriterSink
	log  *logging.SinkLogger
}

var _ planner.OutputStream = (*Reporter)(nil)

// NewReporter creates dir and returns a Reporter writing into it. A new
// run ID is generated. console may be nil.
func NewReporter(dir string, console logging.Logger, clk clock.Clock) (*Reporter, error) {
	if err := os.MkdirAll(filepath.Join(dir, unitsDir), 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create results dir")
	}
	if clk == nil {
		clk = clock.NewClock()
	}
	return &Reporter{
		dir:     dir,
		console: console,
		clk:     clk,
		res:     Results{RunID: uuid.NewString(), Start: clk.Now()},
		running: make(map[string]*running),
	}, nil
}

// RunID returns the ID of the run being reported.
func (r *Reporter) RunID() string {
	return r.res.RunID
}

func (r *Reporter) print(level logging.Level, format string, args ...interface{}) {
	if r.console != nil {
		r.console.Log(level, r.clk.Now(), fmt.Sprintf(format, args...))
	}
}

// UnitStart implements planner.OutputStream.
func (r *Reporter) UnitStart(u *testing.Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errors.New("reporter already closed")
	}
	if _, ok := r.running[u.Name]; ok {
		return errors.Errorf("unit %s already started", u.Name)
	}

	md, err := EncodeMetadata(u.Metadata())
	if err != nil {
		return errors.Wrapf(err, "unit %s", u.Name)
	}
	rel := filepath.Join(unitsDir, u.Name, "log.txt")
	sink, err := logging.NewFileSink(filepath.Join(r.dir, rel))
	if err != nil {
		return err
	}
	r.running[u.Name] = &running{
		res:  &Result{Name: u.Name, Desc: u.Desc, Metadata: md, Start: r.clk.Now(), LogFile: filepath.ToSlash(rel)},
		sink: sink,
		log:  logging.NewSinkLogger(logging.LevelDebug, true, sink),
	}
	r.print(logging.LevelInfo, "Started %s", u.Name)
	return nil
}

func (r *Reporter) lookup(u *testing.Unit) (*running, error) {
	ru, ok := r.running[u.Name]
	if !ok {
		return nil, errors.Errorf("unit %s not started", u.Name)
	}
	return ru, nil
}

// UnitLog implements planner.OutputStream.
func (r *Reporter) UnitLog(u *testing.Unit, msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ru, err := r.lookup(u)
	if err != nil {
		return err
	}
	r.print(logging.LevelDebug, "[%s] %s", u.Name, msg)
	ru.log.Log(logging.LevelInfo, r.clk.Now(), msg)
	return ru.sink.Err()
}

// UnitError implements planner.OutputStream.
func (r *Reporter) UnitError(u *testing.Unit, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ru, lerr := r.lookup(u)
	if lerr != nil {
		return lerr
	}
	e := newError(r.clk.Now(), err)
	ru.res.Errors = append(ru.res.Errors, e)
	r.print(logging.LevelWarning, "[%s] Error: %s", u.Name, e.Reason)
	ru.log.Log(logging.LevelWarning, e.Time, "Error: "+e.Stack)
	return ru.sink.Err()
}

// UnitEnd implements planner.OutputStream.
func (r *Reporter) UnitEnd(u *testing.Unit, res *planner.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ru, err := r.lookup(u)
	if err != nil {
		return err
	}
	delete(r.running, u.Name)

	ru.res.End = r.clk.Now()
	ru.res.SkipReason = res.SkipReason
	r.res.Units = append(r.res.Units, ru.res)
	switch {
	case len(ru.res.Errors) > 0:
		r.res.Failed++
		r.print(logging.LevelInfo, "Finished %s: FAIL", u.Name)
	case res.Skipped():
		r.res.Skipped++
		r.print(logging.LevelInfo, "Finished %s: SKIP (%s)", u.Name, res.SkipReason)
	default:
		r.res.Passed++
		r.print(logging.LevelInfo, "Finished %s: PASS", u.Name)
	}
	return ru.sink.Close()
}

// Close writes the results file. Units still running are recorded with a
// zero end time and an error.
func (r *Reporter) Close() (*Results, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, errors.New("reporter already closed")
	}
	r.closed = true

	now := r.clk.Now()
	for name, ru := range r.running {
		ru.res.Errors = append(ru.res.Errors, Error{Time: now, Reason: "unit did not finish"})
		r.res.Units = append(r.res.Units, ru.res)
		r.res.Failed++
		ru.sink.Close()
		delete(r.running, name)
	}
	r.res.End = now
	if err := WriteResults(filepath.Join(r.dir, ResultsFilename), &r.res); err != nil {
		return nil, errors.Wrap(err, "failed to write results")
	}
	res := r.res
	return &res, nil
}
