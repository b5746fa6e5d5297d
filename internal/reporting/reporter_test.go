// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package reporting

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	gotesting "testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"

	"github.com/matthewd/cfme-tests/errors"
	"github.com/matthewd/cfme-tests/internal/logging"
	"github.com/matthewd/cfme-tests/internal/logging/loggingtest"
	"github.com/matthewd/cfme-tests/internal/meta"
	"github.com/matthewd/cfme-tests/internal/planner"
	"github.com/matthewd/cfme-tests/internal/plugin"
	"github.com/matthewd/cfme-tests/internal/testing"
	"github.com/matthewd/cfme-tests/testutil"
)

func TestReporter(t *gotesting.T) {
	fclk := fakeclock.NewFakeClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	reg := plugin.NewRegistry()
	reg.Plugin("skip").Variant(nil, func(ctx context.Context, env *plugin.Env) error {
		return planner.Skip(env.String("skip"))
	})
	reg.Plugin("greet").Variant(nil, func(ctx context.Context, env *plugin.Env) error {
		logging.Infof(ctx, "Hello %s", env.String("greet"))
		fclk.Increment(time.Second)
		return nil
	})
	d, err := planner.NewDriver(reg, planner.WithClock(fclk))
	if err != nil {
		t.Fatal("NewDriver: ", err)
	}

	dir := t.TempDir()
	console := loggingtest.NewLogger(t, logging.LevelInfo)
	r, err := NewReporter(dir, console, fclk)
	if err != nil {
		t.Fatal("NewReporter: ", err)
	}
	if _, err := uuid.Parse(r.RunID()); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", r.RunID(), err)
	}

	units := []*testing.Unit{
		{Name: "pkg.Pass", Desc: "passes", Meta: []meta.Decl{{"greet": "world", "tags": []string{"a"}}}},
		{Name: "pkg.Fail", Func: func(ctx context.Context) error { return errors.New("broken") }},
		{Name: "pkg.Skip", Meta: []meta.Decl{{"skip": "not now"}}},
	}
	if err := planner.RunUnits(context.Background(), d, units, r, nil); err != nil {
		t.Fatal("RunUnits: ", err)
	}
	got, err := r.Close()
	if err != nil {
		t.Fatal("Close: ", err)
	}

	read, err := ReadResults(filepath.Join(dir, ResultsFilename))
	if err != nil {
		t.Fatal("ReadResults: ", err)
	}
	if diff := cmp.Diff(read, got, cmpopts.IgnoreFields(Result{}, "Metadata"), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Results file mismatch (-got +want):\n%s", diff)
	}
	if got.Passed != 1 || got.Failed != 1 || got.Skipped != 1 {
		t.Errorf("Summary = %d passed, %d failed, %d skipped; want 1 each", got.Passed, got.Failed, got.Skipped)
	}

	pass := got.Units[0]
	var md map[string]interface{}
	if err := json.Unmarshal(pass.Metadata, &md); err != nil {
		t.Fatal("Unmarshal metadata: ", err)
	}
	if diff := cmp.Diff(md, map[string]interface{}{"greet": "world", "tags": []interface{}{"a"}}); diff != "" {
		t.Errorf("Metadata mismatch (-got +want):\n%s", diff)
	}
	if d := pass.End.Sub(pass.Start); d != time.Second {
		t.Errorf("pkg.Pass took %v; want 1s", d)
	}

	fail := got.Units[1]
	if len(fail.Errors) != 1 || fail.Errors[0].Reason != "broken" {
		t.Fatalf("pkg.Fail errors = %+v; want one error \"broken\"", fail.Errors)
	}
	if filepath.Base(fail.Errors[0].File) != "reporter_test.go" {
		t.Errorf("pkg.Fail error location = %s; want reporter_test.go", fail.Errors[0].File)
	}
	if got.Units[2].SkipReason != "not now" {
		t.Errorf("pkg.Skip SkipReason = %q; want %q", got.Units[2].SkipReason, "not now")
	}

	files, err := testutil.ReadFiles(dir)
	if err != nil {
		t.Fatal("ReadFiles: ", err)
	}
	if log := files[pass.LogFile]; !strings.Contains(log, "Hello world") {
		t.Errorf("pkg.Pass log %q lacks plugin output", log)
	}
	if !strings.Contains(console.String(), "Finished pkg.Fail: FAIL") {
		t.Errorf("Console %q lacks failure summary", console.String())
	}
}

func TestReporterUnfinished(t *gotesting.T) {
	r, err := NewReporter(t.TempDir(), nil, nil)
	if err != nil {
		t.Fatal("NewReporter: ", err)
	}
	u := &testing.Unit{Name: "pkg.Hang"}
	if err := r.UnitStart(u); err != nil {
		t.Fatal("UnitStart: ", err)
	}
	if err := r.UnitStart(u); err == nil {
		t.Error("Second UnitStart succeeded")
	}
	res, err := r.Close()
	if err != nil {
		t.Fatal("Close: ", err)
	}
	if res.Failed != 1 || len(res.Units) != 1 || len(res.Units[0].Errors) != 1 {
		t.Errorf("Results = %+v; want one failed unit", res)
	}
	if err := r.UnitLog(u, "late"); err == nil {
		t.Error("UnitLog succeeded after Close")
	}
	if _, err := r.Close(); err == nil {
		t.Error("Second Close succeeded")
	}
}

func TestEncodeMetadataFallback(t *gotesting.T) {
	b, err := EncodeMetadata(meta.Metadata{
		"ch":     make(chan int),
		"n":      1,
		"owner":  "\xff",
		"\xfeid": "x",
		"tags":   []string{"ok", "b\xffd"},
	})
	if err != nil {
		t.Fatal("EncodeMetadata: ", err)
	}
	var md map[string]interface{}
	if err := json.Unmarshal(b, &md); err != nil {
		t.Fatal("Unmarshal: ", err)
	}
	if _, ok := md["ch"].(string); !ok {
		t.Errorf("ch = %v; want a string", md["ch"])
	}
	delete(md, "ch")
	want := map[string]interface{}{
		"n":        1.0,
		"owner":    "\uFFFD",
		"\uFFFDid": "x",
		"tags":     "[ok b\uFFFDd]",
	}
	if diff := cmp.Diff(md, want); diff != "" {
		t.Errorf("Metadata mismatch (-got +want):\n%s", diff)
	}
}

func TestReporterInvalidMetadata(t *gotesting.T) {
	fclk := fakeclock.NewFakeClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	d, err := planner.NewDriver(plugin.NewRegistry(), planner.WithClock(fclk))
	if err != nil {
		t.Fatal("NewDriver: ", err)
	}
	r, err := NewReporter(t.TempDir(), loggingtest.NewLogger(t, logging.LevelInfo), fclk)
	if err != nil {
		t.Fatal("NewReporter: ", err)
	}

	ran := 0
	body := func(ctx context.Context) error {
		ran++
		return nil
	}
	units := []*testing.Unit{
		{Name: "pkg.Bad", Meta: []meta.Decl{{"owner": "\xff"}}, Func: body},
		{Name: "pkg.Good", Func: body},
	}
	if err := planner.RunUnits(context.Background(), d, units, r, &planner.Config{Workers: 1}); err != nil {
		t.Fatal("RunUnits: ", err)
	}
	res, err := r.Close()
	if err != nil {
		t.Fatal("Close: ", err)
	}
	if ran != 2 || res.Passed != 2 {
		t.Errorf("Ran %d bodies with %d passed; want 2 and 2", ran, res.Passed)
	}
}
