// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package testing_test

import (
	"context"
	gotesting "testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matthewd/cfme-tests/internal/planner"
	"github.com/matthewd/cfme-tests/internal/plugin"
	"github.com/matthewd/cfme-tests/testing"
)

func TestRegistrationToDefault(t *gotesting.T) {
	defer plugin.SetDefaultForTesting(plugin.NewRegistry())()

	nop := func(ctx context.Context, env *testing.Env) error { return nil }
	testing.Register("stacked", []string{"stacked", "x"})(testing.Register("stacked", nil)(nop))
	testing.AddPlugin("added", nil, nop, testing.Run(testing.Teardown), testing.Desc("added"))
	testing.Plugin("built").Variant(nil, nop, testing.Optional("extra"))

	reg := testing.DefaultRegistry()
	if errs := reg.Errors(); len(errs) > 0 {
		t.Fatal("Registration failed: ", errs)
	}
	var got []string
	for _, b := range reg.Bindings() {
		got = append(got, b.Signature())
	}
	want := []string{"stacked[stacked] setup", "stacked[stacked x] setup", "added[added] teardown", "built[built] setup"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Bindings mismatch (-got +want):\n%s", diff)
	}
}

func TestMetadataFromContext(t *gotesting.T) {
	if md := testing.MetadataFromContext(context.Background()); md == nil || len(md) != 0 {
		t.Errorf("MetadataFromContext outside a unit = %v; want empty", md)
	}

	d, err := planner.NewDriver(plugin.NewRegistry())
	if err != nil {
		t.Fatal("NewDriver: ", err)
	}
	var got testing.Metadata
	u := &testing.Unit{
		Name: "pkg.Unit",
		Meta: []testing.Decl{{"owner": "qa"}},
		Func: func(ctx context.Context) error {
			got = testing.MetadataFromContext(ctx)
			return nil
		},
	}
	if res := d.Run(context.Background(), u); !res.Passed() {
		t.Fatal("Run failed: ", res.Err())
	}
	if diff := cmp.Diff(got, testing.Metadata{"owner": "qa"}); diff != "" {
		t.Errorf("Metadata mismatch (-got +want):\n%s", diff)
	}
}

func TestSkip(t *gotesting.T) {
	if reason, ok := planner.SkipReason(testing.Skip("later")); !ok || reason != "later" {
		t.Errorf("SkipReason(Skip(later)) = (%q, %v); want (later, true)", reason, ok)
	}
}
