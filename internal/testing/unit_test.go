// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package testing

import (
	"context"
	gotesting "testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matthewd/cfme-tests/internal/meta"
)

func TestUnitCollectOnce(t *gotesting.T) {
	u := &Unit{
		Name: "infra.Providers",
		Meta: []meta.Decl{{"owner": "qa"}, {"owner": "dev", "tier": 2}},
	}
	u.Collect()
	u.Meta = append(u.Meta, meta.Decl{"late": true})
	u.Collect()

	want := meta.Metadata{"owner": "qa", "tier": 2}
	if diff := cmp.Diff(u.Metadata(), want); diff != "" {
		t.Errorf("Metadata mismatch (-got +want):\n%s", diff)
	}
}

func TestUnitMetadataIsCopy(t *gotesting.T) {
	u := &Unit{Name: "infra.Providers", Meta: []meta.Decl{{"owner": "qa"}}}
	md := u.Metadata()
	md["owner"] = "someone else"
	if got := u.Metadata().String("owner"); got != "qa" {
		t.Errorf("Metadata owner = %q after modifying a copy; want %q", got, "qa")
	}
}

func TestUnitWithoutDecls(t *gotesting.T) {
	u := &Unit{Name: "appliance.Version"}
	md := u.Metadata()
	if md == nil || len(md) != 0 {
		t.Errorf("Metadata() = %#v; want empty non-nil map", md)
	}
	if v, ok := u.Lookup("anything"); ok || v != nil {
		t.Errorf("Lookup(anything) = (%v, %v); want (nil, false)", v, ok)
	}
}

func TestUnitValues(t *gotesting.T) {
	u := &Unit{Name: "cloud.TagCloud"}
	if v := u.Value("workdir"); v != nil {
		t.Errorf("Value(workdir) = %v before SetValue; want nil", v)
	}
	u.SetValue("workdir", "/tmp/x")
	if v := u.Value("workdir"); v != "/tmp/x" {
		t.Errorf("Value(workdir) = %v; want /tmp/x", v)
	}
}

func TestCollect(t *gotesting.T) {
	units := []*Unit{
		{Name: "perf.UIOptimize", Meta: []meta.Decl{{"blockers": []int{1}}}},
		{Name: "perf.UIOptimize.fast"},
	}
	if err := Collect(units); err != nil {
		t.Fatal("Collect: ", err)
	}
	if !units[0].Has("blockers") {
		t.Error("First unit lost its metadata")
	}

	for _, tc := range []struct {
		name  string
		units []*Unit
	}{
		{"badName", []*Unit{{Name: "1bad"}}},
		{"emptyName", []*Unit{{}}},
		{"duplicate", []*Unit{{Name: "a.B"}, {Name: "a.B"}}},
	} {
		if err := Collect(tc.units); err == nil {
			t.Errorf("%s: Collect unexpectedly succeeded", tc.name)
		}
	}
}

func TestContextMetadata(t *gotesting.T) {
	ctx := context.Background()
	if md := ContextMetadata(ctx); md == nil || len(md) != 0 {
		t.Errorf("ContextMetadata without unit = %#v; want empty", md)
	}

	u := &Unit{Name: "a.B", Meta: []meta.Decl{{"k": "v"}}}
	ctx = NewContext(ctx, u)
	if got, ok := UnitFromContext(ctx); !ok || got != u {
		t.Errorf("UnitFromContext = (%v, %v); want (%v, true)", got, ok, u)
	}
	if got := ContextMetadata(ctx).String("k"); got != "v" {
		t.Errorf("ContextMetadata k = %q; want v", got)
	}
}
