// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package meta

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/known/structpb"
	"pgregory.net/rapid"
)

func TestMerge(t *testing.T) {
	for _, tc := range []struct {
		name  string
		decls []Decl
		want  Metadata
	}{
		{"none", nil, Metadata{}},
		{"single", []Decl{{"a": 1}}, Metadata{"a": 1}},
		{"firstDeclaredWins", []Decl{{"a": 1}, {"a": 2, "b": 3}}, Metadata{"a": 1, "b": 3}},
		{"threeDecls", []Decl{{"x": "top"}, {"y": "mid"}, {"x": "bottom", "z": nil}}, Metadata{"x": "top", "y": "mid", "z": nil}},
		{"emptyDecls", []Decl{{}, nil, {"k": false}}, Metadata{"k": false}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Merge(tc.decls)
			if got == nil {
				t.Fatal("Merge returned nil")
			}
			if diff := cmp.Diff(got, tc.want); diff != "" {
				t.Errorf("Merge(%v) mismatch (-got +want):\n%s", tc.decls, diff)
			}
		})
	}
}

func TestMergeDoesNotAlias(t *testing.T) {
	d := Decl{"a": 1}
	md := Merge([]Decl{d})
	md["a"] = 2
	if d["a"] != 1 {
		t.Errorf("Modifying merged metadata changed the declaration: %v", d)
	}
}

// TestMergeProperty checks that every key comes from the first declaration
// that mentions it.
func TestMergeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SampledFrom([]string{"a", "b", "c", "d"})
		decls := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) Decl {
			d := make(Decl)
			for k, v := range rapid.MapOfN(keys, rapid.IntRange(0, 9), 0, 4).Draw(t, "decl") {
				d[k] = v
			}
			return d
		}), 0, 5).Draw(t, "decls")

		md := Merge(decls)
		want := make(Metadata)
		for _, d := range decls {
			for k, v := range d {
				if _, ok := want[k]; !ok {
					want[k] = v
				}
			}
		}
		if diff := cmp.Diff(md, want); diff != "" {
			t.Fatalf("Merge mismatch (-got +want):\n%s", diff)
		}
	})
}

func TestAccessors(t *testing.T) {
	md := Metadata{
		"name":  "login",
		"count": "3",
		"flag":  "true",
		"empty": nil,
		"tags":  []interface{}{"a", "b"},
		"env":   map[interface{}]interface{}{"FOO": "bar"},
	}

	if v := md.Get("missing"); v != nil {
		t.Errorf("Get(missing) = %v; want nil", v)
	}
	if _, ok := md.Lookup("empty"); !ok {
		t.Error("Lookup(empty) reported absent for a nil-valued key")
	}
	if !md.Has("name", "empty") {
		t.Error("Has(name, empty) = false; want true")
	}
	if md.Has("name", "missing") {
		t.Error("Has(name, missing) = true; want false")
	}
	if !md.Has() {
		t.Error("Has() = false; want true")
	}
	if got := md.String("name"); got != "login" {
		t.Errorf("String(name) = %q; want %q", got, "login")
	}
	if got := md.String("missing"); got != "" {
		t.Errorf("String(missing) = %q; want empty", got)
	}
	if got := md.Int("count"); got != 3 {
		t.Errorf("Int(count) = %d; want 3", got)
	}
	if got := md.Bool("flag"); !got {
		t.Error("Bool(flag) = false; want true")
	}
	if diff := cmp.Diff(md.StringSlice("tags"), []string{"a", "b"}); diff != "" {
		t.Errorf("StringSlice(tags) mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(md.StringMap("env"), map[string]interface{}{"FOO": "bar"}); diff != "" {
		t.Errorf("StringMap(env) mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(md.Keys(), []string{"count", "empty", "env", "flag", "name", "tags"}); diff != "" {
		t.Errorf("Keys mismatch (-got +want):\n%s", diff)
	}
}

func TestProto(t *testing.T) {
	md := Metadata{
		"owner": "qa",
		"tier":  1,
		"env":   map[interface{}]interface{}{"FOO": "bar"},
		"tags":  []string{"smoke"},
		"none":  nil,
	}
	got, err := md.Proto()
	if err != nil {
		t.Fatal("Proto: ", err)
	}
	want, err := structpb.NewStruct(map[string]interface{}{
		"owner": "qa",
		"tier":  1,
		"env":   map[string]interface{}{"FOO": "bar"},
		"tags":  []interface{}{"smoke"},
		"none":  nil,
	})
	if err != nil {
		t.Fatal("NewStruct: ", err)
	}
	if diff := cmp.Diff(got, want, protocmp.Transform()); diff != "" {
		t.Errorf("Proto mismatch (-got +want):\n%s", diff)
	}

	if _, err := (Metadata{"ch": make(chan int)}).Proto(); err == nil {
		t.Error("Proto unexpectedly succeeded for a channel value")
	}
}
