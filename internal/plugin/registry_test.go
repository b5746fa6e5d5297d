// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package plugin

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matthewd/cfme-tests/internal/meta"
)

func nopFunc(context.Context, *Env) error { return nil }

// signatures returns Signature() of each binding.
func signatures(bs []*Binding) []string {
	var sigs []string
	for _, b := range bs {
		sigs = append(sigs, b.Signature())
	}
	return sigs
}

func TestRegisterDefaults(t *testing.T) {
	reg := NewRegistry()
	reg.Register("blockers", nil)(nopFunc)
	reg.Register("server_roles", []string{"server_roles", "appliance"}, Run(BeforeRun))(nopFunc)
	if errs := reg.Errors(); len(errs) > 0 {
		t.Fatal("Registration failed: ", errs)
	}

	want := []string{"blockers[blockers] setup", "server_roles[server_roles appliance] before_run"}
	if diff := cmp.Diff(signatures(reg.Bindings()), want); diff != "" {
		t.Errorf("Bindings mismatch (-got +want):\n%s", diff)
	}
}

func TestRegisterReturnsCallbackUnchanged(t *testing.T) {
	reg := NewRegistry()
	called := 0
	f := func(context.Context, *Env) error {
		called++
		return nil
	}
	// Stack two registrations on the same callback.
	g := reg.Register("foo", []string{"foo"})(reg.Register("foo", []string{"foo", "bar"})(f))
	if err := g(context.Background(), nil); err != nil {
		t.Fatal("Returned callback failed: ", err)
	}
	if called != 1 {
		t.Errorf("Returned callback called the original %d times; want 1", called)
	}

	want := []string{"foo[foo bar] setup", "foo[foo] setup"}
	if diff := cmp.Diff(signatures(reg.Bindings()), want); diff != "" {
		t.Errorf("Bindings mismatch (-got +want):\n%s", diff)
	}
}

func TestPluginBuilder(t *testing.T) {
	reg := NewRegistry()
	reg.Plugin("workdir").
		Variant(nil, nopFunc, Desc("create a directory")).
		Variant([]string{"workdir", "keep"}, nopFunc).
		Variant(nil, nopFunc, Run(Teardown))
	reg.Plugin("env").Variant(nil, nopFunc, Run(BeforeRun))
	if errs := reg.Errors(); len(errs) > 0 {
		t.Fatal("Registration failed: ", errs)
	}

	if p := reg.Plugin("workdir"); p.Name() != "workdir" {
		t.Errorf("Plugin name = %q; want workdir", p.Name())
	}
	want := []string{"workdir[workdir] setup", "workdir[workdir keep] setup", "workdir[workdir] teardown"}
	if diff := cmp.Diff(signatures(reg.Plugin("workdir").Bindings()), want); diff != "" {
		t.Errorf("Variants mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(reg.Names(), []string{"workdir", "env"}); diff != "" {
		t.Errorf("Names mismatch (-got +want):\n%s", diff)
	}
	for i, b := range reg.Bindings() {
		if b.Seq() != i {
			t.Errorf("Binding %d has sequence %d", i, b.Seq())
		}
	}
}

func TestRegisterErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		reg  func(r *Registry)
	}{
		{"emptyName", func(r *Registry) { r.Register("", nil)(nopFunc) }},
		{"emptyKeys", func(r *Registry) { r.Register("foo", []string{})(nopFunc) }},
		{"emptyKey", func(r *Registry) { r.Register("foo", []string{"foo", ""})(nopFunc) }},
		{"dupKey", func(r *Registry) { r.Register("foo", []string{"foo", "foo"})(nopFunc) }},
		{"reservedKey", func(r *Registry) { r.Register("foo", []string{ItemArg})(nopFunc) }},
		{"nilFunc", func(r *Registry) { r.Register("foo", nil)(nil) }},
		{"badPhase", func(r *Registry) { r.Register("foo", nil, Run(Phase(42)))(nopFunc) }},
		{"badOptional", func(r *Registry) { r.Register("foo", nil, Optional(""))(nopFunc) }},
		{"sealed", func(r *Registry) {
			r.Seal()
			r.Register("foo", nil)(nopFunc)
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			reg := NewRegistry()
			tc.reg(reg)
			errs := reg.Errors()
			if len(errs) != 1 {
				t.Fatalf("Errors() = %v; want exactly one error", errs)
			}
			if _, ok := errs[0].(*RegistrationError); !ok {
				t.Errorf("Error %v has type %T; want *RegistrationError", errs[0], errs[0])
			}
			if n := len(reg.Bindings()); n != 0 {
				t.Errorf("Malformed registration added %d bindings", n)
			}
		})
	}
}

func TestBindingsAreCopies(t *testing.T) {
	reg := NewRegistry()
	reg.Register("foo", []string{"foo", "bar"})(nopFunc)
	bs := reg.Bindings()
	bs[0].Keys[0] = "changed"
	bs[0].Name = "changed"
	if got := reg.Bindings()[0].Signature(); got != "foo[foo bar] setup" {
		t.Errorf("Registry binding changed through a copy: %s", got)
	}
}

func TestResolvedBindingsAreCopies(t *testing.T) {
	reg := NewRegistry()
	reg.Register("foo", []string{"a"})(nopFunc)
	reg.Register("foo", []string{"b"})(nopFunc)
	reg.Seal()
	md := meta.Metadata{"a": 1, "b": 2}

	sels := reg.Resolve(md, Setup)
	sels[0].Binding.Keys[0] = "changed"
	sels[0].Ties[0].Keys[0] = "changed"

	sels = reg.Resolve(md, Setup)
	if got := sels[0].Binding.Signature(); got != "foo[a] setup" {
		t.Errorf("Winner changed through a resolved copy: %s", got)
	}
	if got := sels[0].Ties[0].Signature(); got != "foo[b] setup" {
		t.Errorf("Tie changed through a resolved copy: %s", got)
	}
}

func TestDefaultRegistry(t *testing.T) {
	restore := SetDefaultForTesting(NewRegistry())
	defer restore()

	Register("foo", nil)(nopFunc)
	first := Default()
	second := Default()
	if first != second {
		t.Fatal("Default returned different registries")
	}
	if n := len(second.Bindings()); n != 1 {
		t.Errorf("Default registry has %d bindings after repeated construction; want 1", n)
	}
}

func TestSetDefaultForTestingRestores(t *testing.T) {
	orig := Default()
	reg := NewRegistry()
	restore := SetDefaultForTesting(reg)
	if Default() != reg {
		t.Error("Default did not return the registry set for testing")
	}
	restore()
	if Default() != orig {
		t.Error("Default was not restored")
	}
}

func TestParsePhase(t *testing.T) {
	for _, p := range Phases {
		got, err := ParsePhase(p.String())
		if err != nil {
			t.Errorf("ParsePhase(%q) failed: %v", p.String(), err)
		} else if got != p {
			t.Errorf("ParsePhase(%q) = %v; want %v", p.String(), got, p)
		}
	}
	if _, err := ParsePhase("during"); err == nil {
		t.Error("ParsePhase(during) unexpectedly succeeded")
	}
	if s := Phase(9).String(); s != "Phase(9)" {
		t.Errorf("Phase(9).String() = %q", s)
	}
}
