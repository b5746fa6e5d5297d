// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package testing defines test units, the entities metaplugins are
// dispatched for.
package testing

import (
	"context"
	"regexp"
	"sync"

	"github.com/matthewd/cfme-tests/errors"
	"github.com/matthewd/cfme-tests/internal/meta"
)

// Func is the body of a test unit.
type Func func(ctx context.Context) error

// unitNameRegexp validates unit names, e.g. "infra.ProviderCrud" or
// "appliance.Version.rhel8".
var unitNameRegexp = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z0-9_]+)*$`)

// Unit is a single executable test case.
//
// Metadata is declared through Meta and merged once by Collect. After
// collection the merged metadata is fixed for the lifetime of the unit.
type Unit struct {
	// Name is the unique name of the unit.
	Name string

	// Desc is a short one-line description of the unit.
	Desc string

	// Meta lists metadata declarations in source order, topmost first.
	// When several declarations set the same key, the topmost one wins.
	Meta []meta.Decl

	// Func is the body of the unit. A nil Func is a body that always passes.
	Func Func

	once sync.Once
	md   meta.Metadata

	mu   sync.Mutex
	vals map[string]interface{}
}

// Validate returns an error if u is malformed.
func (u *Unit) Validate() error {
	if !unitNameRegexp.MatchString(u.Name) {
		return errors.Errorf("invalid unit name %q", u.Name)
	}
	return nil
}

// Collect merges the metadata declarations of u. Only the first call has an
// effect, so declarations edited after collection are ignored.
func (u *Unit) Collect() {
	u.once.Do(func() {
		u.md = meta.Merge(u.Meta)
	})
}

// Metadata returns a copy of the merged metadata of u, collecting it first
// if needed.
func (u *Unit) Metadata() meta.Metadata {
	u.Collect()
	return u.md.Clone()
}

// Has reports whether all keys are present in the metadata of u.
func (u *Unit) Has(keys ...string) bool {
	u.Collect()
	return u.md.Has(keys...)
}

// Lookup returns the metadata value of key and whether it is present.
func (u *Unit) Lookup(key string) (interface{}, bool) {
	u.Collect()
	return u.md.Lookup(key)
}

// SetValue stores a value on u under key. Plugins use it to hand state from
// one phase to a later one, e.g. a directory created in setup and removed in
// teardown.
func (u *Unit) SetValue(key string, val interface{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.vals == nil {
		u.vals = make(map[string]interface{})
	}
	u.vals[key] = val
}

// Value returns a value previously stored by SetValue, or nil.
func (u *Unit) Value(key string) interface{} {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.vals[key]
}

// Collect merges metadata of all units and validates them. It returns an
// error for a malformed unit or a duplicated name.
func Collect(units []*Unit) error {
	seen := make(map[string]struct{}, len(units))
	for _, u := range units {
		if err := u.Validate(); err != nil {
			return err
		}
		if _, ok := seen[u.Name]; ok {
			return errors.Errorf("unit %q declared more than once", u.Name)
		}
		seen[u.Name] = struct{}{}
		u.Collect()
	}
	return nil
}
