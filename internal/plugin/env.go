// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package plugin

import (
	"github.com/spf13/cast"

	"github.com/matthewd/cfme-tests/internal/testing"
)

// ItemArg is the name under which the unit itself appears in Env.Args.
const ItemArg = "item"

// Env is the argument environment a plugin callback is invoked with.
//
// It holds the unit being run and, for each key required by the winning
// binding, the value of that key in the unit's metadata. Any other name,
// including optional parameters the binding did not require, reads as absent.
type Env struct {
	// Item is the unit the plugin runs for.
	Item *testing.Unit

	args map[string]interface{}
}

// NewEnv builds the environment for invoking b on u.
func NewEnv(u *testing.Unit, b *Binding) *Env {
	args := make(map[string]interface{}, len(b.Keys))
	for _, k := range b.Keys {
		v, _ := u.Lookup(k)
		args[k] = v
	}
	return &Env{Item: u, args: args}
}

// Lookup returns the argument called name and whether it was supplied.
func (e *Env) Lookup(name string) (interface{}, bool) {
	v, ok := e.args[name]
	return v, ok
}

// Arg returns the argument called name, or nil if it was not supplied.
func (e *Env) Arg(name string) interface{} {
	return e.args[name]
}

// Has reports whether the argument called name was supplied.
func (e *Env) Has(name string) bool {
	_, ok := e.args[name]
	return ok
}

// Args returns all arguments, including the unit under ItemArg.
func (e *Env) Args() map[string]interface{} {
	m := make(map[string]interface{}, len(e.args)+1)
	for k, v := range e.args {
		m[k] = v
	}
	m[ItemArg] = e.Item
	return m
}

// String returns the argument called name converted to a string.
func (e *Env) String(name string) string {
	return cast.ToString(e.args[name])
}

// Int returns the argument called name converted to an int.
func (e *Env) Int(name string) int {
	return cast.ToInt(e.args[name])
}

// Bool returns the argument called name converted to a bool.
func (e *Env) Bool(name string) bool {
	return cast.ToBool(e.args[name])
}

// StringMap returns the argument called name converted to a string-keyed map.
func (e *Env) StringMap(name string) map[string]interface{} {
	return cast.ToStringMap(e.args[name])
}
