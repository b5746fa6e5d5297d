// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package plugin

import (
	"context"
	"fmt"
	"strings"
)

// Func is the callback of a plugin binding.
type Func func(ctx context.Context, env *Env) error

// Binding is one registered arity variant of a named plugin: the plugin runs
// Func at Phase for units whose metadata contains all of Keys.
type Binding struct {
	// Name is the plugin name. Bindings sharing a name are alternatives;
	// at most one of them runs per unit and phase.
	Name string
	// Keys lists metadata keys that must all be present. It is never empty.
	Keys []string
	// Optional lists parameter names the callback reads when present but
	// does not require. They read as absent unless the winning binding
	// requires them too.
	Optional []string
	// Func is the callback.
	Func Func
	// Phase is the lifecycle phase the binding runs at.
	Phase Phase
	// Desc is a short description of the binding.
	Desc string

	seq int // registration order within the registry
}

// Seq returns the registration sequence number of b. Bindings registered
// earlier have smaller numbers.
func (b *Binding) Seq() int { return b.seq }

// Signature describes b in the form used in logs, e.g. "foo[x y] before_run".
func (b *Binding) Signature() string {
	return fmt.Sprintf("%s[%s] %v", b.Name, strings.Join(b.Keys, " "), b.Phase)
}

func (b *Binding) clone() *Binding {
	c := *b
	c.Keys = append([]string(nil), b.Keys...)
	c.Optional = append([]string(nil), b.Optional...)
	return &c
}

// Option customizes a binding at registration.
type Option func(b *Binding)

// Run selects the phase a binding runs at. The default is Setup.
func Run(p Phase) Option {
	return func(b *Binding) { b.Phase = p }
}

// Optional declares parameter names the callback accepts without requiring
// them.
func Optional(names ...string) Option {
	return func(b *Binding) { b.Optional = append(b.Optional, names...) }
}

// Desc sets the description of a binding.
func Desc(desc string) Option {
	return func(b *Binding) { b.Desc = desc }
}

// RegistrationError reports a malformed plugin registration.
type RegistrationError struct {
	Name   string
	Keys   []string
	Reason string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("plugin %q %v: %s", e.Name, e.Keys, e.Reason)
}

// validate checks b and returns a *RegistrationError if it is malformed.
func validate(b *Binding) error {
	fail := func(format string, args ...interface{}) error {
		return &RegistrationError{Name: b.Name, Keys: b.Keys, Reason: fmt.Sprintf(format, args...)}
	}
	if b.Name == "" {
		return fail("empty name")
	}
	if len(b.Keys) == 0 {
		return fail("empty key list")
	}
	if b.Func == nil {
		return fail("nil callback")
	}
	if !b.Phase.valid() {
		return fail("unknown phase %v", b.Phase)
	}
	seen := make(map[string]struct{}, len(b.Keys))
	for _, k := range b.Keys {
		if k == "" {
			return fail("empty key")
		}
		if k == ItemArg {
			return fail("key %q is reserved", ItemArg)
		}
		if _, ok := seen[k]; ok {
			return fail("duplicated key %q", k)
		}
		seen[k] = struct{}{}
	}
	for _, o := range b.Optional {
		if o == "" || o == ItemArg {
			return fail("invalid optional parameter %q", o)
		}
	}
	return nil
}

// Plugin is a named plugin under construction. Each call to Variant appends
// one arity variant, i.e. one binding sharing the plugin's name.
type Plugin struct {
	reg  *Registry
	name string
}

// Name returns the plugin name.
func (p *Plugin) Name() string { return p.name }

// Variant registers f to run when all keys are present. A nil keys means
// the single key named after the plugin. Errors are recorded in the
// registry; see Registry.Errors.
func (p *Plugin) Variant(keys []string, f Func, opts ...Option) *Plugin {
	p.reg.add(p.name, keys, f, opts)
	return p
}

// Bindings returns copies of the variants of p in registration order.
func (p *Plugin) Bindings() []*Binding {
	var bs []*Binding
	for _, b := range p.reg.Bindings() {
		if b.Name == p.name {
			bs = append(bs, b)
		}
	}
	return bs
}
