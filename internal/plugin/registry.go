// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package plugin

import (
	"github.com/matthewd/cfme-tests/internal/meta"
)

// Registry holds plugin bindings.
//
// A registry only grows: bindings are appended at registration time, usually
// from init functions, and are never removed. Once sealed, typically when a
// driver starts dispatching, the registry is read-only and may be read from
// multiple goroutines without locking.
type Registry struct {
	bindings []*Binding
	plugins  map[string]*Plugin
	names    []string // plugin names in first-registration order
	errs     []error
	sealed   bool
}

// NewRegistry returns a new empty registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]*Plugin)}
}

// Plugin returns the builder for the plugin called name, creating it on
// first use.
func (r *Registry) Plugin(name string) *Plugin {
	if p, ok := r.plugins[name]; ok {
		return p
	}
	p := &Plugin{reg: r, name: name}
	r.plugins[name] = p
	return p
}

// Register returns a function that registers its argument as a binding of
// the plugin called name and returns the argument unchanged, so one callback
// can be registered under several key sets:
//
//	f := reg.Register("foo", nil)(reg.Register("foo", []string{"foo", "bar"})(fooFunc))
//
// A nil keys means the single key name.
func (r *Registry) Register(name string, keys []string, opts ...Option) func(Func) Func {
	return func(f Func) Func {
		r.add(name, keys, f, opts)
		return f
	}
}

// add validates and appends a binding. Errors are also recorded in r.errs.
func (r *Registry) add(name string, keys []string, f Func, opts []Option) error {
	if keys == nil {
		keys = []string{name}
	}
	b := &Binding{
		Name:  name,
		Keys:  append([]string(nil), keys...),
		Func:  f,
		Phase: DefaultPhase,
	}
	for _, opt := range opts {
		opt(b)
	}
	err := validate(b)
	if err == nil && r.sealed {
		err = &RegistrationError{Name: name, Keys: b.Keys, Reason: "registry is sealed"}
	}
	if err != nil {
		r.errs = append(r.errs, err)
		return err
	}

	b.seq = len(r.bindings)
	r.bindings = append(r.bindings, b)
	r.Plugin(name)
	if !containsName(r.names, name) {
		r.names = append(r.names, name)
	}
	return nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Errors returns registration errors recorded so far.
func (r *Registry) Errors() []error {
	return append([]error(nil), r.errs...)
}

// Seal makes r read-only. Registrations after Seal fail.
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// Bindings returns copies of all bindings in registration order.
func (r *Registry) Bindings() []*Binding {
	bs := make([]*Binding, len(r.bindings))
	for i, b := range r.bindings {
		bs[i] = b.clone()
	}
	return bs
}

// Names returns plugin names in first-registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Resolve selects bindings to run at phase for metadata md. See Resolve.
// Bindings in the result are copies.
func (r *Registry) Resolve(md meta.Metadata, phase Phase) []Selection {
	sels := Resolve(r.bindings, md, phase)
	for i := range sels {
		s := &sels[i]
		s.Binding = s.Binding.clone()
		for j, b := range s.Ties {
			s.Ties[j] = b.clone()
		}
	}
	return sels
}
