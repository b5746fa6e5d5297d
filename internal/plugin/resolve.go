// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package plugin

import (
	"github.com/matthewd/cfme-tests/internal/meta"
)

// Selection is the binding chosen for one plugin name.
type Selection struct {
	// Binding is the winning binding.
	Binding *Binding
	// Ties lists other eligible bindings of the same name that require as
	// many keys as Binding. They lost only because they were registered
	// later.
	Ties []*Binding
}

// Resolve selects the bindings to run at phase for a unit with metadata md.
//
// bindings must be in registration order. A binding is eligible if it runs
// at phase and every one of its keys is present in md, whatever the value.
// Among eligible bindings sharing a name, the one requiring the most keys
// wins; on equal counts the earliest registered wins. Selections are ordered
// by the earliest eligible binding of each name.
//
// Resolve does not call any plugin.
func Resolve(bindings []*Binding, md meta.Metadata, phase Phase) []Selection {
	var sels []*Selection
	byName := make(map[string]*Selection)
	for _, b := range bindings {
		if b.Phase != phase || !md.Has(b.Keys...) {
			continue
		}
		s, ok := byName[b.Name]
		if !ok {
			s = &Selection{Binding: b}
			byName[b.Name] = s
			sels = append(sels, s)
			continue
		}
		switch {
		case len(b.Keys) > len(s.Binding.Keys):
			s.Binding = b
			s.Ties = nil
		case len(b.Keys) == len(s.Binding.Keys):
			s.Ties = append(s.Ties, b)
		}
	}

	res := make([]Selection, len(sels))
	for i, s := range sels {
		res[i] = *s
	}
	return res
}
