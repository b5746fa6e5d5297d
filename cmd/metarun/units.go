// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"flag"
	"path"

	"github.com/matthewd/cfme-tests/errors"
	"github.com/matthewd/cfme-tests/internal/suite"
	"github.com/matthewd/cfme-tests/internal/testing"
)

// unitFlags holds flags shared by commands that read suite files.
type unitFlags struct {
	overrides string   // path to an overrides file
	patterns  []string // glob patterns selecting units
}

func (uf *unitFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&uf.overrides, "overrides", "", "YAML file with metadata overrides")
	f.Func("match", "glob selecting units to use (repeatable)", func(s string) error {
		if _, err := path.Match(s, ""); err != nil {
			return err
		}
		uf.patterns = append(uf.patterns, s)
		return nil
	})
}

// load reads units from paths, applies overrides, and filters units by the
// patterns.
func (uf *unitFlags) load(paths []string) ([]*testing.Unit, error) {
	if len(paths) == 0 {
		return nil, errors.New("no suite files given")
	}
	units, err := suite.LoadPaths(paths)
	if err != nil {
		return nil, err
	}
	if uf.overrides != "" {
		ovs, err := suite.ReadOverrides(uf.overrides)
		if err != nil {
			return nil, err
		}
		suite.ApplyOverrides(units, ovs)
	}
	if len(uf.patterns) == 0 {
		return units, nil
	}
	var matched []*testing.Unit
	for _, u := range units {
		for _, p := range uf.patterns {
			if ok, _ := path.Match(p, u.Name); ok {
				matched = append(matched, u)
				break
			}
		}
	}
	return matched, nil
}
