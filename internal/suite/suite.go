// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package suite reads units and their metadata from YAML suite files.
//
// A suite file looks like:
//
//	meta:                     # declarations appended to every unit
//	  - {tier: 2}
//	units:
//	  - name: infra.Login
//	    desc: Logs in to the appliance
//	    meta:
//	      - {owner: qa, workdir: true}
//	      - {tier: 1}
//	    command: ./login.sh --user admin
//
// Unit declarations come before suite declarations, so a unit's own values
// take precedence.
package suite

import (
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v2"

	"github.com/matthewd/cfme-tests/errors"
	"github.com/matthewd/cfme-tests/internal/meta"
	"github.com/matthewd/cfme-tests/internal/testing"
)

// File is the content of a suite file.
type File struct {
	Meta  []meta.Decl `yaml:"meta"`
	Units []UnitSpec  `yaml:"units"`
}

// UnitSpec describes a single unit in a suite file.
type UnitSpec struct {
	Name    string      `yaml:"name"`
	Desc    string      `yaml:"desc"`
	Meta    []meta.Decl `yaml:"meta"`
	Command string      `yaml:"command"`
}

// Parse parses the content of a suite file. name is used in error messages.
func Parse(name string, b []byte) ([]*testing.Unit, error) {
	var f File
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", name)
	}
	suiteMeta := normalizeDecls(f.Meta)

	units := make([]*testing.Unit, 0, len(f.Units))
	for i, us := range f.Units {
		if us.Name == "" {
			return nil, errors.Errorf("%s: unit #%d has no name", name, i)
		}
		u := &testing.Unit{
			Name: us.Name,
			Desc: us.Desc,
			Meta: append(normalizeDecls(us.Meta), suiteMeta...),
		}
		if us.Command != "" {
			fn, err := commandFunc(us.Command)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: unit %s", name, us.Name)
			}
			u.Func = fn
		}
		if err := u.Validate(); err != nil {
			return nil, errors.Wrap(err, name)
		}
		units = append(units, u)
	}
	return units, nil
}

// normalizeDecls converts nested maps decoded from YAML to string-keyed maps.
func normalizeDecls(decls []meta.Decl) []meta.Decl {
	out := make([]meta.Decl, len(decls))
	for i, d := range decls {
		nd := make(meta.Decl, len(d))
		for k, v := range d {
			nd[k] = meta.Normalize(v)
		}
		out[i] = nd
	}
	return out
}

// Load reads units from the suite file at path.
func Load(path string) ([]*testing.Unit, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, b)
}

// findFiles returns paths to suite files under dir in a stable order.
func findFiles(dir string) ([]string, error) {
	var paths []string
	if err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && (filepath.Ext(path) == ".yaml" || filepath.Ext(path) == ".yml") {
			paths = append(paths, path)
		}
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "couldn't walk suite dir")
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadPaths reads units from paths. A directory is searched recursively
// for .yaml and .yml files.
func LoadPaths(paths []string) ([]*testing.Unit, error) {
	var units []*testing.Unit
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		files := []string{p}
		if fi.IsDir() {
			if files, err = findFiles(p); err != nil {
				return nil, err
			}
		}
		for _, f := range files {
			us, err := Load(f)
			if err != nil {
				return nil, err
			}
			units = append(units, us...)
		}
	}
	return units, nil
}
