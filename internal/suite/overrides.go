// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package suite

import (
	"os"
	"path"

	"gopkg.in/yaml.v2"

	"github.com/matthewd/cfme-tests/errors"
	"github.com/matthewd/cfme-tests/internal/meta"
	"github.com/matthewd/cfme-tests/internal/testing"
)

// Override adds a declaration to units whose names match a glob pattern.
//
// An overrides file is a YAML list:
//
//	- match: "infra.*"
//	  meta: {skip: true, reason: "infra down"}
type Override struct {
	Match string    `yaml:"match"`
	Meta  meta.Decl `yaml:"meta"`
}

// ReadOverrides reads an overrides file at p.
func ReadOverrides(p string) ([]Override, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var ovs []Override
	if err := yaml.UnmarshalStrict(b, &ovs); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", p)
	}
	for i, ov := range ovs {
		if _, err := path.Match(ov.Match, ""); err != nil {
			return nil, errors.Wrapf(err, "%s: bad pattern %q", p, ov.Match)
		}
		ovs[i].Meta = normalizeDecls([]meta.Decl{ov.Meta})[0]
	}
	return ovs, nil
}

// ApplyOverrides puts matching override declarations in front of the unit
// declarations, so override values win. It must be called before units are
// collected. Overrides listed earlier take precedence over later ones.
func ApplyOverrides(units []*testing.Unit, ovs []Override) {
	for _, u := range units {
		var decls []meta.Decl
		for _, ov := range ovs {
			if ok, _ := path.Match(ov.Match, u.Name); ok {
				decls = append(decls, ov.Meta)
			}
		}
		if len(decls) > 0 {
			u.Meta = append(decls, u.Meta...)
		}
	}
}
