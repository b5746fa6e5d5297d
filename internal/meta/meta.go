// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package meta holds free-form key/value metadata attached to test units.
//
// A test unit carries zero or more declarations (Decl), written in source
// order. Merge flattens them into a single Metadata map that metaplugins are
// dispatched on. Only the presence of a key matters for dispatch; values are
// handed to plugins untouched.
package meta

import (
	"fmt"

	"github.com/spf13/cast"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/matthewd/cfme-tests/errors"
)

// MarkerDoc is the one-line description of the metadata marker.
const MarkerDoc = "meta(**metadata): Marker for metadata addition."

// Decl is a single metadata declaration attached to a test unit.
type Decl map[string]interface{}

// Metadata is the merged metadata of a test unit.
//
// Reading a key that is not present is never an error: Get returns nil and
// the typed accessors return zero values.
type Metadata map[string]interface{}

// Merge flattens decls, given in declaration order, into Metadata.
//
// Declarations are applied from the last one to the first one, so when a key
// appears in several declarations the value from the first-declared one
// wins. The result is never nil, even for zero declarations.
func Merge(decls []Decl) Metadata {
	md := make(Metadata)
	for i := len(decls) - 1; i >= 0; i-- {
		for k, v := range decls[i] {
			md[k] = v
		}
	}
	return md
}

// Get returns the value of key, or nil if it is absent.
func (m Metadata) Get(key string) interface{} {
	return m[key]
}

// Lookup returns the value of key and whether it is present. A key present
// with a nil value reports ok == true.
func (m Metadata) Lookup(key string) (val interface{}, ok bool) {
	val, ok = m[key]
	return val, ok
}

// Has reports whether all keys are present in m, regardless of their values.
func (m Metadata) Has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

// Keys returns the keys of m in sorted order.
func (m Metadata) Keys() []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// Clone returns a shallow copy of m.
func (m Metadata) Clone() Metadata {
	c := make(Metadata, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// String returns the value of key converted to a string.
func (m Metadata) String(key string) string {
	return cast.ToString(m[key])
}

// Int returns the value of key converted to an int.
func (m Metadata) Int(key string) int {
	return cast.ToInt(m[key])
}

// Bool returns the value of key converted to a bool.
func (m Metadata) Bool(key string) bool {
	return cast.ToBool(m[key])
}

// StringSlice returns the value of key converted to a string slice.
func (m Metadata) StringSlice(key string) []string {
	return cast.ToStringSlice(m[key])
}

// StringMap returns the value of key converted to a map keyed by strings.
// Nested maps decoded from YAML are accepted.
func (m Metadata) StringMap(key string) map[string]interface{} {
	return cast.ToStringMap(m[key])
}

// Proto converts m to a protobuf Struct. Values must be representable in
// JSON; see Normalize for maps decoded from YAML.
func (m Metadata) Proto() (*structpb.Struct, error) {
	s, err := structpb.NewStruct(Normalize(map[string]interface{}(m)).(map[string]interface{}))
	if err != nil {
		return nil, errors.Wrap(err, "metadata not representable")
	}
	return s, nil
}

// Normalize converts map[interface{}]interface{} values, as produced by YAML
// decoders, into map[string]interface{} recursively. Other values are
// returned as they are.
func Normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = Normalize(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, e := range x {
			out[k] = Normalize(e)
		}
		return out
	case Decl:
		return Normalize(map[string]interface{}(x))
	case Metadata:
		return Normalize(map[string]interface{}(x))
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = Normalize(e)
		}
		return out
	case []string:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out
	}
	return v
}
