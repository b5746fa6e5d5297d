// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/matthewd/cfme-tests/errors"
	"github.com/matthewd/cfme-tests/internal/meta"
)

// ResultsFilename is the name of the results file in the results directory.
const ResultsFilename = "results.json"

// Error describes an error encountered while running a unit.
type Error struct {
	Time   time.Time `json:"time"`
	Reason string    `json:"reason"`
	File   string    `json:"file,omitempty"`
	Line   int       `json:"line,omitempty"`
	Stack  string    `json:"stack"`
}

// Result represents the result of a single unit.
type Result struct {
	Name string `json:"name"`
	Desc string `json:"desc,omitempty"`
	// Metadata is the merged metadata of the unit as a JSON object.
	Metadata json.RawMessage `json:"metadata"`
	// Errors contains errors encountered while running the unit. If it is
	// empty and SkipReason is empty, the unit passed.
	Errors     []Error   `json:"errors"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	SkipReason string    `json:"skipReason,omitempty"`
	// LogFile is the path of the unit log relative to the results directory.
	LogFile string `json:"logFile"`
}

// Results is the content of a results file.
type Results struct {
	RunID   string    `json:"runId"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Passed  int       `json:"passed"`
	Failed  int       `json:"failed"`
	Skipped int       `json:"skipped"`
	Units   []*Result `json:"units"`
}

// newError converts err reported at ts to Error.
func newError(ts time.Time, err error) Error {
	e := Error{Time: ts, Reason: err.Error(), Stack: fmt.Sprintf("%+v", err)}
	if file, line, ok := errors.Location(err); ok {
		e.File, e.Line = file, line
	}
	return e
}

// EncodeMetadata encodes md as a JSON object. Values that cannot be
// represented in JSON are replaced by their default string format, and
// invalid UTF-8 in keys and strings is replaced by U+FFFD.
func EncodeMetadata(md meta.Metadata) (json.RawMessage, error) {
	s, err := md.Proto()
	if err != nil {
		s = &structpb.Struct{Fields: make(map[string]*structpb.Value, len(md))}
		for k, v := range md {
			s.Fields[strings.ToValidUTF8(k, invalidRune)] = printableValue(v)
		}
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal metadata")
	}
	return json.RawMessage(b), nil
}

const invalidRune = "\uFFFD"

// printableValue converts v to a protobuf value, falling back to a string
// if v is not representable.
func printableValue(v interface{}) *structpb.Value {
	if pv, err := structpb.NewValue(meta.Normalize(v)); err == nil {
		return pv
	}
	return structpb.NewStringValue(strings.ToValidUTF8(fmt.Sprint(v), invalidRune))
}

// WriteResults writes res to path as indented JSON.
func WriteResults(path string, res *Results) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	return f.Close()
}

// ReadResults reads a results file written by WriteResults.
func ReadResults(path string) (*Results, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var res Results
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return &res, nil
}
