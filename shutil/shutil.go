// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package shutil converts between argument lists and shell command lines.
//
// Suite files describe unit bodies as command lines; Split turns them into
// argument lists to execute, and EscapeSlice turns argument lists back into
// command lines for logs.
package shutil

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/shlex"

	"github.com/matthewd/cfme-tests/errors"
)

// Characters that never need quoting. A leading '=' triggers expansion in
// zsh, so it is only safe after the first character.
const (
	leadingSafeChars  = `-\w@%+:,./`
	trailingSafeChars = leadingSafeChars + "="
)

var safeRE = regexp.MustCompile(fmt.Sprintf("^[%s][%s]*$", leadingSafeChars, trailingSafeChars))

// Escape quotes s so a shell reads it back as a single argument.
// s is returned as is if it needs no quoting.
func Escape(s string) string {
	if safeRE.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// EscapeSlice joins args into a command line, quoting each as needed.
func EscapeSlice(args []string) string {
	escaped := make([]string, len(args))
	for i, arg := range args {
		escaped[i] = Escape(arg)
	}
	return strings.Join(escaped, " ")
}

// Split splits a command line into arguments, honoring single quotes,
// double quotes and backslash escapes. A backslash-newline outside single
// quotes continues the line. A word starting with '#' starts a comment.
// Variable expansion and other shell features are not supported.
func Split(line string) ([]string, error) {
	args, err := shlex.Split(joinContinuations(line))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to split %q", line)
	}
	if len(args) == 0 {
		return nil, nil
	}
	return args, nil
}

// joinContinuations removes backslash-newline pairs that are not inside
// single quotes.
func joinContinuations(line string) string {
	if !strings.Contains(line, "\\\n") {
		return line
	}
	var b strings.Builder
	rs := []rune(line)
	var single, double bool
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case single:
			if r == '\'' {
				single = false
			}
		case r == '\\':
			if i+1 < len(rs) && rs[i+1] == '\n' {
				i++
				continue
			}
			b.WriteRune(r)
			if i+1 < len(rs) {
				i++
				b.WriteRune(rs[i])
			}
			continue
		case r == '"':
			double = !double
		case r == '\'' && !double:
			single = true
		}
		b.WriteRune(r)
	}
	return b.String()
}
