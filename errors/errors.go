// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package errors provides basic utilities to construct errors.
//
// To construct new errors or wrap other errors, use this package rather than
// standard libraries (errors.New, fmt.Errorf) or any other third-party
// libraries. This package records stack traces and chained errors, and leaves
// nicely formatted logs when plugins or test bodies fail.
//
// To construct a new error, use New or Errorf.
//
//	errors.New("plugin not found")
//	errors.Errorf("plugin %q has no variants", name)
//
// To construct an error by adding context to an existing error, use Wrap or
// Wrapf.
//
//	errors.Wrap(err, "setup dispatch failed")
//	errors.Wrapf(err, "metaplugin %s failed", name)
//
// Errors produced by cleanup code that must not hide an earlier failure are
// combined with Join, which keeps the first error first.
//
// A stack trace can be printed by formatting an error with the fmt package
// with the "%+v" verb.
package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/matthewd/cfme-tests/errors/stack"
)

// impl is the error implementation used by this package.
type impl struct {
	msg   string      // error message to be prepended to cause
	stk   stack.Stack // stack trace where this error was created
	cause error       // original error that caused this error if non-nil
}

// Error implements the error interface.
func (e *impl) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.cause.Error())
}

// Unwrap returns the error wrapped by e, if any.
func (e *impl) Unwrap() error {
	return e.cause
}

// formatChain formats an error chain.
func formatChain(err error) string {
	var chain []string
	for err != nil {
		switch e := err.(type) {
		case *impl:
			chain = append(chain, fmt.Sprintf("%s\n%v", e.msg, e.stk))
			err = e.cause
		case *multi:
			chain = append(chain, formatMulti(e))
			err = nil
		default:
			chain = append(chain, fmt.Sprintf("%s\n\tat ???", err.Error()))
			err = nil
		}
	}
	return strings.Join(chain, "\n")
}

// Format implements the fmt.Formatter interface.
// In particular, it is supported to format an error chain by "%+v" verb.
func (e *impl) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		io.WriteString(s, formatChain(e))
	} else {
		io.WriteString(s, e.Error())
	}
}

// New creates a new error with the given message.
// This is similar to the standard errors.New, but also records the location
// where it was called.
func New(msg string) error {
	s := stack.New(1)
	return &impl{msg, s, nil}
}

// Errorf creates a new error with the given message.
// This is similar to the standard fmt.Errorf, but also records the location
// where it was called.
func Errorf(format string, args ...interface{}) error {
	s := stack.New(1)
	msg := fmt.Sprintf(format, args...)
	return &impl{msg, s, nil}
}

// Wrap creates a new error with the given message, wrapping another error.
// This function also records the location where it was called.
// If cause is nil, this is the same as New.
func Wrap(cause error, msg string) error {
	s := stack.New(1)
	return &impl{msg, s, cause}
}

// Wrapf creates a new error with the given message, wrapping another error.
// This function also records the location where it was called.
// If cause is nil, this is the same as Errorf.
func Wrapf(cause error, format string, args ...interface{}) error {
	s := stack.New(1)
	msg := fmt.Sprintf(format, args...)
	return &impl{msg, s, cause}
}

// multi is an error holding several errors in order.
type multi struct {
	errs []error
}

func (m *multi) Error() string {
	msgs := make([]string, len(m.errs))
	for i, err := range m.errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap returns the joined errors so that Is and As can inspect each of them.
func (m *multi) Unwrap() []error {
	return m.errs
}

func formatMulti(m *multi) string {
	parts := make([]string, len(m.errs))
	for i, err := range m.errs {
		parts[i] = fmt.Sprintf("[%d] %s", i, formatChain(err))
	}
	return strings.Join(parts, "\n")
}

// Format implements the fmt.Formatter interface.
func (m *multi) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		io.WriteString(s, formatMulti(m))
	} else {
		io.WriteString(s, m.Error())
	}
}

// Join returns an error combining the non-nil errors in errs, preserving
// their order. It returns nil if there are no non-nil errors, and the only
// error itself if exactly one is non-nil.
func Join(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if m, ok := err.(*multi); ok {
			nonNil = append(nonNil, m.errs...)
			continue
		}
		nonNil = append(nonNil, err)
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	}
	return &multi{nonNil}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err, if any.
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Location returns the source location where the outermost error created by
// this package in err's chain was created.
func Location(err error) (file string, line int, ok bool) {
	for err != nil {
		if e, isImpl := err.(*impl); isImpl {
			return e.stk.Top()
		}
		err = stderrors.Unwrap(err)
	}
	return "", 0, false
}
