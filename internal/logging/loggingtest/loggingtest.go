// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package loggingtest provides logging utilities for unit tests.
package loggingtest

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matthewd/cfme-tests/internal/logging"
)

// Entry is a single log received by Logger.
type Entry struct {
	Level logging.Level
	Msg   string
}

// Logger is a logging.Logger that keeps logs in memory and also emits them
// as unit test logs.
type Logger struct {
	t     *testing.T
	level logging.Level

	mu      sync.Mutex
	entries []Entry
}

// NewLogger creates a new Logger keeping logs at level or above. Every log
// is passed to t.Log regardless of level.
func NewLogger(t *testing.T, level logging.Level) *Logger {
	return &Logger{t: t, level: level}
}

// Log gets called for a log event.
func (l *Logger) Log(level logging.Level, ts time.Time, msg string) {
	l.t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.t.Logf("%v: %s", level, msg)
	if level >= l.level {
		l.entries = append(l.entries, Entry{level, msg})
	}
}

// Entries returns the kept logs with their levels.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Logs returns messages of the kept logs.
func (l *Logger) Logs() []string {
	var msgs []string
	for _, e := range l.Entries() {
		msgs = append(msgs, e.Msg)
	}
	return msgs
}

// Warnings returns messages of the kept logs at warning level.
func (l *Logger) Warnings() []string {
	var msgs []string
	for _, e := range l.Entries() {
		if e.Level >= logging.LevelWarning {
			msgs = append(msgs, e.Msg)
		}
	}
	return msgs
}

// String returns kept messages as a newline-separated string.
func (l *Logger) String() string {
	return strings.Join(l.Logs(), "\n")
}
