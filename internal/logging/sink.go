// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TimestampFormat is the layout of timestamps SinkLogger prepends to logs.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// SinkLogger is a Logger that formats logs and hands them to a Sink.
type SinkLogger struct {
	level     Level
	timestamp bool
	sink      Sink
}

// NewSinkLogger creates a new SinkLogger passing logs at level or above to
// sink. If timestamp is true, logs are prefixed with their UTC time.
// Warnings are prefixed with their level.
func NewSinkLogger(level Level, timestamp bool, sink Sink) *SinkLogger {
	return &SinkLogger{level: level, timestamp: timestamp, sink: sink}
}

// Log formats a log and sends it to the sink.
func (l *SinkLogger) Log(level Level, ts time.Time, msg string) {
	if level < l.level {
		return
	}
	if level >= LevelWarning {
		msg = level.String() + ": " + msg
	}
	if l.timestamp {
		msg = ts.UTC().Format(TimestampFormat) + " " + msg
	}
	l.sink.Log(msg)
}

// Sink is a destination of formatted log lines, e.g. a file or the console.
type Sink interface {
	Log(msg string)
}

// WriterSink is a Sink writing one line per log to an io.Writer.
// Writes are synchronized. The first write error is kept and returned by
// Err and Close.
type WriterSink struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

// NewWriterSink creates a new WriterSink from w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// NewFileSink creates the file at path, along with its parent directories,
// and returns a sink writing to it. The caller must call Close.
func NewFileSink(path string) (*WriterSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &WriterSink{w: f}, nil
}

// Log writes msg and a newline.
func (s *WriterSink) Log(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.w, msg); err != nil && s.err == nil {
		s.err = err
	}
}

// Err returns the first write error, if any.
func (s *WriterSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close closes the underlying writer if it is an io.Closer and returns the
// first error seen.
func (s *WriterSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.w.(io.Closer); ok {
		if err := c.Close(); err != nil && s.err == nil {
			s.err = err
		}
	}
	return s.err
}
