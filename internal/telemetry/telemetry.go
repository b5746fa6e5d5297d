// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package telemetry wraps OpenTelemetry tracing for metaplugin dispatch.
//
// Spans go to the globally installed tracer provider, which is a no-op until
// a program installs one with otel.SetTracerProvider.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/matthewd/cfme-tests"

// Attribute keys recorded on dispatch spans.
const (
	AttrUnit   = "unit.name"
	AttrPlugin = "metaplugin.name"
	AttrPhase  = "metaplugin.phase"
	AttrKeys   = "metaplugin.keys"
	AttrResult = "metaplugin.result"
)

// Tracer returns the tracer for dispatch spans.
func Tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(instrumentationName)
}

// StartSpan starts a new span with the given name.
// The caller must call span.End() when done.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordError records err on the current span of ctx and marks the span
// failed. It does nothing for a nil err.
func RecordError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetResult records the outcome of an invocation on the current span of ctx.
func SetResult(ctx context.Context, result string) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String(AttrResult, result))
}

// Unit returns the attribute naming a test unit.
func Unit(name string) attribute.KeyValue { return attribute.String(AttrUnit, name) }

// Plugin returns the attribute naming a metaplugin.
func Plugin(name string) attribute.KeyValue { return attribute.String(AttrPlugin, name) }

// Phase returns the attribute naming a lifecycle phase.
func Phase(phase string) attribute.KeyValue { return attribute.String(AttrPhase, phase) }

// Keys returns the attribute listing the keys a binding requires.
func Keys(keys []string) attribute.KeyValue { return attribute.StringSlice(AttrKeys, keys) }
