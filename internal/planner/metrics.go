// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package planner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Invocation and unit results used as metric labels.
const (
	resultOK    = "ok"
	resultError = "error"
	resultSkip  = "skip"
)

// Metrics tracks Prometheus metrics for metaplugin dispatch.
//
// Methods handle a nil receiver gracefully, so a nil *Metrics is a no-op.
type Metrics struct {
	// Invocations counts metaplugin calls.
	// Labels: plugin, phase, result=[ok, error, skip]
	Invocations *prometheus.CounterVec

	// InvocationDuration tracks how long metaplugin calls take.
	// Labels: plugin, phase
	InvocationDuration *prometheus.HistogramVec

	// Ties counts plugin names resolved between equally specific bindings.
	// Labels: plugin, phase
	Ties *prometheus.CounterVec

	// Units counts units run to completion.
	// Labels: result=[ok, error, skip]
	Units *prometheus.CounterVec
}

// NewMetrics creates dispatch metrics and registers them to registerer.
// If registerer is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "metaplugin_invocations_total",
				Help: "Total metaplugin invocations by plugin, phase and result",
			},
			[]string{"plugin", "phase", "result"},
		),
		InvocationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "metaplugin_invocation_duration_seconds",
				Help:    "Duration of metaplugin invocations",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"plugin", "phase"},
		),
		Ties: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "metaplugin_ambiguous_resolutions_total",
				Help: "Total resolutions that had to choose between equally specific bindings",
			},
			[]string{"plugin", "phase"},
		),
		Units: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "metaplugin_units_total",
				Help: "Total units run by result",
			},
			[]string{"result"},
		),
	}
	registerer.MustRegister(m.Invocations, m.InvocationDuration, m.Ties, m.Units)
	return m
}

func (m *Metrics) observeInvocation(plugin, phase, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.Invocations.WithLabelValues(plugin, phase, result).Inc()
	m.InvocationDuration.WithLabelValues(plugin, phase).Observe(d.Seconds())
}

func (m *Metrics) observeTie(plugin, phase string) {
	if m == nil {
		return
	}
	m.Ties.WithLabelValues(plugin, phase).Inc()
}

func (m *Metrics) observeUnit(result string) {
	if m == nil {
		return
	}
	m.Units.WithLabelValues(result).Inc()
}
