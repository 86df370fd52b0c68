/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"reflect"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Every series is labelled by the traced result type and the eval namespace.
var (
	evalLabels = []string{"tracer_type", "namespace"}

	evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mathagent_evaluations_total",
		Help: "Traces evaluated.",
	}, evalLabels)
	evaluationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mathagent_evaluation_failures_total",
		Help: "Failed evaluations.",
	}, evalLabels)
	evaluationGrade = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mathagent_evaluation_grade",
		Help: "Latest grade in [0, 1].",
	}, evalLabels)
)

// MetricsObserver is an Observer exporting to the default Prometheus
// registry. Log messages are dropped.
type MetricsObserver struct {
	evaluated prometheus.Counter
	failed    prometheus.Counter
	grade     prometheus.Gauge
	total     atomic.Int64
}

var _ Observer = (*MetricsObserver)(nil)

// NewMetricsObserver returns the observer for traces of T under namespace.
func NewMetricsObserver[T any](namespace string) *MetricsObserver {
	labels := prometheus.Labels{"tracer_type": reflect.TypeFor[T]().String(), "namespace": namespace}
	return &MetricsObserver{
		evaluated: evaluations.With(labels),
		failed:    evaluationFailures.With(labels),
		grade:     evaluationGrade.With(labels),
	}
}

func (m *MetricsObserver) Increment() {
	m.total.Add(1)
	m.evaluated.Inc()
}

func (m *MetricsObserver) Fail(string) { m.failed.Inc() }

func (m *MetricsObserver) Grade(score float64, _ string) { m.grade.Set(score) }

func (m *MetricsObserver) Log(string) {}

func (m *MetricsObserver) Total() int64 { return m.total.Load() }
