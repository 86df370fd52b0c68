/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package testevals

import (
	"fmt"
	"sync/atomic"
	"testing"

	"chainguard.dev/mathagent/agents/evals"
)

// observer reports evaluation outcomes through a testing.TB.
type observer struct {
	tb     testing.TB
	prefix string
	count  atomic.Int64
}

// New creates an Observer that fails tb on evaluation failures.
func New(tb testing.TB) evals.Observer {
	return &observer{tb: tb}
}

// NewPrefix is New with every message prefixed by prefix.
func NewPrefix(tb testing.TB, prefix string) evals.Observer {
	return &observer{tb: tb, prefix: prefix}
}

func (o *observer) format(msg string) string {
	if o.prefix == "" {
		return msg
	}
	return o.prefix + ": " + msg
}

// Fail implements evals.Observer.
func (o *observer) Fail(msg string) {
	o.tb.Helper()
	o.tb.Error(o.format(msg))
}

// Log implements evals.Observer.
func (o *observer) Log(msg string) {
	o.tb.Helper()
	o.tb.Log(o.format(msg))
}

// Grade implements evals.Observer.
func (o *observer) Grade(score float64, reasoning string) {
	o.tb.Helper()
	o.tb.Log(o.format(fmt.Sprintf("Grade: %.2f - %s", score, reasoning)))
}

// Increment implements evals.Observer.
func (o *observer) Increment() {
	o.count.Add(1)
}

// Total implements evals.Observer.
func (o *observer) Total() int64 {
	return o.count.Load()
}
