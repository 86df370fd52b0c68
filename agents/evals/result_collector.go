/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"slices"
	"sync"
)

// Grade is one score in [0, 1] with the grader's reasoning.
type Grade struct {
	Score     float64
	Reasoning string
}

// ResultCollector keeps the failures and grades reported to the Observer it
// wraps, so a run can be summarized once it is over.
type ResultCollector struct {
	Observer

	mu       sync.Mutex
	failures []string
	grades   []Grade
}

// NewResultCollector wraps inner.
func NewResultCollector(inner Observer) *ResultCollector {
	return &ResultCollector{Observer: inner}
}

func (r *ResultCollector) Fail(msg string) {
	r.Observer.Fail(msg)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, msg)
}

func (r *ResultCollector) Grade(score float64, reasoning string) {
	r.Observer.Grade(score, reasoning)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grades = append(r.grades, Grade{Score: score, Reasoning: reasoning})
}

// Failures returns the failure messages in the order reported.
func (r *ResultCollector) Failures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.failures)
}

// Grades returns the grades in the order reported.
func (r *ResultCollector) Grades() []Grade {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.grades)
}

// Passed reports whether no failure has been recorded.
func (r *ResultCollector) Passed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures) == 0
}
