/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals_test

import (
	"fmt"
	"sync"
	"testing"

	"chainguard.dev/mathagent/agents/evals"
	"github.com/google/go-cmp/cmp"
)

func TestResultCollector(t *testing.T) {
	inner := &mockObserver{}
	rc := evals.NewResultCollector(inner)

	if !rc.Passed() {
		t.Error("Passed: got = false, wanted = true before any failure")
	}

	rc.Increment()
	rc.Log("running")
	rc.Grade(0.9, "accurate")
	rc.Fail("missing required tool calls: [add_numbers]")

	if rc.Passed() {
		t.Error("Passed: got = true, wanted = false")
	}
	if got := rc.Total(); got != 1 {
		t.Errorf("total: got = %d, wanted = 1", got)
	}
	if diff := cmp.Diff([]string{"missing required tool calls: [add_numbers]"}, rc.Failures()); diff != "" {
		t.Errorf("failures (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]evals.Grade{{Score: 0.9, Reasoning: "accurate"}}, rc.Grades()); diff != "" {
		t.Errorf("grades (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(inner.failures, rc.Failures()); diff != "" {
		t.Errorf("inner failures (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"running", "Grade: 0.90 - accurate"}, inner.logs); diff != "" {
		t.Errorf("inner logs (-want +got):\n%s", diff)
	}

	// Returned slices are copies.
	rc.Failures()[0] = "changed"
	if rc.Failures()[0] == "changed" {
		t.Error("Failures: got = shared slice, wanted = copy")
	}
}

func TestResultCollectorConcurrency(t *testing.T) {
	rc := evals.NewResultCollector(evals.NewMetricsObserver[string]("/collector-test"))

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Go(func() {
			rc.Increment()
			rc.Fail(fmt.Sprintf("failure %d", i))
			rc.Grade(float64(i)/20, "")
		})
	}
	wg.Wait()

	if got := len(rc.Failures()); got != 20 {
		t.Errorf("failures: got = %d, wanted = 20", got)
	}
	if got := len(rc.Grades()); got != 20 {
		t.Errorf("grades: got = %d, wanted = 20", got)
	}
	if got := rc.Total(); got != 20 {
		t.Errorf("total: got = %d, wanted = 20", got)
	}
}
