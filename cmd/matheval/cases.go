/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"strings"

	"chainguard.dev/mathagent/agents/agenttrace"
	"chainguard.dev/mathagent/agents/evals"
	"chainguard.dev/mathagent/mathagent/tools"
)

// evalCase is a query the agent must answer with one specific tool call.
type evalCase struct {
	name  string
	query string
	tool  string
	a, b  float64

	// want is the result the tool must hand back to the model.
	want tools.Result
	// answer must appear in the final reply, compared case-insensitively.
	answer string
}

var cases = []evalCase{{
	name:   "add",
	query:  "Add 5 and 3",
	tool:   tools.AddNumbers,
	a:      5,
	b:      3,
	want:   tools.Add(5, 3),
	answer: "8",
}, {
	name:   "subtract",
	query:  "What is 10 minus 4?",
	tool:   tools.SubtractNumbers,
	a:      10,
	b:      4,
	want:   tools.Subtract(10, 4),
	answer: "6",
}, {
	name:   "multiply",
	query:  "Multiply 6 by 7",
	tool:   tools.MultiplyNumbers,
	a:      6,
	b:      7,
	want:   tools.Multiply(6, 7),
	answer: "42",
}, {
	name:   "divide",
	query:  "Divide 20 by 4",
	tool:   tools.DivideNumbers,
	a:      20,
	b:      4,
	want:   tools.Divide(20, 4),
	answer: "5",
}, {
	name:   "divide-by-zero",
	query:  "Divide 1 by 0",
	tool:   tools.DivideNumbers,
	a:      1,
	b:      0,
	want:   tools.Divide(1, 0),
	answer: "zero",
}}

func (c evalCase) evaluations() map[string]evals.ObservableTraceCallback[string] {
	return map[string]evals.ObservableTraceCallback[string]{
		"no-errors":     evals.NoErrors[string](),
		"required-tool": evals.RequiredToolCalls[string]([]string{c.tool}),
		"only-tool":     evals.OnlyToolCalls[string](c.tool),
		"tool-call":     evals.ToolCallNamed(c.tool, c.checkCall),
		"answer": evals.ResultValidator(func(reply string) error {
			if !strings.Contains(strings.ToLower(reply), c.answer) {
				return fmt.Errorf("reply %q does not mention %q", reply, c.answer)
			}
			return nil
		}),
	}
}

func (c evalCase) checkCall(_ evals.Observer, tc *agenttrace.ToolCall[string]) error {
	if a, b := tc.Params["a"], tc.Params["b"]; a != c.a || b != c.b {
		return fmt.Errorf("arguments: got = (%v, %v), wanted = (%v, %v)", a, b, c.a, c.b)
	}
	got, ok := tc.Result.(map[string]any)
	if !ok {
		return fmt.Errorf("result: got = %T, wanted = map", tc.Result)
	}
	want := c.want.Map()
	for k, v := range want {
		if got[k] != v {
			return fmt.Errorf("result %s: got = %v, wanted = %v", k, got[k], v)
		}
	}
	return nil
}
