/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall_test

import (
	"context"
	"fmt"

	"chainguard.dev/mathagent/agents/agenttrace"
	"chainguard.dev/mathagent/agents/toolcall"
)

// ExampleParam reads typed arguments in a tool handler. A missing argument
// is answered with an error response and recorded as a bad tool call.
func ExampleParam() {
	handler := func(_ context.Context, call toolcall.ToolCall, trace *agenttrace.Trace[string], _ *string) map[string]any {
		a, errResp := toolcall.Param[float64](call, trace, "a")
		if errResp != nil {
			return errResp
		}
		b, errResp := toolcall.Param[float64](call, trace, "b")
		if errResp != nil {
			return errResp
		}
		return map[string]any{"result": a - b}
	}

	trace := agenttrace.StartTrace[string](context.Background(), "Subtract 4 from 10")
	fmt.Println(handler(context.Background(), toolcall.ToolCall{
		ID:   "call-1",
		Name: "subtract_numbers",
		Args: map[string]any{"a": 10.0, "b": 4.0},
	}, trace, nil))
	fmt.Println(handler(context.Background(), toolcall.ToolCall{
		ID:   "call-2",
		Name: "subtract_numbers",
		Args: map[string]any{"a": 10.0},
	}, trace, nil))
	fmt.Println("bad tool calls:", len(trace.ToolCalls))
	// Output:
	// map[result:6]
	// map[error:b parameter is required]
	// bad tool calls: 1
}

// ExampleDefinition_Required lists the parameters a model must supply.
func ExampleDefinition_Required() {
	def := toolcall.Definition{
		Name:        "divide_numbers",
		Description: "Divide a by b",
		Parameters: []toolcall.Parameter{
			{Name: "a", Type: "number", Description: "Dividend", Required: true},
			{Name: "b", Type: "number", Description: "Divisor", Required: true},
			{Name: "precision", Type: "integer", Description: "Decimal places"},
		},
	}
	fmt.Println(def.Required())
	// Output: [a b]
}
