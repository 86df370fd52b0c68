/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tools

import (
	"context"

	"chainguard.dev/mathagent/agents/agenttrace"
	"chainguard.dev/mathagent/agents/toolcall"
	"github.com/chainguard-dev/clog"
)

// Tool names as exposed to the model.
const (
	AddNumbers      = "add_numbers"
	SubtractNumbers = "subtract_numbers"
	MultiplyNumbers = "multiply_numbers"
	DivideNumbers   = "divide_numbers"
)

// Names lists every arithmetic tool name.
var Names = []string{AddNumbers, SubtractNumbers, MultiplyNumbers, DivideNumbers}

type operation struct {
	name        string
	description string
	a, b        string
	fn          func(a, b float64) Result
}

var operations = []operation{{
	name:        AddNumbers,
	description: "Adds two numbers together.",
	a:           "The first number.",
	b:           "The second number.",
	fn:          Add,
}, {
	name:        SubtractNumbers,
	description: "Subtracts the second number from the first number.",
	a:           "The number to subtract from.",
	b:           "The number to subtract.",
	fn:          Subtract,
}, {
	name:        MultiplyNumbers,
	description: "Multiplies two numbers together.",
	a:           "The first factor.",
	b:           "The second factor.",
	fn:          Multiply,
}, {
	name:        DivideNumbers,
	description: "Divides the first number by the second number.",
	a:           "The dividend.",
	b:           "The divisor. Must not be zero.",
	fn:          Divide,
}}

// Callbacks observe arithmetic results as the tools produce them.
type Callbacks struct {
	// OnResult, when set, receives every result returned to the model.
	OnResult func(ctx context.Context, tool string, result Result)
}

// ArithmeticTools wraps a base tools type and adds arithmetic callbacks.
type ArithmeticTools[T any] struct {
	base T
	Callbacks
}

// NewArithmeticTools creates ArithmeticTools wrapping the given base tools.
func NewArithmeticTools[T any](base T, cb Callbacks) ArithmeticTools[T] {
	return ArithmeticTools[T]{base: base, Callbacks: cb}
}

type arithmeticProvider[Resp, T any] struct {
	base toolcall.ToolProvider[Resp, T]
}

var _ toolcall.ToolProvider[any, ArithmeticTools[toolcall.EmptyTools]] = arithmeticProvider[any, toolcall.EmptyTools]{}

// NewArithmeticProvider adds the four arithmetic tools on top of base.
func NewArithmeticProvider[Resp, T any](base toolcall.ToolProvider[Resp, T]) toolcall.ToolProvider[Resp, ArithmeticTools[T]] {
	return arithmeticProvider[Resp, T]{base: base}
}

func (p arithmeticProvider[Resp, T]) Tools(cb ArithmeticTools[T]) map[string]toolcall.Tool[Resp] {
	tools := p.base.Tools(cb.base)
	for _, op := range operations {
		tools[op.name] = arithmeticTool[Resp](op, cb.Callbacks)
	}
	return tools
}

func arithmeticTool[Resp any](op operation, cb Callbacks) toolcall.Tool[Resp] {
	return toolcall.Tool[Resp]{
		Def: toolcall.Definition{
			Name:        op.name,
			Description: op.description,
			Parameters: []toolcall.Parameter{
				{Name: "a", Type: "number", Description: op.a, Required: true},
				{Name: "b", Type: "number", Description: op.b, Required: true},
			},
		},
		Handler: func(ctx context.Context, call toolcall.ToolCall, trace *agenttrace.Trace[Resp], _ *Resp) map[string]any {
			a, errResp := toolcall.Param[float64](call, trace, "a")
			if errResp != nil {
				return errResp
			}
			b, errResp := toolcall.Param[float64](call, trace, "b")
			if errResp != nil {
				return errResp
			}

			tc := trace.StartToolCall(call.ID, call.Name, call.Args)
			result := op.fn(a, b)
			clog.FromContext(ctx).With("tool", op.name).
				With("status", result.Status).
				Info("Computed arithmetic result")

			if cb.OnResult != nil {
				cb.OnResult(ctx, op.name, result)
			}

			resp := result.Map()
			tc.Complete(resp, nil)
			return resp
		},
	}
}
