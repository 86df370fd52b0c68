/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"
	"fmt"

	"chainguard.dev/mathagent/agents/agenttrace"
	"chainguard.dev/mathagent/agents/toolcall/params"
)

// ToolCall is a model's request to run a tool, with its decoded arguments.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// Parameter is one argument in a tool's input schema. Type is a JSON schema
// primitive: "number", "integer", "boolean" or "string".
type Parameter struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// Definition is what the model is told about a tool.
type Definition struct {
	Name        string
	Description string
	Parameters  []Parameter
}

// Required lists required parameter names in declaration order.
func (d Definition) Required() []string {
	var names []string
	for _, p := range d.Parameters {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// Handler runs a tool call and returns the response map sent back to the
// model. Setting *result to a non-zero value ends the execution with it.
type Handler[Resp any] func(ctx context.Context, call ToolCall, trace *agenttrace.Trace[Resp], result *Resp) map[string]any

// Tool is a Definition with the Handler that serves it, independent of the
// model provider.
type Tool[Resp any] struct {
	Def     Definition
	Handler Handler[Resp]
}

// BadCallRecorder is the part of a trace Param reports invalid arguments to.
type BadCallRecorder interface {
	BadToolCall(id, name string, params map[string]any, err error)
}

// Param returns argument name of call as a T. When the argument is missing
// or has the wrong type, the call is recorded as bad on trace and the error
// response for the model is returned instead.
func Param[T any](call ToolCall, trace BadCallRecorder, name string) (T, map[string]any) {
	v, err := params.Extract[T](call.Args, name)
	if err == nil {
		return v, nil
	}
	trace.BadToolCall(call.ID, call.Name, call.Args, fmt.Errorf("invalid %s parameter: %w", name, err))
	return v, params.Error("%s", err)
}
