/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudetool

import (
	"context"
	"encoding/json"
	"fmt"

	"chainguard.dev/mathagent/agents/agenttrace"
	"chainguard.dev/mathagent/agents/toolcall"
	"chainguard.dev/mathagent/agents/toolcall/params"
	"github.com/anthropics/anthropic-sdk-go"
)

// Handler runs one tool use block. Setting *result to a non-zero value ends
// the execution with it.
type Handler[Response any] func(ctx context.Context, toolUse anthropic.ToolUseBlock, trace *agenttrace.Trace[Response], result *Response) map[string]any

// Metadata is a tool as the Claude executor consumes it.
type Metadata[Response any] struct {
	Definition anthropic.ToolParam
	Handler    Handler[Response]
}

// FromTool describes t to Claude with an object input schema and decodes
// each tool use block's input before calling t's handler.
func FromTool[Response any](t toolcall.Tool[Response]) Metadata[Response] {
	return Metadata[Response]{
		Definition: anthropic.ToolParam{
			Name:        t.Def.Name,
			Description: anthropic.String(t.Def.Description),
			InputSchema: inputSchema(t.Def),
		},
		Handler: func(ctx context.Context, toolUse anthropic.ToolUseBlock, trace *agenttrace.Trace[Response], result *Response) map[string]any {
			args, err := decodeInput(toolUse.Input)
			if err != nil {
				trace.BadToolCall(toolUse.ID, toolUse.Name, map[string]any{"input": string(toolUse.Input)},
					fmt.Errorf("unparseable input for %q", toolUse.Name))
				return Error("Failed to parse tool input: %v", err)
			}
			return t.Handler(ctx, toolcall.ToolCall{ID: toolUse.ID, Name: toolUse.Name, Args: args}, trace, result)
		},
	}
}

func inputSchema(def toolcall.Definition) anthropic.ToolInputSchemaParam {
	properties := make(map[string]any, len(def.Parameters))
	for _, p := range def.Parameters {
		properties[p.Name] = map[string]any{"type": p.Type, "description": p.Description}
	}
	return anthropic.ToolInputSchemaParam{
		Type:       "object",
		Properties: properties,
		Required:   def.Required(),
	}
}

// decodeInput decodes a tool use input, treating an empty input as no
// arguments.
func decodeInput(raw json.RawMessage) (map[string]any, error) {
	args := map[string]any{}
	if len(raw) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// Map converts a tool set, keeping its names.
func Map[Response any](tools map[string]toolcall.Tool[Response]) map[string]Metadata[Response] {
	out := make(map[string]Metadata[Response], len(tools))
	for name, t := range tools {
		out[name] = FromTool(t)
	}
	return out
}

// Error returns the response reporting a failed tool use to Claude.
func Error(format string, args ...any) map[string]any {
	return params.Error(format, args...)
}
