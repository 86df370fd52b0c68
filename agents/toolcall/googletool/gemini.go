/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googletool

import (
	"context"

	"chainguard.dev/mathagent/agents/agenttrace"
	"chainguard.dev/mathagent/agents/toolcall"
	"chainguard.dev/mathagent/agents/toolcall/params"
	"google.golang.org/genai"
)

// Handler runs one function call. Setting *result to a non-zero value ends
// the execution with it.
type Handler[Response any] func(ctx context.Context, call *genai.FunctionCall, trace *agenttrace.Trace[Response], result *Response) *genai.FunctionResponse

// Metadata is a tool as the Gemini executor consumes it.
type Metadata[Response any] struct {
	Definition *genai.FunctionDeclaration
	Handler    Handler[Response]
}

var schemaTypes = map[string]genai.Type{
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
}

// FromTool declares t as a Gemini function and answers each call with t's
// response map, echoing the call's ID and name.
func FromTool[Response any](t toolcall.Tool[Response]) Metadata[Response] {
	return Metadata[Response]{
		Definition: declaration(t.Def),
		Handler: func(ctx context.Context, call *genai.FunctionCall, trace *agenttrace.Trace[Response], result *Response) *genai.FunctionResponse {
			return reply(call, t.Handler(ctx, toolcall.ToolCall{ID: call.ID, Name: call.Name, Args: call.Args}, trace, result))
		},
	}
}

func declaration(def toolcall.Definition) *genai.FunctionDeclaration {
	schema := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(def.Parameters)),
		Required:   def.Required(),
	}
	for _, p := range def.Parameters {
		typ, ok := schemaTypes[p.Type]
		if !ok {
			typ = genai.TypeString
		}
		schema.Properties[p.Name] = &genai.Schema{Type: typ, Description: p.Description}
	}
	return &genai.FunctionDeclaration{
		Name:        def.Name,
		Description: def.Description,
		Parameters:  schema,
	}
}

func reply(call *genai.FunctionCall, response map[string]any) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: call.ID, Name: call.Name, Response: response}
}

// Map converts a tool set, keeping its names.
func Map[Response any](tools map[string]toolcall.Tool[Response]) map[string]Metadata[Response] {
	out := make(map[string]Metadata[Response], len(tools))
	for name, t := range tools {
		out[name] = FromTool(t)
	}
	return out
}

// Error answers call with an error the model can read.
func Error(call *genai.FunctionCall, format string, args ...any) *genai.FunctionResponse {
	return reply(call, params.Error(format, args...))
}
