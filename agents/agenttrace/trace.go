/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"crypto/rand"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope for agent spans.
const tracerName = "chainguard.dev/mathagent/agents/agenttrace"

func otelTracer() oteltrace.Tracer {
	return otel.Tracer(tracerName)
}

// ReasoningContent is a block of model thinking returned alongside an answer.
type ReasoningContent struct {
	Thinking string `json:"thinking"`
}

// ToolCall is one tool invocation within a trace.
type ToolCall[T any] struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Params    map[string]any `json:"params"`
	Result    any            `json:"result"`
	Error     error          `json:"error,omitempty"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`

	mu    sync.Mutex
	trace *Trace[T]
	span  oteltrace.Span
}

// Trace is one agent execution, from the bound prompt to the parsed result.
// It is backed by an "agent.execution" span; model and tool calls are its children.
type Trace[T any] struct {
	ID          string             `json:"id"`
	InputPrompt string             `json:"input_prompt"`
	ExecContext ExecutionContext   `json:"exec_context,omitempty"`
	ToolCalls   []*ToolCall[T]     `json:"tool_calls"`
	Reasoning   []ReasoningContent `json:"reasoning,omitempty"`
	Result      T                  `json:"result"`
	Error       error              `json:"error,omitempty"`
	StartTime   time.Time          `json:"start_time"`
	EndTime     time.Time          `json:"end_time"`

	mu     sync.Mutex
	tracer Tracer[T]
	ctx    context.Context
	span   oteltrace.Span
}

func newTraceWithTracer[T any](ctx context.Context, tracer Tracer[T], prompt string) *Trace[T] {
	execCtx := GetExecutionContext(ctx)
	ctx, span := otelTracer().Start(ctx, "agent.execution", oteltrace.WithAttributes(
		append(execCtx.spanAttributes(), attribute.String("agent.prompt", prompt))...,
	))

	return &Trace[T]{
		ID:          traceID(span),
		InputPrompt: prompt,
		ExecContext: execCtx,
		ToolCalls:   []*ToolCall[T]{},
		StartTime:   time.Now(),
		tracer:      tracer,
		ctx:         ctx,
		span:        span,
	}
}

// traceID reuses the OpenTelemetry trace ID when spans are sampled, so log
// lines and exported spans share one identifier.
func traceID(span oteltrace.Span) string {
	if sc := span.SpanContext(); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return strings.ToLower(rand.Text())
}

// Context returns the context carrying the execution span.
func (t *Trace[T]) Context() context.Context {
	return t.ctx
}

func toolSpanAttributes(id, name string) oteltrace.SpanStartOption {
	return oteltrace.WithAttributes(
		attribute.String("tool.name", name),
		attribute.String("tool.id", id),
	)
}

// StartToolCall opens an "agent.tool_call" span. The call joins the trace
// when it completes.
func (t *Trace[T]) StartToolCall(id, name string, params map[string]any) *ToolCall[T] {
	_, span := otelTracer().Start(t.ctx, "agent.tool_call", toolSpanAttributes(id, name))
	return &ToolCall[T]{
		ID:        id,
		Name:      name,
		Params:    params,
		StartTime: time.Now(),
		trace:     t,
		span:      span,
	}
}

// BadToolCall records a call the model made with unusable arguments or to an
// unknown tool. The call is added to the trace immediately.
func (t *Trace[T]) BadToolCall(id, name string, params map[string]any, err error) {
	_, span := otelTracer().Start(t.ctx, "agent.tool_call", toolSpanAttributes(id, name))
	endSpan(span, err)

	now := time.Now()
	t.addToolCall(&ToolCall[T]{
		ID:        id,
		Name:      name,
		Params:    params,
		Error:     err,
		StartTime: now,
		EndTime:   now,
		trace:     t,
	})
}

func (t *Trace[T]) addToolCall(tc *ToolCall[T]) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ToolCalls = append(t.ToolCalls, tc)
}

// RecordTokenUsage sets the cumulative token usage on the execution span.
func (t *Trace[T]) RecordTokenUsage(model string, inputTokens, outputTokens int64) {
	t.span.SetAttributes(
		attribute.String("model", model),
		attribute.Int64("tokens.input", inputTokens),
		attribute.Int64("tokens.output", outputTokens),
		attribute.Int64("tokens.total", inputTokens+outputTokens),
	)
}

// Complete ends the tool call span and adds the call to its trace.
func (tc *ToolCall[T]) Complete(result any, err error) {
	tc.mu.Lock()
	tc.Result, tc.Error, tc.EndTime = result, err, time.Now()
	tc.mu.Unlock()

	endSpan(tc.span, err)
	tc.trace.addToolCall(tc)
}

// Duration returns how long the call took, or has taken so far.
func (tc *ToolCall[T]) Duration() time.Duration {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return elapsed(tc.StartTime, tc.EndTime)
}

// Complete ends the execution span and hands the trace to its tracer.
func (t *Trace[T]) Complete(result T, err error) {
	t.mu.Lock()
	t.Result, t.Error, t.EndTime = result, err, time.Now()
	t.mu.Unlock()

	endSpan(t.span, err)
	t.tracer.RecordTrace(t)
}

// Duration returns how long the execution took, or has taken so far.
func (t *Trace[T]) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return elapsed(t.StartTime, t.EndTime)
}

// String renders the trace for logs. Long values are clipped.
func (t *Trace[T]) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "trace %s (%v)\n", t.ID, elapsed(t.StartTime, t.EndTime))
	if s := t.ExecContext; s.SessionID != "" {
		fmt.Fprintf(&sb, "session: %s/%s turn %d\n", s.UserID, s.SessionID, s.TurnNumber)
	}
	fmt.Fprintf(&sb, "prompt: %q\n", clip(t.InputPrompt, 500))

	for i, r := range t.Reasoning {
		fmt.Fprintf(&sb, "reasoning[%d]: %s\n", i, clip(r.Thinking, 200))
	}

	for i, tc := range t.ToolCalls {
		fmt.Fprintf(&sb, "tool[%d] %s id=%s (%v)", i, tc.Name, tc.ID, elapsed(tc.StartTime, tc.EndTime))
		for _, k := range slices.Sorted(maps.Keys(tc.Params)) {
			fmt.Fprintf(&sb, " %s=%v", k, tc.Params[k])
		}
		if tc.Error != nil {
			fmt.Fprintf(&sb, "\n  error: %v\n", tc.Error)
		} else {
			fmt.Fprintf(&sb, "\n  result: %s\n", clip(fmt.Sprint(tc.Result), 200))
		}
	}

	if t.Error != nil {
		fmt.Fprintf(&sb, "error: %v\n", t.Error)
	} else {
		fmt.Fprintf(&sb, "result: %s\n", clip(fmt.Sprint(t.Result), 500))
	}
	return sb.String()
}

func endSpan(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func elapsed(start, end time.Time) time.Duration {
	if end.IsZero() {
		return time.Since(start)
	}
	return end.Sub(start)
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
