/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
)

// collector records completed traces in order.
type collector[T any] struct {
	mu     sync.Mutex
	traces []*Trace[T]
}

func (c *collector[T]) tracer() Tracer[T] {
	return ByCode[T](func(tr *Trace[T]) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.traces = append(c.traces, tr)
	})
}

func (c *collector[T]) recorded() []*Trace[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Trace[T](nil), c.traces...)
}

func TestTraceLifecycle(t *testing.T) {
	sr := recordSpans(t)
	var c collector[string]
	ctx := WithExecutionContext(context.Background(), ExecutionContext{
		AppName: "math_assistant", UserID: "chance", SessionID: "math_agent_session", TurnNumber: 1,
	})

	trace := c.tracer().NewTrace(ctx, "Add 5 and 3")
	if trace.ID == "" {
		t.Error("trace ID: got = empty, wanted = non-empty")
	}
	if trace.ExecContext.SessionID != "math_agent_session" {
		t.Errorf("exec context session: got = %q, wanted = %q", trace.ExecContext.SessionID, "math_agent_session")
	}

	tc := trace.StartToolCall("fc-1", "add_numbers", map[string]any{"a": 5.0, "b": 3.0})
	if len(trace.ToolCalls) != 0 {
		t.Errorf("tool calls before completion: got = %d, wanted = 0", len(trace.ToolCalls))
	}
	tc.Complete(map[string]any{"status": "success", "result": 8.0}, nil)
	if len(trace.ToolCalls) != 1 {
		t.Fatalf("tool calls after completion: got = %d, wanted = 1", len(trace.ToolCalls))
	}

	if got := c.recorded(); len(got) != 0 {
		t.Errorf("recorded before Complete: got = %d, wanted = 0", len(got))
	}
	trace.Complete("5 + 3 = 8", nil)

	got := c.recorded()
	if len(got) != 1 || got[0] != trace {
		t.Fatalf("recorded traces: got = %v, wanted = [trace]", got)
	}
	if got[0].Result != "5 + 3 = 8" {
		t.Errorf("result: got = %q, wanted = %q", got[0].Result, "5 + 3 = 8")
	}

	ended := sr.Ended()
	if len(ended) != 2 {
		t.Fatalf("ended spans: got = %d, wanted = 2", len(ended))
	}
	tool, exec := ended[0], ended[1]
	if tool.Name() != "agent.tool_call" || exec.Name() != "agent.execution" {
		t.Errorf("span names: got = %q, %q", tool.Name(), exec.Name())
	}
	if tool.Parent().SpanID() != exec.SpanContext().SpanID() {
		t.Error("tool call span is not a child of the execution span")
	}
	if v, ok := attrValue(tool.Attributes(), "tool.name"); !ok || v.AsString() != "add_numbers" {
		t.Errorf("tool.name: got = %q (present=%t), wanted = add_numbers", v.AsString(), ok)
	}
	if trace.ID != exec.SpanContext().TraceID().String() {
		t.Errorf("trace ID: got = %q, wanted = span trace ID %q", trace.ID, exec.SpanContext().TraceID())
	}
}

func TestTraceWithoutProviderGetsRandomID(t *testing.T) {
	a := ByCode[string]().NewTrace(context.Background(), "Add 1 and 1")
	b := ByCode[string]().NewTrace(context.Background(), "Add 1 and 1")
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("trace IDs: got = %q and %q, wanted = distinct non-empty", a.ID, b.ID)
	}
}

func TestTraceErrors(t *testing.T) {
	sr := recordSpans(t)
	trace := ByCode[string]().NewTrace(context.Background(), "Divide 1 by 0")

	trace.BadToolCall("fc-1", "modulo_numbers", map[string]any{"a": 1.0}, errors.New("unknown tool"))
	tc := trace.StartToolCall("fc-2", "divide_numbers", map[string]any{"a": 1.0, "b": 0.0})
	tc.Complete(nil, errors.New("Cannot divide by zero"))

	wantErr := errors.New("model unavailable")
	trace.Complete("", wantErr)

	if !errors.Is(trace.Error, wantErr) {
		t.Errorf("trace error: got = %v, wanted = %v", trace.Error, wantErr)
	}
	if len(trace.ToolCalls) != 2 {
		t.Fatalf("tool calls: got = %d, wanted = 2", len(trace.ToolCalls))
	}
	bad := trace.ToolCalls[0]
	if bad.Name != "modulo_numbers" || bad.Error == nil || bad.Result != nil {
		t.Errorf("bad tool call: got = %+v", bad)
	}
	if !bad.EndTime.Equal(bad.StartTime) {
		t.Errorf("bad tool call times: start = %v, end = %v, wanted = equal", bad.StartTime, bad.EndTime)
	}

	for _, s := range sr.Ended() {
		if s.Status().Code != codes.Error {
			t.Errorf("span %s status: got = %v, wanted = %v", s.Name(), s.Status().Code, codes.Error)
		}
	}
}

func TestDuration(t *testing.T) {
	trace := ByCode[string]().NewTrace(context.Background(), "Multiply 4 by 2.5")
	tc := trace.StartToolCall("fc-1", "multiply_numbers", nil)

	time.Sleep(5 * time.Millisecond)
	if tc.Duration() <= 0 || trace.Duration() <= 0 {
		t.Error("running duration: got = 0, wanted = positive")
	}

	tc.Complete(10.0, nil)
	trace.Complete("4 × 2.5 = 10", nil)
	toolDone, traceDone := tc.Duration(), trace.Duration()

	time.Sleep(5 * time.Millisecond)
	if tc.Duration() != toolDone || trace.Duration() != traceDone {
		t.Error("completed duration changed after completion")
	}
}

func TestTraceString(t *testing.T) {
	ctx := WithExecutionContext(context.Background(), ExecutionContext{UserID: "chance", SessionID: "s1", TurnNumber: 2})
	trace := ByCode[string]().NewTrace(ctx, "Subtract 3 from 10")
	trace.Reasoning = append(trace.Reasoning, ReasoningContent{Thinking: strings.Repeat("think ", 100)})
	trace.StartToolCall("fc-1", "subtract_numbers", map[string]any{"b": 3, "a": 10}).Complete("ok", nil)
	trace.BadToolCall("fc-2", "add_numbers", nil, errors.New("a parameter is required"))
	trace.Complete("10 - 3 = 7", nil)

	got := trace.String()
	for _, want := range []string{
		"trace " + trace.ID,
		"session: chance/s1 turn 2",
		`prompt: "Subtract 3 from 10"`,
		"tool[0] subtract_numbers id=fc-1",
		" a=10 b=3\n",
		"result: ok",
		"error: a parameter is required",
		"result: 10 - 3 = 7",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("String() missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, strings.Repeat("think ", 40)) {
		t.Error("String() did not clip long reasoning")
	}
}

func TestTracerFromContext(t *testing.T) {
	var strs collector[string]
	var ints collector[int]
	ctx := WithTracer(context.Background(), strs.tracer())
	ctx = WithTracer(ctx, ints.tracer())

	StartTrace[string](ctx, "Add 5 and 3").Complete("8", nil)
	StartTrace[int](ctx, "Add 5 and 3").Complete(8, nil)

	if got := strs.recorded(); len(got) != 1 || got[0].Result != "8" {
		t.Errorf("string traces: got = %v", got)
	}
	if got := ints.recorded(); len(got) != 1 || got[0].Result != 8 {
		t.Errorf("int traces: got = %v", got)
	}

	// Without a tracer the default logs the trace and must not panic.
	StartTrace[float64](context.Background(), "Add 5 and 3").Complete(8, nil)
}

func TestByCodeRunsAllCallbacks(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	seen := map[string]bool{}
	cb := func(name string) TraceCallback[string] {
		return func(tr *Trace[string]) {
			calls.Add(1)
			time.Sleep(time.Millisecond)
			mu.Lock()
			defer mu.Unlock()
			seen[name] = tr.Result == "8"
		}
	}

	trace := ByCode[string](cb("no-errors"), nil, cb("tool-called"), cb("answer")).NewTrace(context.Background(), "Add 5 and 3")
	trace.Complete("8", nil)

	// RecordTrace waits for every callback before returning.
	if got := calls.Load(); got != 3 {
		t.Errorf("callbacks run: got = %d, wanted = 3", got)
	}
	for _, name := range []string{"no-errors", "tool-called", "answer"} {
		if !seen[name] {
			t.Errorf("callback %s: did not see the completed result", name)
		}
	}
}

func TestConcurrentToolCalls(t *testing.T) {
	trace := ByCode[string]().NewTrace(context.Background(), "Add many numbers")

	const n = 100
	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			id := fmt.Sprintf("fc-%d", i)
			if i%2 == 0 {
				trace.StartToolCall(id, "add_numbers", map[string]any{"a": float64(i), "b": 1.0}).Complete(float64(i+1), nil)
			} else {
				trace.BadToolCall(id, "add_numbers", nil, fmt.Errorf("bad call %d", i))
			}
		})
	}
	wg.Wait()

	if len(trace.ToolCalls) != n {
		t.Fatalf("tool calls: got = %d, wanted = %d", len(trace.ToolCalls), n)
	}
	ids := make(map[string]bool, n)
	for _, tc := range trace.ToolCalls {
		if ids[tc.ID] {
			t.Errorf("duplicate tool call %s", tc.ID)
		}
		ids[tc.ID] = true
		if tc.EndTime.IsZero() {
			t.Errorf("tool call %s: end time not set", tc.ID)
		}
	}
}
