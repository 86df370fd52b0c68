/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"github.com/chainguard-dev/clog"
	"golang.org/x/sync/errgroup"
)

// Tracer opens traces and receives them once they complete.
type Tracer[T any] interface {
	NewTrace(ctx context.Context, prompt string) *Trace[T]
	RecordTrace(trace *Trace[T])
}

// TraceCallback receives a completed trace.
type TraceCallback[T any] func(*Trace[T])

type byCode[T any] []TraceCallback[T]

// ByCode returns a Tracer that hands each completed trace to every non-nil
// callback concurrently. RecordTrace returns once all callbacks have.
func ByCode[T any](callbacks ...TraceCallback[T]) Tracer[T] {
	return byCode[T](callbacks)
}

func (b byCode[T]) NewTrace(ctx context.Context, prompt string) *Trace[T] {
	return newTraceWithTracer[T](ctx, b, prompt)
}

func (b byCode[T]) RecordTrace(trace *Trace[T]) {
	var g errgroup.Group
	for _, cb := range b {
		if cb == nil {
			continue
		}
		g.Go(func() error {
			cb(trace)
			return nil
		})
	}
	_ = g.Wait()
}

// NewDefaultTracer returns a Tracer that logs each completed trace at info
// level with the logger carried by ctx.
func NewDefaultTracer[T any](ctx context.Context) Tracer[T] {
	log := clog.FromContext(ctx)
	return ByCode[T](func(trace *Trace[T]) {
		log.With("trace_id", trace.ID).
			With("duration_ms", trace.Duration().Milliseconds()).
			With("tool_calls", len(trace.ToolCalls)).
			Info("Math agent turn traced", "trace", trace.String())
	})
}

type tracerKey[T any] struct{}

// WithTracer attaches tracer to ctx. Tracers for different T coexist.
func WithTracer[T any](ctx context.Context, tracer Tracer[T]) context.Context {
	return context.WithValue(ctx, tracerKey[T]{}, tracer)
}

// TracerFromContext returns the Tracer attached for T, falling back to
// NewDefaultTracer.
func TracerFromContext[T any](ctx context.Context) Tracer[T] {
	if tracer, ok := ctx.Value(tracerKey[T]{}).(Tracer[T]); ok {
		return tracer
	}
	return NewDefaultTracer[T](ctx)
}

// StartTrace opens a trace on the Tracer attached to ctx.
func StartTrace[T any](ctx context.Context, prompt string) *Trace[T] {
	return TracerFromContext[T](ctx).NewTrace(ctx, prompt)
}
