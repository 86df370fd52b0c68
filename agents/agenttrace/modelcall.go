/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// AfterModelCallback is invoked after each model response, while the
// model call span is the active span in ctx.
type AfterModelCallback func(ctx context.Context)

// ModelCall is a single request/response exchange with the model within a trace.
type ModelCall struct {
	ctx  context.Context
	span oteltrace.Span
}

// StartModelCall starts an "agent.model_call" span as a child of the execution span.
func (t *Trace[T]) StartModelCall(model string, turn int) *ModelCall {
	ctx, span := otelTracer().Start(t.ctx, "agent.model_call", oteltrace.WithAttributes(
		attribute.String("model", model),
		attribute.Int("model_call.index", turn),
	))
	return &ModelCall{ctx: ctx, span: span}
}

// Context returns the context in which the model call span is active.
func (mc *ModelCall) Context() context.Context {
	return mc.ctx
}

// RecordTokenUsage records token usage for this model call.
func (mc *ModelCall) RecordTokenUsage(inputTokens, outputTokens int64) {
	mc.span.SetAttributes(
		attribute.Int64("tokens.input", inputTokens),
		attribute.Int64("tokens.output", outputTokens),
	)
}

// End finishes the model call span, marking it failed when err is non-nil.
func (mc *ModelCall) End(err error) {
	if err != nil {
		mc.span.RecordError(err)
		mc.span.SetStatus(codes.Error, err.Error())
	}
	mc.span.End()
}

// RunAfterModelCallbacks invokes each callback in order with ctx.
// A panicking callback is logged and skipped; it never fails the model call.
func RunAfterModelCallbacks(ctx context.Context, callbacks ...AfterModelCallback) {
	for i, cb := range callbacks {
		if cb == nil {
			continue
		}
		if err := runCallback(ctx, cb); err != nil {
			clog.FromContext(ctx).With("callback", i).Warnf("after-model callback failed: %v", err)
		}
	}
}

func runCallback(ctx context.Context, cb AfterModelCallback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	cb(ctx)
	return nil
}
