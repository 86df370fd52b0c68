/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package telemetry

import (
	"context"

	"chainguard.dev/mathagent/agents/agenttrace"
	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ agenttrace.AfterModelCallback = AnnotateModelCall

// AnnotateModelCall tags the active span with the session's thread_id and
// is_turn=true. Executors run it while the model call span is active.
// It never starts a span, and failures are logged rather than returned.
func AnnotateModelCall(ctx context.Context) {
	if ctx == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			clog.FromContext(ctx).Warnf("annotating model call span: %v", r)
		}
	}()

	threadID := agenttrace.GetExecutionContext(ctx).ThreadID()
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("thread_id", threadID),
		attribute.Bool("is_turn", true),
	)
}
