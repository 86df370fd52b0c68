/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// UnknownSession is the thread ID reported for turns outside a session.
const UnknownSession = "unknown"

// ExecutionContext identifies the conversational turn an execution serves.
type ExecutionContext struct {
	AppName    string `json:"app_name,omitempty"`
	UserID     string `json:"user_id,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
	TurnNumber int    `json:"turn_number,omitempty"` // 1-based
}

// ThreadID returns the session ID, or UnknownSession.
func (e ExecutionContext) ThreadID() string {
	if e.SessionID == "" {
		return UnknownSession
	}
	return e.SessionID
}

// EnrichAttributes returns base plus the low-cardinality turn attributes
// used on metrics. User and session IDs stay on spans only.
func (e ExecutionContext) EnrichAttributes(base []attribute.KeyValue) []attribute.KeyValue {
	out := append(make([]attribute.KeyValue, 0, len(base)+2), base...)
	if e.AppName != "" {
		out = append(out, attribute.String("app_name", e.AppName))
	}
	return append(out, attribute.Int("turn", e.TurnNumber))
}

func (e ExecutionContext) spanAttributes() []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for _, kv := range [...][2]string{{"app_name", e.AppName}, {"user_id", e.UserID}, {"session_id", e.SessionID}} {
		if kv[1] != "" {
			attrs = append(attrs, attribute.String(kv[0], kv[1]))
		}
	}
	if e.TurnNumber != 0 {
		attrs = append(attrs, attribute.Int("turn", e.TurnNumber))
	}
	return attrs
}

type execContextKey struct{}

// WithExecutionContext attaches e to ctx.
func WithExecutionContext(ctx context.Context, e ExecutionContext) context.Context {
	return context.WithValue(ctx, execContextKey{}, e)
}

// GetExecutionContext returns the ExecutionContext attached to ctx, or the
// zero value.
func GetExecutionContext(ctx context.Context) ExecutionContext {
	e, _ := ctx.Value(execContextKey{}).(ExecutionContext)
	return e
}
