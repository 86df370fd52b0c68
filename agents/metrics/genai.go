/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics counts model token usage and tool calls with OpenTelemetry.
package metrics

import (
	"context"

	"chainguard.dev/mathagent/agents/agenttrace"
	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// AttributeEnricher returns base extended with attributes derived from ctx.
type AttributeEnricher func(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue

// ExecutionContextEnricher adds the app name and turn of the execution
// context in ctx.
func ExecutionContextEnricher(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue {
	return agenttrace.GetExecutionContext(ctx).EnrichAttributes(base)
}

// GenAI holds the counters executors record model usage on. All executors
// share one meter name; the model is an attribute.
type GenAI struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	toolCalls        metric.Int64Counter
	enrich           AttributeEnricher
}

// NewGenAI creates the counters on the global meter provider. A counter
// that cannot be created is logged and replaced by a no-op.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName)
	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			clog.FromContext(context.Background()).With("meter", meterName).
				Warnf("Creating counter %s failed, it will not be recorded: %v", name, err)
			return noop.Int64Counter{}
		}
		return c
	}
	return &GenAI{
		promptTokens:     counter("genai.token.prompt", "Prompt tokens sent to the model", "{tokens}"),
		completionTokens: counter("genai.token.completion", "Completion tokens returned by the model", "{tokens}"),
		toolCalls:        counter("genai.tool.calls", "Tool calls requested by the model", "{calls}"),
	}
}

// SetAttributeEnricher installs an enricher applied to every recording.
func (m *GenAI) SetAttributeEnricher(enricher AttributeEnricher) {
	m.enrich = enricher
}

func (m *GenAI) attributes(ctx context.Context, base []attribute.KeyValue, extra []attribute.KeyValue) metric.MeasurementOption {
	if m.enrich != nil {
		base = m.enrich(ctx, base)
	}
	return metric.WithAttributes(append(base, extra...)...)
}

// RecordTokens adds one model response's token usage.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64, attrs ...attribute.KeyValue) {
	opt := m.attributes(ctx, []attribute.KeyValue{attribute.String("model", model)}, attrs)
	m.promptTokens.Add(ctx, promptTokens, opt)
	m.completionTokens.Add(ctx, completionTokens, opt)
}

// RecordToolCall counts one call of toolName.
func (m *GenAI) RecordToolCall(ctx context.Context, model, toolName string, attrs ...attribute.KeyValue) {
	opt := m.attributes(ctx, []attribute.KeyValue{
		attribute.String("model", model),
		attribute.String("tool", toolName),
	}, attrs)
	m.toolCalls.Add(ctx, 1, opt)
}
