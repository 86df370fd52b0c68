/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"chainguard.dev/mathagent/agents/agenttrace"
	"chainguard.dev/mathagent/agents/evals"
)

// NewGoldenEval creates an evaluation that grades the trace result against goldenAnswer.
func NewGoldenEval[T any](j Interface, criterion, goldenAnswer string, callbacks ...agenttrace.TraceCallback[*Judgement]) evals.ObservableTraceCallback[T] {
	return newEval[T](j, GoldenMode, criterion, goldenAnswer, callbacks)
}

// NewStandaloneEval creates an evaluation that grades the trace result on criterion alone.
func NewStandaloneEval[T any](j Interface, criterion string, callbacks ...agenttrace.TraceCallback[*Judgement]) evals.ObservableTraceCallback[T] {
	return newEval[T](j, StandaloneMode, criterion, "", callbacks)
}

func newEval[T any](j Interface, mode JudgmentMode, criterion, reference string, callbacks []agenttrace.TraceCallback[*Judgement]) evals.ObservableTraceCallback[T] {
	return func(o evals.Observer, trace *agenttrace.Trace[T]) {
		answer, err := answerText(trace.Result)
		if err != nil {
			o.Fail(fmt.Sprintf("Failed to extract response: %v", err))
			return
		}

		// The judge's own trace goes to callbacks, keeping the judged session's context for metrics.
		ctx := agenttrace.WithTracer(context.Background(), agenttrace.ByCode(callbacks...))
		ctx = agenttrace.WithExecutionContext(ctx, trace.ExecContext)
		resp, err := j.Judge(ctx, &Request{
			Mode:            mode,
			ReferenceAnswer: reference,
			ActualAnswer:    answer,
			Criterion:       criterion,
		})
		if err != nil {
			o.Fail(fmt.Sprintf("Judge failed: %v", err))
			return
		}

		o.Grade(resp.Score, resp.Reasoning)
		for _, suggestion := range resp.Suggestions {
			o.Log("  Suggestion: " + suggestion)
		}
	}
}

// answerText renders a trace result for the judge. Strings pass through and
// anything else is indented JSON.
func answerText(result any) (string, error) {
	if s, ok := result.(string); ok {
		if s == "" {
			return "", errors.New("trace has no result")
		}
		return s, nil
	}
	v := reflect.ValueOf(result)
	if !v.IsValid() || (v.Kind() == reflect.Pointer || v.Kind() == reflect.Map || v.Kind() == reflect.Slice) && v.IsNil() {
		return "", errors.New("trace has no result")
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(data), nil
}
