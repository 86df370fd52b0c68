/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package evals

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"chainguard.dev/mathagent/agents/agenttrace"
)

// toolCountCheck fails traces whose tool call count n does not satisfy ok.
func toolCountCheck[T any](ok func(n int) bool, wanted string) ObservableTraceCallback[T] {
	return func(o Observer, trace *agenttrace.Trace[T]) {
		if n := len(trace.ToolCalls); !ok(n) {
			o.Fail(fmt.Sprintf("tool call count: got = %d, wanted %s", n, wanted))
		}
	}
}

// ExactToolCalls requires exactly n tool calls.
func ExactToolCalls[T any](n int) ObservableTraceCallback[T] {
	return toolCountCheck[T](func(got int) bool { return got == n }, fmt.Sprintf("= %d", n))
}

// MinimumNToolCalls requires at least n tool calls.
func MinimumNToolCalls[T any](n int) ObservableTraceCallback[T] {
	return toolCountCheck[T](func(got int) bool { return got >= n }, fmt.Sprintf(">= %d", n))
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// OnlyToolCalls fails on the first call to a tool outside toolNames.
func OnlyToolCalls[T any](toolNames ...string) ObservableTraceCallback[T] {
	allowed := nameSet(toolNames)
	return func(o Observer, trace *agenttrace.Trace[T]) {
		for _, tc := range trace.ToolCalls {
			if !allowed[tc.Name] {
				o.Fail(fmt.Sprintf("unexpected tool call %q, only allowed: %v", tc.Name, toolNames))
				return
			}
		}
	}
}

// RequiredToolCalls requires at least one call to each of toolNames.
func RequiredToolCalls[T any](toolNames []string) ObservableTraceCallback[T] {
	required := nameSet(toolNames)
	return func(o Observer, trace *agenttrace.Trace[T]) {
		missing := maps.Clone(required)
		for _, tc := range trace.ToolCalls {
			delete(missing, tc.Name)
		}
		if len(missing) > 0 {
			o.Fail(fmt.Sprintf("missing required tool calls: %v", slices.Sorted(maps.Keys(missing))))
		}
	}
}

// ToolCallNamed requires a call to name and checks each such call with
// validator, failing on the first error.
func ToolCallNamed[T any](name string, validator func(o Observer, tc *agenttrace.ToolCall[T]) error) ObservableTraceCallback[T] {
	return func(o Observer, trace *agenttrace.Trace[T]) {
		matched := 0
		for _, tc := range trace.ToolCalls {
			if tc.Name != name {
				continue
			}
			matched++
			if err := validator(o, tc); err != nil {
				o.Fail(fmt.Sprintf("tool call %s validation failed: %v", name, err))
				return
			}
		}
		if matched == 0 {
			o.Fail(fmt.Sprintf("tool call named %q: got = not found, wanted = found", name))
		}
	}
}

// NoErrors requires the execution and every tool call to succeed.
func NoErrors[T any]() ObservableTraceCallback[T] {
	return func(o Observer, trace *agenttrace.Trace[T]) {
		if trace.Error != nil {
			o.Fail(fmt.Sprintf("trace error: got = %v, wanted = nil", trace.Error))
			return
		}
		if i := slices.IndexFunc(trace.ToolCalls, func(tc *agenttrace.ToolCall[T]) bool { return tc.Error != nil }); i >= 0 {
			tc := trace.ToolCalls[i]
			o.Fail(fmt.Sprintf("tool call %s error: got = %v, wanted = nil", tc.Name, tc.Error))
		}
	}
}

// ResultValidator checks the trace result with validator. A nil result
// fails without reaching it.
func ResultValidator[T any](validator func(result T) error) ObservableTraceCallback[T] {
	return func(o Observer, trace *agenttrace.Trace[T]) {
		if v := reflect.ValueOf(trace.Result); !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
			o.Fail("result is nil")
			return
		}
		if err := validator(trace.Result); err != nil {
			o.Fail(err.Error())
		}
	}
}

// BuildCallbacks binds each check in evalMap to the child of observer
// named after it.
func BuildCallbacks[T any, O Observer](observer *NamespacedObserver[O], evalMap map[string]ObservableTraceCallback[T]) []agenttrace.TraceCallback[T] {
	callbacks := make([]agenttrace.TraceCallback[T], 0, len(evalMap))
	for name, check := range evalMap {
		callbacks = append(callbacks, Inject(observer.Child(name), check))
	}
	return callbacks
}

// BuildTracer returns a tracer running every check in evalMap on each
// completed trace.
func BuildTracer[T any, O Observer](observer *NamespacedObserver[O], evalMap map[string]ObservableTraceCallback[T]) agenttrace.Tracer[T] {
	return agenttrace.ByCode[T](BuildCallbacks(observer, evalMap)...)
}
