/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package agenttrace records what an agent did during one execution.

A Trace follows a prompt from submission to parsed result. It owns an
"agent.execution" span whose children are one "agent.model_call" span per
model exchange and one "agent.tool_call" span per tool invocation. When the
trace completes it is handed to the Tracer that opened it; ByCode tracers fan
it out to callbacks, which is how evals inspect agent behavior.

	ctx = agenttrace.WithExecutionContext(ctx, agenttrace.ExecutionContext{
		AppName: "math_assistant", UserID: "chance", SessionID: "s1", TurnNumber: 1,
	})
	ctx = agenttrace.WithTracer(ctx, agenttrace.ByCode[string](func(tr *agenttrace.Trace[string]) {
		fmt.Println(tr)
	}))

	tr := agenttrace.StartTrace[string](ctx, "Add 5 and 3")
	tr.StartToolCall("fc-1", "add_numbers", map[string]any{"a": 5.0, "b": 3.0}).
		Complete(map[string]any{"status": "success", "result": 8.0}, nil)
	tr.Complete("5 + 3 = 8", nil)

Executors call RunAfterModelCallbacks with the model call's context after each
response, so callbacks see the model call span as active. A callback that
panics is logged and skipped.

Without a Tracer in the context, StartTrace logs completed traces through
clog.
*/
package agenttrace
