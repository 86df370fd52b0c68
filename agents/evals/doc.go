/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package evals checks agent behavior from completed traces.

A check is an ObservableTraceCallback that inspects an agenttrace.Trace and
reports verdicts to an Observer. BuildTracer binds a set of named checks to
a NamespacedObserver, one child per check, and returns a tracer that runs
them whenever a trace completes:

	obs := evals.NewNamespacedObserver(func(name string) *evals.ResultCollector {
		return evals.NewResultCollector(evals.NewMetricsObserver[*mathagent.Reply](name))
	})
	ctx = agenttrace.WithTracer(ctx, evals.BuildTracer(obs.Child("add"),
		map[string]evals.ObservableTraceCallback[*mathagent.Reply]{
			"no-errors": evals.NoErrors[*mathagent.Reply](),
			"tools":     evals.RequiredToolCalls[*mathagent.Reply]([]string{"add_numbers"}),
		}))

MetricsObserver exports counts and grades to Prometheus, ResultCollector
keeps them for the report package, and testevals fails a running test.

Only Trace.Result is typed by T. ToolCall.Result holds whatever the handler
returned, so checks on it use type assertions.
*/
package evals
