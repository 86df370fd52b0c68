/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package testevals adapts testing.TB to evals.Observer so that evaluation
// callbacks fail the running test.
//
//	func TestAddition(t *testing.T) {
//	    obs := evals.NewNamespacedObserver(func(name string) evals.Observer {
//	        return testevals.NewPrefix(t, name)
//	    })
//	    ctx := agenttrace.WithTracer(ctx, evals.BuildTracer(obs, map[string]evals.ObservableTraceCallback[*mathagent.Reply]{
//	        "no-errors": evals.NoErrors[*mathagent.Reply](),
//	        "add":       evals.RequiredToolCalls[*mathagent.Reply]([]string{"add_numbers"}),
//	    }))
//	    // run the agent with ctx
//	}
package testevals
