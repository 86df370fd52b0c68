/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package judge grades model output with another model, one criterion at a time.
//
// A judge scores a reply from 0.0 to 1.0 either against a reference answer
// (GoldenMode) or on the criterion alone (StandaloneMode). New accepts any
// model name metaagent understands, so a Gemini agent can be judged by Claude
// and the other way around.
//
// # Usage
//
// NewStandaloneEval and NewGoldenEval turn a judge into an evaluation that
// reports the score through Observer.Grade:
//
//	j, err := judge.New(ctx, backend, "claude-sonnet-4-5")
//	if err != nil {
//		return err
//	}
//	evalMap := map[string]evals.ObservableTraceCallback[string]{
//		"tone": judge.NewStandaloneEval[string](j,
//			"friendly and encouraging, and explains the calculation"),
//	}
//
// Evals returns checks for the judge's own output, such as a score in range
// and non-empty reasoning. Pass them as callbacks to the eval constructors to
// evaluate the judge while it grades.
//
// Judges hold no per-request state and are safe for concurrent use.
package judge
