/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package mathagent is a conversational agent that answers arithmetic
// questions by calling the tools in the tools subpackage.
//
// The agent is declared in an embedded agent.yaml that names its model and
// its instruction and prompt templates. A Runner drives one turn at a time
// against a session held by an in-memory SessionService:
//
//	runner, err := mathagent.New(ctx, backend,
//		mathagent.WithAfterModelCallbacks(telemetry.AnnotateModelCall))
//	if err != nil {
//		return err
//	}
//	if _, err := runner.Sessions().Create(runner.AppName(), "user", "session"); err != nil {
//		return err
//	}
//	reply, err := runner.Run(ctx, "user", "session", "Add 5 and 3")
//
// A Reply holds the tool results produced during the turn followed by the
// model's final text.
package mathagent
