/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudeexecutor runs agents on the Claude Messages API.
//
// An executor renders its prompt for a request, then loops: send the
// conversation, run any tool use blocks through the given tools, and send
// their results back, until Claude answers with text. The text is parsed into
// the Response, as JSON by default. A tool that sets the response pointer
// ends the loop early.
//
//	exec, err := claudeexecutor.New[*Request, *Reply](client, prompt,
//		claudeexecutor.WithModel[*Request, *Reply]("claude-sonnet-4-5"),
//		claudeexecutor.WithResponseParser[*Request, *Reply](parseReply),
//	)
//	reply, err := exec.Execute(ctx, request, claudetool.Map(provider.Tools(callbacks)))
//
// Every execution is an agenttrace.Trace, with one "agent.model_call" span
// per Messages call. Calls rejected with 429, 503, 504 or 529 are retried
// with backoff, see WithRetryConfig.
//
// WithThinking turns on extended thinking; the API then requires a
// temperature of 1, which the executor sets.
package claudeexecutor
