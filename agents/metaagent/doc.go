/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metaagent builds agents that run on Gemini or Claude from one
// provider-neutral Config.
//
// The model name picks the provider. gemini-* models use the Gemini Developer
// API when BackendConfig has a Gemini key and Vertex AI otherwise; claude-*
// models likewise use the Anthropic API or Vertex AI. BackendConfig reads its
// credentials and retry policy from the environment.
//
//	var backend metaagent.BackendConfig
//	if err := envconfig.Process(ctx, &backend); err != nil {
//		return err
//	}
//	agent, err := metaagent.New[*mathagent.Request, string, toolCallbacks](ctx, backend, "gemini-2.0-flash",
//		metaagent.Config[string, toolCallbacks]{
//			SystemInstructions: instruction,
//			UserPrompt:         userPrompt,
//			Tools:              tools.NewArithmeticProvider(toolcall.NewEmptyToolsProvider[string]()),
//			ResponseParser:     result.Text,
//		})
//	reply, err := agent.Execute(ctx, request, callbacks)
package metaagent
