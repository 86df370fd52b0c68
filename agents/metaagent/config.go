/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"chainguard.dev/mathagent/agents/agenttrace"
	"chainguard.dev/mathagent/agents/executor/retry"
	"chainguard.dev/mathagent/agents/promptbuilder"
	"chainguard.dev/mathagent/agents/toolcall"
)

// Config defines the configuration for a meta-agent instance.
//   - Resp is the structured response type returned by the agent.
//   - CB is the type providing all tool callbacks.
type Config[Resp, CB any] struct {
	// SystemInstructions is the system prompt that defines the agent's role and behavior.
	SystemInstructions *promptbuilder.Prompt

	// UserPrompt is the template for formatting the user's request.
	// The Req type is bound to this template via its Bind method.
	UserPrompt *promptbuilder.Prompt

	// Tools provides all tool definitions for this agent.
	Tools toolcall.ToolProvider[Resp, CB]

	// ResponseParser turns the model's final text into a Resp.
	// When nil the text is decoded as JSON.
	ResponseParser func(string) (Resp, error)

	// AfterModelCallbacks run inside every model call span once the model responds.
	AfterModelCallbacks []agenttrace.AfterModelCallback

	// Temperature overrides the backend default when non-nil.
	Temperature *float64
}

// BackendConfig holds the credentials used to reach the model provider.
type BackendConfig struct {
	// GeminiAPIKey selects the Gemini Developer API for gemini-* models.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	// AnthropicAPIKey selects the Anthropic API for claude-* models.
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`

	// Project and Location select Vertex AI when no API key is set.
	Project  string `env:"GOOGLE_CLOUD_PROJECT"`
	Location string `env:"GOOGLE_CLOUD_LOCATION,default=us-central1"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `env:"MATH_AGENT_MODEL_BASE_URL"`

	// Retry controls retries of transient model errors. The zero value
	// keeps the executor default.
	Retry retry.Config
}
