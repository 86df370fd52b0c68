/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"context"
	"fmt"

	"chainguard.dev/mathagent/agents/executor/googleexecutor"
	"chainguard.dev/mathagent/agents/executor/retry"
	"chainguard.dev/mathagent/agents/promptbuilder"
	"chainguard.dev/mathagent/agents/toolcall/googletool"
	"google.golang.org/genai"
)

func newGoogleClient(ctx context.Context, backend BackendConfig) (*genai.Client, error) {
	cc := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{BaseURL: backend.BaseURL},
	}
	switch {
	case backend.GeminiAPIKey != "":
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = backend.GeminiAPIKey
	case backend.Project != "":
		cc.Backend = genai.BackendVertexAI
		cc.Project = backend.Project
		cc.Location = backend.Location
	default:
		return nil, fmt.Errorf("gemini backend: %w", ErrNoCredentials)
	}
	return genai.NewClient(ctx, cc)
}

func newGoogleAgent[Req promptbuilder.Bindable, Resp, CB any](
	ctx context.Context,
	backend BackendConfig,
	model string,
	config Config[Resp, CB],
) (Agent[Req, Resp, CB], error) {
	client, err := newGoogleClient(ctx, backend)
	if err != nil {
		return nil, fmt.Errorf("creating Google AI client: %w", err)
	}

	opts := []googleexecutor.Option[Req, Resp]{
		googleexecutor.WithModel[Req, Resp](model),
		googleexecutor.WithMaxOutputTokens[Req, Resp](8192),
		googleexecutor.WithAfterModelCallbacks[Req, Resp](config.AfterModelCallbacks...),
	}
	if config.Temperature != nil {
		opts = append(opts, googleexecutor.WithTemperature[Req, Resp](float32(*config.Temperature)))
	}
	if config.SystemInstructions != nil {
		opts = append(opts, googleexecutor.WithSystemInstructions[Req, Resp](config.SystemInstructions))
	}
	if config.ResponseParser != nil {
		opts = append(opts, googleexecutor.WithResponseParser[Req, Resp](config.ResponseParser))
	}
	if backend.Retry != (retry.Config{}) {
		opts = append(opts, googleexecutor.WithRetryConfig[Req, Resp](backend.Retry))
	}

	executor, err := googleexecutor.New[Req, Resp](client, config.UserPrompt, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Google executor: %w", err)
	}

	return providerAgent[Req, Resp, CB, googletool.Metadata[Resp]]{
		execute: executor.Execute,
		convert: googletool.Map[Resp],
		tools:   config.Tools,
	}, nil
}
