/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"context"
	"fmt"

	"chainguard.dev/mathagent/agents/executor/claudeexecutor"
	"chainguard.dev/mathagent/agents/executor/retry"
	"chainguard.dev/mathagent/agents/promptbuilder"
	"chainguard.dev/mathagent/agents/toolcall/claudetool"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
)

func newClaudeClient(ctx context.Context, backend BackendConfig) (anthropic.Client, error) {
	var opts []option.RequestOption
	switch {
	case backend.AnthropicAPIKey != "":
		opts = append(opts, option.WithAPIKey(backend.AnthropicAPIKey))
	case backend.Project != "":
		opts = append(opts, vertex.WithGoogleAuth(ctx, backend.Location, backend.Project))
	default:
		return anthropic.Client{}, fmt.Errorf("claude backend: %w", ErrNoCredentials)
	}
	if backend.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(backend.BaseURL))
	}
	return anthropic.NewClient(opts...), nil
}

func newClaudeAgent[Req promptbuilder.Bindable, Resp, CB any](
	ctx context.Context,
	backend BackendConfig,
	model string,
	config Config[Resp, CB],
) (Agent[Req, Resp, CB], error) {
	client, err := newClaudeClient(ctx, backend)
	if err != nil {
		return nil, fmt.Errorf("creating Claude client: %w", err)
	}

	opts := []claudeexecutor.Option[Req, Resp]{
		claudeexecutor.WithModel[Req, Resp](model),
		claudeexecutor.WithMaxTokens[Req, Resp](8192),
		claudeexecutor.WithAfterModelCallbacks[Req, Resp](config.AfterModelCallbacks...),
	}
	if config.Temperature != nil {
		opts = append(opts, claudeexecutor.WithTemperature[Req, Resp](*config.Temperature))
	}
	if config.SystemInstructions != nil {
		opts = append(opts, claudeexecutor.WithSystemInstructions[Req, Resp](config.SystemInstructions))
	}
	if config.ResponseParser != nil {
		opts = append(opts, claudeexecutor.WithResponseParser[Req, Resp](config.ResponseParser))
	}
	if backend.Retry != (retry.Config{}) {
		opts = append(opts, claudeexecutor.WithRetryConfig[Req, Resp](backend.Retry))
	}

	executor, err := claudeexecutor.New[Req, Resp](client, config.UserPrompt, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Claude executor: %w", err)
	}

	return providerAgent[Req, Resp, CB, claudetool.Metadata[Resp]]{
		execute: executor.Execute,
		convert: claudetool.Map[Resp],
		tools:   config.Tools,
	}, nil
}
