/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/mathagent/agents/promptbuilder"
	"chainguard.dev/mathagent/agents/toolcall"
)

// ErrNoCredentials is returned when a backend has neither an API key nor a Vertex project.
var ErrNoCredentials = errors.New("no model credentials configured")

// Agent runs requests of type Req, building its tools from the callbacks CB
// on every call.
type Agent[Req promptbuilder.Bindable, Resp, CB any] interface {
	Execute(ctx context.Context, request Req, callbacks CB) (Resp, error)
}

// New returns an agent on the provider the model name selects: gemini-*
// models run on Gemini, claude-* models on Claude.
func New[Req promptbuilder.Bindable, Resp, CB any](
	ctx context.Context,
	backend BackendConfig,
	model string,
	config Config[Resp, CB],
) (Agent[Req, Resp, CB], error) {
	if config.UserPrompt == nil {
		return nil, errors.New("user prompt is required")
	}
	if config.Tools == nil {
		return nil, errors.New("tool provider is required")
	}

	switch lower := strings.ToLower(model); {
	case strings.HasPrefix(lower, "gemini-"):
		return newGoogleAgent[Req, Resp, CB](ctx, backend, model, config)
	case strings.HasPrefix(lower, "claude-"):
		return newClaudeAgent[Req, Resp, CB](ctx, backend, model, config)
	default:
		return nil, fmt.Errorf("unsupported model: %s (expected gemini-* or claude-*)", model)
	}
}

// providerAgent binds a provider executor to a tool provider. Meta is the
// provider's tool metadata type.
type providerAgent[Req promptbuilder.Bindable, Resp, CB, Meta any] struct {
	execute func(context.Context, Req, map[string]Meta) (Resp, error)
	convert func(map[string]toolcall.Tool[Resp]) map[string]Meta
	tools   toolcall.ToolProvider[Resp, CB]
}

func (a providerAgent[Req, Resp, CB, Meta]) Execute(ctx context.Context, request Req, callbacks CB) (Resp, error) {
	return a.execute(ctx, request, a.convert(a.tools.Tools(callbacks)))
}
