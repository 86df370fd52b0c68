/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/mathagent/agents/agenttrace"
	"chainguard.dev/mathagent/agents/executor/retry"
	"chainguard.dev/mathagent/agents/metrics"
	"chainguard.dev/mathagent/agents/promptbuilder"
)

// maxOutputTokens is the largest max_tokens any supported model accepts.
const maxOutputTokens = 32000

// Option configures an executor. Options are applied in order, so
// WithThinking must follow any WithMaxTokens it depends on.
type Option[Request promptbuilder.Bindable, Response any] func(*executor[Request, Response]) error

// WithModel selects a claude-* model.
func WithModel[Request promptbuilder.Bindable, Response any](model string) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if !strings.HasPrefix(model, "claude-") {
			return fmt.Errorf("model %q does not appear to be a Claude model (expected claude-* format)", model)
		}
		e.model = model
		return nil
	}
}

// WithMaxTokens bounds each response, up to 32000 tokens.
func WithMaxTokens[Request promptbuilder.Bindable, Response any](tokens int64) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if tokens <= 0 || tokens > maxOutputTokens {
			return fmt.Errorf("max tokens must be in (0, %d], got %d", maxOutputTokens, tokens)
		}
		e.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature in [0, 1].
func WithTemperature[Request promptbuilder.Bindable, Response any](temp float64) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if temp < 0 || temp > 1 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		e.temperature = temp
		return nil
	}
}

// WithSystemInstructions sends prompt as the system prompt.
func WithSystemInstructions[Request promptbuilder.Bindable, Response any](prompt *promptbuilder.Prompt) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if prompt == nil {
			return errors.New("system instructions prompt cannot be nil")
		}
		e.system = prompt
		return nil
	}
}

// WithThinking enables extended thinking with a budget of at least 1024
// tokens and below max tokens. Thinking blocks land in Trace.Reasoning.
func WithThinking[Request promptbuilder.Bindable, Response any](budgetTokens int64) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		switch {
		case budgetTokens < 1024:
			return fmt.Errorf("thinking budget_tokens must be at least 1024, got %d", budgetTokens)
		case budgetTokens >= e.maxTokens:
			return fmt.Errorf("thinking budget_tokens (%d) must be less than max_tokens (%d)", budgetTokens, e.maxTokens)
		}
		e.thinking = budgetTokens
		return nil
	}
}

// WithResponseParser replaces JSON decoding of the final text.
func WithResponseParser[Request promptbuilder.Bindable, Response any](parse func(string) (Response, error)) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if parse == nil {
			return errors.New("response parser cannot be nil")
		}
		e.parse = parse
		return nil
	}
}

// WithAfterModelCallbacks runs callbacks after each response while the model
// call span is active.
func WithAfterModelCallbacks[Request promptbuilder.Bindable, Response any](callbacks ...agenttrace.AfterModelCallback) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		e.afterModel = append(e.afterModel, callbacks...)
		return nil
	}
}

// WithAttributeEnricher adds attributes to every token and tool call metric.
func WithAttributeEnricher[Request promptbuilder.Bindable, Response any](enricher metrics.AttributeEnricher) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		e.metrics.SetAttributeEnricher(enricher)
		return nil
	}
}

// WithRetryConfig controls retries of rate limited and overloaded calls.
func WithRetryConfig[Request promptbuilder.Bindable, Response any](cfg retry.Config) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		e.retry = cfg
		return nil
	}
}
