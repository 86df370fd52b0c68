/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/mathagent/agents/agenttrace"
	"chainguard.dev/mathagent/agents/executor/retry"
	"chainguard.dev/mathagent/agents/metrics"
	"chainguard.dev/mathagent/agents/promptbuilder"
)

const (
	maxOutputTokens = 32768
	// dynamicThinking lets the model size its own thinking budget.
	dynamicThinking = -1
)

// Option configures an executor. Options are applied in order, so
// WithThinking must follow any WithMaxOutputTokens it depends on.
type Option[Request promptbuilder.Bindable, Response any] func(*executor[Request, Response]) error

// WithModel selects a gemini-* model.
func WithModel[Request promptbuilder.Bindable, Response any](model string) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if !strings.HasPrefix(model, "gemini-") {
			return fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", model)
		}
		e.model = model
		return nil
	}
}

// WithTemperature sets the sampling temperature in [0, 2].
func WithTemperature[Request promptbuilder.Bindable, Response any](temperature float32) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if temperature < 0 || temperature > 2 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temperature)
		}
		e.temperature = temperature
		return nil
	}
}

// WithMaxOutputTokens bounds each response, up to 32768 tokens.
func WithMaxOutputTokens[Request promptbuilder.Bindable, Response any](tokens int32) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if tokens <= 0 || tokens > maxOutputTokens {
			return fmt.Errorf("max output tokens must be in (0, %d], got %d", maxOutputTokens, tokens)
		}
		e.maxTokens = tokens
		return nil
	}
}

// WithSystemInstructions sends prompt as the system instruction.
func WithSystemInstructions[Request promptbuilder.Bindable, Response any](prompt *promptbuilder.Prompt) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if prompt == nil {
			return errors.New("system instructions prompt cannot be nil")
		}
		e.system = prompt
		return nil
	}
}

// WithThinking enables thinking with a budget below the max output tokens,
// which thoughts count against, or -1 for a dynamic budget. Thoughts land in
// Trace.Reasoning.
func WithThinking[Request promptbuilder.Bindable, Response any](budgetTokens int32) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		switch {
		case budgetTokens == dynamicThinking:
		case budgetTokens <= 0:
			return fmt.Errorf("thinking budget must be positive (or -1 for dynamic), got %d", budgetTokens)
		case budgetTokens >= e.maxTokens:
			return fmt.Errorf("thinking budget (%d) must be less than max_output_tokens (%d)", budgetTokens, e.maxTokens)
		}
		e.thinking = &budgetTokens
		return nil
	}
}

// WithAttributeEnricher adds attributes to every token and tool call metric,
// for example metrics.ExecutionContextEnricher.
func WithAttributeEnricher[Request promptbuilder.Bindable, Response any](enricher metrics.AttributeEnricher) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		e.metrics.SetAttributeEnricher(enricher)
		return nil
	}
}

// WithRetryConfig controls retries of quota and availability errors.
func WithRetryConfig[Request promptbuilder.Bindable, Response any](cfg retry.Config) Option[Request, Response] {
	return func(e *executor[Request, Response]) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		e.retry = cfg
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
