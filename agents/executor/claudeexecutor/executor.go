/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"chainguard.dev/mathagent/agents/agenttrace"
	"chainguard.dev/mathagent/agents/executor/retry"
	"chainguard.dev/mathagent/agents/metrics"
	"chainguard.dev/mathagent/agents/promptbuilder"
	"chainguard.dev/mathagent/agents/result"
	"chainguard.dev/mathagent/agents/toolcall/claudetool"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
)

const (
	defaultModel       = "claude-sonnet-4-5"
	defaultMaxTokens   = 8192
	defaultTemperature = 0.1
	meterName          = "chainguard.dev/mathagent/agents"
)

// Interface runs one request through Claude, dispatching tool use until the
// model answers with text or a tool sets the response.
type Interface[Request promptbuilder.Bindable, Response any] interface {
	Execute(ctx context.Context, request Request, tools map[string]claudetool.Metadata[Response]) (Response, error)
}

type executor[Request promptbuilder.Bindable, Response any] struct {
	client      anthropic.Client
	model       string
	system      *promptbuilder.Prompt
	prompt      *promptbuilder.Prompt
	maxTokens   int64
	temperature float64
	thinking    int64 // budget in tokens, 0 when disabled
	parse       func(string) (Response, error)
	afterModel  []agenttrace.AfterModelCallback
	metrics     *metrics.GenAI
	retry       retry.Config
}

// New returns an executor rendering prompt for each request. Final text is
// decoded as JSON unless WithResponseParser says otherwise.
func New[Request promptbuilder.Bindable, Response any](
	client anthropic.Client,
	prompt *promptbuilder.Prompt,
	opts ...Option[Request, Response],
) (Interface[Request, Response], error) {
	if prompt == nil {
		return nil, errors.New("prompt cannot be nil")
	}

	e := &executor[Request, Response]{
		client:      client,
		model:       defaultModel,
		prompt:      prompt,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
		parse:       result.Extract[Response],
		metrics:     metrics.NewGenAI(meterName),
		retry:       retry.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

func (e *executor[Request, Response]) Execute(
	ctx context.Context,
	request Request,
	tools map[string]claudetool.Metadata[Response],
) (response Response, err error) {
	bound, err := request.Bind(e.prompt)
	if err != nil {
		return response, fmt.Errorf("failed to bind request to prompt: %w", err)
	}
	prompt, err := bound.Build()
	if err != nil {
		return response, fmt.Errorf("failed to build prompt: %w", err)
	}

	trace := agenttrace.StartTrace[Response](ctx, prompt)
	defer func() { trace.Complete(response, err) }()

	log := clog.FromContext(ctx).With("model", e.model)
	log.With("prompt_length", len(prompt)).Info("Starting Claude agent execution")

	params, err := e.messageParams(prompt, tools)
	if err != nil {
		return response, err
	}

	var final Response
	var in, out int64
	for call := 1; ; call++ {
		msg, err := e.send(ctx, trace, call, params)
		if err != nil {
			return response, err
		}
		if msg.Usage.InputTokens > 0 || msg.Usage.OutputTokens > 0 {
			in, out = in+msg.Usage.InputTokens, out+msg.Usage.OutputTokens
			trace.RecordTokenUsage(e.model, in, out)
		}

		text, uses := readMessage(trace, msg)
		if len(uses) == 0 {
			return e.finish(ctx, text)
		}

		results := make([]anthropic.ContentBlockParamUnion, 0, len(uses))
		for _, use := range uses {
			e.metrics.RecordToolCall(ctx, e.model, use.Name)
			block, err := e.runTool(ctx, trace, tools, use, &final)
			if err != nil {
				return response, err
			}
			results = append(results, block)

			if !reflect.ValueOf(&final).Elem().IsZero() {
				log.With("tool", use.Name).Info("Tool set the final result")
				return final, nil
			}
		}
		params.Messages = append(params.Messages, msg.ToParam(), anthropic.NewUserMessage(results...))
	}
}

func (e *executor[Request, Response]) messageParams(prompt string, tools map[string]claudetool.Metadata[Response]) (anthropic.MessageNewParams, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(e.model),
		MaxTokens:   e.maxTokens,
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(e.temperature),
	}
	for _, name := range slices.Sorted(maps.Keys(tools)) {
		def := tools[name].Definition
		params.Tools = append(params.Tools, anthropic.ToolUnionParam{OfTool: &def})
	}

	// Extended thinking only accepts a temperature of 1.
	if e.thinking > 0 {
		params.Temperature = anthropic.Float(1)
		params.Thinking = anthropic.ThinkingConfigParamUnion{
			OfEnabled: &anthropic.ThinkingConfigEnabledParam{BudgetTokens: e.thinking},
		}
	}

	if e.system != nil {
		system, err := e.system.Build()
		if err != nil {
			return params, fmt.Errorf("building system prompt: %w", err)
		}
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return params, nil
}

// send makes one Messages call inside its own model call span.
func (e *executor[Request, Response]) send(ctx context.Context, trace *agenttrace.Trace[Response], call int, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	mc := trace.StartModelCall(e.model, call)
	msg, err := retry.Do(mc.Context(), e.retry, "create_message", retryable, func(ctx context.Context) (*anthropic.Message, error) {
		return e.client.Messages.New(ctx, params)
	})
	if err != nil {
		mc.End(err)
		return nil, fmt.Errorf("failed to create Claude message: %w", err)
	}

	if in, out := msg.Usage.InputTokens, msg.Usage.OutputTokens; in > 0 || out > 0 {
		e.metrics.RecordTokens(ctx, e.model, in, out)
		mc.RecordTokenUsage(in, out)
	}
	agenttrace.RunAfterModelCallbacks(mc.Context(), e.afterModel...)
	mc.End(nil)
	return msg, nil
}

// readMessage returns the message text and tool use blocks, recording any
// thinking on the trace.
func readMessage[Response any](trace *agenttrace.Trace[Response], msg *anthropic.Message) (string, []anthropic.ToolUseBlock) {
	var text strings.Builder
	var uses []anthropic.ToolUseBlock
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			uses = append(uses, anthropic.ToolUseBlock{ID: block.ID, Name: block.Name, Input: block.Input})
		case "thinking", "redacted_thinking":
			trace.Reasoning = append(trace.Reasoning, agenttrace.ReasoningContent{Thinking: block.Thinking})
		}
	}
	return text.String(), uses
}

// runTool dispatches one tool use and wraps its response as a tool_result.
// Responses with an "error" key are flagged as errors.
func (e *executor[Request, Response]) runTool(
	ctx context.Context,
	trace *agenttrace.Trace[Response],
	tools map[string]claudetool.Metadata[Response],
	use anthropic.ToolUseBlock,
	final *Response,
) (anthropic.ContentBlockParamUnion, error) {
	log := clog.FromContext(ctx).With("tool", use.Name).With("id", use.ID)

	var resp map[string]any
	if meta, ok := tools[use.Name]; ok {
		log.Info("Executing tool call")
		resp = meta.Handler(ctx, use, trace, final)
	} else {
		log.Error("Unknown tool requested")
		trace.BadToolCall(use.ID, use.Name, map[string]any{"input": string(use.Input)},
			fmt.Errorf("unknown tool: %q", use.Name))
		resp = claudetool.Error("unknown tool: %q", use.Name)
	}

	body, err := json.Marshal(resp)
	if err != nil {
		return anthropic.ContentBlockParamUnion{}, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	_, isError := resp["error"]
	return anthropic.NewToolResultBlock(use.ID, string(body), isError), nil
}

func (e *executor[Request, Response]) finish(ctx context.Context, text string) (Response, error) {
	var zero Response
	if strings.TrimSpace(text) == "" {
		return zero, errors.New("no content in Claude's response")
	}
	resp, err := e.parse(text)
	if err != nil {
		clog.FromContext(ctx).With("response", text).Errorf("Failed to parse Claude response: %v", err)
		return zero, fmt.Errorf("failed to parse response: %w", err)
	}
	clog.FromContext(ctx).Info("Successfully completed Claude agent execution")
	return resp, nil
}
