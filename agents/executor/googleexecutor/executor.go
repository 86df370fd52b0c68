/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"context"
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
	"chainguard.dev/mathagent/agents/toolcall/googletool"
	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

const (
	defaultModel     = "gemini-2.0-flash"
	defaultMaxTokens = 8192
	meterName        = "chainguard.dev/mathagent/agents"
)

// Interface runs one request through a Gemini chat, dispatching function
// calls until the model answers with text or a tool sets the response.
type Interface[Request promptbuilder.Bindable, Response any] interface {
	Execute(ctx context.Context, request Request, tools map[string]googletool.Metadata[Response]) (Response, error)
}

type executor[Request promptbuilder.Bindable, Response any] struct {
	client      *genai.Client
	prompt      *promptbuilder.Prompt
	system      *promptbuilder.Prompt
	model       string
	temperature float32
	maxTokens   int32
	thinking    *int32
	parse       func(string) (Response, error)
	afterModel  []agenttrace.AfterModelCallback
	metrics     *metrics.GenAI
	retry       retry.Config
}

// New returns an executor rendering prompt for each request. Final text is
// decoded as JSON unless WithResponseParser says otherwise.
func New[Request promptbuilder.Bindable, Response any](
	client *genai.Client,
	prompt *promptbuilder.Prompt,
	options ...Option[Request, Response],
) (Interface[Request, Response], error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
	if prompt == nil {
		return nil, errors.New("prompt is required")
	}

	e := &executor[Request, Response]{
		client:      client,
		prompt:      prompt,
		model:       defaultModel,
		temperature: 0.1,
		maxTokens:   defaultMaxTokens,
		parse:       result.Extract[Response],
		metrics:     metrics.NewGenAI(meterName),
		retry:       retry.Default(),
	}
	for _, opt := range options {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

func (e *executor[Request, Response]) Execute(
	ctx context.Context,
	request Request,
	tools map[string]googletool.Metadata[Response],
) (resp Response, err error) {
	bound, err := request.Bind(e.prompt)
	if err != nil {
		return resp, fmt.Errorf("failed to bind request to prompt: %w", err)
	}
	prompt, err := bound.Build()
	if err != nil {
		return resp, fmt.Errorf("failed to build prompt: %w", err)
	}

	trace := agenttrace.StartTrace[Response](ctx, prompt)
	defer func() { trace.Complete(resp, err) }()

	config, err := e.chatConfig(tools)
	if err != nil {
		return resp, err
	}

	log := clog.FromContext(ctx).With("model", e.model)
	log.Info("Creating Google AI chat session")
	chat, err := e.client.Chats.Create(ctx, e.model, config, nil)
	if err != nil {
		return resp, fmt.Errorf("failed to create chat with model %q: %w", e.model, err)
	}

	c := &conversation[Request, Response]{executor: e, chat: chat, trace: trace}
	response, err := c.send(ctx, "send_prompt", &genai.Part{Text: prompt})
	if err != nil {
		return resp, fmt.Errorf("failed to send prompt: %w", err)
	}

	var final Response
	for {
		log.With("candidates_count", len(response.Candidates)).Info("Received response from model")
		if len(response.Candidates) == 0 {
			return resp, errors.New("no content generated - no candidates")
		}

		candidate := response.Candidates[0]
		if candidate.FinishReason == genai.FinishReasonMalformedFunctionCall {
			log.With("finish_message", candidate.FinishMessage).
				Warn("Model attempted a malformed function call, asking it to retry")
			names := slices.Sorted(maps.Keys(tools))
			response, err = c.send(ctx, "send_malformed_retry", &genai.Part{
				Text: fmt.Sprintf("The function call was malformed. Please try again using the available functions: %v", names),
			})
			if err != nil {
				return resp, fmt.Errorf("failed to send retry message after malformed function call: %w", err)
			}
			continue
		}
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			return resp, errors.New("no content generated - candidate has no parts")
		}

		text, calls := c.read(ctx, candidate.Content.Parts)
		if len(calls) == 0 {
			return e.finish(ctx, text)
		}

		parts := make([]*genai.Part, 0, len(calls))
		for _, call := range calls {
			parts = append(parts, &genai.Part{FunctionResponse: c.dispatch(ctx, tools, call, &final)})
			if !reflect.ValueOf(&final).Elem().IsZero() {
				log.With("tool", call.Name).Info("Tool set the final result")
				return final, nil
			}
		}
		if response, err = c.send(ctx, "send_tool_responses", parts...); err != nil {
			return resp, fmt.Errorf("failed to send tool responses: %w", err)
		}
	}
}

func (e *executor[Request, Response]) chatConfig(tools map[string]googletool.Metadata[Response]) (*genai.GenerateContentConfig, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(e.temperature),
		MaxOutputTokens: e.maxTokens,
	}
	if e.system != nil {
		system, err := e.system.Build()
		if err != nil {
			return nil, fmt.Errorf("building system prompt: %w", err)
		}
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if len(tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(tools))
		for _, name := range slices.Sorted(maps.Keys(tools)) {
			decls = append(decls, tools[name].Definition)
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	if e.thinking != nil {
		config.ThinkingConfig = &genai.ThinkingConfig{IncludeThoughts: true, ThinkingBudget: e.thinking}
	}
	return config, nil
}

func (e *executor[Request, Response]) finish(ctx context.Context, text string) (Response, error) {
	var zero Response
	if strings.TrimSpace(text) == "" {
		clog.FromContext(ctx).Error("Unexpected response format - no text and no tool calls")
		return zero, errors.New("no text content found in response")
	}
	parsed, err := e.parse(text)
	if err != nil {
		clog.FromContext(ctx).With("response", text).Errorf("Failed to parse AI response: %v", err)
		return zero, fmt.Errorf("failed to parse AI response: %w", err)
	}
	return parsed, nil
}

// conversation is the state of one Execute call.
type conversation[Request promptbuilder.Bindable, Response any] struct {
	*executor[Request, Response]
	chat    *genai.Chat
	trace   *agenttrace.Trace[Response]
	calls   int
	in, out int64
}

// send performs one model exchange inside its own model call span.
func (c *conversation[Request, Response]) send(ctx context.Context, operation string, parts ...*genai.Part) (*genai.GenerateContentResponse, error) {
	c.calls++
	mc := c.trace.StartModelCall(c.model, c.calls)
	response, err := retry.Do(mc.Context(), c.retry, operation, retryable, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return c.chat.Send(ctx, parts...)
	})
	if err != nil {
		mc.End(err)
		return nil, err
	}

	if usage := response.UsageMetadata; usage != nil {
		in, out := int64(usage.PromptTokenCount), int64(usage.CandidatesTokenCount)
		c.metrics.RecordTokens(ctx, c.model, in, out)
		mc.RecordTokenUsage(in, out)
		c.in, c.out = c.in+in, c.out+out
		c.trace.RecordTokenUsage(c.model, c.in, c.out)
	}
	agenttrace.RunAfterModelCallbacks(mc.Context(), c.afterModel...)
	mc.End(nil)
	return response, nil
}

// read splits a candidate into its text and function calls, recording
// thoughts on the trace.
func (c *conversation[Request, Response]) read(ctx context.Context, parts []*genai.Part) (string, []*genai.FunctionCall) {
	log := clog.FromContext(ctx)
	var text strings.Builder
	var calls []*genai.FunctionCall
	for i, part := range parts {
		switch {
		case part.Thought:
			c.trace.Reasoning = append(c.trace.Reasoning, agenttrace.ReasoningContent{Thinking: part.Text})
		case part.Text != "":
			text.WriteString(part.Text)
		case part.FunctionCall != nil:
			calls = append(calls, part.FunctionCall)
		default:
			log.With("part_index", i).Warn("Found part with unexpected content")
		}
	}
	return text.String(), calls
}

// dispatch runs one function call. Unknown functions are answered with an
// error and recorded as bad tool calls.
func (c *conversation[Request, Response]) dispatch(ctx context.Context, tools map[string]googletool.Metadata[Response], call *genai.FunctionCall, final *Response) *genai.FunctionResponse {
	log := clog.FromContext(ctx).With("tool", call.Name).With("id", call.ID)
	c.metrics.RecordToolCall(ctx, c.model, call.Name)

	meta, ok := tools[call.Name]
	if !ok {
		log.Error("Unknown function call requested by model")
		c.trace.BadToolCall(call.ID, call.Name, call.Args, fmt.Errorf("unknown function: %q", call.Name))
		return googletool.Error(call, "Unknown function: %s", call.Name)
	}
	log.Info("Executing tool call")
	return meta.Handler(ctx, call, c.trace, final)
}
