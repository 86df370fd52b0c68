/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metaagent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"chainguard.dev/mathagent/agents/agenttrace"
	"chainguard.dev/mathagent/agents/executor/claudeexecutor/claudetest"
	"chainguard.dev/mathagent/agents/executor/googleexecutor/googletest"
	"chainguard.dev/mathagent/agents/executor/retry"
	"chainguard.dev/mathagent/agents/promptbuilder"
	"chainguard.dev/mathagent/agents/toolcall"
	"github.com/sethvargo/go-envconfig"
)

type testRequest struct{}

func (r *testRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	return p, nil
}

type testResponse struct {
	Answer float64 `json:"answer"`
}

// counter records how many times its tool ran.
type counter struct {
	calls int
}

type counterProvider struct{}

func (counterProvider) Tools(cb *counter) map[string]toolcall.Tool[*testResponse] {
	return map[string]toolcall.Tool[*testResponse]{
		"count": {
			Def: toolcall.Definition{Name: "count", Description: "Counts calls"},
			Handler: func(context.Context, toolcall.ToolCall, *agenttrace.Trace[*testResponse], **testResponse) map[string]any {
				cb.calls++
				return map[string]any{"calls": cb.calls}
			},
		},
	}
}

func testConfig(hook agenttrace.AfterModelCallback) Config[*testResponse, *counter] {
	return Config[*testResponse, *counter]{
		SystemInstructions:  promptbuilder.MustNewPrompt("Count, then answer."),
		UserPrompt:          promptbuilder.MustNewPrompt("How many?"),
		Tools:               counterProvider{},
		AfterModelCallbacks: []agenttrace.AfterModelCallback{hook},
	}
}

func TestNewModelSelection(t *testing.T) {
	ctx := context.Background()
	config := testConfig(nil)
	backend := BackendConfig{GeminiAPIKey: "k", AnthropicAPIKey: "k"}

	tests := []struct {
		name    string
		model   string
		wantErr string
	}{{
		name:    "unsupported model",
		model:   "unknown-model",
		wantErr: "unsupported model",
	}, {
		name:    "empty model",
		model:   "",
		wantErr: "unsupported model",
	}, {
		name:    "partial gemini",
		model:   "gem",
		wantErr: "unsupported model",
	}, {
		name:    "partial claude",
		model:   "cla",
		wantErr: "unsupported model",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New[*testRequest](ctx, backend, tt.model, config)
			if err == nil {
				t.Errorf("New() error = nil, wantErr containing %q", tt.wantErr)
				return
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New() error = %v, wantErr containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewRequiresConfig(t *testing.T) {
	ctx := context.Background()
	backend := BackendConfig{GeminiAPIKey: "k"}

	noPrompt := testConfig(nil)
	noPrompt.UserPrompt = nil
	if _, err := New[*testRequest](ctx, backend, "gemini-2.0-flash", noPrompt); err == nil {
		t.Error("New(no prompt): got = nil error, wanted = error")
	}

	noTools := testConfig(nil)
	noTools.Tools = nil
	if _, err := New[*testRequest](ctx, backend, "gemini-2.0-flash", noTools); err == nil {
		t.Error("New(no tools): got = nil error, wanted = error")
	}
}

func TestBackendConfigFromEnv(t *testing.T) {
	var backend BackendConfig
	err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target: &backend,
		Lookuper: envconfig.MapLookuper(map[string]string{
			"GEMINI_API_KEY":    "k",
			"MODEL_MAX_RETRIES": "2",
		}),
	})
	if err != nil {
		t.Fatalf("ProcessWith() = %v", err)
	}
	want := retry.Config{MaxRetries: 2, BaseBackoff: time.Second, MaxBackoff: time.Minute, MaxJitter: 500 * time.Millisecond}
	if backend.Retry != want {
		t.Errorf("Retry: got = %+v, wanted = %+v", backend.Retry, want)
	}
	if backend.Location != "us-central1" {
		t.Errorf("Location: got = %q, wanted = us-central1", backend.Location)
	}
}

func TestNewInvalidRetry(t *testing.T) {
	ctx := context.Background()
	bad := retry.Config{MaxRetries: -1}
	for _, model := range []string{"gemini-2.0-flash", "claude-sonnet-4-5"} {
		backend := BackendConfig{GeminiAPIKey: "k", AnthropicAPIKey: "k", Retry: bad}
		if _, err := New[*testRequest](ctx, backend, model, testConfig(nil)); err == nil {
			t.Errorf("New(%s): got = nil error, wanted = retry config error", model)
		}
	}
}

func TestNewNoCredentials(t *testing.T) {
	ctx := context.Background()
	for _, model := range []string{"gemini-2.0-flash", "claude-sonnet-4-5"} {
		t.Run(model, func(t *testing.T) {
			_, err := New[*testRequest](ctx, BackendConfig{}, model, testConfig(nil))
			if !errors.Is(err, ErrNoCredentials) {
				t.Errorf("New(): got = %v, wanted = %v", err, ErrNoCredentials)
			}
		})
	}
}

func TestGeminiBackend(t *testing.T) {
	srv := googletest.New(t,
		googletest.Call("c1", "count", nil),
		googletest.Text(`{"answer": 1}`),
	)

	hooks := 0
	agent, err := New[*testRequest](context.Background(),
		BackendConfig{GeminiAPIKey: "test-key", BaseURL: srv.URL},
		"gemini-2.0-flash", testConfig(func(context.Context) { hooks++ }))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	cb := &counter{}
	got, err := agent.Execute(context.Background(), &testRequest{}, cb)
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if got.Answer != 1 {
		t.Errorf("answer: got = %v, wanted = 1", got.Answer)
	}
	if cb.calls != 1 {
		t.Errorf("tool calls: got = %d, wanted = 1", cb.calls)
	}
	if hooks != 2 {
		t.Errorf("after-model callbacks: got = %d, wanted = 2", hooks)
	}
	if reqs := srv.Requests(); len(reqs) != 2 || reqs[0].Model != "gemini-2.0-flash" {
		t.Errorf("requests: got = %+v, wanted = two gemini-2.0-flash calls", reqs)
	}
}

func TestClaudeBackend(t *testing.T) {
	srv := claudetest.New(t,
		claudetest.ToolUse("toolu_1", "count", map[string]any{}),
		claudetest.Text(`{"answer": 1}`),
	)

	hooks := 0
	config := testConfig(func(context.Context) { hooks++ })
	temp := 0.0
	config.Temperature = &temp
	config.ResponseParser = func(s string) (*testResponse, error) {
		if !strings.Contains(s, "1") {
			return nil, errors.New("no answer")
		}
		return &testResponse{Answer: 1}, nil
	}

	agent, err := New[*testRequest](context.Background(),
		BackendConfig{AnthropicAPIKey: "test-key", BaseURL: srv.URL},
		"claude-sonnet-4-5", config)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	cb := &counter{}
	got, err := agent.Execute(context.Background(), &testRequest{}, cb)
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if got.Answer != 1 {
		t.Errorf("answer: got = %v, wanted = 1", got.Answer)
	}
	if cb.calls != 1 {
		t.Errorf("tool calls: got = %d, wanted = 1", cb.calls)
	}
	if hooks != 2 {
		t.Errorf("after-model callbacks: got = %d, wanted = 2", hooks)
	}
	if reqs := srv.Requests(); len(reqs) != 2 || len(reqs[0].System) != 1 {
		t.Errorf("requests: got = %+v, wanted = two calls with a system prompt", reqs)
	}
}
