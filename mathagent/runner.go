/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package mathagent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/mathagent/agents/agenttrace"
	"chainguard.dev/mathagent/agents/metaagent"
	"chainguard.dev/mathagent/agents/result"
	"chainguard.dev/mathagent/agents/toolcall"
	"chainguard.dev/mathagent/mathagent/tools"
	"github.com/chainguard-dev/clog"
)

// DefaultAppName is the app name sessions are created under.
const DefaultAppName = "math_assistant"

// ErrEmptyQuery is returned by Run for a blank query.
var ErrEmptyQuery = errors.New("query is empty")

type toolCallbacks = tools.ArithmeticTools[toolcall.EmptyTools]

// Runner executes turns of the math agent against in-memory sessions.
type Runner struct {
	appName  string
	model    string
	agent    metaagent.Agent[Request, string, toolCallbacks]
	sessions *SessionService
}

type options struct {
	appName    string
	model      string
	sessions   *SessionService
	afterModel []agenttrace.AfterModelCallback
}

// Option configures a Runner.
type Option func(*options)

// WithModel overrides the model named in agent.yaml.
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithAppName sets the app name sessions are created under.
func WithAppName(name string) Option {
	return func(o *options) { o.appName = name }
}

// WithSessionService shares a session service between runners.
func WithSessionService(s *SessionService) Option {
	return func(o *options) { o.sessions = s }
}

// WithAfterModelCallbacks registers callbacks run after every model response.
func WithAfterModelCallbacks(callbacks ...agenttrace.AfterModelCallback) Option {
	return func(o *options) { o.afterModel = append(o.afterModel, callbacks...) }
}

// New builds a Runner for the embedded agent definition.
func New(ctx context.Context, backend metaagent.BackendConfig, opts ...Option) (*Runner, error) {
	def, err := LoadDefinition()
	if err != nil {
		return nil, err
	}
	system, user, err := def.Prompts()
	if err != nil {
		return nil, err
	}

	o := options{appName: DefaultAppName, model: def.Model}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sessions == nil {
		o.sessions = NewSessionService()
	}

	agent, err := metaagent.New[Request, string, toolCallbacks](ctx, backend, o.model, metaagent.Config[string, toolCallbacks]{
		SystemInstructions:  system,
		UserPrompt:          user,
		Tools:               tools.NewArithmeticProvider(toolcall.NewEmptyToolsProvider[string]()),
		ResponseParser:      result.Text,
		AfterModelCallbacks: o.afterModel,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", def.Name, err)
	}

	return &Runner{
		appName:  o.appName,
		model:    o.model,
		agent:    agent,
		sessions: o.sessions,
	}, nil
}

// AppName returns the app name sessions belong to.
func (r *Runner) AppName() string { return r.appName }

// Model returns the model the runner talks to.
func (r *Runner) Model() string { return r.model }

// Sessions returns the runner's session service.
func (r *Runner) Sessions() *SessionService { return r.sessions }

// Run executes one turn of the session and records it.
func (r *Runner) Run(ctx context.Context, userID, sessionID, query string) (*Reply, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	sess, err := r.sessions.Get(r.appName, userID, sessionID)
	if err != nil {
		return nil, err
	}
	turn := len(sess.Turns) + 1

	ctx = agenttrace.WithExecutionContext(ctx, agenttrace.ExecutionContext{
		AppName:    r.appName,
		UserID:     userID,
		SessionID:  sessionID,
		TurnNumber: turn,
	})
	log := clog.FromContext(ctx).With("session_id", sessionID).With("turn", turn)
	log.Info("Running math agent turn")

	var parts []Part
	callbacks := tools.NewArithmeticTools(toolcall.EmptyTools{}, tools.Callbacks{
		OnResult: func(_ context.Context, name string, res tools.Result) {
			parts = append(parts, FunctionResultPart{Name: name, Result: res})
		},
	})

	text, err := r.agent.Execute(ctx, Request{Query: query, History: sess.Turns}, callbacks)
	if err != nil {
		return nil, fmt.Errorf("turn %d: %w", turn, err)
	}

	if _, err := r.sessions.Append(r.appName, userID, sessionID, Exchange{Query: query, Reply: text}); err != nil {
		return nil, err
	}

	log.With("tool_results", len(parts)).Info("Completed math agent turn")
	return &Reply{Parts: append(parts, TextPart{Text: text})}, nil
}
