/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudetest provides a scripted Anthropic Messages API server for tests.
package claudetest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Block is the wire form of a content block sent by the client.
type Block struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   []Block         `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
}

// Message is one turn of the conversation.
type Message struct {
	Role    string  `json:"role"`
	Content []Block `json:"content"`
}

// Request is a Messages API request as received by the server.
type Request struct {
	Model    string          `json:"model"`
	System   []Block         `json:"system,omitempty"`
	Messages []Message       `json:"messages"`
	Tools    json.RawMessage `json:"tools,omitempty"`
}

// LastContent returns the blocks of the final message in the request.
func (r Request) LastContent() []Block {
	if len(r.Messages) == 0 {
		return nil
	}
	return r.Messages[len(r.Messages)-1].Content
}

// Server replays scripted responses, one per Messages API call.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	responses []string
	requests  []Request
}

// New starts a server that answers successive calls with responses, in order.
// Calls beyond the script fail with a 400 error.
func New(t testing.TB, responses ...string) *Server {
	t.Helper()
	s := &Server{responses: responses}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Client returns an Anthropic client pointed at the server, with SDK retries disabled.
func (s *Server) Client() anthropic.Client {
	return anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(s.URL),
		option.WithMaxRetries(0),
	)
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodPost || r.URL.Path != "/v1/messages" {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, errorBody("not_found_error", "not found"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, errorBody("invalid_request_error", err.Error()))
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	var resp string
	if len(s.responses) > 0 {
		resp, s.responses = s.responses[0], s.responses[1:]
	}
	s.mu.Unlock()

	if resp == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, errorBody("invalid_request_error", "no scripted response left"))
		return
	}
	_, _ = io.WriteString(w, resp)
}

// Text builds a response whose only block is text.
func Text(text string) string {
	return message("end_turn", map[string]any{"type": "text", "text": text})
}

// ToolUse builds a response whose only block is a tool use.
func ToolUse(id, name string, input map[string]any) string {
	return message("tool_use", map[string]any{
		"type":  "tool_use",
		"id":    id,
		"name":  name,
		"input": input,
	})
}

// Empty builds a response with no content blocks.
func Empty() string {
	return message("end_turn")
}

func message(stop string, blocks ...map[string]any) string {
	content := make([]any, 0, len(blocks))
	for _, b := range blocks {
		content = append(content, b)
	}
	b, err := json.Marshal(map[string]any{
		"id":            "msg_test",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-sonnet-4-5",
		"content":       content,
		"stop_reason":   stop,
		"stop_sequence": nil,
		"usage": map[string]any{
			"input_tokens":  12,
			"output_tokens": 4,
		},
	})
	if err != nil {
		panic(err)
	}
	return string(b)
}

func errorBody(kind, msg string) string {
	b, _ := json.Marshal(map[string]any{
		"type":  "error",
		"error": map[string]any{"type": kind, "message": msg},
	})
	return string(b)
}
