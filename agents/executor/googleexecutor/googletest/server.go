/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googletest provides a scripted Gemini API server for tests.
package googletest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/genai"
)

// Part is the wire form of a content part sent by the client.
type Part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

// FunctionCall is the wire form of a model function call.
type FunctionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// FunctionResponse is the wire form of a tool result sent back to the model.
type FunctionResponse struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// Content is one turn of the conversation.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Request is a generateContent request as received by the server.
type Request struct {
	Model             string
	Contents          []Content       `json:"contents"`
	SystemInstruction *Content        `json:"systemInstruction,omitempty"`
	Tools             json.RawMessage `json:"tools,omitempty"`
}

// LastParts returns the parts of the final content in the request.
func (r Request) LastParts() []Part {
	if len(r.Contents) == 0 {
		return nil
	}
	return r.Contents[len(r.Contents)-1].Parts
}

// Server replays scripted responses, one per generateContent call.
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

// Client returns a Gemini API client pointed at the server.
func (s *Server) Client(t testing.TB) *genai.Client {
	t.Helper()
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: s.URL},
	})
	if err != nil {
		t.Fatalf("genai.NewClient() = %v", err)
	}
	return client
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	path, action, _ := strings.Cut(r.URL.Path, ":")
	if r.Method != http.MethodPost || action != "generateContent" {
		http.Error(w, `{"error":{"code":404,"message":"not found","status":"NOT_FOUND"}}`, http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, `{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`, http.StatusBadRequest)
		return
	}
	req.Model = path[strings.LastIndex(path, "/")+1:]

	s.mu.Lock()
	s.requests = append(s.requests, req)
	var resp string
	if len(s.responses) > 0 {
		resp, s.responses = s.responses[0], s.responses[1:]
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if resp == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"no scripted response left","status":"INVALID_ARGUMENT"}}`)
		return
	}
	_, _ = io.WriteString(w, resp)
}

// Text builds a response whose only part is text.
func Text(text string) string {
	return candidate(map[string]any{"text": text}, "STOP")
}

// Call builds a response whose only part is a function call.
func Call(id, name string, args map[string]any) string {
	return candidate(map[string]any{
		"functionCall": map[string]any{"id": id, "name": name, "args": args},
	}, "STOP")
}

// Calls builds a response holding several function calls.
func Calls(calls ...FunctionCall) string {
	parts := make([]any, 0, len(calls))
	for _, c := range calls {
		parts = append(parts, map[string]any{"functionCall": c})
	}
	return marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content":      map[string]any{"role": "model", "parts": parts},
			"finishReason": "STOP",
		}},
		"usageMetadata": usage(),
	})
}

// Malformed builds a response reporting a malformed function call.
func Malformed() string {
	return marshal(map[string]any{
		"candidates": []any{map[string]any{
			"finishReason":  "MALFORMED_FUNCTION_CALL",
			"finishMessage": "Malformed function call: add_numbers(a=five)",
		}},
	})
}

// Empty builds a response with no candidates.
func Empty() string {
	return marshal(map[string]any{"candidates": []any{}})
}

func candidate(part map[string]any, finish string) string {
	return marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content":      map[string]any{"role": "model", "parts": []any{part}},
			"finishReason": finish,
		}},
		"usageMetadata": usage(),
	})
}

func usage() map[string]any {
	return map[string]any{
		"promptTokenCount":     10,
		"candidatesTokenCount": 5,
		"totalTokenCount":      15,
	}
}

func marshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
