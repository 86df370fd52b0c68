/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"quota", genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}, true},
		{"wrapped quota", fmt.Errorf("send_prompt: %w", genai.APIError{Code: 429}), true},
		{"pointer unavailable", &genai.APIError{Code: 503, Status: "UNAVAILABLE"}, true},
		{"internal", genai.APIError{Code: 500, Status: "INTERNAL"}, true},
		{"timeout", genai.APIError{Code: 504}, true},
		{"bad request", genai.APIError{Code: 400, Status: "INVALID_ARGUMENT"}, false},
		{"permission", genai.APIError{Code: 403, Status: "PERMISSION_DENIED"}, false},
		{"not found", genai.APIError{Code: 404, Status: "NOT_FOUND"}, false},
		{"text quota", errors.New("rpc error: code = ResourceExhausted desc = Resource exhausted"), true},
		{"text overloaded", errors.New("model is overloaded, try again"), true},
		{"text other", errors.New("authentication failed"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryable(tt.err); got != tt.want {
				t.Errorf("retryable(%v): got = %v, wanted = %v", tt.err, got, tt.want)
			}
		})
	}
}
