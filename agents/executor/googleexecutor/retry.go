/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// retryable reports whether a Gemini or Vertex AI error is worth retrying:
// quota exhaustion, rate limits and transient server failures.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.Code, apiErr.Status)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return retryableStatus(apiErrPtr.Code, apiErrPtr.Status)
	}
	// Errors surfaced outside the HTTP client, such as streamed chunks,
	// only carry the status in their text.
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"resource_exhausted", "resource exhausted", "rate limit", "quota exceeded", "overloaded", "unavailable"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func retryableStatus(code int, status string) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return status == "RESOURCE_EXHAUSTED" || status == "UNAVAILABLE"
}
