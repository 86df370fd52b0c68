/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
)

// statusOverloaded is the Anthropic API's "overloaded_error" status.
const statusOverloaded = 529

// retryable reports whether a Claude API error is a rate limit or a
// transient capacity failure.
func retryable(err error) bool {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable,
		http.StatusGatewayTimeout, statusOverloaded:
		return true
	}
	return false
}
