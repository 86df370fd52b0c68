/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"errors"
	"strings"
)

// ErrEmpty is returned by Text when the model produced no visible text.
var ErrEmpty = errors.New("empty model response")

// Text returns the trimmed response text.
func Text(responseText string) (string, error) {
	text := strings.TrimSpace(responseText)
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}
