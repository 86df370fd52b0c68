/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"encoding/json"
	"strings"
)

const (
	jsonFence = "```json"
	fence     = "```"
)

// ExtractJSON returns the JSON payload of a model response. A ```json line
// starts the payload and the next ``` line ends it; an empty block yields "".
// Without such a block the trimmed text is returned with any outer fences
// removed.
func ExtractJSON(responseText string) string {
	if body, ok := fencedBlock(responseText); ok {
		return strings.TrimSpace(body)
	}

	text := strings.TrimSpace(responseText)
	if !strings.HasPrefix(text, jsonFence) || !strings.HasSuffix(text, fence) {
		text = strings.TrimPrefix(text, fence)
	} else {
		text = strings.TrimPrefix(text, jsonFence)
	}
	return strings.TrimSpace(strings.TrimSuffix(text, fence))
}

// fencedBlock returns the lines between the first ```json line and the
// following ``` line. An unterminated block runs to the end of the text.
func fencedBlock(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if line == jsonFence {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return "", false
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if lines[i] == fence {
			end = i
			break
		}
	}
	return strings.Join(lines[start:end], "\n"), true
}

// Extract unmarshals the JSON payload of responseText into T.
func Extract[T any](responseText string) (T, error) {
	var out T
	err := json.Unmarshal([]byte(ExtractJSON(responseText)), &out)
	return out, err
}
