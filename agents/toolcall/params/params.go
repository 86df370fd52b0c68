/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package params

import "fmt"

// Extract returns args[name] as a T. Numbers decoded from JSON arrive as
// float64, so float64 converts to int and int64, and Go integer or float32
// values convert to float64.
func Extract[T any](args map[string]any, name string) (T, error) {
	var zero T
	raw, ok := args[name]
	if !ok {
		return zero, fmt.Errorf("%s parameter is required", name)
	}
	if v, ok := raw.(T); ok {
		return v, nil
	}
	if v, ok := convert(raw, zero); ok {
		return v.(T), nil
	}
	return zero, fmt.Errorf("%s parameter must be of type %T, got %T", name, zero, raw)
}

// convert returns raw converted to the dynamic type of like.
func convert(raw, like any) (any, bool) {
	switch like.(type) {
	case float64:
		switch n := raw.(type) {
		case int:
			return float64(n), true
		case int32:
			return float64(n), true
		case int64:
			return float64(n), true
		case float32:
			return float64(n), true
		}
	case int:
		if f, ok := raw.(float64); ok {
			return int(f), true
		}
	case int64:
		if f, ok := raw.(float64); ok {
			return int64(f), true
		}
	}
	return nil, false
}

// Error returns the response map reporting a failed tool call to the model.
func Error(format string, args ...any) map[string]any {
	return map[string]any{"error": fmt.Sprintf(format, args...)}
}
