/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tools

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		fn   func(a, b float64) Result
		a, b float64
		want Result
	}{{
		name: "add integers",
		fn:   Add,
		a:    5, b: 3,
		want: Result{Status: StatusSuccess, Result: 8, Message: "5 + 3 = 8"},
	}, {
		name: "add fractions",
		fn:   Add,
		a:    2.5, b: 0.25,
		want: Result{Status: StatusSuccess, Result: 2.75, Message: "2.5 + 0.25 = 2.75"},
	}, {
		name: "subtract to negative",
		fn:   Subtract,
		a:    4, b: 10,
		want: Result{Status: StatusSuccess, Result: -6, Message: "4 - 10 = -6"},
	}, {
		name: "multiply",
		fn:   Multiply,
		a:    6, b: 7,
		want: Result{Status: StatusSuccess, Result: 42, Message: "6 × 7 = 42"},
	}, {
		name: "multiply by zero",
		fn:   Multiply,
		a:    3, b: 0,
		want: Result{Status: StatusSuccess, Result: 0, Message: "3 × 0 = 0"},
	}, {
		name: "multiply to a million",
		fn:   Multiply,
		a:    1000, b: 1000,
		want: Result{Status: StatusSuccess, Result: 1000000, Message: "1000 × 1000 = 1000000"},
	}, {
		name: "multiply seven digits",
		fn:   Multiply,
		a:    1234567, b: 1,
		want: Result{Status: StatusSuccess, Result: 1234567, Message: "1234567 × 1 = 1234567"},
	}, {
		name: "divide to a small fraction",
		fn:   Divide,
		a:    1, b: 100000,
		want: Result{Status: StatusSuccess, Result: 0.00001, Message: "1 ÷ 100000 = 0.00001"},
	}, {
		name: "divide",
		fn:   Divide,
		a:    20, b: 4,
		want: Result{Status: StatusSuccess, Result: 5, Message: "20 ÷ 4 = 5"},
	}, {
		name: "divide with remainder",
		fn:   Divide,
		a:    1, b: 4,
		want: Result{Status: StatusSuccess, Result: 0.25, Message: "1 ÷ 4 = 0.25"},
	}, {
		name: "divide by zero",
		fn:   Divide,
		a:    1, b: 0,
		want: Result{Status: StatusError, ErrorMessage: "Cannot divide by zero"},
	}, {
		name: "zero divided by zero",
		fn:   Divide,
		a:    0, b: 0,
		want: Result{Status: StatusError, ErrorMessage: "Cannot divide by zero"},
	}, {
		name: "add overflow",
		fn:   Add,
		a:    math.MaxFloat64, b: math.MaxFloat64,
		want: Result{Status: StatusError, ErrorMessage: "Error adding numbers: result is not a finite number"},
	}, {
		name: "multiply overflow",
		fn:   Multiply,
		a:    math.MaxFloat64, b: 2,
		want: Result{Status: StatusError, ErrorMessage: "Error multiplying numbers: result is not a finite number"},
	}, {
		name: "subtract NaN",
		fn:   Subtract,
		a:    math.NaN(), b: 1,
		want: Result{Status: StatusError, ErrorMessage: "Error subtracting numbers: result is not a finite number"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(tt.a, tt.b)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("result (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResultMap(t *testing.T) {
	ok := Add(5, 3).Map()
	if diff := cmp.Diff(map[string]any{"status": "success", "result": float64(8), "message": "5 + 3 = 8"}, ok); diff != "" {
		t.Errorf("success map (-want +got):\n%s", diff)
	}

	bad := Divide(1, 0).Map()
	if diff := cmp.Diff(map[string]any{"status": "error", "error_message": "Cannot divide by zero"}, bad); diff != "" {
		t.Errorf("error map (-want +got):\n%s", diff)
	}
	if _, found := bad["result"]; found {
		t.Error("error map: got = result key, wanted = none")
	}
}

func TestResultJSON(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{{
		name:   "zero result is kept",
		result: Multiply(3, 0),
		want:   `{"message":"3 × 0 = 0","result":0,"status":"success"}`,
	}, {
		name:   "error has no result",
		result: Divide(1, 0),
		want:   `{"error_message":"Cannot divide by zero","status":"error"}`,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.result)
			if err != nil {
				t.Fatalf("Marshal() = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("json: got = %s, wanted = %s", got, tt.want)
			}
		})
	}
}

func TestResultText(t *testing.T) {
	if got, want := Multiply(6, 7).Text(), "6 × 7 = 42"; got != want {
		t.Errorf("success text: got = %q, wanted = %q", got, want)
	}
	if got, want := Divide(1, 0).Text(), ErrDivideByZero; got != want {
		t.Errorf("error text: got = %q, wanted = %q", got, want)
	}
}
