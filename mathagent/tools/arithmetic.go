/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Status tags a Result as a success or an error.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrDivideByZero is the message reported when the divisor is zero.
const ErrDivideByZero = "Cannot divide by zero"

// Result is the outcome of a single arithmetic operation.
// Successful results carry Result and Message; error results carry only ErrorMessage.
type Result struct {
	Status       Status
	Result       float64
	Message      string
	ErrorMessage string
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Map renders the result in the shape returned to the model.
// Error results never include a result key.
func (r Result) Map() map[string]any {
	if !r.OK() {
		return map[string]any{
			"status":        string(StatusError),
			"error_message": r.ErrorMessage,
		}
	}
	return map[string]any{
		"status":  string(StatusSuccess),
		"result":  r.Result,
		"message": r.Message,
	}
}

// MarshalJSON encodes the result in the same shape as Map.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// Text returns the user-visible line for the result.
func (r Result) Text() string {
	if r.OK() {
		return r.Message
	}
	return r.ErrorMessage
}

// Add adds two numbers together.
func Add(a, b float64) Result {
	return compute("adding", "+", a, b, a+b)
}

// Subtract subtracts b from a.
func Subtract(a, b float64) Result {
	return compute("subtracting", "-", a, b, a-b)
}

// Multiply multiplies two numbers together.
func Multiply(a, b float64) Result {
	return compute("multiplying", "×", a, b, a*b)
}

// Divide divides a by b, failing when b is zero.
func Divide(a, b float64) Result {
	if b == 0 {
		return Result{
			Status:       StatusError,
			ErrorMessage: ErrDivideByZero,
		}
	}
	return compute("dividing", "÷", a, b, a/b)
}

func compute(verb, op string, a, b, result float64) Result {
	// Overflow and NaN inputs are the only way these operations can go wrong.
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return Result{
			Status:       StatusError,
			ErrorMessage: fmt.Sprintf("Error %s numbers: result is not a finite number", verb),
		}
	}
	return Result{
		Status:  StatusSuccess,
		Result:  result,
		Message: fmt.Sprintf("%s %s %s = %s", formatNumber(a), op, formatNumber(b), formatNumber(result)),
	}
}

// formatNumber renders the shortest decimal that round-trips, never in
// exponent form: 8.0 prints as "8" and 1e6 as "1000000".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
