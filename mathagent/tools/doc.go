/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package tools implements the math agent's arithmetic tools.
//
// Add, Subtract, Multiply and Divide return a Result that is either a
// success carrying the value and a human readable equation, or an error
// carrying only a message. Dividing by zero is an error Result, never a Go
// error or a panic.
//
// NewArithmeticProvider exposes the operations to a model as the tools
// add_numbers, subtract_numbers, multiply_numbers and divide_numbers, each
// taking two required numbers a and b. Callbacks.OnResult sees every Result
// handed back to the model.
package tools
