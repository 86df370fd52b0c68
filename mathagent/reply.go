/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package mathagent

import "chainguard.dev/mathagent/mathagent/tools"

// Part is one piece of an agent reply: TextPart or FunctionResultPart.
type Part interface {
	isPart()
}

// TextPart is text written by the model.
type TextPart struct {
	Text string
}

// FunctionResultPart is the result of an arithmetic tool the model called.
type FunctionResultPart struct {
	Name   string
	Result tools.Result
}

func (TextPart) isPart()           {}
func (FunctionResultPart) isPart() {}

// Reply is the ordered output of one turn. Function results come first,
// in call order, followed by the model's final text.
type Reply struct {
	Parts []Part
}

// Text returns the model's final text, or "" when there is none.
func (r *Reply) Text() string {
	for i := len(r.Parts) - 1; i >= 0; i-- {
		if p, ok := r.Parts[i].(TextPart); ok {
			return p.Text
		}
	}
	return ""
}

// Results returns the tool results in the order they were produced.
func (r *Reply) Results() []FunctionResultPart {
	var out []FunctionResultPart
	for _, p := range r.Parts {
		if fr, ok := p.(FunctionResultPart); ok {
			out = append(out, fr)
		}
	}
	return out
}
