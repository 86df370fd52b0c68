/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package mathagent

import (
	"encoding/xml"

	"chainguard.dev/mathagent/agents/promptbuilder"
)

// Request is a single user turn together with the exchanges before it.
type Request struct {
	Query   string
	History []Exchange
}

var _ promptbuilder.Bindable = Request{}

type queryXML struct {
	XMLName xml.Name `xml:"query"`
	Text    string   `xml:",chardata"`
}

// Bind implements promptbuilder.Bindable.
func (r Request) Bind(prompt *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	prompt, err := prompt.BindXML("query", queryXML{Text: r.Query})
	if err != nil {
		return nil, err
	}
	history := r.History
	if history == nil {
		history = []Exchange{}
	}
	return prompt.BindYAML("history", history)
}
