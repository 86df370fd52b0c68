/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/mathagent/agents/metaagent"
	"chainguard.dev/mathagent/agents/promptbuilder"
	"chainguard.dev/mathagent/agents/toolcall"
)

// JudgmentMode specifies the type of judgment to perform.
type JudgmentMode string

const (
	// GoldenMode evaluates a response against a reference answer.
	GoldenMode JudgmentMode = "golden"
	// StandaloneMode evaluates a single response against a criterion without a reference.
	StandaloneMode JudgmentMode = "standalone"
)

// Request contains the context for judgment
type Request struct {
	// Mode specifies the judgment mode.
	Mode JudgmentMode `json:"mode"`

	// ReferenceAnswer is the golden answer to compare against.
	ReferenceAnswer string `json:"reference_answer,omitempty"`

	// ActualAnswer is the answer to evaluate.
	ActualAnswer string `json:"actual_answer"`

	// Criterion specifies the evaluation criterion.
	Criterion string `json:"criterion"`
}

var _ promptbuilder.Bindable = (*Request)(nil)

type xmlText struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

// Bind implements promptbuilder.Bindable.
func (r *Request) Bind(prompt *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	prompt, err := prompt.BindXML("actual_response", xmlText{XMLName: xml.Name{Local: "actual_response"}, Text: r.ActualAnswer})
	if err != nil {
		return nil, err
	}
	prompt, err = prompt.BindXML("criterion", xmlText{XMLName: xml.Name{Local: "criterion"}, Text: r.Criterion})
	if err != nil {
		return nil, err
	}
	if r.Mode == GoldenMode {
		return prompt.BindXML("golden_answer", xmlText{XMLName: xml.Name{Local: "golden_answer"}, Text: r.ReferenceAnswer})
	}
	return prompt, nil
}

func (r *Request) validate() error {
	switch r.Mode {
	case GoldenMode:
		if r.ReferenceAnswer == "" {
			return errors.New("reference_answer is required for golden mode")
		}
	case StandaloneMode:
		if r.ReferenceAnswer != "" {
			return errors.New("reference_answer must not be provided for standalone mode")
		}
	default:
		return fmt.Errorf("unsupported mode: %q", r.Mode)
	}
	if r.ActualAnswer == "" {
		return errors.New("actual_answer is required")
	}
	if r.Criterion == "" {
		return errors.New("criterion is required")
	}
	return nil
}

// Judgement contains the judgment result
type Judgement struct {
	// Mode is the judgment mode used.
	Mode JudgmentMode `json:"mode"`

	// Score ranges from 0.0 (awful) to 1.0 (ideal).
	Score float64 `json:"score"`

	// Reasoning explains the judgment and score.
	Reasoning string `json:"reasoning"`

	// Suggestions provides improvement recommendations. May be empty for perfect scores.
	Suggestions []string `json:"suggestions"`
}

// String returns a formatted representation of the judgment similar to trace output
func (j *Judgement) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Grade: %.2f", j.Score)
	if j.Reasoning != "" {
		fmt.Fprintf(&sb, " - %s", j.Reasoning)
	}
	for _, suggestion := range j.Suggestions {
		fmt.Fprintf(&sb, "\n  Suggestion: %s", suggestion)
	}
	return sb.String()
}

// Interface defines the contract for judge implementations
type Interface interface {
	// Judge scores request.ActualAnswer against request.Criterion.
	Judge(ctx context.Context, request *Request) (*Judgement, error)
}

type judge struct {
	golden     metaagent.Agent[*Request, *Judgement, toolcall.EmptyTools]
	standalone metaagent.Agent[*Request, *Judgement, toolcall.EmptyTools]
}

// New creates a judge backed by model, which may be any model metaagent supports.
func New(ctx context.Context, backend metaagent.BackendConfig, model string) (Interface, error) {
	temperature := 0.1
	newAgent := func(prompt *promptbuilder.Prompt) (metaagent.Agent[*Request, *Judgement, toolcall.EmptyTools], error) {
		return metaagent.New[*Request, *Judgement, toolcall.EmptyTools](ctx, backend, model, metaagent.Config[*Judgement, toolcall.EmptyTools]{
			SystemInstructions: systemPrompt,
			UserPrompt:         prompt,
			Tools:              toolcall.NewEmptyToolsProvider[*Judgement](),
			Temperature:        &temperature,
		})
	}

	golden, err := newAgent(goldenPrompt)
	if err != nil {
		return nil, fmt.Errorf("creating golden judge: %w", err)
	}
	standalone, err := newAgent(standalonePrompt)
	if err != nil {
		return nil, fmt.Errorf("creating standalone judge: %w", err)
	}
	return &judge{golden: golden, standalone: standalone}, nil
}

// Judge implements Interface
func (j *judge) Judge(ctx context.Context, request *Request) (*Judgement, error) {
	if err := request.validate(); err != nil {
		return nil, err
	}

	agent := j.standalone
	if request.Mode == GoldenMode {
		agent = j.golden
	}
	resp, err := agent.Execute(ctx, request, toolcall.EmptyTools{})
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errors.New("judge returned no judgement")
	}
	return resp, nil
}
