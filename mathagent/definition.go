/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package mathagent

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"chainguard.dev/mathagent/agents/promptbuilder"
	"gopkg.in/yaml.v3"
)

//go:embed agent.yaml instruction.md prompt.md
var agentFS embed.FS

// Definition describes the agent as declared in agent.yaml.
type Definition struct {
	Name        string `yaml:"name"`
	Model       string `yaml:"model"`
	Description string `yaml:"description"`

	// Instruction and Prompt name the system instruction and user prompt
	// templates, relative to agent.yaml.
	Instruction string `yaml:"instruction"`
	Prompt      string `yaml:"prompt"`

	fsys fs.FS
}

// LoadDefinition returns the embedded math agent definition.
func LoadDefinition() (Definition, error) {
	return loadDefinition(agentFS, "agent.yaml")
}

func loadDefinition(fsys fs.FS, name string) (Definition, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Definition{}, fmt.Errorf("reading agent definition: %w", err)
	}

	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("parsing %s: %w", name, err)
	}

	var errs []error
	for _, f := range []struct{ field, value string }{
		{"name", def.Name},
		{"model", def.Model},
		{"instruction", def.Instruction},
		{"prompt", def.Prompt},
	} {
		if f.value == "" {
			errs = append(errs, fmt.Errorf("%s: %s is required", name, f.field))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return Definition{}, err
	}

	def.fsys = fsys
	return def, nil
}

// Prompts loads the system instruction and the user prompt template.
func (d Definition) Prompts() (system, user *promptbuilder.Prompt, err error) {
	if d.fsys == nil {
		return nil, nil, errors.New("definition was not loaded from a file system")
	}
	system, err = promptbuilder.NewPromptFS(d.fsys, d.Instruction)
	if err != nil {
		return nil, nil, fmt.Errorf("loading instruction: %w", err)
	}
	user, err = promptbuilder.NewPromptFS(d.fsys, d.Prompt)
	if err != nil {
		return nil, nil, fmt.Errorf("loading prompt: %w", err)
	}
	return system, user, nil
}
