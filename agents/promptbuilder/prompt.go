/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/xml"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Bindable is implemented by request types that fill a prompt template with
// their own data. Executors call Bind once per request.
type Bindable interface {
	Bind(prompt *Prompt) (*Prompt, error)
}

// stringLiteral only accepts untyped string constants from callers outside
// this package, which keeps request data out of templates.
type stringLiteral string

// render produces the text substituted for one placeholder.
type render func() (string, error)

// Prompt is a parsed template. Binding returns a new Prompt; the receiver is
// never modified.
type Prompt struct {
	segments []segment
	bound    map[string]render
}

// NewPrompt parses a template literal.
func NewPrompt(template stringLiteral) (*Prompt, error) {
	return parse(string(template))
}

// MustNewPrompt is NewPrompt for package-level templates. It panics on a
// malformed template.
func MustNewPrompt(template stringLiteral) *Prompt {
	p, err := NewPrompt(template)
	if err != nil {
		panic(err)
	}
	return p
}

// NewPromptFS parses the template stored in fsys under name. The file system
// is expected to be developer controlled, typically an embed.FS.
func NewPromptFS(fsys fs.FS, name string) (*Prompt, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading prompt template %q: %w", name, err)
	}
	return parse(string(b))
}

func parse(template string) (*Prompt, error) {
	segs, err := scan(template)
	if err != nil {
		return nil, err
	}
	bound := make(map[string]render)
	for _, s := range segs {
		if s.placeholder {
			bound[s.text] = nil
		}
	}
	return &Prompt{segments: segs, bound: bound}, nil
}

// Placeholders returns the sorted names of all placeholders in the template.
func (p *Prompt) Placeholders() []string {
	return slices.Sorted(maps.Keys(p.bound))
}

// BindStringLiteral binds a developer-provided constant to name.
func (p *Prompt) BindStringLiteral(name string, value stringLiteral) (*Prompt, error) {
	return p.bind(name, func() (string, error) {
		return string(value), nil
	})
}

// BindXML binds data marshaled as indented XML. Use it for untrusted text:
// escaping keeps the value inside its element.
func (p *Prompt) BindXML(name string, data any) (*Prompt, error) {
	return p.bind(name, func() (string, error) {
		b, err := xml.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling %s as XML: %w", name, err)
		}
		return string(b), nil
	})
}

// BindYAML binds data marshaled as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, func() (string, error) {
		b, err := yaml.Marshal(data)
		if err != nil {
			return "", fmt.Errorf("marshaling %s as YAML: %w", name, err)
		}
		return string(b), nil
	})
}

func (p *Prompt) bind(name string, r render) (*Prompt, error) {
	current, ok := p.bound[name]
	switch {
	case !ok:
		return nil, fmt.Errorf("placeholder %q not found in template", name)
	case current != nil:
		return nil, fmt.Errorf("placeholder %q already bound", name)
	}
	bound := maps.Clone(p.bound)
	bound[name] = r
	return &Prompt{segments: p.segments, bound: bound}, nil
}

// Build renders the template. Every placeholder must be bound. Bound values
// are inserted verbatim and never scanned for placeholders.
func (p *Prompt) Build() (string, error) {
	values := make(map[string]string, len(p.bound))
	for _, name := range p.Placeholders() {
		r := p.bound[name]
		if r == nil {
			return "", fmt.Errorf("unbound placeholder: %s", name)
		}
		v, err := r()
		if err != nil {
			return "", err
		}
		values[name] = v
	}

	var sb strings.Builder
	for _, s := range p.segments {
		if s.placeholder {
			sb.WriteString(values[s.text])
		} else {
			sb.WriteString(s.text)
		}
	}
	return sb.String(), nil
}
