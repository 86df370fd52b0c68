/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

// ToolProvider builds an agent's tool set from the callbacks CB the tools
// report through. Providers stack: each wraps a base provider and adds its
// own tools to the base's.
type ToolProvider[Resp, CB any] interface {
	Tools(cb CB) map[string]Tool[Resp]
}

// EmptyTools is the callback type at the bottom of every provider stack.
type EmptyTools struct{}

type emptyProvider[Resp any] struct{}

// NewEmptyToolsProvider returns the provider every stack starts from. It
// contributes no tools.
func NewEmptyToolsProvider[Resp any]() ToolProvider[Resp, EmptyTools] {
	return emptyProvider[Resp]{}
}

func (emptyProvider[Resp]) Tools(EmptyTools) map[string]Tool[Resp] {
	return make(map[string]Tool[Resp])
}
