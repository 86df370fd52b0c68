/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package toolcall describes agent tools once for every model provider.
//
// A Tool is a Definition plus a Handler over decoded arguments. The
// googletool and claudetool packages turn tools into the metadata their
// executors consume.
//
// Tool sets are built by stacking providers on NewEmptyToolsProvider, each
// adding its tools and taking its callbacks alongside the base's:
//
//	provider := tools.NewArithmeticProvider(toolcall.NewEmptyToolsProvider[*Reply]())
//	all := provider.Tools(tools.NewArithmeticTools(toolcall.EmptyTools{}, tools.Callbacks{OnResult: record}))
//
// Handlers read arguments with Param, which records a missing or mistyped
// argument on the trace as a bad tool call and returns the error response
// for the model.
package toolcall
