/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package claudetool exposes toolcall tools to Claude.

Each tool becomes an anthropic.ToolParam with an object input schema, plus a
handler that decodes the tool use input and calls the tool:

	tools := claudetool.Map(provider.Tools(callbacks))
	resp, err := executor.Execute(ctx, request, tools)

Input that is not a JSON object is recorded on the trace as a bad tool call
and reported back to Claude as an error.
*/
package claudetool
