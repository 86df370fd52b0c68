/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package googletool exposes toolcall tools to Gemini function calling.

	tools := googletool.Map(provider.Tools(callbacks))
	resp, err := executor.Execute(ctx, request, tools)

Parameter types "number", "integer" and "boolean" keep their genai schema
type; anything else is declared as a string.
*/
package googletool
