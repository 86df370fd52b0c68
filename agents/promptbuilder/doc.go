/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder provides injection-resistant prompt construction.
Similar to SQL prepared statements, but for LLM prompts.

# Overview

Templates come from the developer: NewPrompt only accepts string literals and
NewPromptFS reads from a developer-controlled file system such as an embed.FS.
Dynamic content is bound through standard encoders:

  - BindStringLiteral for developer-provided literals
  - BindXML for untrusted text, escaped by encoding/xml
  - BindYAML for structured context such as conversation history

Tokenization is single pass, so bound values are never re-scanned for
placeholders, and every Bind method returns a new Prompt.

# Usage

	p := promptbuilder.MustNewPrompt(`Answer the question in {{query}}.`)
	p, err := p.BindXML("query", request)
	if err != nil {
		return err
	}
	text, err := p.Build()

# Bindable

Executors accept request types that implement Bindable, so each request binds
its own data into the shared prompt template.
*/
package promptbuilder
