/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package result turns final model text into typed responses.

Executors hand the model's closing text to a parser. Extract is the default for
structured responses: it pulls JSON out of markdown code fences (```json or ```)
or uses the trimmed text as is, then unmarshals it into the response type.

	type Verdict struct {
		Answer float64 `json:"answer"`
	}
	v, err := result.Extract[Verdict]("```json\n{\"answer\": 8}\n```")

Text is the parser for conversational agents whose reply is free-form text.
*/
package result
