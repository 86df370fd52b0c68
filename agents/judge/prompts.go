/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import "chainguard.dev/mathagent/agents/promptbuilder"

var systemPrompt = promptbuilder.MustNewPrompt(`You grade replies written by an assistant.
You judge exactly one criterion at a time and ignore every other quality of the reply.
You answer with a single JSON object and nothing else.`)

// rubric is shared by both modes.
const rubric = `Score from 0.0 to 1.0:
- 1.0: fully meets the criterion. Wording and style differences that keep the meaning are not penalized.
- 0.75 to 0.99: meets the criterion with minor gaps.
- 0.50 to 0.74: partially meets the criterion.
- 0.25 to 0.49: significant problems with some correct elements.
- 0.0 to 0.24: fails the criterion or is wrong.

Suggestions must be empty for a score of 1.0 and must explain every point lost otherwise.`

var goldenPrompt = promptbuilder.MustNewPrompt(`<task>
Compare the actual response with the golden answer and score it against the criterion.
</task>

{{golden_answer}}

{{actual_response}}

{{criterion}}

<instructions>
` + rubric + `

` + `Respond with JSON in exactly this shape:
{"mode": "golden", "score": <number>, "reasoning": "<one or two sentences>", "suggestions": ["<improvement>", ...]}
</instructions>`)

var standalonePrompt = promptbuilder.MustNewPrompt(`<task>
Score the actual response against the criterion. There is no reference answer.
</task>

{{actual_response}}

{{criterion}}

<instructions>
` + rubric + `

` + `Respond with JSON in exactly this shape:
{"mode": "standalone", "score": <number>, "reasoning": "<one or two sentences>", "suggestions": ["<improvement>", ...]}
</instructions>`)
