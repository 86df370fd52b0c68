/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package googleexecutor runs agents on Gemini chats with function calling.

Execute binds the request to the prompt and sends it, then answers function
calls with the matching googletool handlers until the model replies with
text, which the response parser turns into the Response. Each exchange gets
its own "agent.model_call" span and token metrics, and runs the after-model
callbacks before the span ends. Unknown functions are reported back to the
model; a malformed function call makes the executor ask again. Quota and
availability errors are retried with backoff.

	exec, err := googleexecutor.New[*Request, *Reply](client, prompt,
		googleexecutor.WithSystemInstructions[*Request, *Reply](instruction),
		googleexecutor.WithResponseParser[*Request, *Reply](parseReply),
		googleexecutor.WithAfterModelCallbacks[*Request, *Reply](telemetry.AnnotateModelCall),
	)
	reply, err := exec.Execute(ctx, request, googletool.Map(tools))
*/
package googleexecutor
