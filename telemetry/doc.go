/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package telemetry ships agent spans to an OTLP/HTTP collector, by default
// W&B Weave at https://trace.wandb.ai/otel/v1/traces.
//
//	tracer, err := telemetry.Setup(ctx, telemetry.Config{})
//	if err != nil {
//	    return err // telemetry.ErrMissingAPIKey without WANDB_API_KEY
//	}
//	defer telemetry.Shutdown(context.WithoutCancel(ctx))
//
// AnnotateModelCall is an agenttrace.AfterModelCallback. Register it with an
// executor to tag every model call span with the session's thread_id.
package telemetry
