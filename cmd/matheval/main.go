/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs a fixed set of arithmetic evaluations against the math
// agent and prints a pass-rate report.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"syscall"

	"chainguard.dev/mathagent/agents/agenttrace"
	"chainguard.dev/mathagent/agents/evals"
	"chainguard.dev/mathagent/agents/evals/report"
	"chainguard.dev/mathagent/agents/judge"
	"chainguard.dev/mathagent/agents/metaagent"
	"chainguard.dev/mathagent/mathagent"
	"chainguard.dev/mathagent/telemetry"
	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-envconfig"
)

var errBelowThreshold = errors.New("evaluations below threshold")

const toneCriterion = "The reply is friendly and encouraging, and explains the calculation clearly."

type config struct {
	Model     string     `env:"MATH_AGENT_MODEL"`
	LogLevel  slog.Level `env:"LOG_LEVEL,default=WARN"`
	Threshold float64    `env:"MATH_EVAL_THRESHOLD,default=0.8"`
	Repeat    int        `env:"MATH_EVAL_REPEAT,default=1"`

	// JudgeModel, when set, grades every reply's tone with that model.
	JudgeModel string `env:"MATH_EVAL_JUDGE_MODEL"`

	// MetricsFile, when set, receives the evaluation metrics in the
	// Prometheus text format.
	MetricsFile string `env:"MATH_EVAL_METRICS_FILE"`

	Backend   metaagent.BackendConfig
	Telemetry telemetry.Config
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}
	ctx = clog.WithLogger(ctx, clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if err := run(ctx, cfg, os.Stdout); err != nil {
		clog.FatalContextf(ctx, "%v", err)
	}
}

func run(ctx context.Context, cfg config, out io.Writer) error {
	if cfg.Repeat < 1 {
		return fmt.Errorf("MATH_EVAL_REPEAT must be at least 1, got %d", cfg.Repeat)
	}

	var opts []mathagent.Option
	opts = append(opts, mathagent.WithModel(cfg.Model), mathagent.WithAppName("math_eval"))

	// Tracing is optional here: evaluations still run without a W&B key.
	if cfg.Telemetry.APIKey != "" {
		if _, err := telemetry.Setup(ctx, cfg.Telemetry, telemetry.WithServiceName("math-eval")); err != nil {
			return fmt.Errorf("setting up tracing: %w", err)
		}
		defer func() {
			if err := telemetry.Shutdown(context.WithoutCancel(ctx)); err != nil {
				clog.FromContext(ctx).Warnf("flushing traces: %v", err)
			}
		}()
		opts = append(opts, mathagent.WithAfterModelCallbacks(telemetry.AnnotateModelCall))
	}

	runner, err := mathagent.New(ctx, cfg.Backend, opts...)
	if err != nil {
		return fmt.Errorf("creating runner: %w", err)
	}

	extra := map[string]evals.ObservableTraceCallback[string]{}
	if cfg.JudgeModel != "" {
		j, err := judge.New(ctx, cfg.Backend, cfg.JudgeModel)
		if err != nil {
			return fmt.Errorf("creating judge: %w", err)
		}
		extra["tone"] = judge.NewStandaloneEval[string](j, toneCriterion)
	}

	obs := evals.NewNamespacedObserver(func(name string) *evals.ResultCollector {
		return evals.NewResultCollector(evals.NewMetricsObserver[string](name))
	})
	evaluate(ctx, runner, obs.Child(runner.Model()), cases, cfg.Repeat, extra)

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, prometheus.DefaultGatherer); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	text, below := report.Table(obs, cfg.Threshold)
	fmt.Fprint(out, text)
	if below {
		return errBelowThreshold
	}
	return nil
}

// evaluate runs every case repeat times, each run in a fresh session.
// Agent failures are recorded by the evaluations rather than returned.
func evaluate(ctx context.Context, runner *mathagent.Runner, obs *evals.NamespacedObserver[*evals.ResultCollector], cases []evalCase, repeat int, extra map[string]evals.ObservableTraceCallback[string]) {
	log := clog.FromContext(ctx)
	for _, c := range cases {
		evalMap := c.evaluations()
		maps.Copy(evalMap, extra)
		tracer := evals.BuildTracer(obs.Child(c.name), evalMap)
		for i := range repeat {
			session := fmt.Sprintf("%s-%d", c.name, i)
			if _, err := runner.Sessions().Create(runner.AppName(), "evaluator", session); err != nil {
				log.With("case", c.name).Errorf("creating session: %v", err)
				continue
			}

			reply, err := runner.Run(agenttrace.WithTracer(ctx, tracer), "evaluator", session, c.query)
			if err != nil {
				log.With("case", c.name).With("run", i).Warnf("agent failed: %v", err)
				continue
			}
			log.With("case", c.name).With("run", i).With("reply", reply.Text()).Info("Evaluated case")
		}
	}
}
