/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs the math agent, either for a single query given on the
// command line or as an interactive session.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"chainguard.dev/mathagent/agents/metaagent"
	"chainguard.dev/mathagent/mathagent"
	"chainguard.dev/mathagent/telemetry"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
)

const rule = "=================================================="

type config struct {
	Model    string     `env:"MATH_AGENT_MODEL"`
	LogLevel slog.Level `env:"LOG_LEVEL,default=WARN"`

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

	if err := run(ctx, cfg, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		clog.FatalContextf(ctx, "%v", err)
	}
}

func run(ctx context.Context, cfg config, args []string, in io.Reader, out io.Writer) error {
	if _, err := telemetry.Setup(ctx, cfg.Telemetry); err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		if err := telemetry.Shutdown(context.WithoutCancel(ctx)); err != nil {
			clog.FromContext(ctx).Warnf("flushing traces: %v", err)
		}
	}()

	runner, err := mathagent.New(ctx, cfg.Backend,
		mathagent.WithModel(cfg.Model),
		mathagent.WithAfterModelCallbacks(telemetry.AnnotateModelCall),
	)
	if err != nil {
		return fmt.Errorf("creating runner: %w", err)
	}

	if len(args) > 0 {
		_, err := single(ctx, runner, strings.Join(args, " "), out)
		return err
	}
	return interactive(ctx, runner, in, out)
}

// single answers one query. Agent failures are printed, not returned.
func single(ctx context.Context, runner *mathagent.Runner, query string, out io.Writer) (string, error) {
	const user, session = "example_user", "example_session"

	fmt.Fprintf(out, "🧮 Math Agent Query: %s\n", query)
	fmt.Fprintln(out, rule)

	if _, err := runner.Sessions().Create(runner.AppName(), user, session); err != nil {
		return "", err
	}

	fmt.Fprint(out, "🤖 Math Agent: ")
	reply, err := runner.Run(ctx, user, session, query)
	if err != nil {
		fmt.Fprintf(out, "\n❌ Error: %v\n", err)
		return "", nil
	}
	text := render(reply)
	fmt.Fprintln(out, text)
	return text, nil
}

// interactive reads queries from in until the user quits or in is exhausted.
func interactive(ctx context.Context, runner *mathagent.Runner, in io.Reader, out io.Writer) error {
	const user, session = "chance", "math_agent_session"

	fmt.Fprintln(out, "🧮 Math Agent with OpenTelemetry Integration")
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "Ask me to perform math operations like:")
	fmt.Fprintln(out, "- Add 5 and 3")
	fmt.Fprintln(out, "- What is 10 minus 4?")
	fmt.Fprintln(out, "- Multiply 6 by 7")
	fmt.Fprintln(out, "- Divide 20 by 4")
	fmt.Fprintln(out, "\nType 'quit' or 'exit' to stop.")
	fmt.Fprintln(out, rule)

	if _, err := runner.Sessions().Create(runner.AppName(), user, session); err != nil {
		return err
	}

	// Stops the line reader when the loop returns with input still buffered.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := readLines(ctx, in)

	for {
		fmt.Fprint(out, "\n🤔 You: ")

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\n👋 Goodbye!")
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out, "\n👋 Goodbye!")
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if slices.Contains([]string{"quit", "exit", "q"}, strings.ToLower(line)) {
			fmt.Fprintln(out, "👋 Goodbye!")
			return nil
		}
		if line == "" {
			continue
		}

		fmt.Fprint(out, "🤖 Math Agent: ")
		reply, err := runner.Run(ctx, user, session, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(out, "\n👋 Goodbye!")
				return nil
			}
			fmt.Fprintf(out, "\n❌ Error: %v\n", err)
			fmt.Fprintln(out, "Please try again.")
			continue
		}
		fmt.Fprintln(out, render(reply))
	}
}

// readLines sends each line of in until in is exhausted or ctx is done,
// then closes the channel.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// render turns a reply into the text shown to the user, one part per line.
func render(reply *mathagent.Reply) string {
	lines := make([]string, 0, len(reply.Parts))
	for _, part := range reply.Parts {
		switch p := part.(type) {
		case mathagent.TextPart:
			if text := strings.TrimSpace(p.Text); text != "" {
				lines = append(lines, text)
			}
		case mathagent.FunctionResultPart:
			lines = append(lines, p.Result.Text())
		}
	}
	return strings.Join(lines, "\n")
}
