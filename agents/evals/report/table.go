/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"chainguard.dev/mathagent/agents/evals"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// Generator renders an observer tree and reports whether any namespace fell
// below threshold.
type Generator func(obs *evals.NamespacedObserver[*evals.ResultCollector], threshold float64) (string, bool)

var _ Generator = Table

var columns = []string{"Evaluation", "Runs", "Passed", "Pass Rate", "Details"}

// Table renders one markdown row per evaluated namespace with its pass rate
// and first failure. It reports true when any namespace's pass rate or
// average grade is below threshold.
func Table(obs *evals.NamespacedObserver[*evals.ResultCollector], threshold float64) (string, bool) {
	var buf bytes.Buffer
	table := markdownTable(&buf, columns)

	belowThreshold := false
	var runs, passed int64
	obs.Walk(func(name string, collector *evals.ResultCollector) {
		total := collector.Total()
		if total == 0 {
			return
		}
		failures := collector.Failures()
		ok := max(total-int64(len(failures)), 0)
		rate := float64(ok) / float64(total)
		runs += total
		passed += ok

		rateStr := fmt.Sprintf("%.1f%%", rate*100)
		if rate < threshold {
			belowThreshold = true
			rateStr = "❌ " + rateStr
		}

		var details []string
		if len(failures) > 0 {
			details = append(details, truncate(failures[0], 60))
		}
		if grades := collector.Grades(); len(grades) > 0 {
			var sum float64
			for _, g := range grades {
				sum += g.Score
			}
			avg := sum / float64(len(grades))
			if avg < threshold {
				belowThreshold = true
			}
			details = append(details, fmt.Sprintf("avg grade %.2f", avg))
		}

		_ = table.Append([]string{
			name,
			fmt.Sprint(total),
			fmt.Sprint(ok),
			rateStr,
			strings.Join(details, "; "),
		})
	})

	if runs == 0 {
		return "No evaluations were run.\n", false
	}
	_ = table.Render()

	return fmt.Sprintf("## Evaluation Results\n\n%s\n%d/%d checks passed (threshold %.0f%%)\n",
		buf.String(), passed, runs, threshold*100), belowThreshold
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// markdownTable writes left aligned pipe tables without top or bottom rules.
func markdownTable(w io.Writer, header []string) *tablewriter.Table {
	left := tw.CellAlignment{Global: tw.AlignLeft}
	return tablewriter.NewTable(w,
		tablewriter.WithHeader(header),
		tablewriter.WithConfig(tablewriter.Config{
			MaxWidth: 80,
			Header:   tw.CellConfig{Alignment: left, Formatting: tw.CellFormatting{AutoFormat: tw.Off}},
			Row:      tw.CellConfig{Alignment: left},
			Behavior: tw.Behavior{TrimSpace: tw.Off},
		}),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Right: tw.On, Top: tw.Off, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}
