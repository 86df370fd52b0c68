/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

import (
	"errors"
	"fmt"
	"math"

	"chainguard.dev/mathagent/agents/agenttrace"
	"chainguard.dev/mathagent/agents/evals"
)

// Evals returns the checks a judge's own output must pass in mode. Pass
// them to NewGoldenEval or NewStandaloneEval through evals.Inject.
func Evals(mode JudgmentMode) map[string]evals.ObservableTraceCallback[*Judgement] {
	return map[string]evals.ObservableTraceCallback[*Judgement]{
		"no-errors":     evals.NoErrors[*Judgement](),
		"no-tool-calls": evals.ExactToolCalls[*Judgement](0),
		"valid-score":   ValidScore(mode),
		"check-mode":    CheckMode(mode),
		"has-reasoning": HasReasoning(),
	}
}

// ValidScore requires a score in [0, 1] from a known mode.
func ValidScore(mode JudgmentMode) evals.ObservableTraceCallback[*Judgement] {
	return evals.ResultValidator(func(j *Judgement) error {
		if mode != GoldenMode && mode != StandaloneMode {
			return fmt.Errorf("unknown judgment mode: %s", mode)
		}
		if j.Score < 0 || j.Score > 1 {
			return fmt.Errorf("score %.2f is out of range [0, 1] for %s mode", j.Score, mode)
		}
		return nil
	})
}

// HasReasoning requires the judge to explain its score.
func HasReasoning() evals.ObservableTraceCallback[*Judgement] {
	return evals.ResultValidator(func(j *Judgement) error {
		if j.Reasoning == "" {
			return errors.New("judgment has no reasoning")
		}
		return nil
	})
}

// CheckMode requires the judgement to echo want.
func CheckMode(want JudgmentMode) evals.ObservableTraceCallback[*Judgement] {
	return evals.ResultValidator(func(j *Judgement) error {
		if j.Mode != want {
			return fmt.Errorf("mode %s does not match expected %s", j.Mode, want)
		}
		return nil
	})
}

// ScoreRange grades how close the judge's score lands to [lo, hi]; see
// calculateRangeGrade.
func ScoreRange(lo, hi float64) evals.ObservableTraceCallback[*Judgement] {
	return func(o evals.Observer, trace *agenttrace.Trace[*Judgement]) {
		if trace.Result == nil {
			o.Fail("judgment result is nil")
			return
		}
		score := trace.Result.Score
		grade := calculateRangeGrade(score, lo, hi)
		where := "outside"
		if grade == 1 {
			where = "within"
		}
		o.Grade(grade, fmt.Sprintf("score %.2f is %s expected range [%.2f, %.2f]", score, where, lo, hi))
	}
}

// calculateRangeGrade is 1 inside [lo, hi] and falls linearly with the
// distance to the nearer bound, reaching 0 at twice the range width.
func calculateRangeGrade(score, lo, hi float64) float64 {
	if score >= lo && score <= hi {
		return 1
	}
	distance := min(math.Abs(score-lo), math.Abs(score-hi))
	return max(1-min(distance/(2*(hi-lo)), 1), 0)
}
