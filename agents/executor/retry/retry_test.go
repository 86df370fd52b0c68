/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

var errQuota = errors.New("429 RESOURCE_EXHAUSTED")

func fast(retries int) Config {
	return Config{
		MaxRetries:  retries,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  4 * time.Millisecond,
		MaxJitter:   time.Millisecond,
	}
}

func quotaOnly(err error) bool { return errors.Is(err, errQuota) }

// flaky fails with errs in order, then returns 8.
func flaky(errs ...error) (func(context.Context) (float64, error), *int) {
	calls := 0
	return func(context.Context) (float64, error) {
		calls++
		if calls <= len(errs) {
			return 0, errs[calls-1]
		}
		return 8, nil
	}, &calls
}

func TestDo(t *testing.T) {
	errInvalid := errors.New("400 INVALID_ARGUMENT")

	tests := []struct {
		name      string
		cfg       Config
		errs      []error
		want      float64
		wantErr   error
		wantCalls int
	}{{
		name:      "first try",
		cfg:       fast(3),
		want:      8,
		wantCalls: 1,
	}, {
		name:      "recovers after quota errors",
		cfg:       fast(3),
		errs:      []error{errQuota, errQuota},
		want:      8,
		wantCalls: 3,
	}, {
		name:      "permanent error is not retried",
		cfg:       fast(3),
		errs:      []error{errInvalid},
		wantErr:   errInvalid,
		wantCalls: 1,
	}, {
		name:      "budget spent",
		cfg:       fast(2),
		errs:      []error{errQuota, errQuota, errQuota, errQuota},
		wantErr:   errQuota,
		wantCalls: 3,
	}, {
		name:      "retries disabled",
		cfg:       Config{},
		errs:      []error{errQuota},
		wantErr:   errQuota,
		wantCalls: 1,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, calls := flaky(tt.errs...)
			got, err := Do(t.Context(), tt.cfg, "add_numbers", quotaOnly, fn)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Do() error: got = %v, wanted = %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Do(): got = %v, wanted = %v", got, tt.want)
			}
			if *calls != tt.wantCalls {
				t.Errorf("calls: got = %d, wanted = %d", *calls, tt.wantCalls)
			}
		})
	}
}

func TestDoBudgetSpentMessage(t *testing.T) {
	fn, _ := flaky(errQuota, errQuota, errQuota)
	_, err := Do(t.Context(), fast(1), "send_prompt", quotaOnly, fn)
	if err == nil || err.Error() != "send_prompt failed after 1 retries: 429 RESOURCE_EXHAUSTED" {
		t.Errorf("Do() error: got = %v", err)
	}
}

func TestDoStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cfg := Config{MaxRetries: 5, BaseBackoff: time.Hour, MaxBackoff: time.Hour}

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, cfg, "send_prompt", quotaOnly, func(context.Context) (float64, error) {
			calls++
			return 0, errQuota
		})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Do() error: got = %v, wanted = %v", err, context.Canceled)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do() did not return after cancellation")
	}
	if calls != 1 {
		t.Errorf("calls: got = %d, wanted = 1", calls)
	}
}

func TestBackoff(t *testing.T) {
	cfg := Config{BaseBackoff: time.Second, MaxBackoff: 5 * time.Second}
	for attempt, want := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second} {
		if got := cfg.backoff(attempt); got != want {
			t.Errorf("backoff(%d): got = %v, wanted = %v", attempt, got, want)
		}
	}
	if got := cfg.backoff(100); got != 5*time.Second {
		t.Errorf("backoff(100): got = %v, wanted = cap", got)
	}

	cfg.MaxJitter = 10 * time.Millisecond
	for range 20 {
		if got := cfg.backoff(0); got < time.Second || got >= time.Second+10*time.Millisecond {
			t.Errorf("backoff with jitter: got = %v, wanted = [1s, 1.01s)", got)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
	if err := (Config{}).Validate(); err != nil {
		t.Errorf("zero Validate() = %v", err)
	}
	err := Config{MaxRetries: -1, MaxJitter: -time.Second}.Validate()
	if err == nil {
		t.Fatal("Validate(): got = nil, wanted = error")
	}
	for _, want := range []string{"max retries", "max jitter"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate(): got = %v, wanted mention of %q", err, want)
		}
	}
}
