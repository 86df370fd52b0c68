/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package retry retries model calls that fail with transient errors.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config controls how often and how patiently a model call is retried.
// Quota errors recover slowly, so the defaults back off for seconds rather
// than milliseconds.
type Config struct {
	// MaxRetries is the number of attempts after the first. Zero disables retries.
	MaxRetries int `env:"MODEL_MAX_RETRIES,default=5"`
	// BaseBackoff is the delay before the first retry; it doubles per attempt.
	BaseBackoff time.Duration `env:"MODEL_RETRY_BASE_BACKOFF,default=1s"`
	// MaxBackoff caps the doubled delay.
	MaxBackoff time.Duration `env:"MODEL_RETRY_MAX_BACKOFF,default=60s"`
	// MaxJitter bounds the random delay added to each backoff.
	MaxJitter time.Duration `env:"MODEL_RETRY_MAX_JITTER,default=500ms"`
}

// Default returns the configuration used when none is given.
func Default() Config {
	return Config{
		MaxRetries:  5,
		BaseBackoff: time.Second,
		MaxBackoff:  time.Minute,
		MaxJitter:   500 * time.Millisecond,
	}
}

// Validate rejects negative settings.
func (c Config) Validate() error {
	var errs []error
	if c.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}
	if c.BaseBackoff < 0 {
		errs = append(errs, errors.New("base backoff cannot be negative"))
	}
	if c.MaxBackoff < 0 {
		errs = append(errs, errors.New("max backoff cannot be negative"))
	}
	if c.MaxJitter < 0 {
		errs = append(errs, errors.New("max jitter cannot be negative"))
	}
	return errors.Join(errs...)
}

// backoff returns the delay before retry number attempt (zero based).
func (c Config) backoff(attempt int) time.Duration {
	d := c.BaseBackoff
	for i := 0; i < attempt && d < c.MaxBackoff; i++ {
		d *= 2
	}
	d = min(d, c.MaxBackoff)
	if c.MaxJitter > 0 {
		d += rand.N(c.MaxJitter)
	}
	return d
}

// Do calls fn until it succeeds, returns an error retryable rejects, or the
// retry budget is spent. Waiting stops early when ctx is done.
func Do[T any](ctx context.Context, cfg Config, operation string, retryable func(error) bool, fn func(context.Context) (T, error)) (T, error) {
	for attempt := 0; ; attempt++ {
		result, err := fn(ctx)
		switch {
		case err == nil:
			return result, nil
		case !retryable(err):
			return result, err
		case attempt >= cfg.MaxRetries:
			if cfg.MaxRetries == 0 {
				return result, err
			}
			return result, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxRetries, err)
		}

		wait := cfg.backoff(attempt)
		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("backoff", wait).
			Warnf("Transient model error, retrying: %v", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			var zero T
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}
