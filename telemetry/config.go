/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package telemetry

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// TracesPath is appended to the collector base URL to form the export endpoint.
const TracesPath = "/otel/v1/traces"

// ErrMissingAPIKey is returned when no API key is given explicitly or through the environment.
var ErrMissingAPIKey = errors.New("missing credential: WANDB_API_KEY is not set")

// Config describes where spans are exported and how the exporter authenticates.
type Config struct {
	// BaseURL is the collector base URL.
	BaseURL string `env:"WANDB_BASE_URL,default=https://trace.wandb.ai"`

	// ProjectID is sent in the project_id header.
	ProjectID string `env:"WANDB_PROJECT,default=math-agent/default"`

	// APIKey authenticates the exporter. It is required.
	APIKey string `env:"WANDB_API_KEY"`
}

// Resolve fills unset fields of c from lookuper, then from defaults.
// Fields already set on c are kept.
func (c Config) Resolve(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &c,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, fmt.Errorf("processing telemetry config: %w", err)
	}
	if c.APIKey == "" {
		return Config{}, ErrMissingAPIKey
	}
	return c, nil
}

// Endpoint returns the full URL spans are posted to.
func (c Config) Endpoint() string {
	return strings.TrimSuffix(c.BaseURL, "/") + TracesPath
}

// Headers returns the headers sent with every export request.
func (c Config) Headers() map[string]string {
	return map[string]string{
		"Authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte("api:"+c.APIKey)),
		"project_id":    c.ProjectID,
	}
}
