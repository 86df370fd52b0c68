/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     []segment
		wantErr  bool
	}{{
		name:     "plain text",
		template: "Add 5 and 3",
		want:     []segment{{text: "Add 5 and 3"}},
	}, {
		name:     "empty",
		template: "",
	}, {
		name:     "placeholder only",
		template: "{{query}}",
		want:     []segment{{text: "query", placeholder: true}},
	}, {
		name:     "surrounding text and spaces",
		template: "Q: {{ query }}!",
		want: []segment{
			{text: "Q: "},
			{text: "query", placeholder: true},
			{text: "!"},
		},
	}, {
		name:     "adjacent placeholders",
		template: "{{a}}{{b_2}}",
		want: []segment{
			{text: "a", placeholder: true},
			{text: "b_2", placeholder: true},
		},
	}, {
		name:     "unicode name",
		template: "{{número}}",
		want:     []segment{{text: "número", placeholder: true}},
	}, {
		name:     "lone closing braces are text",
		template: "x }} y",
		want:     []segment{{text: "x }} y"}},
	}, {
		name:     "unclosed",
		template: "Q: {{query",
		wantErr:  true,
	}, {
		name:     "leading digit",
		template: "{{1a}}",
		wantErr:  true,
	}, {
		name:     "leading underscore",
		template: "{{_a}}",
		wantErr:  true,
	}, {
		name:     "punctuation",
		template: "{{a-b}}",
		wantErr:  true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scan(tt.template)
			if (err != nil) != tt.wantErr {
				t.Fatalf("scan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(segment{})); diff != "" {
				t.Errorf("scan() (-want +got):\n%s", diff)
			}
		})
	}
}
