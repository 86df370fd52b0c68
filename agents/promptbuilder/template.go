/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// segment is a run of template text or a placeholder name.
type segment struct {
	text        string
	placeholder bool
}

// scan splits template into text and placeholder segments. Each `{{name}}`
// becomes one placeholder segment; surrounding whitespace inside the braces
// is ignored.
func scan(template string) ([]segment, error) {
	var segs []segment
	for template != "" {
		before, rest, found := strings.Cut(template, "{{")
		if before != "" {
			segs = append(segs, segment{text: before})
		}
		if !found {
			break
		}
		name, after, closed := strings.Cut(rest, "}}")
		if !closed {
			return nil, errors.New("unclosed placeholder: missing '}}'")
		}
		name = strings.TrimSpace(name)
		if !validName(name) {
			return nil, fmt.Errorf("invalid placeholder name %q", name)
		}
		segs = append(segs, segment{text: name, placeholder: true})
		template = after
	}
	return segs, nil
}

// validName reports whether s starts with a letter and continues with
// letters, digits or underscores.
func validName(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_'):
		default:
			return false
		}
	}
	return s != ""
}
