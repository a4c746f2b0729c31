// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package udiff parses unified-diff text and applies the resulting hunks
// to a line buffer with cross-hunk offset tracking.
package udiff

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/petar-djukic/textpatch/pkg/types"
)

// hunkHeaderRegex matches a unified-diff hunk header:
// @@ -start[,count] +start[,count] @@ with optional trailing section text.
var hunkHeaderRegex = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Parse extracts the ordered hunk list from unified-diff text. Lines
// before the first @@ header (the ---/+++ file headers and any preamble)
// are skipped. A header that starts with @@ but fails the grammar yields a
// MalformedHunkError naming the offending line.
//
// Hunk body lines are classified by first character only: '-' is a
// deletion, '+' is an insertion, and anything else (including empty lines
// and unrecognized prefixes) is context. Context lines are recorded but
// not compared against the target document here; see Options.VerifyLines
// for the strict mode.
//
// Hunks are returned in input order. Ascending OldStart order is a
// precondition on well-formed diffs, not something Parse enforces.
func Parse(diffText string) ([]types.Hunk, error) {
	lines := strings.Split(strings.TrimSpace(diffText), "\n")

	var hunks []types.Hunk
	var current *types.Hunk

	for _, line := range lines {
		if strings.HasPrefix(line, "@@") {
			h, err := parseHeader(line)
			if err != nil {
				return nil, err
			}
			hunks = append(hunks, h)
			current = &hunks[len(hunks)-1]
			continue
		}

		if current == nil {
			continue
		}

		current.Lines = append(current.Lines, classify(line))
	}

	return hunks, nil
}

// parseHeader parses one @@ header line. Omitted counts default to 1.
func parseHeader(line string) (types.Hunk, error) {
	m := hunkHeaderRegex.FindStringSubmatch(line)
	if m == nil {
		return types.Hunk{}, &types.MalformedHunkError{Line: line}
	}

	h := types.Hunk{
		OldStart: mustAtoi(m[1]),
		OldCount: 1,
		NewStart: mustAtoi(m[3]),
		NewCount: 1,
	}
	if m[2] != "" {
		h.OldCount = mustAtoi(m[2])
	}
	if m[4] != "" {
		h.NewCount = mustAtoi(m[4])
	}
	return h, nil
}

// classify tags a hunk body line by its marker character and strips the
// marker from the text.
func classify(line string) types.DiffLine {
	switch {
	case strings.HasPrefix(line, "-"):
		return types.DiffLine{Kind: types.LineDelete, Text: line[1:]}
	case strings.HasPrefix(line, "+"):
		return types.DiffLine{Kind: types.LineInsert, Text: line[1:]}
	case strings.HasPrefix(line, " "):
		return types.DiffLine{Kind: types.LineContext, Text: line[1:]}
	default:
		// Empty lines and unknown prefixes are treated as context rather
		// than rejected, for compatibility with hand-written diffs.
		return types.DiffLine{Kind: types.LineContext, Text: line}
	}
}

// mustAtoi converts a digits-only regex capture; the pattern guarantees
// the input is numeric.
func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
