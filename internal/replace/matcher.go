// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package replace implements exact-block search/replace with
// indentation-aware matching. Matching is deterministic: the only
// normalization is tab expansion, and a block is either found exactly
// once or the edit is refused.
package replace

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/petar-djukic/textpatch/pkg/types"
)

// tabAsSpaces is the expansion applied to every horizontal tab before
// comparison. Runs of spaces are left alone so matching stays predictable.
const tabAsSpaces = "    "

// Normalize expands tabs to four spaces. It is the only transformation
// applied to text before comparison, and is never written back to disk
// unless the permissive replace-all path produced the result.
func Normalize(s string) string {
	return strings.ReplaceAll(s, "\t", tabAsSpaces)
}

// findMatch counts occurrences of search in content, comparing the
// normalized forms of both. The scan resumes one character after each
// match start, so overlapping occurrences of repetitive blocks are all
// counted; that overlap count is the authoritative ambiguity signal.
// Start and End are offsets into the normalized content, set only when
// the block occurs exactly once.
func findMatch(content, search string) types.MatchResult {
	normContent := Normalize(content)
	normSearch := Normalize(search)

	var result types.MatchResult
	var start, end int

	from := 0
	for {
		idx := strings.Index(normContent[from:], normSearch)
		if idx < 0 {
			break
		}
		abs := from + idx
		if result.Count == 0 {
			start, end = abs, abs+len(normSearch)
		}
		result.Count++
		from = abs + 1
	}

	if result.Count == 1 {
		result.Start = start
		result.End = end
	}
	return result
}

// findClosestRegion scans content for the region most similar to search,
// for use in no-match diagnostics. Returns the region text, its similarity
// ratio, and its 1-based line range. Never used to choose an edit site.
func findClosestRegion(content, search string) (closest string, sim float64, lineStart, lineEnd int) {
	if search == "" || content == "" {
		return "", 0, 0, 0
	}

	contentLines := strings.Split(content, "\n")
	searchLen := len(strings.Split(search, "\n"))
	if searchLen > len(contentLines) {
		searchLen = len(contentLines)
	}

	var bestSim float64
	var bestStart int

	for i := 0; i <= len(contentLines)-searchLen; i++ {
		candidate := strings.Join(contentLines[i:i+searchLen], "\n")
		s := similarity(candidate, search)
		if s > bestSim {
			bestSim = s
			bestStart = i
		}
	}

	if bestSim > 0 {
		closest = strings.Join(contentLines[bestStart:bestStart+searchLen], "\n")
		return closest, bestSim, bestStart + 1, bestStart + searchLen
	}

	return "", 0, 0, 0
}

// similarity computes the Levenshtein-based similarity ratio between two
// strings using the go-diff library. Returns a value between 0.0 and 1.0.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// leadingWhitespace returns the run of spaces and tabs at the start of s.
func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
