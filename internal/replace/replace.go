// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package replace

import (
	"strings"

	"github.com/petar-djukic/textpatch/pkg/types"
)

// Result holds the outcome of a successful replacement.
type Result struct {
	Text  string // Content after the replacement
	Count int    // Number of occurrences replaced
}

// Apply performs deterministic search/replace on content. The search block
// is trimmed before matching; a blank block fails with ErrEmptyBlock.
//
// In strict mode the block must occur exactly once: zero occurrences fail
// with a NoMatchError carrying the closest similar region, and multiple
// occurrences fail with an AmbiguousMatchError so the caller can widen the
// block instead of the engine guessing a site. The single match keeps the
// visual indentation of the edit site: the leading whitespace of the
// match's first line (taken from the original, non-normalized text) is
// prepended to every line of the trimmed replacement.
//
// In permissive mode with multiple occurrences, every occurrence is
// replaced by a global literal substitution on the tab-normalized text.
// This path deliberately keeps the legacy uniform, unindented insertion at
// every site; it does not re-apply the per-site indentation logic.
func Apply(content, search, replacement string, strict bool) (Result, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return Result{Text: content}, types.ErrEmptyBlock
	}

	m := findMatch(content, search)

	if m.Count == 0 {
		closest, sim, lineStart, lineEnd := findClosestRegion(content, search)
		return Result{Text: content}, &types.NoMatchError{
			Closest:    closest,
			Similarity: sim,
			LineStart:  lineStart,
			LineEnd:    lineEnd,
		}
	}

	if m.Count > 1 {
		if strict {
			return Result{Text: content}, &types.AmbiguousMatchError{Count: m.Count}
		}
		normContent := Normalize(content)
		normSearch := Normalize(search)
		text := strings.ReplaceAll(normContent, normSearch, strings.TrimSpace(replacement))
		return Result{Text: text, Count: m.Count}, nil
	}

	// Single match. The span was computed on the normalized text and is
	// applied to the original content; tab expansion before the site can
	// shift it, so the offsets are clamped rather than trusted blindly.
	start, end := m.Start, m.End
	if start > len(content) {
		start = len(content)
	}
	if end > len(content) {
		end = len(content)
	}
	matched := content[start:end]
	indent := leadingWhitespace(matched)

	lines := strings.Split(strings.TrimSpace(replacement), "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	indented := strings.Join(lines, "\n")

	text := content[:start] + indented + content[end:]
	return Result{Text: text, Count: 1}, nil
}

// Verify checks the post-replacement invariants: the content changed, the
// normalized search block is gone, and the normalized replacement block is
// present. A violation signals a logic defect in the replacement itself
// and must abort the write.
func Verify(original, patched, search, replacement string) error {
	if original == patched {
		return &types.StructuralError{Reason: "content is unchanged"}
	}

	normPatched := Normalize(patched)

	if strings.Contains(normPatched, Normalize(strings.TrimSpace(search))) {
		return &types.StructuralError{Reason: "search block still present after replacement"}
	}

	if !strings.Contains(normPatched, Normalize(strings.TrimSpace(replacement))) {
		return &types.StructuralError{Reason: "replacement block not found after replacement"}
	}

	return nil
}
