// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package udiff

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/textpatch/pkg/types"
)

// Options control the optional strictness checks of Apply. Both default to
// the legacy-lenient behavior.
type Options struct {
	// VerifyLines compares each hunk's deleted lines against the buffer
	// content being removed and fails on mismatch. Off by default: the
	// lenient mode trusts hunk positions the way the original tooling did.
	VerifyLines bool

	// CheckOrder rejects hunk lists whose OldStart values are not strictly
	// ascending, before any mutation. Off by default: ordering is normally
	// a precondition on the input, and out-of-order hunks produce undefined
	// results in lenient mode.
	CheckOrder bool
}

// Apply patches lines with the given hunks, in input order. Lines carry
// their terminators; inserted lines adopt the buffer's terminator
// convention.
//
// A running offset converts each hunk's declared 1-based pre-edit position
// into the position in the buffer as mutated by all prior hunks: the hunk
// removes its deleted lines at oldStart-1+offset, inserts its added lines
// there, and the offset advances by insertions minus deletions. A hunk
// with only context lines is a legal no-op.
func Apply(lines []string, hunks []types.Hunk, opts Options) ([]string, error) {
	if opts.CheckOrder {
		if err := checkOrder(hunks); err != nil {
			return nil, err
		}
	}

	eol := terminator(lines)
	result := make([]string, len(lines))
	copy(result, lines)

	offset := 0
	for _, h := range hunks {
		deletions := h.Deletions()
		insertions := h.Insertions()

		start := (h.OldStart - 1) + offset
		if start < 0 || start > len(result) {
			return nil, &types.HunkApplyError{
				OldStart: h.OldStart,
				Reason:   fmt.Sprintf("position %d is outside the %d-line buffer", start+1, len(result)),
			}
		}
		if start+len(deletions) > len(result) {
			return nil, &types.HunkApplyError{
				OldStart: h.OldStart,
				Reason: fmt.Sprintf("hunk deletes %d lines but only %d remain at position %d",
					len(deletions), len(result)-start, start+1),
			}
		}

		if opts.VerifyLines {
			if err := verifyDeletions(result, start, h, deletions); err != nil {
				return nil, err
			}
		}

		patched := make([]string, 0, len(result)-len(deletions)+len(insertions))
		patched = append(patched, result[:start]...)
		for _, ins := range insertions {
			patched = append(patched, ins+eol)
		}
		patched = append(patched, result[start+len(deletions):]...)
		result = patched

		offset += len(insertions) - len(deletions)
	}

	return result, nil
}

// checkOrder fails fast when hunk start positions are not strictly
// ascending, before any mutation happens.
func checkOrder(hunks []types.Hunk) error {
	prev := 0
	for _, h := range hunks {
		if h.OldStart <= prev {
			return &types.HunkApplyError{
				OldStart: h.OldStart,
				Reason:   fmt.Sprintf("hunks are out of order (previous hunk starts at line %d)", prev),
			}
		}
		prev = h.OldStart
	}
	return nil
}

// verifyDeletions compares the lines a hunk removes against the buffer at
// the corrected position. Comparison ignores terminators. Context lines
// are not position-checked; the lenient position model anchors a hunk at
// its first deleted line.
func verifyDeletions(lines []string, start int, h types.Hunk, deletions []string) error {
	for i, want := range deletions {
		got := strings.TrimRight(lines[start+i], "\r\n")
		if got != want {
			return &types.HunkApplyError{
				OldStart: h.OldStart,
				Reason:   fmt.Sprintf("line %d is %q, expected %q", start+i+1, got, want),
			}
		}
	}
	return nil
}

// terminator picks the line terminator used when inserting new lines,
// following the buffer's existing convention. Defaults to "\n" for empty
// or terminator-less buffers.
func terminator(lines []string) string {
	for _, l := range lines {
		if strings.HasSuffix(l, "\r\n") {
			return "\r\n"
		}
		if strings.HasSuffix(l, "\n") {
			return "\n"
		}
	}
	return "\n"
}
