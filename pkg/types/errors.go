// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds that carry no extra structure.
// Every failure aborts its transaction before the commit step; none are
// retried by the engine itself.
var (
	ErrInvalidPath  = errors.New("invalid path")
	ErrFileNotFound = errors.New("file not found")
	ErrRead         = errors.New("read failed")
	ErrWrite        = errors.New("write failed")
	ErrEmptyBlock   = errors.New("search block cannot be empty")
)

// MissingArgumentError reports a required request field that was absent.
type MissingArgumentError struct {
	Name string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing required argument: %s", e.Name)
}

// NoMatchError reports zero occurrences of a search block. When a similar
// region exists it is included to help the caller correct the block; the
// engine never applies the edit to that region itself.
type NoMatchError struct {
	Closest    string  // Most similar region found (empty if none)
	Similarity float64 // Similarity ratio of the closest region
	LineStart  int     // First line of the closest region (1-based)
	LineEnd    int     // Last line of the closest region (1-based)
}

func (e *NoMatchError) Error() string {
	if e.Closest == "" {
		return "search block not found in file; make sure you are searching for an exact snippet that exists in the file"
	}
	return fmt.Sprintf("search block not found in file (closest region at lines %d-%d, similarity %.2f)",
		e.LineStart, e.LineEnd, e.Similarity)
}

// AmbiguousMatchError reports a strict-mode search block that occurred more
// than once. The count includes overlapping occurrences.
type AmbiguousMatchError struct {
	Count int
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("found %d matches for search block; include more surrounding code to make the search unique", e.Count)
}

// MalformedHunkError reports a diff hunk header that failed the
// @@ -start[,count] +start[,count] @@ grammar.
type MalformedHunkError struct {
	Line string
}

func (e *MalformedHunkError) Error() string {
	return fmt.Sprintf("invalid hunk header: %s", e.Line)
}

// HunkApplyError reports a hunk whose corrected position falls outside the
// buffer, or whose expected lines do not match when verification is on.
type HunkApplyError struct {
	OldStart int    // Declared 1-based position of the failing hunk
	Reason   string // What went wrong
}

func (e *HunkApplyError) Error() string {
	return fmt.Sprintf("cannot apply hunk at line %d: %s", e.OldStart, e.Reason)
}

// StructuralError reports a post-replacement invariant violation: the
// content did not change, the search block is still present, or the
// replacement block is absent.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("replacement did not take effect: %s", e.Reason)
}

// ValidationError reports candidate text rejected by the validation gate.
// The validator's diagnostic is surfaced verbatim.
type ValidationError struct {
	Hint       string // File-type hint that selected the validator
	Diagnostic *Diagnostic
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("patched text is not valid %s: %s", e.Hint, e.Diagnostic.Error())
}

func (e *ValidationError) Unwrap() error {
	return e.Diagnostic
}
