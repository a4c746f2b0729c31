// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the shared data model for the textpatch engine:
// requests, match results, diff hunks, transaction outcomes, and the
// collaborator capabilities injected into a transaction.
package types

import "fmt"

// ReplaceRequest describes one search/replace edit against a single file.
type ReplaceRequest struct {
	Path    string // Target file path, interpreted by the PathResolver
	Search  string // Exact block to search for (trimmed before matching)
	Replace string // Replacement block (trimmed before insertion)
	Strict  bool   // Require exactly one match; false replaces all occurrences
}

// DiffRequest describes one unified-diff patch against a single file.
type DiffRequest struct {
	Path string // Target file path, interpreted by the PathResolver
	Diff string // Unified diff text (output of diff -u)
}

// MatchResult reports how many times a search block occurs in a document
// after tab normalization. Start and End are character offsets into the
// normalized document and are meaningful only when Count == 1.
type MatchResult struct {
	Count int
	Start int
	End   int
}

// LineKind classifies one line of a diff hunk.
type LineKind int

const (
	LineContext LineKind = iota // Unchanged line (' ' prefix, empty, or unrecognized)
	LineDelete                  // Removed line ('-' prefix)
	LineInsert                  // Added line ('+' prefix)
)

func (k LineKind) String() string {
	switch k {
	case LineContext:
		return "context"
	case LineDelete:
		return "delete"
	case LineInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// DiffLine is one classified line of a hunk, without its marker character.
type DiffLine struct {
	Kind LineKind
	Text string
}

// Hunk is one contiguous region of change in a unified diff. Positions are
// 1-based line numbers as declared in the @@ header; counts default to 1
// when the header omits them.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []DiffLine
}

// Deletions returns the hunk's removed lines, in order.
func (h Hunk) Deletions() []string {
	return h.linesOfKind(LineDelete)
}

// Insertions returns the hunk's added lines, in order.
func (h Hunk) Insertions() []string {
	return h.linesOfKind(LineInsert)
}

func (h Hunk) linesOfKind(kind LineKind) []string {
	var out []string
	for _, l := range h.Lines {
		if l.Kind == kind {
			out = append(out, l.Text)
		}
	}
	return out
}

// Outcome holds the result of one patch transaction. It is fully populated
// exactly once per transaction; an aborted transaction never produces a
// partially written file.
type Outcome struct {
	Committed bool   `json:"committed"`           // True when the file was rewritten on disk
	Path      string `json:"path"`                // Resolved target path
	Replaced  int    `json:"replaced,omitempty"`  // Occurrences replaced (search/replace only)
	NewText   string `json:"-"`                   // Candidate text (kept for dry runs)
	Preview   string `json:"preview,omitempty"`   // Rendered change summary
	Message   string `json:"message"`             // Human-readable result description
}

// Diagnostic describes why candidate text failed syntax validation.
// Line and Column are 1-based; zero means unknown.
type Diagnostic struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func (d *Diagnostic) Error() string {
	if d.Line > 0 && d.Column > 0 {
		return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
	}
	if d.Line > 0 {
		return fmt.Sprintf("%d: %s", d.Line, d.Message)
	}
	return d.Message
}

// PathResolver maps a user-supplied path to a validated filesystem path.
// The engine treats the result as opaque; sandboxing policy lives entirely
// behind this capability.
type PathResolver interface {
	Resolve(raw string) (string, error)
}

// SyntaxValidator checks whether full candidate text is well-formed for one
// file type. A nil Diagnostic means the text passed.
type SyntaxValidator interface {
	Validate(text string) *Diagnostic
}
