// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package patch defines the public interface for textpatch, a
// deterministic transactional text-patch engine for automated code
// editing.
package patch

import (
	"errors"

	"github.com/petar-djukic/textpatch/pkg/types"
)

// Error types for the Engine API.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrParseFailure  = errors.New("failed to parse edit script")
)

// Config configures an Engine instance.
type Config struct {
	WorkDir     string // Base directory all paths resolve under (required)
	DryRun      bool   // Validate and report but never write
	NoValidate  bool   // Disable the pre-commit syntax validation gate
	Git         bool   // Record committed transactions as git commits
	VerifyLines bool   // Strict diff mode: deleted lines must match the buffer
	CheckOrder  bool   // Strict diff mode: hunks must be in ascending order
}

// ScriptResult holds the outcome of applying a batch edit script.
type ScriptResult struct {
	Outcomes []*types.Outcome `json:"outcomes"`         // Committed edits, in script order
	Errors   []string         `json:"errors,omitempty"` // Failures, in order; one bad edit does not stop the rest
	Success  bool             `json:"success"`          // True when every edit committed
}

// Engine applies patch transactions to files under the configured
// directory. Each call is one synchronous all-or-nothing transaction
// against one file; the engine performs no locking, so concurrent calls
// against the same path must be serialized by the caller.
type Engine interface {
	// Replace applies one search/replace edit. Strict mode requires the
	// search block to occur exactly once after tab normalization.
	Replace(req types.ReplaceRequest) (*types.Outcome, error)

	// ApplyDiff applies a unified diff to one file, hunk by hunk, with
	// cross-hunk offset tracking.
	ApplyDiff(req types.DiffRequest) (*types.Outcome, error)

	// ApplyScript parses a SEARCH/REPLACE edit script and applies each
	// block as its own strict transaction.
	ApplyScript(text string) (*ScriptResult, error)

	// Undo reverts the most recent textpatch git commit. Only available
	// when the engine was configured with Git enabled.
	Undo() error
}
