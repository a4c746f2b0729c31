// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package transaction orchestrates one patch operation: read the target
// file, transform it in memory through the replace engine or the diff
// applier, run the structural self-check and the validation gate, and
// commit the candidate text with an atomic write. Every failure aborts
// before the write, leaving the on-disk file byte-identical to its
// pre-call state.
//
// A transaction is synchronous and owns its document for the duration of
// one call. Exclusive access to the target path is the caller's
// responsibility; concurrent transactions against the same path are
// last-write-wins.
package transaction

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/petar-djukic/textpatch/internal/replace"
	"github.com/petar-djukic/textpatch/internal/udiff"
	"github.com/petar-djukic/textpatch/internal/validate"
	"github.com/petar-djukic/textpatch/pkg/types"
)

// Deps holds the injected collaborators and policy knobs for a runner.
type Deps struct {
	Resolver types.PathResolver // Required; maps raw paths to validated ones
	Gate     *validate.Gate     // Nil disables the validation gate entirely
	Diff     udiff.Options      // Strictness options for diff application
	DryRun   bool               // Stop after validation; never touch disk
}

// Runner executes patch transactions. One Runner may serve many calls;
// each call is its own transaction with no state carried across.
type Runner struct {
	deps Deps
}

// NewRunner creates a Runner with the given dependencies.
func NewRunner(deps Deps) *Runner {
	return &Runner{deps: deps}
}

// Replace runs one search/replace transaction. The search block must
// occur exactly once in strict mode; permissive mode replaces every
// occurrence. After the transform, the structural self-check confirms the
// content changed, the search block is gone, and the replacement block is
// present, before the validation gate sees the candidate.
func (r *Runner) Replace(req types.ReplaceRequest) (*types.Outcome, error) {
	if req.Path == "" {
		return nil, &types.MissingArgumentError{Name: "path"}
	}

	path, content, err := r.open(req.Path)
	if err != nil {
		return nil, err
	}

	res, err := replace.Apply(content, req.Search, req.Replace, req.Strict)
	if err != nil {
		return nil, err
	}

	if err := replace.Verify(content, res.Text, req.Search, req.Replace); err != nil {
		return nil, err
	}

	noun := "occurrences"
	if res.Count == 1 {
		noun = "occurrence"
	}
	outcome, err := r.commit(path, content, res.Text,
		fmt.Sprintf("replaced %d %s in %s", res.Count, noun, path))
	if err != nil {
		return nil, err
	}
	outcome.Replaced = res.Count
	return outcome, nil
}

// ApplyDiff runs one unified-diff transaction: parse the hunks, apply
// them to the line buffer with offset tracking, then validate and commit.
func (r *Runner) ApplyDiff(req types.DiffRequest) (*types.Outcome, error) {
	if req.Path == "" {
		return nil, &types.MissingArgumentError{Name: "path"}
	}
	if req.Diff == "" {
		return nil, &types.MissingArgumentError{Name: "diff"}
	}

	path, content, err := r.open(req.Path)
	if err != nil {
		return nil, err
	}

	hunks, err := udiff.Parse(req.Diff)
	if err != nil {
		return nil, err
	}

	patched, err := udiff.Apply(udiff.SplitLines(content), hunks, r.deps.Diff)
	if err != nil {
		return nil, err
	}

	return r.commit(path, content, udiff.JoinLines(patched),
		fmt.Sprintf("applied diff patch to %s", path))
}

// open resolves the raw path and reads the target file. The file must be
// valid UTF-8; a decoding failure is a read error, not recoverable within
// the call.
func (r *Runner) open(rawPath string) (path, content string, err error) {
	path, err = r.deps.Resolver.Resolve(rawPath)
	if err != nil {
		return "", "", err
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", "", fmt.Errorf("%w: %s", types.ErrFileNotFound, path)
	case err != nil:
		return "", "", fmt.Errorf("%w: %s: %v", types.ErrRead, path, err)
	}

	if !utf8.Valid(data) {
		return "", "", fmt.Errorf("%w: %s is not valid UTF-8 text", types.ErrRead, path)
	}

	return path, string(data), nil
}

// commit runs the validation gate on the candidate text and writes it
// atomically. In dry-run mode the write is skipped and the candidate is
// returned for inspection. A write failure after validation has passed is
// fatal to the call: the candidate is known good but unpersisted.
func (r *Runner) commit(path, original, candidate, message string) (*types.Outcome, error) {
	if r.deps.Gate != nil {
		hint := filepath.Ext(path)
		if d := r.deps.Gate.Validate(candidate, hint); d != nil {
			return nil, &types.ValidationError{Hint: hint, Diagnostic: d}
		}
	}

	preview := Preview(original, candidate)

	if r.deps.DryRun {
		return &types.Outcome{
			Committed: false,
			Path:      path,
			NewText:   candidate,
			Preview:   preview,
			Message:   "dry run: " + message,
		}, nil
	}

	if err := atomicWrite(path, []byte(candidate)); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrWrite, path, err)
	}

	return &types.Outcome{
		Committed: true,
		Path:      path,
		NewText:   candidate,
		Preview:   preview,
		Message:   message,
	}, nil
}

// atomicWrite writes data to a temp file in the same directory, then
// renames it over the target path. This prevents partial writes from
// corrupting files.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	// Preserve original file permissions if the file exists.
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	f, err := os.CreateTemp(dir, ".textpatch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
