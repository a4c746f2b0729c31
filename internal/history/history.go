// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package history provides optional git bookkeeping for committed patch
// transactions: each successful patch can be recorded as a commit with a
// textpatch trailer, and the most recent textpatch commit can be undone
// with a soft reset.
package history

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	authorName  = "textpatch"
	authorEmail = "noreply@textpatch"
	trailer     = "Patched-By: textpatch <noreply@textpatch>"

	maxSubjectLength = 72
)

// ErrNotPatchCommit is returned when undo targets a commit not made by textpatch.
var ErrNotPatchCommit = errors.New("HEAD is not a textpatch commit")

// ErrNoGit is returned when the working directory is not a git repository.
var ErrNoGit = errors.New("not a git repository")

// Log wraps a go-git repository for the operations the engine needs.
type Log struct {
	repo *gogit.Repository
}

// Open opens an existing git repository at workDir. Returns ErrNoGit when
// the directory is not a repository.
func Open(workDir string) (*Log, error) {
	r, err := gogit.PlainOpen(workDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	return &Log{repo: r}, nil
}

// IsDirty returns true if the working tree has uncommitted changes,
// staged or unstaged.
func (l *Log) IsDirty() (bool, error) {
	wt, err := l.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("getting status: %w", err)
	}

	return !status.IsClean(), nil
}

// Record stages the patched files and commits them with a generated
// message carrying the textpatch trailer. Paths must be relative to the
// repository root.
func (l *Log) Record(files []string, description string) error {
	if len(files) == 0 {
		return nil
	}

	wt, err := l.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	// Stage only the files this transaction touched.
	for _, f := range files {
		if _, err := wt.Add(f); err != nil {
			return fmt.Errorf("staging %s: %w", f, err)
		}
	}

	_, err = wt.Commit(commitMessage(description, files), &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	return nil
}

// IsPatchCommit checks whether the HEAD commit was made by textpatch,
// identified by the trailer.
func (l *Log) IsPatchCommit() (bool, error) {
	head, err := l.repo.Head()
	if err != nil {
		return false, fmt.Errorf("getting HEAD: %w", err)
	}

	commit, err := l.repo.CommitObject(head.Hash())
	if err != nil {
		return false, fmt.Errorf("getting commit: %w", err)
	}

	return strings.Contains(commit.Message, trailer), nil
}

// Undo reverts the last commit if it was made by textpatch. Uses a soft
// reset so the reverted changes stay staged in the working tree.
func (l *Log) Undo() error {
	isPatch, err := l.IsPatchCommit()
	if err != nil {
		return err
	}
	if !isPatch {
		return ErrNotPatchCommit
	}

	head, err := l.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	commit, err := l.repo.CommitObject(head.Hash())
	if err != nil {
		return fmt.Errorf("getting commit: %w", err)
	}

	if commit.NumParents() == 0 {
		return fmt.Errorf("cannot undo: HEAD is the initial commit")
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return fmt.Errorf("getting parent commit: %w", err)
	}

	wt, err := l.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	err = wt.Reset(&gogit.ResetOptions{
		Commit: parent.Hash,
		Mode:   gogit.SoftReset,
	})
	if err != nil {
		return fmt.Errorf("resetting to parent: %w", err)
	}

	return nil
}

// commitMessage builds the commit message: a truncated subject from the
// transaction description, a body listing patched files, and the trailer.
func commitMessage(description string, files []string) string {
	subject := "patch: " + strings.TrimRight(strings.TrimSpace(description), ".")
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength-3] + "..."
	}

	var buf strings.Builder
	buf.WriteString(subject)
	buf.WriteString("\n\nPatched files:\n")
	for _, f := range files {
		fmt.Fprintf(&buf, "- %s\n", f)
	}
	buf.WriteString("\n" + trailer)

	return buf.String()
}
