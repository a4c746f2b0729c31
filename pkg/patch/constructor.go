// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package patch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/petar-djukic/textpatch/internal/history"
	"github.com/petar-djukic/textpatch/internal/resolver"
	"github.com/petar-djukic/textpatch/internal/script"
	"github.com/petar-djukic/textpatch/internal/transaction"
	"github.com/petar-djukic/textpatch/internal/udiff"
	"github.com/petar-djukic/textpatch/internal/validate"
	"github.com/petar-djukic/textpatch/pkg/types"
)

// New validates the config and returns a ready-to-use Engine. With Git
// enabled, the work directory must be a git repository.
func New(cfg Config) (Engine, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	res, err := resolver.New(cfg.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var gate *validate.Gate
	if !cfg.NoValidate {
		gate = validate.NewGate()
	}

	var log *history.Log
	if cfg.Git {
		log, err = history.Open(res.Base())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	runner := transaction.NewRunner(transaction.Deps{
		Resolver: res,
		Gate:     gate,
		DryRun:   cfg.DryRun,
		Diff: udiff.Options{
			VerifyLines: cfg.VerifyLines,
			CheckOrder:  cfg.CheckOrder,
		},
	})

	return &engine{runner: runner, log: log, base: res.Base()}, nil
}

// engine is the concrete Engine wired from the internal packages.
type engine struct {
	runner *transaction.Runner
	log    *history.Log
	base   string
}

func (e *engine) Replace(req types.ReplaceRequest) (*types.Outcome, error) {
	outcome, err := e.runner.Replace(req)
	if err != nil {
		return nil, err
	}
	return outcome, e.record(outcome)
}

func (e *engine) ApplyDiff(req types.DiffRequest) (*types.Outcome, error) {
	outcome, err := e.runner.ApplyDiff(req)
	if err != nil {
		return nil, err
	}
	return outcome, e.record(outcome)
}

func (e *engine) ApplyScript(text string) (*ScriptResult, error) {
	parsed, err := script.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	result := &ScriptResult{}
	for _, pe := range parsed.ParseErrors {
		result.Errors = append(result.Errors, pe.Error())
	}

	applied := script.ApplyAll(e.runner, parsed.Requests)
	result.Outcomes = applied.Outcomes
	for _, aerr := range applied.Errors {
		result.Errors = append(result.Errors, aerr.Error())
	}

	for _, o := range result.Outcomes {
		if err := e.record(o); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
	}

	result.Success = len(result.Errors) == 0
	return result, nil
}

func (e *engine) Undo() error {
	if e.log == nil {
		return fmt.Errorf("git history is disabled")
	}
	return e.log.Undo()
}

// record logs a committed transaction to git history when enabled. The
// file is already patched on disk at this point; a recording failure is
// surfaced but does not undo the patch.
func (e *engine) record(outcome *types.Outcome) error {
	if e.log == nil || !outcome.Committed {
		return nil
	}

	rel, err := filepath.Rel(e.base, outcome.Path)
	if err != nil {
		rel = outcome.Path
	}

	if err := e.log.Record([]string{rel}, outcome.Message); err != nil {
		return fmt.Errorf("recording patch commit: %w", err)
	}
	return nil
}

// validateConfig checks that required fields are present.
func validateConfig(cfg Config) error {
	if cfg.WorkDir == "" {
		return fmt.Errorf("WorkDir is required")
	}
	if info, err := os.Stat(cfg.WorkDir); err != nil || !info.IsDir() {
		return fmt.Errorf("WorkDir %q does not exist or is not a directory", cfg.WorkDir)
	}
	return nil
}
