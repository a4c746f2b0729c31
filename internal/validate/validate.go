// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package validate implements the pre-commit validation gate. A gate maps
// file-type hints (extensions) to syntax validators; candidate text for a
// hint with no registered validator passes trivially.
package validate

import (
	"strings"

	"github.com/petar-djukic/textpatch/pkg/types"
)

// Gate selects a syntax validator by file-type hint and runs it on full
// candidate text. It is never invoked on partial or intermediate buffers.
type Gate struct {
	validators map[string]types.SyntaxValidator
}

// NewGate returns a gate with the default validators registered: Go via
// the native parser, and Python, JavaScript, TypeScript, and YAML via
// tree-sitter.
func NewGate() *Gate {
	g := &Gate{validators: make(map[string]types.SyntaxValidator)}
	g.Register(".go", GoValidator{})
	for hint, v := range sitterValidators() {
		g.Register(hint, v)
	}
	return g
}

// NewEmptyGate returns a gate with no validators; everything passes.
func NewEmptyGate() *Gate {
	return &Gate{validators: make(map[string]types.SyntaxValidator)}
}

// Register binds a validator to a file-type hint. Hints are matched
// case-insensitively and must include the leading dot.
func (g *Gate) Register(hint string, v types.SyntaxValidator) {
	g.validators[strings.ToLower(hint)] = v
}

// Validate runs the validator registered for hint against text. A nil
// return means the text passed, including the trivial pass for hints with
// no registered validator.
func (g *Gate) Validate(text, hint string) *types.Diagnostic {
	v, ok := g.validators[strings.ToLower(hint)]
	if !ok {
		return nil
	}
	return v.Validate(text)
}
