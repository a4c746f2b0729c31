// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package validate

import (
	"go/parser"
	"go/scanner"
	"go/token"

	"github.com/petar-djukic/textpatch/pkg/types"
)

// GoValidator checks Go source with the native parser. The toolchain's own
// parser is stricter than a grammar-level check, so .go files use it
// instead of tree-sitter.
type GoValidator struct{}

var _ types.SyntaxValidator = GoValidator{}

// Validate parses text as a Go source file and reports the first error
// with its position.
func (GoValidator) Validate(text string) *types.Diagnostic {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "candidate.go", text, parser.AllErrors)
	if err == nil {
		return nil
	}

	if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
		first := list[0]
		return &types.Diagnostic{
			Message: first.Msg,
			Line:    first.Pos.Line,
			Column:  first.Pos.Column,
		}
	}

	return &types.Diagnostic{Message: err.Error()}
}
