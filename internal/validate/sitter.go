// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package validate

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/petar-djukic/textpatch/pkg/types"
)

// SitterValidator checks text against a tree-sitter grammar by parsing and
// scanning the tree for error or missing nodes.
type SitterValidator struct {
	name string
	lang *sitter.Language
}

var _ types.SyntaxValidator = (*SitterValidator)(nil)

// NewSitterValidator builds a validator for the given grammar. The name is
// used in diagnostics only.
func NewSitterValidator(name string, lang *sitter.Language) *SitterValidator {
	return &SitterValidator{name: name, lang: lang}
}

// sitterValidators maps default file-type hints to grammar validators.
func sitterValidators() map[string]types.SyntaxValidator {
	py := NewSitterValidator("python", python.GetLanguage())
	js := NewSitterValidator("javascript", javascript.GetLanguage())
	ts := NewSitterValidator("typescript", typescript.GetLanguage())
	ym := NewSitterValidator("yaml", yaml.GetLanguage())

	return map[string]types.SyntaxValidator{
		".py":   py,
		".pyw":  py,
		".js":   js,
		".mjs":  js,
		".ts":   ts,
		".yaml": ym,
		".yml":  ym,
	}
}

// Validate parses text with the grammar and reports the first error or
// missing node, with its 1-based position.
func (v *SitterValidator) Validate(text string) *types.Diagnostic {
	root, err := sitter.ParseCtx(context.Background(), []byte(text), v.lang)
	if err != nil {
		return &types.Diagnostic{Message: "parsing " + v.name + ": " + err.Error()}
	}

	if !root.HasError() {
		return nil
	}

	bad := firstErrorNode(root)
	if bad == nil {
		// HasError without a reachable ERROR node; report the whole file.
		return &types.Diagnostic{Message: v.name + " syntax error"}
	}

	msg := v.name + " syntax error"
	if bad.IsMissing() {
		msg = v.name + " syntax error: missing " + bad.Type()
	}
	point := bad.StartPoint()
	return &types.Diagnostic{
		Message: msg,
		Line:    int(point.Row) + 1,
		Column:  int(point.Column) + 1,
	}
}

// firstErrorNode walks the tree depth-first for the first ERROR or missing
// node, descending only into subtrees that report an error.
func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}
