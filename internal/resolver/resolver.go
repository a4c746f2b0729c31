// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package resolver implements the default path resolver: every raw path is
// confined to a base directory, with symlink-safe joining. The patch
// engine treats the resolver's output as opaque and applies no sandboxing
// of its own.
package resolver

import (
	"fmt"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/petar-djukic/textpatch/pkg/types"
)

// Dir resolves raw paths against a base directory and rejects everything
// that would escape it.
type Dir struct {
	base string
}

var _ types.PathResolver = (*Dir)(nil)

// New creates a resolver rooted at base. The base is made absolute so
// resolved paths are stable regardless of the process working directory.
func New(base string) (*Dir, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolving base directory %s: %w", base, err)
	}
	return &Dir{base: abs}, nil
}

// Base returns the absolute base directory.
func (d *Dir) Base() string {
	return d.base
}

// Resolve maps a user-supplied path to a validated path under the base
// directory. Relative paths are joined symlink-safely; absolute paths are
// accepted only when they already point inside the base.
func (d *Dir) Resolve(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: path is empty", types.ErrInvalidPath)
	}

	if filepath.IsAbs(raw) {
		clean := filepath.Clean(raw)
		rel, err := filepath.Rel(d.base, clean)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("%w: %s is outside %s", types.ErrInvalidPath, raw, d.base)
		}
		return clean, nil
	}

	joined, err := securejoin.SecureJoin(d.base, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", types.ErrInvalidPath, raw, err)
	}
	return joined, nil
}
