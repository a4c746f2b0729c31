// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package resolver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/textpatch/pkg/types"
)

func TestResolve_RelativePaths(t *testing.T) {
	dir := t.TempDir()
	d, err := New(dir)
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain file", "config.yaml", filepath.Join(d.Base(), "config.yaml")},
		{"nested file", "src/main.go", filepath.Join(d.Base(), "src", "main.go")},
		{"dot segments stay inside", "a/../b.txt", filepath.Join(d.Base(), "b.txt")},
		{"escape is re-rooted", "../../etc/passwd", filepath.Join(d.Base(), "etc", "passwd")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Resolve(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_EmptyPath(t *testing.T) {
	d, err := New(t.TempDir())
	require.NoError(t, err)

	for _, raw := range []string{"", "   "} {
		_, err := d.Resolve(raw)
		assert.ErrorIs(t, err, types.ErrInvalidPath)
	}
}

func TestResolve_AbsolutePaths(t *testing.T) {
	d, err := New(t.TempDir())
	require.NoError(t, err)

	t.Run("inside base is accepted", func(t *testing.T) {
		inside := filepath.Join(d.Base(), "file.txt")
		got, err := d.Resolve(inside)
		require.NoError(t, err)
		assert.Equal(t, inside, got)
	})

	t.Run("outside base is rejected", func(t *testing.T) {
		_, err := d.Resolve("/etc/passwd")
		assert.ErrorIs(t, err, types.ErrInvalidPath)
	})

	t.Run("base prefix trick is rejected", func(t *testing.T) {
		_, err := d.Resolve(d.Base() + "suffix/file.txt")
		assert.ErrorIs(t, err, types.ErrInvalidPath)
	})
}
