// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package patch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/textpatch/internal/history"
	"github.com/petar-djukic/textpatch/pkg/types"
)

func newWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func readWorkspaceFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestNew_ConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(t *testing.T) Config
	}{
		{
			name: "missing workdir",
			cfg:  func(t *testing.T) Config { return Config{} },
		},
		{
			name: "nonexistent workdir",
			cfg: func(t *testing.T) Config {
				return Config{WorkDir: filepath.Join(t.TempDir(), "gone")}
			},
		},
		{
			name: "workdir is a file",
			cfg: func(t *testing.T) Config {
				dir := newWorkspace(t, map[string]string{"f.txt": "x\n"})
				return Config{WorkDir: filepath.Join(dir, "f.txt")}
			},
		},
		{
			name: "git enabled outside a repository",
			cfg: func(t *testing.T) Config {
				return Config{WorkDir: t.TempDir(), Git: true}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg(t))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestEngine_Replace(t *testing.T) {
	dir := newWorkspace(t, map[string]string{"config.yaml": "timeout: 30\nretries: 3\n"})
	eng, err := New(Config{WorkDir: dir})
	require.NoError(t, err)

	outcome, err := eng.Replace(types.ReplaceRequest{
		Path:    "config.yaml",
		Search:  "timeout: 30",
		Replace: "timeout: 60",
		Strict:  true,
	})
	require.NoError(t, err)
	assert.True(t, outcome.Committed)
	assert.Equal(t, 1, outcome.Replaced)
	assert.Equal(t, "timeout: 60\nretries: 3\n", readWorkspaceFile(t, dir, "config.yaml"))
}

func TestEngine_ReplaceDryRun(t *testing.T) {
	dir := newWorkspace(t, map[string]string{"config.yaml": "timeout: 30\n"})
	eng, err := New(Config{WorkDir: dir, DryRun: true})
	require.NoError(t, err)

	outcome, err := eng.Replace(types.ReplaceRequest{
		Path:    "config.yaml",
		Search:  "timeout: 30",
		Replace: "timeout: 60",
		Strict:  true,
	})
	require.NoError(t, err)
	assert.False(t, outcome.Committed)
	assert.NotEmpty(t, outcome.Preview)
	assert.Equal(t, "timeout: 30\n", readWorkspaceFile(t, dir, "config.yaml"))
}

func TestEngine_ApplyDiff(t *testing.T) {
	dir := newWorkspace(t, map[string]string{"notes.txt": "alpha\nbeta\ngamma\n"})
	eng, err := New(Config{WorkDir: dir})
	require.NoError(t, err)

	diff := "@@ -2,1 +2,1 @@\n-beta\n+BETA\n"
	outcome, err := eng.ApplyDiff(types.DiffRequest{Path: "notes.txt", Diff: diff})
	require.NoError(t, err)
	assert.True(t, outcome.Committed)
	assert.Equal(t, "alpha\nBETA\ngamma\n", readWorkspaceFile(t, dir, "notes.txt"))
}

func TestEngine_NoValidateSkipsGate(t *testing.T) {
	dir := newWorkspace(t, map[string]string{"broken.py": "def f():\n    return 1\n"})
	eng, err := New(Config{WorkDir: dir, NoValidate: true})
	require.NoError(t, err)

	// Without the gate, a syntactically broken result still commits.
	outcome, err := eng.Replace(types.ReplaceRequest{
		Path:    "broken.py",
		Search:  "return 1",
		Replace: "return ((",
		Strict:  true,
	})
	require.NoError(t, err)
	assert.True(t, outcome.Committed)
}

func TestEngine_ApplyScript(t *testing.T) {
	dir := newWorkspace(t, map[string]string{
		"a.txt": "one\ntwo\n",
		"b.txt": "three\nfour\n",
	})
	eng, err := New(Config{WorkDir: dir})
	require.NoError(t, err)

	script := `a.txt
<<<<<<< SEARCH
one
=======
ONE
>>>>>>> REPLACE

b.txt
<<<<<<< SEARCH
four
=======
FOUR
>>>>>>> REPLACE`

	result, err := eng.ApplyScript(script)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Outcomes, 2)

	assert.Equal(t, "ONE\ntwo\n", readWorkspaceFile(t, dir, "a.txt"))
	assert.Equal(t, "three\nFOUR\n", readWorkspaceFile(t, dir, "b.txt"))
}

func TestEngine_ApplyScriptPartialFailure(t *testing.T) {
	dir := newWorkspace(t, map[string]string{"a.txt": "one\ntwo\n"})
	eng, err := New(Config{WorkDir: dir})
	require.NoError(t, err)

	script := `a.txt
<<<<<<< SEARCH
missing line
=======
replacement
>>>>>>> REPLACE

a.txt
<<<<<<< SEARCH
two
=======
TWO
>>>>>>> REPLACE`

	result, err := eng.ApplyScript(script)
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, "one\nTWO\n", readWorkspaceFile(t, dir, "a.txt"))
}

func TestEngine_ApplyScriptNoBlocks(t *testing.T) {
	dir := newWorkspace(t, map[string]string{"a.txt": "one\n"})
	eng, err := New(Config{WorkDir: dir})
	require.NoError(t, err)

	_, err = eng.ApplyScript("no blocks here")
	assert.ErrorIs(t, err, ErrParseFailure)
}

func TestEngine_GitRecordsCommits(t *testing.T) {
	dir := initGitWorkspace(t, map[string]string{"config.yaml": "timeout: 30\n"})
	eng, err := New(Config{WorkDir: dir, Git: true})
	require.NoError(t, err)

	outcome, err := eng.Replace(types.ReplaceRequest{
		Path:    "config.yaml",
		Search:  "timeout: 30",
		Replace: "timeout: 60",
		Strict:  true,
	})
	require.NoError(t, err)
	assert.True(t, outcome.Committed)

	msg := headMessage(t, dir)
	assert.Contains(t, msg, "patch: replaced 1 occurrence in")
	assert.Contains(t, msg, "Patched-By: textpatch")
}

func TestEngine_Undo(t *testing.T) {
	dir := initGitWorkspace(t, map[string]string{"config.yaml": "timeout: 30\n"})
	eng, err := New(Config{WorkDir: dir, Git: true})
	require.NoError(t, err)

	_, err = eng.Replace(types.ReplaceRequest{
		Path:    "config.yaml",
		Search:  "timeout: 30",
		Replace: "timeout: 60",
		Strict:  true,
	})
	require.NoError(t, err)

	require.NoError(t, eng.Undo())
	assert.Equal(t, "initial commit", headMessage(t, dir))
}

func TestEngine_UndoRefusesForeignCommit(t *testing.T) {
	dir := initGitWorkspace(t, map[string]string{"config.yaml": "timeout: 30\n"})
	eng, err := New(Config{WorkDir: dir, Git: true})
	require.NoError(t, err)

	// HEAD is the initial commit, which textpatch did not make.
	assert.ErrorIs(t, eng.Undo(), history.ErrNotPatchCommit)
}

func TestEngine_UndoWithoutGit(t *testing.T) {
	dir := newWorkspace(t, map[string]string{"a.txt": "one\n"})
	eng, err := New(Config{WorkDir: dir})
	require.NoError(t, err)

	assert.Error(t, eng.Undo())
}

// initGitWorkspace creates a workspace with the given files committed as
// an initial commit.
func initGitWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := newWorkspace(t, files)

	r, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)

	for name := range files {
		_, err = wt.Add(name)
		require.NoError(t, err)
	}

	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir
}

func headMessage(t *testing.T, dir string) string {
	t.Helper()

	r, err := gogit.PlainOpen(dir)
	require.NoError(t, err)
	head, err := r.Head()
	require.NoError(t, err)
	commit, err := r.CommitObject(head.Hash())
	require.NoError(t, err)

	return commit.Message
}
