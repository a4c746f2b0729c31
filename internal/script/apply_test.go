// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/petar-djukic/textpatch/internal/resolver"
	"github.com/petar-djukic/textpatch/internal/transaction"
	"github.com/petar-djukic/textpatch/internal/validate"
)

// materialize writes a txtar archive into a fresh temp workspace and
// returns a transaction runner rooted at it.
func materialize(t *testing.T, archive string) (*transaction.Runner, string) {
	t.Helper()
	dir := t.TempDir()

	for _, f := range txtar.Parse([]byte(archive)).Files {
		path := filepath.Join(dir, f.Name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, f.Data, 0o644))
	}

	res, err := resolver.New(dir)
	require.NoError(t, err)

	return transaction.NewRunner(transaction.Deps{
		Resolver: res,
		Gate:     validate.NewGate(),
	}), dir
}

func readWorkspaceFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

const twoFileWorkspace = `
-- app/main.py --
def main():
    status = 0
    return status
-- config.yaml --
timeout: 30
retries: 3
`

func TestApplyAll_AppliesEachEdit(t *testing.T) {
	runner, dir := materialize(t, twoFileWorkspace)

	script := `app/main.py
<<<<<<< SEARCH
    status = 0
=======
    status = 1
>>>>>>> REPLACE

config.yaml
<<<<<<< SEARCH
timeout: 30
=======
timeout: 60
>>>>>>> REPLACE`

	parsed, err := Parse(script)
	require.NoError(t, err)
	require.Len(t, parsed.Requests, 2)

	result := ApplyAll(runner, parsed.Requests)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Outcomes, 2)
	assert.True(t, result.Outcomes[0].Committed)
	assert.True(t, result.Outcomes[1].Committed)

	assert.Contains(t, readWorkspaceFile(t, dir, "app/main.py"), "status = 1")
	assert.Contains(t, readWorkspaceFile(t, dir, "config.yaml"), "timeout: 60")
}

func TestApplyAll_FailureDoesNotStopLaterEdits(t *testing.T) {
	runner, dir := materialize(t, twoFileWorkspace)

	script := `missing.txt
<<<<<<< SEARCH
nothing here
=======
still nothing
>>>>>>> REPLACE

config.yaml
<<<<<<< SEARCH
retries: 3
=======
retries: 5
>>>>>>> REPLACE`

	parsed, err := Parse(script)
	require.NoError(t, err)

	result := ApplyAll(runner, parsed.Requests)
	require.Len(t, result.Errors, 1)
	require.Len(t, result.Outcomes, 1)

	assert.Contains(t, readWorkspaceFile(t, dir, "config.yaml"), "retries: 5")
}

func TestApplyAll_FailedEditLeavesFileUntouched(t *testing.T) {
	runner, dir := materialize(t, twoFileWorkspace)
	before := readWorkspaceFile(t, dir, "app/main.py")

	script := `app/main.py
<<<<<<< SEARCH
    status = 99
=======
    status = 1
>>>>>>> REPLACE`

	parsed, err := Parse(script)
	require.NoError(t, err)

	result := ApplyAll(runner, parsed.Requests)
	require.Len(t, result.Errors, 1)
	assert.Empty(t, result.Outcomes)
	assert.Equal(t, before, readWorkspaceFile(t, dir, "app/main.py"))
}

func TestApplyAll_NoRequests(t *testing.T) {
	runner, _ := materialize(t, twoFileWorkspace)

	result := ApplyAll(runner, nil)
	assert.Empty(t, result.Outcomes)
	assert.Empty(t, result.Errors)
}
