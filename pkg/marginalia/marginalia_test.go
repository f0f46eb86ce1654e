// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package marginalia

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/marginalia/pkg/types"
)

func TestNew_Defaults(t *testing.T) {
	eng, err := New(Config{NoGit: true})
	require.NoError(t, err)
	assert.NotNil(t, eng)
}

func TestNew_RejectsMissingWorkDir(t *testing.T) {
	_, err := New(Config{WorkDir: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_RejectsMarkerWithWhitespace(t *testing.T) {
	_, err := New(Config{Marker: "@stub here", NoGit: true})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_RejectsCommandOracleWithoutCommand(t *testing.T) {
	_, err := New(Config{Oracle: OracleCommand})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_RejectsBedrockWithoutModel(t *testing.T) {
	_, err := New(Config{Oracle: OracleBedrock, Region: "us-east-1"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_RejectsUnknownOracle(t *testing.T) {
	_, err := New(Config{Oracle: OracleKind("carrier-pigeon")})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEngine_StubThroughFacade(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.ts")
	require.NoError(t, os.WriteFile(path, []byte("// @stub\nexport function greet(): string {\n}\n"), 0o644))

	eng, err := New(Config{WorkDir: dir, NoGit: true})
	require.NoError(t, err)

	result, err := eng.Stub(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stubbed)
	assert.True(t, result.Written)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "not implemented: greet")
}

func TestEngine_StubNoMarkersThroughFacade(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.ts")
	require.NoError(t, os.WriteFile(path, []byte("export function done(): void {\n}\n"), 0o644))

	eng, err := New(Config{WorkDir: dir, NoGit: true})
	require.NoError(t, err)

	_, err = eng.Stub(context.Background(), path)
	assert.ErrorIs(t, err, types.ErrNoMarkers)
}

func TestEngine_AnnotateWithCommandOracle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "add.ts")
	require.NoError(t, os.WriteFile(path, []byte("function add(a, b) {\n  return a + b;\n}\n"), 0o644))

	eng, err := New(Config{
		WorkDir:   dir,
		NoGit:     true,
		Oracle:    OracleCommand,
		OracleCmd: []string{"sh", "-c", "echo 'Line 2: add a type annotation.'"},
	})
	require.NoError(t, err)

	result, err := eng.Annotate(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, result.Written)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "  // add a type annotation.\n  return a + b;")
}

func TestEngine_UndoOutsideRepo(t *testing.T) {
	dir := t.TempDir()

	eng, err := New(Config{WorkDir: dir})
	require.NoError(t, err)

	assert.Error(t, eng.Undo())
}

func TestEngine_UndoForeignCommit(t *testing.T) {
	dir := t.TempDir()

	r, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.ts"), []byte("export {}\n"), 0o644))
	_, err = wt.Add("main.ts")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)

	eng, err := New(Config{WorkDir: dir})
	require.NoError(t, err)

	assert.ErrorIs(t, eng.Undo(), ErrNothingToUndo)
}
