// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleDirty_CleanRepo(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir, DirtyCommit: true})
	require.NoError(t, err)

	// Clean repo: HandleDirty should be a no-op.
	require.NoError(t, repo.HandleDirty())

	// Commit count should still be 1 (only the initial commit).
	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHandleDirty_CommitsDirtyFiles(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir, DirtyCommit: true})
	require.NoError(t, err)

	// Create a dirty file.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dirty.ts"), []byte("export {}\n"), 0o644))

	require.NoError(t, repo.HandleDirty())

	// Should now be clean.
	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)

	// Commit count should be 2.
	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// The dirty commit message should match the expected message.
	msg, err := repo.lastCommitMessage()
	require.NoError(t, err)
	assert.Equal(t, dirtyCommitMsg, msg)
}

func TestHandleDirty_ReturnsErrorWhenDisabled(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir, DirtyCommit: false})
	require.NoError(t, err)

	// Create a dirty file.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dirty.ts"), []byte("export {}\n"), 0o644))

	err = repo.HandleDirty()
	assert.ErrorIs(t, err, ErrDirtyWorkTree)
}

func TestDirtyCommit_IsNotUndoable(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir, DirtyCommit: true})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "dirty.ts"), []byte("export {}\n"), 0o644))
	require.NoError(t, repo.HandleDirty())

	// The dirty-save commit has no operation trailer, so undo refuses it.
	err = repo.Undo()
	assert.ErrorIs(t, err, ErrNotMarginaliaCommit)
}

func TestAutoCommit_StagesAndCommits(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir, AutoCommit: true})
	require.NoError(t, err)

	// Simulate a stub run modifying a file.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feature.ts"), []byte("export function feature() {\n  throw new Error(\"not implemented: feature\");\n}\n"), 0o644))

	err = repo.AutoCommit(CommitDetail{Op: OpStub, Path: "feature.ts", Count: 1, Names: []string{"feature"}})
	require.NoError(t, err)

	// Repo should be clean.
	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)

	// Commit message should carry the operation trailer and subject.
	msg, err := repo.lastCommitMessage()
	require.NoError(t, err)
	assert.Contains(t, msg, trailerKey+": stub")
	assert.Contains(t, msg, "stub: add 1 stub body to feature.ts")
}

func TestAutoCommit_OnlyStagesModifiedFile(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir, AutoCommit: true})
	require.NoError(t, err)

	// Create two files, but the run only touched one.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "touched.ts"), []byte("export {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.ts"), []byte("export {}\n"), 0o644))

	err = repo.AutoCommit(CommitDetail{Op: OpAnnotate, Path: "touched.ts", Count: 2})
	require.NoError(t, err)

	// Repo should still be dirty (unrelated.ts is not committed).
	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestAutoCommit_DisabledIsNoop(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir, AutoCommit: false})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "feature.ts"), []byte("export {}\n"), 0o644))

	err = repo.AutoCommit(CommitDetail{Op: OpStub, Path: "feature.ts", Count: 1})
	require.NoError(t, err)

	// Should still be dirty since AutoCommit is disabled.
	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.True(t, dirty)

	// Commit count should still be 1.
	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUndo_RevertsMarginaliaCommit(t *testing.T) {
	dir := initTestRepo(t)

	// Add a marginalia commit.
	addFileAndCommit(t, dir, "feature.ts", "export function feature() {}\n", GenerateMessage(CommitDetail{Op: OpStub, Path: "feature.ts", Count: 1}))

	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	// Verify we have 2 commits.
	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Undo should succeed.
	require.NoError(t, repo.Undo())

	// Back to 1 commit.
	count, err = repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The feature file should still exist in the working tree (soft reset).
	_, err = os.Stat(filepath.Join(dir, "feature.ts"))
	assert.NoError(t, err)
}

func TestUndo_RefusesForeignCommit(t *testing.T) {
	dir := initTestRepo(t)

	// The initial commit from initTestRepo doesn't have the trailer.
	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	err = repo.Undo()
	assert.ErrorIs(t, err, ErrNotMarginaliaCommit)

	// Commit count should remain unchanged.
	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUndo_PreservesChangesInWorkTree(t *testing.T) {
	dir := initTestRepo(t)

	// Add a marginalia commit that modifies main.ts.
	addFileAndCommit(t, dir, "main.ts", "export function main() { /* annotated */ }\n", GenerateMessage(CommitDetail{Op: OpAnnotate, Path: "main.ts", Count: 1}))

	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	require.NoError(t, repo.Undo())

	// The modified content should still be in the working tree.
	content, err := os.ReadFile(filepath.Join(dir, "main.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "annotated")
}

func TestAutoCommit_IntegrationWithHandleDirty(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir, AutoCommit: true, DirtyCommit: true})
	require.NoError(t, err)

	// Create a pre-existing dirty file.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.ts"), []byte("export {}\n"), 0o644))

	// HandleDirty commits the dirty file.
	require.NoError(t, repo.HandleDirty())

	// Now simulate a stub run.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stubbed.ts"), []byte("export function f() {\n  throw new Error(\"not implemented: f\");\n}\n"), 0o644))

	err = repo.AutoCommit(CommitDetail{Op: OpStub, Path: "stubbed.ts", Count: 1, Names: []string{"f"}})
	require.NoError(t, err)

	// Should have 3 commits: initial, dirty save, stub commit.
	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Last commit should be the marginalia commit.
	ours, err := repo.IsMarginaliaCommit()
	require.NoError(t, err)
	assert.True(t, ours)

	op, err := repo.LastOperation()
	require.NoError(t, err)
	assert.Equal(t, OpStub, op)
}
