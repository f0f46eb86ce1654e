// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package engine wires the marker scanner, signature parser, stub
// generator, insertion planner, and annotation mapper into the two
// marginalia operations.
// Implements: prd001-engine-interface R2;
//
//	docs/ARCHITECTURE § Engine, Lifecycle.
package engine

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	gitpkg "github.com/petar-djukic/marginalia/internal/git"
	"github.com/petar-djukic/marginalia/internal/logging"
	"github.com/petar-djukic/marginalia/internal/oracle"
)

// Deps holds injected dependencies and per-run settings for the engine.
type Deps struct {
	Oracle      oracle.Oracle    // Critique backend; required for Annotate
	MarkerToken string           // Stub marker token ("" uses the default)
	Timestamp   bool             // Date stub headers
	Reference   string           // Ticket reference appended to stub headers
	Focus       string           // Optional critique focus for Annotate
	DryRun      bool             // Render a diff instead of writing
	WorkDir     string           // Repository root for git operations
	NoGit       bool             // Disable git integration
	AutoCommit  bool             // Commit after successful writes
	DirtyCommit bool             // Commit dirty files before writes
	Now         func() time.Time // Stub header timestamps; defaults to time.Now
}

// Engine executes the stub and annotate operations over single files.
type Engine struct {
	deps Deps
}

// New creates an Engine with the given dependencies.
func New(deps Deps) *Engine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.WorkDir == "" {
		deps.WorkDir = "."
	}
	return &Engine{deps: deps}
}

// openGit opens the repository for a run, returning nil when git
// integration is off, the run is a dry run, or there is no repository.
// A dirty work tree is saved or rejected before any file is modified.
func (e *Engine) openGit() (*gitpkg.Repo, error) {
	if e.deps.NoGit || e.deps.DryRun {
		return nil, nil
	}

	repo, err := gitpkg.Open(gitpkg.Config{
		WorkDir:     e.deps.WorkDir,
		AutoCommit:  e.deps.AutoCommit,
		DirtyCommit: e.deps.DirtyCommit,
	})
	if err != nil {
		// Not being in a repository is fine; the file is still edited.
		return nil, nil
	}

	if err := repo.HandleDirty(); err != nil {
		return nil, fmt.Errorf("handling dirty work tree: %w", err)
	}
	return repo, nil
}

// commit records a completed run. Auto-commit failures are logged rather
// than returned: the file write already succeeded.
func (e *Engine) commit(repo *gitpkg.Repo, d gitpkg.CommitDetail) {
	if repo == nil {
		return
	}

	rel, ok := gitRelPath(e.deps.WorkDir, d.Path)
	if !ok {
		logging.Default().Warn("file outside repository, skipping auto-commit",
			logging.FieldPath, d.Path)
		return
	}
	d.Path = rel

	if err := repo.AutoCommit(d); err != nil {
		logging.Default().Warn("auto-commit failed",
			logging.FieldPath, d.Path, logging.FieldError, err)
		return
	}
	logging.Default().Info("committed", logging.FieldCommit, string(d.Op), logging.FieldPath, d.Path)
}

// gitRelPath resolves path relative to the repository work directory.
// Returns false when the file lies outside the repository.
func gitRelPath(workDir, path string) (string, bool) {
	absWork, err := filepath.Abs(workDir)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absWork, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
