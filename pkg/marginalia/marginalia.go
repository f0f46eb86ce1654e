// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package marginalia defines the public interface for marginalia, a
// marker-driven stub generator and critique annotator for source files.
// Implements: prd001-engine-interface R1, R2, R3, R6;
//
//	docs/ARCHITECTURE § Engine Interface.
package marginalia

import (
	"context"
	"errors"

	"github.com/petar-djukic/marginalia/pkg/types"
)

// Error types for the marginalia API.
//
// Implements: prd001-engine-interface R6.1-R6.3.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrNothingToUndo = errors.New("nothing to undo")
)

// OracleKind selects the critique backend for Annotate.
type OracleKind string

const (
	// OracleCommand pipes the prompt through a configured command.
	OracleCommand OracleKind = "command"
	// OracleBedrock queries an AWS Bedrock model.
	OracleBedrock OracleKind = "bedrock"
)

// Config configures an Engine instance.
//
// Implements: prd001-engine-interface R1.1-R1.10.
type Config struct {
	WorkDir   string // Repository root (default ".")
	Marker    string // Stub marker token (default "@stub")
	Timestamp bool   // Date stub header comments
	Reference string // Ticket reference appended to stub headers
	DryRun    bool   // Render a diff instead of writing files
	NoGit     bool   // Disable all git integration
	NoCommit  bool   // Keep dirty handling but skip the auto-commit

	Oracle    OracleKind // Critique backend (required for Annotate)
	OracleCmd []string   // Argv for the command oracle
	Model     string     // Bedrock model ID
	Region    string     // AWS region
	Profile   string     // AWS credential profile (optional)
	MaxTokens int        // Bedrock response token cap (default 4096)
	Focus     string     // Optional critique focus for Annotate
}

// Engine runs the marginalia operations against single source files.
//
// Implements: prd001-engine-interface R2.1-R2.8.
type Engine interface {
	// Stub finds stub markers in the file and inserts a placeholder body
	// under each function signature the markers resolve to.
	Stub(ctx context.Context, path string) (*types.StubResult, error)

	// Annotate asks the oracle to critique the file and splices the
	// critique as inline comments above the lines it references.
	Annotate(ctx context.Context, path string) (*types.AnnotateResult, error)

	// Undo reverts the last commit when marginalia made it. Returns
	// ErrNothingToUndo when HEAD belongs to someone else.
	Undo() error
}
