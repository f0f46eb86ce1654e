// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd001-engine-interface R4;
//
//	docs/ARCHITECTURE § Engine Interface.
package marginalia

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/petar-djukic/marginalia/internal/engine"
	gitpkg "github.com/petar-djukic/marginalia/internal/git"
	"github.com/petar-djukic/marginalia/internal/oracle"
	"github.com/petar-djukic/marginalia/pkg/types"
)

// New validates the config, builds the configured oracle backend, and
// returns a ready-to-use Engine.
//
// Implements: prd001-engine-interface R4.1-R4.3.
func New(cfg Config) (Engine, error) {
	applyDefaults(&cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	backend, err := buildOracle(cfg)
	if err != nil {
		return nil, err
	}

	eng := engine.New(engine.Deps{
		Oracle:      backend,
		MarkerToken: cfg.Marker,
		Timestamp:   cfg.Timestamp,
		Reference:   cfg.Reference,
		Focus:       cfg.Focus,
		DryRun:      cfg.DryRun,
		WorkDir:     cfg.WorkDir,
		NoGit:       cfg.NoGit,
		AutoCommit:  !cfg.NoCommit,
		DirtyCommit: true,
	})

	return &engineAdapter{eng: eng, cfg: cfg}, nil
}

// engineAdapter adapts internal/engine.Engine to the public Engine interface.
type engineAdapter struct {
	eng *engine.Engine
	cfg Config
}

func (a *engineAdapter) Stub(ctx context.Context, path string) (*types.StubResult, error) {
	return a.eng.Stub(ctx, path)
}

func (a *engineAdapter) Annotate(ctx context.Context, path string) (*types.AnnotateResult, error) {
	return a.eng.Annotate(ctx, path)
}

func (a *engineAdapter) Undo() error {
	repo, err := gitpkg.Open(gitpkg.Config{WorkDir: a.cfg.WorkDir})
	if err != nil {
		return err
	}
	if err := repo.Undo(); err != nil {
		if errors.Is(err, gitpkg.ErrNotMarginaliaCommit) {
			return fmt.Errorf("%w: %v", ErrNothingToUndo, err)
		}
		return err
	}
	return nil
}

// buildOracle constructs the critique backend named by the config, or
// nil when none is configured. Stub-only engines need no oracle.
func buildOracle(cfg Config) (oracle.Oracle, error) {
	switch cfg.Oracle {
	case "":
		return nil, nil
	case OracleCommand:
		return oracle.NewSubprocess(oracle.SubprocessConfig{
			Command: cfg.OracleCmd,
			Dir:     cfg.WorkDir,
		})
	case OracleBedrock:
		return oracle.NewBedrock(context.Background(), oracle.BedrockConfig{
			ModelID:   cfg.Model,
			Region:    cfg.Region,
			Profile:   cfg.Profile,
			MaxTokens: cfg.MaxTokens,
		})
	default:
		return nil, fmt.Errorf("%w: unknown oracle %q", ErrInvalidConfig, cfg.Oracle)
	}
}

// validateConfig checks that the configured fields are usable together.
//
// Implements: prd001-engine-interface R1.8-R1.10.
func validateConfig(cfg Config) error {
	if info, err := os.Stat(cfg.WorkDir); err != nil || !info.IsDir() {
		return fmt.Errorf("WorkDir %q does not exist or is not a directory", cfg.WorkDir)
	}
	if strings.ContainsAny(cfg.Marker, " \t") {
		return fmt.Errorf("Marker %q must not contain whitespace", cfg.Marker)
	}
	switch cfg.Oracle {
	case OracleCommand:
		if len(cfg.OracleCmd) == 0 {
			return fmt.Errorf("OracleCmd is required for the command oracle")
		}
	case OracleBedrock:
		if cfg.Model == "" {
			return fmt.Errorf("Model is required for the bedrock oracle")
		}
		if cfg.Region == "" {
			return fmt.Errorf("Region is required for the bedrock oracle")
		}
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
}
