// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd006-oracle-client R2 (subprocess backend).
package oracle

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/petar-djukic/marginalia/pkg/types"
)

const defaultSubprocessTimeout = 120 * time.Second

// SubprocessConfig configures the subprocess oracle backend.
type SubprocessConfig struct {
	Command []string      // Argv of the oracle command (required)
	Dir     string        // Working directory (optional)
	Timeout time.Duration // Per-query timeout (default 120s)
}

// Subprocess queries an external command: the prompt goes to stdin, the
// critique comes back on stdout.
type Subprocess struct {
	cfg SubprocessConfig
}

// Verify interface compliance at compile time.
var _ Oracle = (*Subprocess)(nil)

// NewSubprocess creates a subprocess oracle from the given configuration.
func NewSubprocess(cfg SubprocessConfig) (*Subprocess, error) {
	if len(cfg.Command) == 0 {
		return nil, fmt.Errorf("%w: oracle command is required", ErrOracleFailure)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultSubprocessTimeout
	}
	return &Subprocess{cfg: cfg}, nil
}

// Query runs the command once and returns its stdout. A non-zero exit,
// a timeout, or an empty response is an ErrOracleFailure.
func (s *Subprocess) Query(ctx context.Context, prompt string) (*types.OracleResponse, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, s.cfg.Command[0], s.cfg.Command[1:]...)
	cmd.Dir = s.cfg.Dir
	cmd.Stdin = strings.NewReader(prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %s timed out after %s", ErrOracleFailure, s.cfg.Command[0], s.cfg.Timeout)
		}
		return nil, fmt.Errorf("%w: %s: %v: %s", ErrOracleFailure, s.cfg.Command[0], err, firstLine(stderr.String()))
	}

	text := stdout.String()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s returned an empty response", ErrOracleFailure, s.cfg.Command[0])
	}

	return &types.OracleResponse{Text: text}, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
