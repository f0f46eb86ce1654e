// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd009-technology-stack R4.7-R4.9.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/marginalia/internal/logging"
	"github.com/petar-djukic/marginalia/pkg/marginalia"
	"github.com/petar-djukic/marginalia/pkg/types"
)

// newAnnotateCmd creates the "annotate" command.
func newAnnotateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotate FILE",
		Short: "Splice oracle critique into the file as inline comments",
		Long: "Annotate sends FILE to the configured oracle, parses the line\n" +
			"references out of the critique, and inserts each remark as a comment\n" +
			"directly above the line it talks about.",
		Args: cobra.ExactArgs(1),
		RunE: runAnnotate,
	}

	cmd.Flags().String("focus", "", "Direct the critique at a specific concern")

	return cmd
}

// runAnnotate executes the annotate operation on one file.
func runAnnotate(cmd *cobra.Command, args []string) error {
	focus, _ := cmd.Flags().GetString("focus")

	cfg := baseConfig()
	cfg.Focus = focus

	eng, err := marginalia.New(cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx = logging.WithLogger(ctx, logging.Default())

	result, err := eng.Annotate(ctx, args[0])
	if err != nil {
		return err
	}

	printAnnotateResult(result)
	return nil
}

// printAnnotateResult writes a summary, and the diff in dry-run mode.
func printAnnotateResult(r *types.AnnotateResult) {
	if r.Fallback {
		fmt.Printf("%s: no line references in critique, added 1 comment block at the top\n", r.Path)
	} else {
		fmt.Printf("%s: added %d comments\n", r.Path, len(r.Annotations))
	}
	if r.Usage.Total() > 0 {
		fmt.Printf("  tokens: %d in, %d out\n", r.Usage.InputTokens, r.Usage.OutputTokens)
	}
	if r.Preview != "" {
		fmt.Print(r.Preview)
	}
}
