// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd009-technology-stack R4.3-R4.6.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/marginalia/internal/logging"
	"github.com/petar-djukic/marginalia/pkg/marginalia"
	"github.com/petar-djukic/marginalia/pkg/types"
)

// newStubCmd creates the "stub" command.
func newStubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stub FILE...",
		Short: "Insert stub bodies under marked function signatures",
		Long: "Stub scans each FILE for stub markers, resolves each marker to the\n" +
			"next function signature, and inserts a placeholder body that throws\n" +
			"or raises until someone writes the real one.",
		Args: cobra.MinimumNArgs(1),
		RunE: runStub,
	}

	cmd.Flags().Bool("timestamp", false, "Include the generation date in stub headers")
	cmd.Flags().String("ref", "", "Ticket reference appended to stub headers")

	return cmd
}

// runStub executes the stub operation on each named file. Files without
// markers are reported and skipped; other failures are reported and counted
// without stopping the remaining files.
func runStub(cmd *cobra.Command, args []string) error {
	timestamp, _ := cmd.Flags().GetBool("timestamp")
	ref, _ := cmd.Flags().GetString("ref")

	cfg := baseConfig()
	cfg.Timestamp = timestamp
	cfg.Reference = ref

	eng, err := marginalia.New(cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx = logging.WithLogger(ctx, logging.Default())

	failed := 0
	for _, path := range args {
		result, err := eng.Stub(ctx, path)
		if err != nil {
			if errors.Is(err, types.ErrNoMarkers) {
				fmt.Println(err)
				continue
			}
			if ctx.Err() != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, err)
			failed++
			continue
		}
		printStubResult(result)
	}

	if failed > 0 {
		return fmt.Errorf("stub failed for %d of %d files", failed, len(args))
	}
	return nil
}

// printStubResult writes a per-site summary, and the diff in dry-run mode.
func printStubResult(r *types.StubResult) {
	fmt.Printf("%s: stubbed %d of %d sites\n", r.Path, r.Stubbed, len(r.Sites))
	for _, s := range r.Sites {
		switch s.Status {
		case types.SiteStubbed:
			fmt.Printf("  line %d: %s stubbed\n", s.Site.SignatureLine+1, s.Function)
		case types.SiteSkipped:
			fmt.Printf("  line %d: skipped, no signature\n", s.Site.MarkerLine+1)
		case types.SiteFailed:
			fmt.Printf("  line %d: %s failed: %v\n", s.Site.SignatureLine+1, s.Function, s.Err)
		}
	}
	if r.Preview != "" {
		fmt.Print(r.Preview)
	}
}

// baseConfig assembles the engine config shared by stub and annotate.
func baseConfig() marginalia.Config {
	cfg := marginalia.Config{
		WorkDir:   viper.GetString("workdir"),
		Marker:    viper.GetString("marker"),
		DryRun:    viper.GetBool("dry-run"),
		NoGit:     viper.GetBool("no-git"),
		NoCommit:  viper.GetBool("no-commit"),
		Oracle:    marginalia.OracleKind(viper.GetString("oracle")),
		Model:     viper.GetString("model"),
		Region:    viper.GetString("region"),
		Profile:   viper.GetString("profile"),
		MaxTokens: viper.GetInt("max-tokens"),
	}
	if c := viper.GetString("oracle-cmd"); c != "" {
		cfg.OracleCmd = []string{"sh", "-c", c}
	}
	return cfg
}
