// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd009-technology-stack R4.10-R4.12.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	gitpkg "github.com/petar-djukic/marginalia/internal/git"
)

// newUndoCmd creates the "undo" command.
func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last marginalia commit",
		Long:  "Undo performs a soft reset of the last commit if marginalia made it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir := viper.GetString("workdir")

			repo, err := gitpkg.Open(gitpkg.Config{WorkDir: workDir})
			if err != nil {
				return fmt.Errorf("opening repository: %w", err)
			}

			op, err := repo.LastOperation()
			if err != nil {
				return fmt.Errorf("reading HEAD: %w", err)
			}

			if err := repo.Undo(); err != nil {
				return fmt.Errorf("undo failed: %w", err)
			}

			fmt.Printf("Reverted last marginalia commit (%s).\n", op)
			return nil
		},
	}
}
