// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command marginalia inserts stub bodies under marked function signatures
// and splices oracle critique into source files as line-anchored comments.
// Implements: prd009-technology-stack R4.1-R4.12;
//
//	docs/ARCHITECTURE § Project Structure.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/marginalia/internal/logging"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "marginalia",
		Short: "Stub bodies and review comments for source files",
		Long: "marginalia finds stub markers in a source file and fills the marked\n" +
			"functions with placeholder bodies, or asks an oracle to critique the\n" +
			"file and writes the critique back as inline comments.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if viper.GetBool("verbose") {
				logging.SetLevel("debug")
			}
		},
	}

	// Global flags.
	rootCmd.PersistentFlags().String("workdir", ".", "Repository root directory")
	rootCmd.PersistentFlags().String("marker", "", "Stub marker token (default \"@stub\")")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Print a diff instead of writing the file")
	rootCmd.PersistentFlags().Bool("no-git", false, "Disable git operations")
	rootCmd.PersistentFlags().Bool("no-commit", false, "Do not auto-commit after writing")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("oracle", "", "Critique backend: command or bedrock")
	rootCmd.PersistentFlags().String("oracle-cmd", "", "Shell command for the command oracle")
	rootCmd.PersistentFlags().String("model", "", "Bedrock model ID")
	rootCmd.PersistentFlags().String("region", "", "AWS region for Bedrock")
	rootCmd.PersistentFlags().String("profile", "", "AWS credential profile")
	rootCmd.PersistentFlags().Int("max-tokens", 4096, "Maximum tokens for the critique response")

	// Bind flags to viper.
	viper.BindPFlag("workdir", rootCmd.PersistentFlags().Lookup("workdir"))
	viper.BindPFlag("marker", rootCmd.PersistentFlags().Lookup("marker"))
	viper.BindPFlag("dry-run", rootCmd.PersistentFlags().Lookup("dry-run"))
	viper.BindPFlag("no-git", rootCmd.PersistentFlags().Lookup("no-git"))
	viper.BindPFlag("no-commit", rootCmd.PersistentFlags().Lookup("no-commit"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("oracle", rootCmd.PersistentFlags().Lookup("oracle"))
	viper.BindPFlag("oracle-cmd", rootCmd.PersistentFlags().Lookup("oracle-cmd"))
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("region", rootCmd.PersistentFlags().Lookup("region"))
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	viper.BindPFlag("max-tokens", rootCmd.PersistentFlags().Lookup("max-tokens"))

	// Env vars: MARGINALIA_MODEL, MARGINALIA_REGION, etc.
	viper.SetEnvPrefix("MARGINALIA")
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".marginalia")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	// Add commands.
	rootCmd.AddCommand(newStubCmd())
	rootCmd.AddCommand(newAnnotateCmd())
	rootCmd.AddCommand(newUndoCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print marginalia version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("marginalia %s\n", version)
		},
	}
}
