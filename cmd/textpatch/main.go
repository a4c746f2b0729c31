// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command textpatch applies deterministic, transactional edits to text
// files: exact-block search/replace, unified-diff patches, and batch
// SEARCH/REPLACE scripts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "textpatch",
		Short: "Deterministic transactional text-patch engine",
		Long:  "textpatch mutates source files safely: exact search/replace with indentation-aware matching, unified-diff application with offset tracking, and a pre-commit syntax validation gate.",
	}

	// Global flags.
	rootCmd.PersistentFlags().String("workdir", ".", "Base directory all paths resolve under")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Validate and report without writing")
	rootCmd.PersistentFlags().Bool("no-validate", false, "Disable the pre-commit syntax validation gate")
	rootCmd.PersistentFlags().Bool("git", false, "Record committed patches as git commits")
	rootCmd.PersistentFlags().Bool("verify-lines", false, "Require deleted diff lines to match the file")
	rootCmd.PersistentFlags().Bool("check-order", false, "Reject diffs with out-of-order hunks")

	// Bind flags to viper.
	viper.BindPFlag("workdir", rootCmd.PersistentFlags().Lookup("workdir"))
	viper.BindPFlag("dry-run", rootCmd.PersistentFlags().Lookup("dry-run"))
	viper.BindPFlag("no-validate", rootCmd.PersistentFlags().Lookup("no-validate"))
	viper.BindPFlag("git", rootCmd.PersistentFlags().Lookup("git"))
	viper.BindPFlag("verify-lines", rootCmd.PersistentFlags().Lookup("verify-lines"))
	viper.BindPFlag("check-order", rootCmd.PersistentFlags().Lookup("check-order"))

	// Env vars: TEXTPATCH_WORKDIR, TEXTPATCH_GIT, etc.
	viper.SetEnvPrefix("TEXTPATCH")
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".textpatch")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	// Add commands.
	rootCmd.AddCommand(newReplaceCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newBatchCmd())
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
		Short: "Print textpatch version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("textpatch %s\n", version)
		},
	}
}
