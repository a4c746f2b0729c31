// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/textpatch/pkg/patch"
	"github.com/petar-djukic/textpatch/pkg/types"
)

// engineFromFlags builds an Engine from the bound global flags.
func engineFromFlags() (patch.Engine, error) {
	cfg := patch.Config{
		WorkDir:     viper.GetString("workdir"),
		DryRun:      viper.GetBool("dry-run"),
		NoValidate:  viper.GetBool("no-validate"),
		Git:         viper.GetBool("git"),
		VerifyLines: viper.GetBool("verify-lines"),
		CheckOrder:  viper.GetBool("check-order"),
	}

	e, err := patch.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialization failed: %w", err)
	}
	return e, nil
}

// newReplaceCmd creates the "replace" command.
func newReplaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replace",
		Short: "Apply one search/replace edit to a file",
		Long:  "Replace finds an exact block in the file (tabs normalized to four spaces for matching) and substitutes the replacement, preserving the indentation of the edit site.",
		RunE:  runReplace,
	}

	cmd.Flags().StringP("file", "f", "", "Target file path (required)")
	cmd.Flags().String("search", "", "Exact block to search for (required)")
	cmd.Flags().String("replace", "", "Replacement block")
	cmd.Flags().Bool("all", false, "Replace every occurrence instead of requiring exactly one")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("search")

	return cmd
}

// runReplace executes one search/replace transaction.
func runReplace(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	search, _ := cmd.Flags().GetString("search")
	replace, _ := cmd.Flags().GetString("replace")
	all, _ := cmd.Flags().GetBool("all")

	e, err := engineFromFlags()
	if err != nil {
		return err
	}

	outcome, err := e.Replace(types.ReplaceRequest{
		Path:    file,
		Search:  search,
		Replace: replace,
		Strict:  !all,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	printResult(outcome)
	return nil
}

// newDiffCmd creates the "diff" command.
func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Apply a unified diff to a file",
		Long:  "Diff applies a unified diff (output of diff -u) to the target file, correcting each hunk's position for the net line-count change of the hunks before it.",
		RunE:  runDiff,
	}

	cmd.Flags().StringP("file", "f", "", "Target file path (required)")
	cmd.Flags().String("patch", "", "Path to the diff file; - or empty reads stdin")
	cmd.MarkFlagRequired("file")

	return cmd
}

// runDiff executes one diff transaction, reading the diff text from a
// file or stdin.
func runDiff(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	patchPath, _ := cmd.Flags().GetString("patch")

	diffText, err := readInput(patchPath)
	if err != nil {
		return err
	}

	e, err := engineFromFlags()
	if err != nil {
		return err
	}

	outcome, err := e.ApplyDiff(types.DiffRequest{Path: file, Diff: diffText})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	printResult(outcome)
	return nil
}

// newBatchCmd creates the "batch" command.
func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Apply a SEARCH/REPLACE edit script",
		Long:  "Batch parses a script of SEARCH/REPLACE blocks (one file path line before each block) and applies every block as its own strict transaction. One failed edit does not stop the rest.",
		RunE:  runBatch,
	}

	cmd.Flags().StringP("script", "s", "", "Path to the edit script; - or empty reads stdin")

	return cmd
}

// runBatch executes a batch edit script.
func runBatch(cmd *cobra.Command, args []string) error {
	scriptPath, _ := cmd.Flags().GetString("script")

	text, err := readInput(scriptPath)
	if err != nil {
		return err
	}

	e, err := engineFromFlags()
	if err != nil {
		return err
	}

	result, err := e.ApplyScript(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	printResult(result)
	if !result.Success {
		return fmt.Errorf("%d edit(s) failed", len(result.Errors))
	}
	return nil
}

// newUndoCmd creates the "undo" command.
func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last textpatch commit",
		Long:  "Undo performs a soft reset of the last commit if it was made by textpatch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			viper.Set("git", true)
			e, err := engineFromFlags()
			if err != nil {
				return err
			}

			if err := e.Undo(); err != nil {
				return fmt.Errorf("undo failed: %w", err)
			}

			fmt.Println("Successfully reverted last textpatch commit.")
			return nil
		},
	}
}

// readInput loads text from a file, or from stdin when the path is empty
// or "-".
func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// printResult outputs the result as JSON to stdout.
func printResult(result any) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling result: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
