// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package script parses batch edit scripts into replace requests. A script
// is a sequence of blocks, each a file path line followed by
// <<<<<<< SEARCH, the search text, =======, the replacement text, and
// >>>>>>> REPLACE. Markdown fences around blocks are tolerated, so LLM
// output can be fed in unedited.
package script

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/textpatch/pkg/types"
)

const (
	markerSearch  = "<<<<<<< SEARCH"
	markerDivider = "======="
	markerReplace = ">>>>>>> REPLACE"
)

// ParseError describes a malformed block in an edit script.
type ParseError struct {
	Position int    // Line number where the block starts (1-based)
	RawText  string // The raw text of the malformed block
	Message  string // What went wrong
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Position, e.Message)
}

// NoEditsFoundError is returned when the script contains no blocks.
type NoEditsFoundError struct{}

func (e *NoEditsFoundError) Error() string {
	return "no edit blocks found in script"
}

// ParseResult holds the outcome of parsing an edit script.
type ParseResult struct {
	Requests     []types.ReplaceRequest // Successfully parsed edits
	ParseErrors  []*ParseError          // Errors from malformed blocks
	Commentary   string                 // Non-block text from the script
	BlocksFound  int                    // Total blocks attempted
	BlocksParsed int                    // Blocks that produced valid requests
}

// Parse extracts edit blocks from script text. Malformed blocks produce
// ParseErrors without stopping the scan. When no blocks are found at all,
// returns a NoEditsFoundError. Every parsed request is strict: a batch
// script has no way to disambiguate multiple matches interactively.
func Parse(text string) (*ParseResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &NoEditsFoundError{}
	}

	result := &ParseResult{}
	lines := strings.Split(text, "\n")
	var commentary strings.Builder
	i := 0

	for i < len(lines) {
		// Look for a SEARCH marker.
		searchIdx := -1
		for j := i; j < len(lines); j++ {
			if isMarker(lines[j], markerSearch) {
				searchIdx = j
				break
			}
		}

		if searchIdx < 0 {
			// No more blocks. Rest is commentary.
			for ; i < len(lines); i++ {
				appendCommentary(&commentary, lines[i])
			}
			break
		}

		// Everything before this block is commentary, except the line
		// immediately before SEARCH, which is the file path.
		filePathLine := searchIdx - 1
		for ; i < filePathLine; i++ {
			appendCommentary(&commentary, lines[i])
		}

		filePath := ""
		if filePathLine >= 0 {
			filePath = extractFilePath(lines[filePathLine])
		}

		i = searchIdx + 1
		result.BlocksFound++

		searchText, foundDivider := collectUntil(lines, &i, markerDivider)
		if !foundDivider {
			result.ParseErrors = append(result.ParseErrors, &ParseError{
				Position: searchIdx + 1,
				RawText:  reconstructBlock(lines, searchIdx, i),
				Message:  "unclosed block: missing ======= divider",
			})
			continue
		}

		replaceText, foundReplace := collectUntil(lines, &i, markerReplace)
		if !foundReplace {
			result.ParseErrors = append(result.ParseErrors, &ParseError{
				Position: searchIdx + 1,
				RawText:  reconstructBlock(lines, searchIdx, i),
				Message:  "unclosed block: missing >>>>>>> REPLACE marker",
			})
			continue
		}

		// Skip any trailing markdown fence after the REPLACE marker.
		if i < len(lines) && isMarkdownFence(lines[i]) {
			i++
		}

		if filePath == "" {
			result.ParseErrors = append(result.ParseErrors, &ParseError{
				Position: searchIdx + 1,
				RawText:  reconstructBlock(lines, searchIdx, i),
				Message:  "missing file path before <<<<<<< SEARCH marker",
			})
			continue
		}

		result.Requests = append(result.Requests, types.ReplaceRequest{
			Path:    filePath,
			Search:  searchText,
			Replace: replaceText,
			Strict:  true,
		})
		result.BlocksParsed++
	}

	result.Commentary = strings.TrimSpace(commentary.String())

	if result.BlocksFound == 0 {
		return nil, &NoEditsFoundError{}
	}

	return result, nil
}

// collectUntil gathers lines into a single string until the marker is
// seen, advancing the caller's index past it. Reports whether the marker
// was found. A new SEARCH marker before the expected one means the
// current block never closed; it is left in place for the outer scan.
func collectUntil(lines []string, i *int, marker string) (string, bool) {
	var b strings.Builder
	for *i < len(lines) {
		if isMarker(lines[*i], marker) {
			*i++
			return b.String(), true
		}
		if isMarker(lines[*i], markerSearch) {
			return b.String(), false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(lines[*i])
		*i++
	}
	return b.String(), false
}

// extractFilePath cleans a file path line, stripping markdown fences,
// backticks, and leading/trailing whitespace.
func extractFilePath(line string) string {
	s := strings.TrimSpace(line)

	if isMarkdownFence(s) {
		return ""
	}

	s = strings.Trim(s, "`")
	s = strings.TrimSpace(s)

	// A line with spaces and no path separator is commentary, not a path.
	if strings.ContainsAny(s, " \t") && !strings.Contains(s, "/") {
		return ""
	}

	return s
}

// isMarker checks if a line matches a marker, allowing surrounding whitespace.
func isMarker(line, marker string) bool {
	return strings.TrimSpace(line) == marker
}

// isMarkdownFence checks if a line is a markdown fence (``` with optional language).
func isMarkdownFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "```")
}

// reconstructBlock joins lines from start to end for error reporting.
func reconstructBlock(lines []string, start, end int) string {
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

// appendCommentary adds a line to the commentary builder.
func appendCommentary(b *strings.Builder, line string) {
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(line)
}
