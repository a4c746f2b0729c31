// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package script

import (
	"github.com/petar-djukic/textpatch/internal/transaction"
	"github.com/petar-djukic/textpatch/pkg/types"
)

// ApplyResult holds the outcome of applying a parsed script.
type ApplyResult struct {
	Outcomes []*types.Outcome // Successful transactions, in script order
	Errors   []error          // Errors from failed transactions, in order
}

// ApplyAll runs each request through its own transaction, in script
// order. One failed edit does not stop the rest; each file's transaction
// is still all-or-nothing on its own.
func ApplyAll(runner *transaction.Runner, requests []types.ReplaceRequest) *ApplyResult {
	result := &ApplyResult{}

	for _, req := range requests {
		outcome, err := runner.Replace(req)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result
}
