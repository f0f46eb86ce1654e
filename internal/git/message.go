// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd008-git-integration R3;
//
//	docs/ARCHITECTURE § Git Integration.
package git

import (
	"fmt"
	"strings"
)

const maxSubjectLength = 72

// CommitDetail describes one marginalia run for the commit message.
type CommitDetail struct {
	Op    Operation
	Path  string   // File the run modified
	Count int      // Stub bodies inserted or comments added
	Names []string // Stubbed function names (stub runs only)
}

// GenerateMessage creates a commit message for a marginalia run. The
// subject names the operation, the count, and the file; the body lists
// stubbed functions when there are any; the trailer records the operation
// for undo.
//
// Implements: prd008-git-integration R3.1-R3.5.
func GenerateMessage(d CommitDetail) string {
	msg := buildSubject(d)
	if body := buildBody(d); body != "" {
		msg += "\n\n" + body
	}
	msg += "\n\n" + trailerKey + ": " + string(d.Op)
	return msg
}

// buildSubject creates the first line of the commit message.
// Format: "op: summary" (max 72 chars).
//
// Implements: prd008-git-integration R3.1.
func buildSubject(d CommitDetail) string {
	var summary string
	switch d.Op {
	case OpStub:
		summary = fmt.Sprintf("add %s to %s", plural(d.Count, "stub body", "stub bodies"), d.Path)
	case OpAnnotate:
		summary = fmt.Sprintf("add %s to %s", plural(d.Count, "review comment", "review comments"), d.Path)
	default:
		summary = d.Path
	}

	subject := fmt.Sprintf("%s: %s", d.Op, summary)
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength-3] + "..."
	}
	return subject
}

// buildBody lists the stubbed functions, one per line.
//
// Implements: prd008-git-integration R3.2.
func buildBody(d CommitDetail) string {
	if len(d.Names) == 0 {
		return ""
	}

	lines := make([]string, 0, len(d.Names)+1)
	lines = append(lines, "Stubbed functions:")
	for _, n := range d.Names {
		lines = append(lines, "- "+n)
	}
	return strings.Join(lines, "\n")
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}
