// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package preview renders dry-run output: a line diff of the planned change
// and numbered context windows around a target line.
// Implements: prd001-engine-interface R4 (dry-run preview);
//
//	docs/ARCHITECTURE § Preview.
package preview

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/petar-djukic/marginalia/internal/buffer"
)

// contextRun is how many unchanged lines survive on each side of a collapsed
// equal run in a diff.
const contextRun = 3

// UnifiedDiff renders a line-based diff between two versions of a file.
// Unchanged runs longer than twice contextRun collapse to their edges.
func UnifiedDiff(path, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)

	for _, d := range diffs {
		lines := chunkLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			writePrefixed(&sb, "-", lines)
		case diffmatchpatch.DiffInsert:
			writePrefixed(&sb, "+", lines)
		default:
			if len(lines) > 2*contextRun {
				writePrefixed(&sb, " ", lines[:contextRun])
				sb.WriteString("  ⋮\n")
				writePrefixed(&sb, " ", lines[len(lines)-contextRun:])
				continue
			}
			writePrefixed(&sb, " ", lines)
		}
	}
	return sb.String()
}

func chunkLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func writePrefixed(sb *strings.Builder, prefix string, lines []string) {
	for _, l := range lines {
		sb.WriteString(prefix)
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
}

// ContextWindow renders numbered source lines around target (0-based), the
// target itself marked with "> ". context lines are shown on each side.
func ContextWindow(buf *buffer.Buffer, target, context int) string {
	start := target - context
	if start < 0 {
		start = 0
	}
	end := target + context + 1
	if end > buf.Len() {
		end = buf.Len()
	}

	var sb strings.Builder
	for i := start; i < end; i++ {
		marker := "  "
		if i == target {
			marker = "> "
		}
		fmt.Fprintf(&sb, "%s%4d │ %s\n", marker, i+1, buf.Line(i))
	}
	return sb.String()
}
