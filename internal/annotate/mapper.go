// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package annotate maps unstructured oracle critique text onto source lines.
// Implements: prd005-annotation-mapper R1, R2, R3, R4;
//
//	docs/ARCHITECTURE § Annotation Mapper.
package annotate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/petar-djukic/marginalia/pkg/types"
)

// lineRef recognizes the oracle's line-reference convention: "line N" or
// "lines N-M", any case, with an optional trailing colon. The convention is
// a courtesy, not a contract, so the pattern stays deliberately loose.
var lineRef = regexp.MustCompile(`(?i)\blines?\s+(\d+)(?:\s*-\s*(\d+))?\s*:?`)

// Result holds the outcome of mapping one oracle response.
type Result struct {
	Annotations []types.Annotation // In reference order; never empty for non-blank input
	RefsFound   int                // Line references recognized in the text
	Discarded   int                // References dropped for resolving out of range
	Fallback    bool               // Whole text anchored at line 0 instead
}

// Map scans oracleText for line references and converts each into an
// Annotation anchored at the referenced line (ranges anchor at their first
// line). Text between one reference and the next is that reference's comment
// body. References outside the source are discarded, never clamped onto a
// neighboring line. When nothing usable is found the entire text becomes a
// single fallback annotation at line 0, each body line carrying
// commentPrefix, so the oracle's words are never dropped. Blank input yields
// an empty result.
func Map(oracleText string, sourceLines []string, commentPrefix string) *Result {
	result := &Result{}
	if strings.TrimSpace(oracleText) == "" {
		return result
	}

	matches := lineRef.FindAllStringSubmatchIndex(oracleText, -1)
	result.RefsFound = len(matches)

	for i, m := range matches {
		end := len(oracleText)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		text := strings.TrimSpace(oracleText[m[1]:end])

		anchor, last, ok := resolveRange(oracleText, m, len(sourceLines))
		if !ok {
			result.Discarded++
			continue
		}
		if text == "" {
			continue
		}

		result.Annotations = append(result.Annotations, types.Annotation{
			Line:         anchor,
			CommentText:  text,
			ContextLines: contextSlice(sourceLines, anchor, last),
		})
	}

	if len(result.Annotations) == 0 {
		result.Fallback = true
		result.Annotations = []types.Annotation{fallbackAnnotation(oracleText, commentPrefix)}
	}

	return result
}

// resolveRange converts the matched 1-based reference to a 0-based anchor
// line and range end. A reversed range is swapped. The reference is valid
// only when its anchor lies inside the source; the range end is allowed to
// overshoot, it only trims the context.
func resolveRange(text string, m []int, sourceLen int) (anchor, last int, ok bool) {
	n, err := strconv.Atoi(text[m[2]:m[3]])
	if err != nil {
		return 0, 0, false
	}
	anchor = n - 1
	last = anchor

	if m[4] >= 0 {
		if e, err := strconv.Atoi(text[m[4]:m[5]]); err == nil {
			last = e - 1
		}
	}
	if last < anchor {
		anchor, last = last, anchor
	}

	if anchor < 0 || anchor >= sourceLen {
		return 0, 0, false
	}
	return anchor, last, true
}

// contextSlice copies the referenced source lines, trimming a range end that
// runs past the buffer.
func contextSlice(sourceLines []string, anchor, last int) []string {
	if last >= len(sourceLines) {
		last = len(sourceLines) - 1
	}
	return append([]string(nil), sourceLines[anchor:last+1]...)
}

// fallbackAnnotation wraps the whole oracle text into one annotation at the
// top of the file, every line prefixed with the comment syntax.
func fallbackAnnotation(oracleText, commentPrefix string) types.Annotation {
	lines := strings.Split(strings.TrimRight(oracleText, "\n"), "\n")
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if strings.TrimSpace(l) == "" {
			b.WriteString(commentPrefix)
		} else {
			b.WriteString(commentPrefix + " " + l)
		}
	}
	return types.Annotation{Line: 0, CommentText: b.String()}
}
