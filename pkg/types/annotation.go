// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd005-annotation-mapper R5 (Annotation);
//
//	prd006-oracle-client R5 (usage and response types).
package types

// Annotation anchors one oracle remark to a source line. Line is always
// within the source the annotation was mapped against; references that
// resolve out of range are discarded by the mapper, never clamped.
type Annotation struct {
	Line         int      // 0-based target line index
	CommentText  string   // Remark text; may span multiple lines
	ContextLines []string // Referenced source lines, kept for preview only
}

// TokenUsage tracks token consumption for a single oracle call.
type TokenUsage struct {
	InputTokens  int // Tokens in the prompt
	OutputTokens int // Tokens in the response
}

// Total returns the sum of input and output tokens.
func (u TokenUsage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// OracleResponse holds the result of one oracle query.
type OracleResponse struct {
	Text    string     // Raw critique text, unstructured
	Usage   TokenUsage // Token counts when the backend reports them
	Retries int        // Retries performed before success
}
