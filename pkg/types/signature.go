// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd002-signature-parser R5 (FunctionSignature);
//
//	prd003-stub-generator R5 (StubBody);
//	prd004-insertion-planner R5 (InsertionPoint);
//	prd007-marker-scanner R5 (MarkerSite).
package types

// MarkerSite is a located stub marker with its resolved signature line.
// SignatureLine is the first non-blank line after the marker; candidate
// sites with no such line before end of file are dropped during scanning
// and never reach this type.
type MarkerSite struct {
	MarkerLine    int // 0-based line index of the marker comment
	SignatureLine int // 0-based line index of the first non-blank line after it
}

// FunctionSignature holds the parts of a function declaration detected at a
// marker site. Params and ReturnType are verbatim source text, not parsed
// further.
type FunctionSignature struct {
	Name       string // Declared function name
	Params     string // Raw parameter-list text between the parentheses
	ReturnType string // Return-type annotation text; empty when absent
	Raw        string // Signature text the parser consumed
}

// StubBody is a generated placeholder body before placement. Header and
// Statement are single unindented lines; indentation belongs to the
// insertion planner.
type StubBody struct {
	Language  Language // Fixes the statement form and comment syntax
	Header    string   // Explanatory comment line naming the function
	Statement string   // "Not implemented" signal in the language's idiom
}

// Lines returns the body as ordered, unindented source lines.
func (b StubBody) Lines() []string {
	return []string{b.Header, b.Statement}
}

// InsertionPoint locates where a stub body goes and how it must be shaped.
// LineIndex uses insert-before semantics: a value equal to the buffer length
// appends at end of file.
type InsertionPoint struct {
	LineIndex       int    // Insert before this 0-based line index
	BaseIndentation string // Signature line's leading whitespace
	Indentation     string // BaseIndentation plus one indent unit, for body lines
	RequiresClosing bool   // Brace family: synthesize a closing brace after the body
}
