// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines shared types used across marginalia packages.
// Implements: prd001-engine-interface R5 (shared types).
package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Family identifies how a language delimits function bodies.
type Family int

const (
	BraceFamily  Family = iota // Bodies open with { and close with }
	IndentFamily               // Bodies open with a trailing colon and indentation
)

// String returns the human-readable name of the family.
func (f Family) String() string {
	switch f {
	case BraceFamily:
		return "brace"
	case IndentFamily:
		return "indent"
	default:
		return "unknown"
	}
}

// Language identifies a supported source language.
type Language string

const (
	TypeScript Language = "typescript"
	JavaScript Language = "javascript"
	Go         Language = "go"
	Python     Language = "python"
)

// languageFacts holds the per-language conventions the engine needs: how
// bodies are delimited, how line comments start, and what one indent step
// looks like by default.
type languageFacts struct {
	family        Family
	commentLeader string
	indentUnit    string
}

var facts = map[Language]languageFacts{
	TypeScript: {BraceFamily, "//", "  "},
	JavaScript: {BraceFamily, "//", "  "},
	Go:         {BraceFamily, "//", "\t"},
	Python:     {IndentFamily, "#", "    "},
}

var extensions = map[string]Language{
	".ts":  TypeScript,
	".tsx": TypeScript,
	".js":  JavaScript,
	".jsx": JavaScript,
	".mjs": JavaScript,
	".go":  Go,
	".py":  Python,
}

// ErrUnsupportedLanguage indicates a file extension outside the supported set.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// DetectLanguage maps a file path to its Language by extension.
//
// Implements: prd001-engine-interface R5.4.
func DetectLanguage(path string) (Language, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extensions[ext]; ok {
		return lang, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, ext)
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	_, ok := facts[l]
	return ok
}

// Family returns how the language delimits function bodies.
func (l Language) Family() Family {
	return facts[l].family
}

// CommentLeader returns the language's line-comment prefix.
func (l Language) CommentLeader() string {
	return facts[l].commentLeader
}

// IndentUnit returns one indentation step in the language's conventional
// style. Callers that detect tab indentation in the target file should use
// a tab instead.
func (l Language) IndentUnit() string {
	return facts[l].indentUnit
}
