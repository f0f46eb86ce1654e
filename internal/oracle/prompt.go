// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd006-oracle-client R1 (prompt construction).
package oracle

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// PromptData holds the values injected into the critique prompt template.
type PromptData struct {
	FilePath       string
	NumberedSource string
	Focus          string
}

// BuildPrompt renders the critique prompt for a source file. The numbered
// listing gives the oracle the line numbers its "Line N:" references should
// use; focus is an optional caller question to direct the critique.
func BuildPrompt(path string, lines []string, focus string) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/critique.tmpl")
	if err != nil {
		return "", fmt.Errorf("parsing critique template: %w", err)
	}

	data := PromptData{
		FilePath:       path,
		NumberedSource: numberLines(lines),
		Focus:          focus,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing critique template: %w", err)
	}
	return buf.String(), nil
}

// numberLines formats source lines with 1-based line numbers.
func numberLines(lines []string) string {
	var buf strings.Builder
	for i, line := range lines {
		buf.WriteString(fmt.Sprintf("%4d │ %s\n", i+1, line))
	}
	return buf.String()
}
