// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	lines := []string{"package main", "", "func main() {}"}

	prompt, err := BuildPrompt("cmd/app/main.go", lines, "")
	require.NoError(t, err)

	assert.Contains(t, prompt, "cmd/app/main.go")
	assert.Contains(t, prompt, "   1 │ package main")
	assert.Contains(t, prompt, "   3 │ func main() {}")
	assert.Contains(t, prompt, `"Line N:"`)
	assert.Contains(t, prompt, `"Lines N-M:"`)
	assert.NotContains(t, prompt, "Focus on:")
}

func TestBuildPrompt_WithFocus(t *testing.T) {
	prompt, err := BuildPrompt("lib.py", []string{"def f():", "    pass"}, "error handling")
	require.NoError(t, err)

	assert.Contains(t, prompt, "Focus on: error handling")
}

func TestNumberLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "numbers are one-based",
			lines: []string{"a", "b"},
			want:  "   1 │ a\n   2 │ b\n",
		},
		{
			name:  "blank lines keep their number",
			lines: []string{"a", "", "c"},
			want:  "   1 │ a\n   2 │ \n   3 │ c\n",
		},
		{
			name:  "empty input",
			lines: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, numberLines(tt.lines))
		})
	}
}
