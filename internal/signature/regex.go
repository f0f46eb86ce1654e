// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd002-signature-parser R3 (regex fallback).
package signature

import (
	"regexp"
	"strings"

	"github.com/petar-djukic/marginalia/pkg/types"
)

// signatureHead matches optional declaration qualifiers, the function name,
// and the opening parenthesis at the start of a trimmed signature line. The
// parenthesis group itself is balanced by scanning, which a regular
// expression cannot do.
var signatureHead = regexp.MustCompile(
	`^(?:(?:export|default|async|static|public|private|protected|get|set|function|func|def)\s+)*` +
		`([A-Za-z_$][A-Za-z0-9_$]*)\s*\(`)

// parseRegex extracts a signature from a single line. It requires a name and
// a balanced parenthesis group; the return-type suffix ("-> T" or ": T") is
// optional. Returns nil when the line does not look like a signature.
func parseRegex(line string) *types.FunctionSignature {
	trimmed := strings.TrimSpace(line)

	m := signatureHead.FindStringSubmatchIndex(trimmed)
	if m == nil {
		return nil
	}
	name := trimmed[m[2]:m[3]]
	openParen := m[1] - 1

	closeParen := matchParen(trimmed, openParen)
	if closeParen < 0 {
		return nil
	}

	return &types.FunctionSignature{
		Name:       name,
		Params:     trimmed[openParen+1 : closeParen],
		ReturnType: returnSuffix(trimmed[closeParen+1:]),
		Raw:        trimmed,
	}
}

// matchParen returns the index of the parenthesis closing the one at open,
// or -1 when the group never closes on this line.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// returnSuffix extracts the return-type annotation from the text after the
// closing parenthesis: either "-> T" (indentation languages) or ": T"
// (TypeScript style), with any trailing scope token stripped.
func returnSuffix(rest string) string {
	rest = strings.TrimSpace(rest)
	switch {
	case strings.HasPrefix(rest, "->"):
		rest = rest[2:]
	case strings.HasPrefix(rest, ":"):
		rest = rest[1:]
	default:
		return ""
	}
	rest = strings.TrimSpace(rest)
	rest = strings.TrimSuffix(rest, "{")
	rest = strings.TrimSuffix(rest, ":")
	return strings.TrimSpace(rest)
}
