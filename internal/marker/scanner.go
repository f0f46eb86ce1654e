// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package marker locates stub markers in source buffers.
// Implements: prd007-marker-scanner R1, R2;
//
//	docs/ARCHITECTURE § Marker Scanner.
package marker

import (
	"strings"

	"github.com/petar-djukic/marginalia/internal/buffer"
	"github.com/petar-djukic/marginalia/pkg/types"
)

// DefaultToken is the marker recognized in line comments when no custom
// token is configured.
const DefaultToken = "@stub"

// Scanner finds marker sites in a buffer. Matching is lexical: the token
// must appear after the language's line-comment leader and end at a word
// boundary. A leader sequence inside a string literal can produce a false
// site; the downstream signature parse rejects those silently.
type Scanner struct {
	token string
}

// NewScanner builds a Scanner for the given token; an empty token selects
// DefaultToken.
func NewScanner(token string) *Scanner {
	if token == "" {
		token = DefaultToken
	}
	return &Scanner{token: token}
}

// Token returns the marker token this scanner looks for.
func (s *Scanner) Token() string {
	return s.token
}

// Scan returns every marker site in the buffer, in line order. A site's
// signature line is the first non-blank line after the marker; markers with
// nothing but blank lines below them are dropped here, which keeps the
// best-effort contract: no result, no error.
func (s *Scanner) Scan(buf *buffer.Buffer, lang types.Language) []types.MarkerSite {
	leader := lang.CommentLeader()

	var sites []types.MarkerSite
	for i := 0; i < buf.Len(); i++ {
		if !s.isMarkerLine(buf.Line(i), leader) {
			continue
		}
		sigLine, ok := buf.NextNonBlank(i + 1)
		if !ok {
			continue
		}
		sites = append(sites, types.MarkerSite{MarkerLine: i, SignatureLine: sigLine})
	}
	return sites
}

func (s *Scanner) isMarkerLine(line, leader string) bool {
	leaderIdx := strings.Index(line, leader)
	if leaderIdx < 0 {
		return false
	}
	rest := line[leaderIdx+len(leader):]
	tokenIdx := strings.Index(rest, s.token)
	if tokenIdx < 0 {
		return false
	}
	after := rest[tokenIdx+len(s.token):]
	return after == "" || !isWordByte(after[0])
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
