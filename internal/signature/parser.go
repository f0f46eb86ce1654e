// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signature detects function signatures at marker sites. A grammar
// path handles multi-line declarations; a single-line regex path is the
// fallback and the only path for languages without a grammar.
// Implements: prd002-signature-parser R1, R2, R3, R4;
//
//	docs/ARCHITECTURE § Signature Parser.
package signature

import (
	"context"
	"strings"

	"github.com/petar-djukic/marginalia/internal/buffer"
	"github.com/petar-djukic/marginalia/internal/grammar"
	"github.com/petar-djukic/marginalia/pkg/types"
)

// maxSignatureLines caps how many lines the grammar path accumulates while
// looking for the opening brace. Malformed input past the cap makes the
// grammar path decline rather than scan the whole file.
const maxSignatureLines = 32

// Grammar is the capability a grammar-aware declaration parser provides.
// The capability is fixed at construction: a Parser built with one is the
// grammar-capable variant, a Parser built with nil is regex-only.
type Grammar interface {
	ParseDeclaration(ctx context.Context, fragment string) (*grammar.Declaration, error)
}

// Parser extracts function signatures from source buffers.
type Parser struct {
	lang    types.Language
	grammar Grammar // nil for the regex-only variant
}

// New builds a Parser for lang with an explicit grammar capability. Pass nil
// for a regex-only parser.
func New(lang types.Language, g Grammar) *Parser {
	return &Parser{lang: lang, grammar: g}
}

// ForLanguage builds a Parser with the language's bundled grammar when one
// exists, or the regex-only variant otherwise.
func ForLanguage(lang types.Language) *Parser {
	if g, ok := grammar.ForLanguage(lang); ok {
		return New(lang, g)
	}
	return New(lang, nil)
}

// Parse extracts the signature of the function following markerLine. The
// first non-blank line after the marker is the signature line; when there is
// none the site is invalid and Parse returns nil. Grammar failures of any
// kind downgrade to the regex path, and a grammar success short-circuits it.
// Detection is best-effort: nil means "no signature here", never an error.
func (p *Parser) Parse(ctx context.Context, buf *buffer.Buffer, markerLine int) *types.FunctionSignature {
	sigLine, ok := buf.NextNonBlank(markerLine + 1)
	if !ok {
		return nil
	}
	return p.ParseAt(ctx, buf, sigLine)
}

// ParseAt extracts the signature of the function declared at sigLine.
func (p *Parser) ParseAt(ctx context.Context, buf *buffer.Buffer, sigLine int) *types.FunctionSignature {
	if p.grammar != nil {
		if sig := p.parseGrammar(ctx, buf, sigLine); sig != nil {
			return sig
		}
	}
	return parseRegex(buf.Line(sigLine))
}

// parseGrammar accumulates lines from sigLine until the opening brace, wraps
// the fragment, and hands it to the grammar. Any failure returns nil so the
// caller falls through to the regex path.
func (p *Parser) parseGrammar(ctx context.Context, buf *buffer.Buffer, sigLine int) *types.FunctionSignature {
	fragment, ok := accumulateFragment(buf, sigLine)
	if !ok {
		return nil
	}

	decl, err := p.grammar.ParseDeclaration(ctx, fragment)
	if err != nil {
		return nil
	}

	return &types.FunctionSignature{
		Name:       decl.Name,
		Params:     decl.Params,
		ReturnType: decl.ReturnType,
		Raw:        fragment,
	}
}

// accumulateFragment collects lines starting at sigLine until one contains
// an opening brace, then cuts the joined text just past that brace. Returns
// false when no brace shows up within maxSignatureLines or before the end of
// the buffer.
func accumulateFragment(buf *buffer.Buffer, sigLine int) (string, bool) {
	var sb strings.Builder
	for i := sigLine; i < buf.Len() && i-sigLine < maxSignatureLines; i++ {
		line := buf.Line(i)
		if i > sigLine {
			sb.WriteString("\n")
		}
		sb.WriteString(line)
		if idx := strings.IndexByte(line, '{'); idx >= 0 {
			joined := sb.String()
			cut := strings.IndexByte(joined, '{')
			return joined[:cut+1], true
		}
	}
	return "", false
}
