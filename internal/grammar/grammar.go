// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package grammar extracts function declarations from signature fragments
// using tree-sitter.
// Implements: prd002-signature-parser R2 (grammar path);
//
//	docs/ARCHITECTURE § Signature Parser.
package grammar

import (
	"context"
	"errors"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/petar-djukic/marginalia/pkg/types"
)

// ErrNoDeclaration indicates the fragment parsed but contained no function
// declaration the queries recognize.
var ErrNoDeclaration = errors.New("no function declaration found")

// Declaration is the grammar-level view of one function declaration.
// Params is the verbatim text between the parentheses.
type Declaration struct {
	Name       string
	Params     string
	ReturnType string // Empty when the declaration has none
}

// langSpec holds the tree-sitter language, its declaration query, and the
// wrappers that turn a signature fragment into a parseable compilation unit.
type langSpec struct {
	lang *sitter.Language
	declQ string
	// wrap produces candidate wrappings of a fragment that ends at its
	// opening brace. Tried in order; the first that yields a declaration
	// wins.
	wrap func(fragment string) []string
	// result extracts a return type the grammar itself models; nil when the
	// return annotation is recovered from raw text instead.
	result func(nameNode *sitter.Node, src []byte) string
}

// tsFamilyQuery covers the declaration forms shared by the TypeScript and
// JavaScript grammars.
const tsFamilyQuery = `
	(function_declaration name: (identifier) @name parameters: (formal_parameters) @params)
	(generator_function_declaration name: (identifier) @name parameters: (formal_parameters) @params)
	(method_definition name: (property_identifier) @name parameters: (formal_parameters) @params)
	(variable_declarator name: (identifier) @name value: (arrow_function parameters: (formal_parameters) @params))
`

func tsFamilyWrap(fragment string) []string {
	return []string{
		// Top-level declaration: close the opened body.
		fragment + "}",
		// Class method: give the definition a class to live in.
		"class W {\n" + fragment + "}\n}",
	}
}

var supportedLangs = map[types.Language]*langSpec{
	types.TypeScript: {
		lang:  typescript.GetLanguage(),
		declQ: tsFamilyQuery,
		wrap:  tsFamilyWrap,
	},
	types.JavaScript: {
		lang:  javascript.GetLanguage(),
		declQ: tsFamilyQuery,
		wrap:  tsFamilyWrap,
	},
	types.Go: {
		lang: golang.GetLanguage(),
		declQ: `
			(function_declaration name: (identifier) @name parameters: (parameter_list) @params)
			(method_declaration name: (field_identifier) @name parameters: (parameter_list) @params)
		`,
		wrap: func(fragment string) []string {
			return []string{"package w\n" + fragment + "}"}
		},
		result: goResult,
	},
}

// tsReturnType matches a TypeScript return annotation between the closing
// parenthesis and the opening brace.
var tsReturnType = regexp.MustCompile(`\)\s*:\s*([^{]+)\{`)

// Parser parses signature fragments for one language. A nil *Parser is a
// valid "no grammar available" value; ForLanguage returns one for languages
// outside the supported set.
type Parser struct {
	spec *langSpec
}

// ForLanguage returns a grammar parser for lang, or false when the language
// has no grammar (indentation languages are handled by the regex path).
func ForLanguage(lang types.Language) (*Parser, bool) {
	spec, ok := supportedLangs[lang]
	if !ok {
		return nil, false
	}
	return &Parser{spec: spec}, nil
}

// ParseDeclaration parses a signature fragment that ends at its opening
// brace and returns the declaration it contains. The fragment is wrapped
// into a minimal valid compilation unit before parsing; parse trees with
// errors are still walked, so a recognizable declaration inside a partly
// broken fragment is recovered.
func (p *Parser) ParseDeclaration(ctx context.Context, fragment string) (*Declaration, error) {
	for _, wrapped := range p.spec.wrap(fragment) {
		decl, err := p.parseWrapped(ctx, wrapped)
		if err != nil {
			continue
		}
		if p.spec.result == nil {
			decl.ReturnType = extractReturnType(fragment)
		}
		return decl, nil
	}
	return nil, ErrNoDeclaration
}

func (p *Parser) parseWrapped(ctx context.Context, src string) (*Declaration, error) {
	content := []byte(src)
	root, err := sitter.ParseCtx(ctx, content, p.spec.lang)
	if err != nil || root == nil {
		return nil, ErrNoDeclaration
	}

	q, err := sitter.NewQuery([]byte(p.spec.declQ), p.spec.lang)
	if err != nil {
		return nil, err
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	m, ok := qc.NextMatch()
	if !ok {
		return nil, ErrNoDeclaration
	}

	decl := &Declaration{}
	var nameNode *sitter.Node
	for _, c := range m.Captures {
		switch q.CaptureNameForId(c.Index) {
		case "name":
			decl.Name = c.Node.Content(content)
			nameNode = c.Node
		case "params":
			decl.Params = stripParens(c.Node.Content(content))
		}
	}
	if decl.Name == "" {
		return nil, ErrNoDeclaration
	}
	if p.spec.result != nil && nameNode != nil {
		decl.ReturnType = p.spec.result(nameNode, content)
	}
	return decl, nil
}

// goResult reads the declaration's result field, which the Go grammar
// models directly.
func goResult(nameNode *sitter.Node, src []byte) string {
	parent := nameNode.Parent()
	if parent == nil {
		return ""
	}
	result := parent.ChildByFieldName("result")
	if result == nil {
		return ""
	}
	return result.Content(src)
}

// extractReturnType recovers a TypeScript-style return annotation from the
// raw fragment text between the closing parenthesis and the opening brace.
func extractReturnType(fragment string) string {
	m := tsReturnType.FindStringSubmatch(fragment)
	if m == nil {
		return ""
	}
	rt := strings.TrimSpace(m[1])
	// Arrow declarations carry the arrow between annotation and brace.
	rt = strings.TrimSpace(strings.TrimSuffix(rt, "=>"))
	return rt
}

func stripParens(s string) string {
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	return s
}
