// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package stub generates placeholder function bodies.
// Implements: prd003-stub-generator R1, R2;
//
//	docs/ARCHITECTURE § Stub Generator.
package stub

import (
	"fmt"
	"time"

	"github.com/petar-djukic/marginalia/pkg/types"
)

// Options controls the optional parts of a stub header. The function name is
// always present; timestamp and reference are appended only when set, in
// that order.
type Options struct {
	Timestamp time.Time // Zero value omits the timestamp
	Reference string    // External tracker tag; empty omits it
}

// Generate builds a placeholder body for the named function. The header is a
// comment line that keeps the function name searchable; the statement is the
// language's "not implemented" signal carrying the same name. Generate knows
// nothing about where the body will land or how it will be indented.
func Generate(name string, lang types.Language, opts Options) types.StubBody {
	header := fmt.Sprintf("%s stub: %s", lang.CommentLeader(), name)
	if !opts.Timestamp.IsZero() {
		header += ", generated " + opts.Timestamp.Format("2006-01-02")
	}
	if opts.Reference != "" {
		header += " [" + opts.Reference + "]"
	}

	return types.StubBody{
		Language:  lang,
		Header:    header,
		Statement: statement(name, lang),
	}
}

func statement(name string, lang types.Language) string {
	switch lang {
	case types.Python:
		return fmt.Sprintf("raise NotImplementedError(%q)", name)
	case types.Go:
		return fmt.Sprintf("panic(%q)", "not implemented: "+name)
	default:
		return fmt.Sprintf("throw new Error(%q);", "not implemented: "+name)
	}
}
