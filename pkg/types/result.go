// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd001-engine-interface R5.5 (result types);
//
//	prd004-insertion-planner R3 (BoundaryError).
package types

import (
	"errors"
	"fmt"
)

// ErrNoMarkers indicates a stub pass found no marker sites in the file.
var ErrNoMarkers = errors.New("no stub markers found")

// BoundaryError reports that no scope-opening token was found between the
// signature line and the end of the scan. Unlike an undetected signature,
// which is skipped silently, a missing boundary surfaces to the caller: by
// then the site has committed to an insertion that cannot complete.
type BoundaryError struct {
	Path          string   // File being planned (may be empty for in-memory buffers)
	SignatureLine int      // 0-based line the scan started from
	Language      Language // Determines which token was sought
	Scanned       int      // Lines examined before giving up
}

func (e BoundaryError) Error() string {
	token := "{"
	if e.Language.Family() == IndentFamily {
		token = "trailing ':'"
	}
	if e.Path == "" {
		return fmt.Sprintf("no scope boundary (%s) found after line %d (scanned %d lines)",
			token, e.SignatureLine+1, e.Scanned)
	}
	return fmt.Sprintf("%s: no scope boundary (%s) found after line %d (scanned %d lines)",
		e.Path, token, e.SignatureLine+1, e.Scanned)
}

// SiteStatus classifies the outcome at one marker site.
type SiteStatus int

const (
	SiteStubbed SiteStatus = iota // Stub generated and spliced
	SiteSkipped                   // No signature detected; site left untouched
	SiteFailed                    // Insertion planning failed; error recorded
)

// String returns the human-readable name of the status.
func (s SiteStatus) String() string {
	switch s {
	case SiteStubbed:
		return "stubbed"
	case SiteSkipped:
		return "skipped"
	case SiteFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SiteResult reports what happened at a single marker site.
type SiteResult struct {
	Site     MarkerSite
	Status   SiteStatus
	Function string // Detected function name; empty when skipped
	Err      error  // Set only when Status is SiteFailed
}

// StubResult reports a whole-file stub pass.
type StubResult struct {
	Path     string
	Language Language
	Sites    []SiteResult
	Stubbed  int    // Sites that produced a stub
	Preview  string // Unified diff in dry-run mode; empty otherwise
	Written  bool   // Whether the file was rewritten
}

// AnnotateResult reports a whole-file annotation pass.
type AnnotateResult struct {
	Path        string
	Language    Language
	Annotations []Annotation
	Fallback    bool   // No line references parsed; whole text anchored at the top
	Preview     string // Unified diff in dry-run mode; empty otherwise
	Written     bool
	Usage       TokenUsage
}
