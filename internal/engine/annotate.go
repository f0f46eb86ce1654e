// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd001-engine-interface R2.2 (annotate operation);
//
//	docs/ARCHITECTURE § Annotate Lifecycle.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/petar-djukic/marginalia/internal/annotate"
	"github.com/petar-djukic/marginalia/internal/buffer"
	gitpkg "github.com/petar-djukic/marginalia/internal/git"
	"github.com/petar-djukic/marginalia/internal/logging"
	"github.com/petar-djukic/marginalia/internal/oracle"
	"github.com/petar-djukic/marginalia/internal/preview"
	"github.com/petar-djukic/marginalia/pkg/types"
)

// Annotate sends the file to the oracle, maps the critique to line-anchored
// comments, and splices them above the lines they discuss. Critique with
// no usable line references lands as a single block at the top of the file.
//
// Implements: prd001-engine-interface R2.5-R2.8.
func (e *Engine) Annotate(ctx context.Context, path string) (*types.AnnotateResult, error) {
	logger := logging.FromContext(ctx)

	if e.deps.Oracle == nil {
		return nil, fmt.Errorf("%w: no oracle configured", oracle.ErrOracleFailure)
	}

	lang, err := types.DetectLanguage(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	buf, err := buffer.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	repo, err := e.openGit()
	if err != nil {
		return nil, err
	}

	prompt, err := oracle.BuildPrompt(path, buf.Lines(), e.deps.Focus)
	if err != nil {
		return nil, err
	}

	logger.Debug("querying oracle", logging.FieldPath, path)
	resp, err := e.deps.Oracle.Query(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("querying oracle: %w", err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return nil, fmt.Errorf("%w: empty critique", oracle.ErrOracleFailure)
	}

	leader := lang.CommentLeader()
	mapped := annotate.Map(resp.Text, buf.Lines(), leader)
	logger.Debug("critique mapped",
		logging.FieldPath, path,
		logging.FieldRefs, mapped.RefsFound,
		logging.FieldDropped, mapped.Discarded)

	result := &types.AnnotateResult{
		Path:        path,
		Language:    lang,
		Annotations: mapped.Annotations,
		Fallback:    mapped.Fallback,
		Usage:       resp.Usage,
	}

	insertions := make([]buffer.Insertion, 0, len(mapped.Annotations))
	for _, ann := range mapped.Annotations {
		indent := ""
		if ann.Line < buf.Len() {
			indent = buf.Indentation(ann.Line)
		}
		insertions = append(insertions, buffer.Insertion{
			At:    ann.Line,
			Lines: formatComment(ann.CommentText, leader, indent),
		})
	}

	after, err := buf.SpliceAll(insertions)
	if err != nil {
		return nil, fmt.Errorf("splicing comments: %w", err)
	}

	logger.Info("annotate pass complete",
		logging.FieldPath, path,
		logging.FieldLanguage, string(lang),
		logging.FieldRefs, len(mapped.Annotations),
		logging.FieldTokens, resp.Usage.Total(),
		logging.FieldRetries, resp.Retries)

	if e.deps.DryRun {
		result.Preview = preview.UnifiedDiff(path, buf.String(), after.String())
		return result, nil
	}

	if err := after.WriteFile(path); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	result.Written = true

	e.commit(repo, gitpkg.CommitDetail{
		Op:    gitpkg.OpAnnotate,
		Path:  path,
		Count: len(mapped.Annotations),
	})

	return result, nil
}

// formatComment renders critique text as comment lines at the given
// indentation. Lines that already carry the comment leader (fallback text
// from the mapper) are indented as-is; everything else gets the leader
// prepended. Blank lines become bare leaders so the comment block stays
// contiguous.
func formatComment(text, leader, indent string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			out = append(out, indent+leader)
		case strings.HasPrefix(trimmed, leader):
			out = append(out, indent+trimmed)
		default:
			out = append(out, indent+leader+" "+trimmed)
		}
	}
	return out
}
