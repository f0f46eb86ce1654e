// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd001-engine-interface R2.1 (stub operation);
//
//	docs/ARCHITECTURE § Stub Lifecycle.
package engine

import (
	"context"
	"fmt"

	"github.com/petar-djukic/marginalia/internal/buffer"
	gitpkg "github.com/petar-djukic/marginalia/internal/git"
	"github.com/petar-djukic/marginalia/internal/insert"
	"github.com/petar-djukic/marginalia/internal/logging"
	"github.com/petar-djukic/marginalia/internal/marker"
	"github.com/petar-djukic/marginalia/internal/preview"
	"github.com/petar-djukic/marginalia/internal/signature"
	"github.com/petar-djukic/marginalia/internal/stub"
	"github.com/petar-djukic/marginalia/pkg/types"
)

// Stub finds marker sites in the file, generates a stub body for each
// resolvable signature, and splices all bodies in one pass. Sites whose
// signature cannot be parsed are skipped with the marker left in place;
// sites with no reachable body boundary are reported as failed without
// blocking the others.
//
// Implements: prd001-engine-interface R2.1-R2.4.
func (e *Engine) Stub(ctx context.Context, path string) (*types.StubResult, error) {
	logger := logging.FromContext(ctx)

	lang, err := types.DetectLanguage(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	buf, err := buffer.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	sites := marker.NewScanner(e.deps.MarkerToken).Scan(buf, lang)
	if len(sites) == 0 {
		return nil, fmt.Errorf("%s: %w", path, types.ErrNoMarkers)
	}
	logger.Debug("markers found", logging.FieldPath, path, logging.FieldSites, len(sites))

	repo, err := e.openGit()
	if err != nil {
		return nil, err
	}

	result := &types.StubResult{Path: path, Language: lang}
	parser := signature.ForLanguage(lang)

	var insertions []buffer.Insertion
	var names []string
	for _, site := range sites {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sig := parser.Parse(ctx, buf, site.MarkerLine)
		if sig == nil {
			logger.Debug("marker skipped, no signature",
				logging.FieldPath, path, logging.FieldMarker, site.MarkerLine+1)
			result.Sites = append(result.Sites, types.SiteResult{Site: site, Status: types.SiteSkipped})
			continue
		}

		point, err := insert.Plan(buf, site.SignatureLine, lang)
		if err != nil {
			logger.Warn("no body boundary",
				logging.FieldPath, path,
				logging.FieldFunction, sig.Name,
				logging.FieldLine, site.SignatureLine+1,
				logging.FieldError, err)
			logger.Debug("signature context\n" + preview.ContextWindow(buf, site.SignatureLine, 2))
			result.Sites = append(result.Sites, types.SiteResult{
				Site: site, Status: types.SiteFailed, Function: sig.Name, Err: err,
			})
			continue
		}

		opts := stub.Options{Reference: e.deps.Reference}
		if e.deps.Timestamp {
			opts.Timestamp = e.deps.Now()
		}
		body := stub.Generate(sig.Name, lang, opts)

		insertions = append(insertions, buffer.Insertion{
			At:    point.LineIndex,
			Lines: insert.Render(point, body),
		})
		names = append(names, sig.Name)
		result.Sites = append(result.Sites, types.SiteResult{Site: site, Status: types.SiteStubbed, Function: sig.Name})
		result.Stubbed++
	}

	logger.Info("stub pass complete",
		logging.FieldPath, path,
		logging.FieldLanguage, string(lang),
		logging.FieldSites, len(sites),
		logging.FieldStubbed, result.Stubbed,
		logging.FieldSkipped, countStatus(result.Sites, types.SiteSkipped),
		logging.FieldFailed, countStatus(result.Sites, types.SiteFailed))

	if len(insertions) == 0 {
		return result, nil
	}

	after, err := buf.SpliceAll(insertions)
	if err != nil {
		return nil, fmt.Errorf("splicing stub bodies: %w", err)
	}

	if e.deps.DryRun {
		result.Preview = preview.UnifiedDiff(path, buf.String(), after.String())
		return result, nil
	}

	if err := after.WriteFile(path); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	result.Written = true

	e.commit(repo, gitpkg.CommitDetail{
		Op:    gitpkg.OpStub,
		Path:  path,
		Count: result.Stubbed,
		Names: names,
	})

	return result, nil
}

func countStatus(sites []types.SiteResult, status types.SiteStatus) int {
	n := 0
	for _, s := range sites {
		if s.Status == status {
			n++
		}
	}
	return n
}
