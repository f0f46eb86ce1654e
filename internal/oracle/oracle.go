// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package oracle queries the external critique generator. Two backends
// implement the same interface: a subprocess running a configured command
// and an AWS Bedrock client. The oracle's output is unstructured text; the
// annotation mapper owns its interpretation.
// Implements: prd006-oracle-client R1, R2, R3, R4, R5, R6;
//
//	docs/ARCHITECTURE § Oracle Client.
package oracle

import (
	"context"
	"errors"

	"github.com/petar-djukic/marginalia/pkg/types"
)

// ErrOracleFailure indicates the oracle call failed (process, network, auth,
// rate limit) or returned nothing usable.
var ErrOracleFailure = errors.New("oracle failure")

// Oracle produces critique text for a prompt. Implementations must treat
// the response as opaque prose; no format is guaranteed.
type Oracle interface {
	Query(ctx context.Context, prompt string) (*types.OracleResponse, error)
}
