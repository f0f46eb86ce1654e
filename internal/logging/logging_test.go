// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package logging

import (
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  log.Level
	}{
		{"debug", "debug", log.DebugLevel},
		{"info", "info", log.InfoLevel},
		{"warn", "warn", log.WarnLevel},
		{"warning alias", "warning", log.WarnLevel},
		{"error", "error", log.ErrorLevel},
		{"unknown defaults to info", "loud", log.InfoLevel},
		{"empty defaults to info", "", log.InfoLevel},
		{"case insensitive", "DEBUG", log.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level)
			require.NotNil(t, logger)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestSetLevel(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	SetDefault(New("info"))
	SetLevel("debug")

	assert.Equal(t, log.DebugLevel, Default().GetLevel())
}

func TestFromContext_Roundtrip(t *testing.T) {
	logger := New("debug")
	ctx := WithLogger(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, Default(), FromContext(context.Background()))
	assert.Same(t, Default(), FromContext(nil))
}

func TestWithLogger_NilContext(t *testing.T) {
	logger := New("info")
	ctx := WithLogger(nil, logger)

	require.NotNil(t, ctx)
	assert.Same(t, logger, FromContext(ctx))
}
