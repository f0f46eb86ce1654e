// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package logging wraps charmbracelet/log behind a small package-level API.
// Implements: prd009-technology-stack R4 (structured logging).
package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
)

func getDefaultLogger() *log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = New("info")
	})
	return defaultLogger
}

// New creates a logger writing to stderr at the given level. Valid levels:
// "debug", "info", "warn", "error"; anything else means info.
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	setLoggerLevel(logger, level)
	return logger
}

func setLoggerLevel(logger *log.Logger, level string) {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

// Default returns the package-level default logger.
func Default() *log.Logger {
	return getDefaultLogger()
}

// SetDefault replaces the package-level default logger.
func SetDefault(logger *log.Logger) {
	defaultLogger = logger
}

// SetLevel updates the level of the default logger.
func SetLevel(level string) {
	setLoggerLevel(getDefaultLogger(), level)
}

// Field name constants keep structured log keys consistent across packages.
const (
	FieldError    = "error"
	FieldPath     = "path"
	FieldLanguage = "language"
	FieldMarker   = "marker"
	FieldSites    = "sites"
	FieldStubbed  = "stubbed"
	FieldSkipped  = "skipped"
	FieldFailed   = "failed"
	FieldLine     = "line"
	FieldFunction = "function"
	FieldRefs     = "refs"
	FieldDropped  = "dropped"
	FieldOracle   = "oracle"
	FieldModel    = "model"
	FieldTokens   = "tokens"
	FieldRetries  = "retries"
	FieldDryRun   = "dry_run"
	FieldCommit   = "commit"
	FieldVersion  = "version"
)
