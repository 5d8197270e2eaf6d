// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for ShieldOps components.
//
// The gateway logs JSON to stdout for log shippers; the CLI logs text to
// stderr so command output stays clean. Both paths are built on Go's
// standard library slog package.
//
// # Basic Usage
//
//	logger := logging.Default("gateway")
//	logger.Info("engine report generated", "engine", "alertdedup")
//
// # File Logging
//
// To also write a JSON log file (one per service per day):
//
//	logger, closeFn, err := logging.New(logging.Config{
//	    Level:   logging.LevelInfo,
//	    LogDir:  "/var/log/shieldops",
//	    Service: "gateway",
//	})
//	defer closeFn()
//
// # Thread Safety
//
// The returned *slog.Logger is safe for concurrent use.
//
// # Security Considerations
//
// This package does NOT automatically redact sensitive data. Callers must
// keep tokens and secrets out of log attributes.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
)

// Level represents log severity levels, ordered Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config holds logger configuration.
type Config struct {
	// Level is the minimum severity to emit.
	Level Level

	// Service tags every record and names the log file.
	Service string

	// LogDir enables file logging when non-empty. The directory is
	// created if needed.
	LogDir string

	// JSON forces JSON output on the console stream. When false the
	// format follows the terminal: text for TTYs, JSON otherwise.
	JSON bool
}

// Default returns a console-only logger for the given service.
func Default(service string) *slog.Logger {
	logger, _, _ := New(Config{Level: LevelInfo, Service: service})
	return logger
}

// New builds a logger from cfg. The returned close function flushes and
// closes the log file; it is a no-op for console-only loggers.
func New(cfg Config) (*slog.Logger, func() error, error) {
	opts := &slog.HandlerOptions{Level: cfg.Level.slogLevel()}

	var console slog.Handler
	if cfg.JSON || !isatty.IsTerminal(os.Stdout.Fd()) {
		console = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		console = slog.NewTextHandler(os.Stderr, opts)
	}

	closeFn := func() error { return nil }
	handler := console

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0750); err != nil {
			return nil, nil, fmt.Errorf("create log directory %s: %w", cfg.LogDir, err)
		}
		name := fmt.Sprintf("%s_%s.log", cfg.Service, time.Now().UTC().Format("2006-01-02"))
		f, err := os.OpenFile(filepath.Join(cfg.LogDir, name),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		handler = &teeHandler{handlers: []slog.Handler{
			console,
			slog.NewJSONHandler(f, opts),
		}}
		closeFn = f.Close
	}

	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With("service", cfg.Service)
	}
	return logger, closeFn, nil
}

// teeHandler fans a record out to every handler.
type teeHandler struct {
	handlers []slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		out[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: out}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		out[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: out}
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
