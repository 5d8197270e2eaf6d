// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"bogus":   LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_FileLogging(t *testing.T) {
	dir := t.TempDir()
	logger, closeFn, err := New(Config{
		Level:   LevelInfo,
		Service: "gateway",
		LogDir:  dir,
		JSON:    true,
	})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("report generated", "engine", "alertdedup")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one log file, got %v (err %v)", entries, err)
	}
	if !strings.HasPrefix(entries[0].Name(), "gateway_") {
		t.Errorf("log file %q should be named after the service", entries[0].Name())
	}

	raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"engine":"alertdedup"`) {
		t.Errorf("log file missing structured attribute: %s", raw)
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logger, closeFn, err := New(Config{
		Level:   LevelError,
		Service: "cli",
		LogDir:  dir,
		JSON:    true,
	})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("should be dropped")
	logger.Error("should be kept")
	closeFn()

	entries, _ := os.ReadDir(dir)
	raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "should be dropped") {
		t.Error("info record should be filtered at error level")
	}
	if !strings.Contains(string(raw), "should be kept") {
		t.Error("error record should be written")
	}
}

func TestDiscard(t *testing.T) {
	// Just needs to not panic.
	Discard().Info("into the void")
}
