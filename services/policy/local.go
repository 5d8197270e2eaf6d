// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package policy

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// LocalRuleFile is the YAML document local rules are loaded from.
type LocalRuleFile struct {
	Rules []LocalRule `yaml:"rules"`
}

// LocalRule denies inputs whose text representation matches its pattern.
type LocalRule struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Pattern     string `yaml:"pattern"`

	compiled *regexp.Regexp
}

// LocalRules is the offline decision backend: a regex deny-list compiled
// from a YAML file and hot-reloaded when the file changes.
type LocalRules struct {
	mu    sync.RWMutex
	rules []LocalRule

	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// DefaultRules returns a built-in deny-list covering credential-shaped
// strings, used when no rule file is configured.
func DefaultRules() *LocalRules {
	lr := &LocalRules{}
	lr.rules = compileOrPanic([]LocalRule{
		{ID: "aws-access-key", Description: "AWS access key ID", Pattern: `AKIA[0-9A-Z]{16}`},
		{ID: "private-key", Description: "PEM private key block", Pattern: `-----BEGIN [A-Z ]*PRIVATE KEY-----`},
		{ID: "bearer-token", Description: "inline bearer token", Pattern: `(?i)bearer\s+[a-z0-9._\-]{20,}`},
	})
	return lr
}

func compileOrPanic(rules []LocalRule) []LocalRule {
	for i := range rules {
		rules[i].compiled = regexp.MustCompile(rules[i].Pattern)
	}
	return rules
}

// LoadRules reads and compiles a rule file.
func LoadRules(path string) (*LocalRules, error) {
	lr := &LocalRules{path: path}
	if err := lr.reload(); err != nil {
		return nil, err
	}
	return lr, nil
}

func (lr *LocalRules) reload() error {
	raw, err := os.ReadFile(lr.path)
	if err != nil {
		return fmt.Errorf("read rule file %s: %w", lr.path, err)
	}
	var file LocalRuleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse rule file %s: %w", lr.path, err)
	}
	for i := range file.Rules {
		re, err := regexp.Compile(file.Rules[i].Pattern)
		if err != nil {
			return fmt.Errorf("compile rule %q: %w", file.Rules[i].ID, err)
		}
		file.Rules[i].compiled = re
	}
	lr.mu.Lock()
	lr.rules = file.Rules
	lr.mu.Unlock()
	return nil
}

// Watch reloads the rule file whenever it is rewritten. A failed reload
// keeps the previous rule set. Call Close to stop watching.
func (lr *LocalRules) Watch() error {
	if lr.path == "" {
		return fmt.Errorf("no rule file to watch")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create rule watcher: %w", err)
	}
	// Watch the directory: editors replace files rather than rewriting them.
	if err := w.Add(filepath.Dir(lr.path)); err != nil {
		w.Close()
		return fmt.Errorf("watch rule directory: %w", err)
	}
	lr.watcher = w
	lr.done = make(chan struct{})

	go func() {
		for {
			select {
			case <-lr.done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(lr.path) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := lr.reload(); err != nil {
					slog.Warn("local policy rule reload failed, keeping previous rules", "error", err)
				} else {
					slog.Info("local policy rules reloaded", "path", lr.path, "rules", lr.Len())
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("rule watcher error", "error", err)
			}
		}
	}()
	return nil
}

// Close stops the file watcher if one is running.
func (lr *LocalRules) Close() error {
	if lr.watcher == nil {
		return nil
	}
	close(lr.done)
	return lr.watcher.Close()
}

// Len returns the number of loaded rules.
func (lr *LocalRules) Len() int {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	return len(lr.rules)
}

// Decide evaluates the deny-list against the input's text representation.
func (lr *LocalRules) Decide(input any) Decision {
	text := textOf(input)
	d := Decision{Allowed: true, Source: "local"}
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	for _, r := range lr.rules {
		if r.compiled.MatchString(text) {
			d.Allowed = false
			d.Reasons = append(d.Reasons, r.ID+": "+r.Description)
		}
	}
	return d
}

func textOf(input any) string {
	switch v := input.(type) {
	case string:
		return v
	case map[string]any:
		if msg, ok := v["message"].(string); ok {
			return msg
		}
	}
	raw, err := json.Marshal(input)
	if err != nil {
		return fmt.Sprint(input)
	}
	return strings.ToValidUTF8(string(raw), "")
}
