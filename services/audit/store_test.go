// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package audit

import (
	"fmt"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(InMemoryConfig())
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordAssignsIdentity(t *testing.T) {
	s := openTestStore(t)
	ev, err := s.Record(Event{Actor: "sre-bot", Action: "batch.execute", Subject: "batch"})
	if err != nil {
		t.Fatal(err)
	}
	if ev.ID == "" {
		t.Error("Record should assign an ID")
	}
	if ev.At.IsZero() {
		t.Error("Record should assign a timestamp")
	}
}

func TestStore_RecentOrdering(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := s.Record(Event{
			Actor:   "operator",
			Action:  fmt.Sprintf("action-%d", i),
			Subject: "x",
			At:      base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	events, err := s.Recent(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("Recent(3) returned %d events", len(events))
	}
	// Newest first.
	for i, want := range []string{"action-4", "action-3", "action-2"} {
		if events[i].Action != want {
			t.Errorf("events[%d].Action = %q, want %q", i, events[i].Action, want)
		}
	}
}

func TestStore_PersistentRequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("persistent store without a path should fail to open")
	}
}
