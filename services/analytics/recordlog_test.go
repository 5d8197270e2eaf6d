// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package analytics

import (
	"fmt"
	"sync"
	"testing"
)

func TestLog_Eviction(t *testing.T) {
	t.Run("never exceeds max records", func(t *testing.T) {
		l := NewLog[int](5)
		for i := 0; i < 50; i++ {
			l.Append(i)
			if l.Len() > 5 {
				t.Fatalf("log grew to %d records, max is 5", l.Len())
			}
		}
		if l.Len() != 5 {
			t.Errorf("expected 5 records after 50 appends, got %d", l.Len())
		}
	})

	t.Run("keeps the most recent records in order", func(t *testing.T) {
		l := NewLog[int](3)
		for i := 0; i < 10; i++ {
			l.Append(i)
		}
		got := l.Snapshot()
		want := []int{7, 8, 9}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("snapshot[%d] = %d, want %d", i, got[i], want[i])
			}
		}
	})

	t.Run("non-positive max falls back to default", func(t *testing.T) {
		l := NewLog[string](0)
		if l.Max() != DefaultMaxRecords {
			t.Errorf("Max() = %d, want %d", l.Max(), DefaultMaxRecords)
		}
	})
}

func TestLog_FilterAndFind(t *testing.T) {
	l := NewLog[int](10)
	for i := 0; i < 10; i++ {
		l.Append(i)
	}

	even := l.Filter(func(v int) bool { return v%2 == 0 })
	if len(even) != 5 {
		t.Fatalf("expected 5 even records, got %d", len(even))
	}

	if _, ok := l.Find(func(v int) bool { return v == 7 }); !ok {
		t.Error("Find should locate an existing record")
	}
	if _, ok := l.Find(func(v int) bool { return v == 99 }); ok {
		t.Error("Find should return false for an absent record")
	}
}

func TestLog_ClearAlwaysSucceeds(t *testing.T) {
	l := NewLog[int](4)
	l.Clear() // empty clear is fine
	l.Append(1)
	l.Clear()
	if l.Len() != 0 {
		t.Errorf("expected empty log after Clear, got %d records", l.Len())
	}
}

func TestLog_ConcurrentAppend(t *testing.T) {
	l := NewLog[string](64)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.Append(fmt.Sprintf("g%d-%d", g, i))
			}
		}(g)
	}
	wg.Wait()
	if l.Len() != 64 {
		t.Errorf("expected log pinned at 64 records, got %d", l.Len())
	}
}
