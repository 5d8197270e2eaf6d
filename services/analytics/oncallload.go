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
	"sort"
	"time"

	"github.com/google/uuid"
)

// PageEvent is one page delivered to an on-call responder.
type PageEvent struct {
	ID        string    `json:"id"`
	Responder string    `json:"responder"`
	Team      string    `json:"team"`
	Service   string    `json:"service"`
	Acked     bool      `json:"acked"`
	PagedAt   time.Time `json:"paged_at"`
}

// ResponderLoad aggregates paging load for one responder.
type ResponderLoad struct {
	Responder     string  `json:"responder"`
	Pages         int     `json:"pages"`
	OffHours      int     `json:"off_hours"`
	OffHoursRatio float64 `json:"off_hours_ratio"`
	Unacked       int     `json:"unacked"`
}

// OnCallLoadReport summarizes paging fairness.
type OnCallLoadReport struct {
	GeneratedAt     time.Time       `json:"generated_at"`
	TotalPages      int             `json:"total_pages"`
	ByTeam          map[string]int  `json:"by_team"`
	Responders      []ResponderLoad `json:"responders"`
	Recommendations []string        `json:"recommendations"`
}

// OnCallLoadEngine tracks paging volume per responder.
//
// Off-hours means a page delivered outside 08:00-20:00 in the recorded
// timestamp's location.
type OnCallLoadEngine struct {
	log *Log[PageEvent]
}

func NewOnCallLoadEngine(maxRecords int) *OnCallLoadEngine {
	return &OnCallLoadEngine{log: NewLog[PageEvent](maxRecords)}
}

// Record stores a page event and returns the stored value.
func (e *OnCallLoadEngine) Record(p PageEvent) PageEvent {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PagedAt.IsZero() {
		p.PagedAt = time.Now().UTC()
	}
	e.log.Append(p)
	return p
}

func (e *OnCallLoadEngine) Pages() []PageEvent {
	return e.log.Snapshot()
}

func (e *OnCallLoadEngine) ForResponder(responder string) []PageEvent {
	return e.log.Filter(func(p PageEvent) bool { return p.Responder == responder })
}

func offHours(t time.Time) bool {
	h := t.Hour()
	return h < 8 || h >= 20
}

// Loads aggregates paging load per responder, busiest first.
func (e *OnCallLoadEngine) Loads() []ResponderLoad {
	byResponder := map[string]*ResponderLoad{}
	for _, p := range e.log.Snapshot() {
		l, ok := byResponder[p.Responder]
		if !ok {
			l = &ResponderLoad{Responder: p.Responder}
			byResponder[p.Responder] = l
		}
		l.Pages++
		if offHours(p.PagedAt) {
			l.OffHours++
		}
		if !p.Acked {
			l.Unacked++
		}
	}
	out := make([]ResponderLoad, 0, len(byResponder))
	for _, l := range byResponder {
		l.OffHoursRatio = float64(l.OffHours) / float64(l.Pages)
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pages != out[j].Pages {
			return out[i].Pages > out[j].Pages
		}
		return out[i].Responder < out[j].Responder
	})
	return out
}

func (e *OnCallLoadEngine) Report() OnCallLoadReport {
	pages := e.log.Snapshot()
	rep := OnCallLoadReport{
		GeneratedAt: reportClock().UTC(),
		TotalPages:  len(pages),
		ByTeam:      map[string]int{},
	}
	for _, p := range pages {
		rep.ByTeam[p.Team]++
	}
	rep.Responders = e.Loads()

	if len(rep.Responders) >= 2 {
		top := rep.Responders[0]
		if rep.TotalPages > 0 && top.Pages*2 > rep.TotalPages {
			rep.Recommendations = append(rep.Recommendations,
				"responder "+top.Responder+" absorbs the majority of pages; rebalance the rotation")
		}
	}
	for _, l := range rep.Responders {
		if l.OffHoursRatio > 0.5 && l.Pages >= 4 {
			rep.Recommendations = append(rep.Recommendations,
				"responder "+l.Responder+" is paged mostly off-hours; move noisy alerts to business-hours delivery")
			break
		}
	}
	for _, l := range rep.Responders {
		if l.Unacked >= 3 {
			rep.Recommendations = append(rep.Recommendations,
				"responder "+l.Responder+" has repeated unacked pages; verify escalation targets are current")
			break
		}
	}
	if len(rep.Recommendations) == 0 && rep.TotalPages > 0 {
		rep.Recommendations = append(rep.Recommendations, "paging load is evenly distributed")
	}
	return rep
}

func (e *OnCallLoadEngine) Clear() { e.log.Clear() }

func (e *OnCallLoadEngine) Stats() Stats { return statsOf(e.log) }
