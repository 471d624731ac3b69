/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package scheduling assigns publish slots to batches of content items:
// gap-filling allocation against existing reservations, fresh-batch previews,
// and post-condition validation of finished batches.
package scheduling

import "time"

// OccupiedSet is the working set of instants treated as unavailable during
// allocation: remote reservations plus slots already assigned in the current
// batch. Instants are compared by absolute time, so entries added in any
// timezone collide correctly.
//
// The set is the explicit accumulator that keeps the allocator stateless:
// callers feed every newly assigned slot back in before asking for the next.
type OccupiedSet struct {
	slots map[int64]struct{}
	max   time.Time
}

// NewOccupiedSet builds a set from zero or more instants.
func NewOccupiedSet(instants ...time.Time) *OccupiedSet {
	s := &OccupiedSet{slots: make(map[int64]struct{}, len(instants))}
	for _, t := range instants {
		s.Add(t)
	}
	return s
}

// Add marks an instant as occupied.
func (s *OccupiedSet) Add(t time.Time) {
	s.slots[t.Unix()] = struct{}{}
	if t.After(s.max) {
		s.max = t
	}
}

// Contains reports whether the instant is occupied.
func (s *OccupiedSet) Contains(t time.Time) bool {
	_, ok := s.slots[t.Unix()]
	return ok
}

// Len returns the number of occupied instants.
func (s *OccupiedSet) Len() int {
	return len(s.slots)
}

// Latest returns the latest occupied instant, or false when the set is empty.
func (s *OccupiedSet) Latest() (time.Time, bool) {
	if len(s.slots) == 0 {
		return time.Time{}, false
	}
	return s.max, true
}
