/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scheduling

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/castplan/internal/calendar"
)

func testCalendar(t *testing.T) *calendar.Config {
	t.Helper()

	cfg, err := calendar.New("UTC", 6, 16, 2)
	if err != nil {
		t.Fatalf("new calendar: %v", err)
	}
	return cfg
}

func utc(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func TestNextAvailableSlotSkipsOccupied(t *testing.T) {
	cfg := testCalendar(t)
	alloc := NewAllocator(cfg, 30, zerolog.Nop())

	occupied := NewOccupiedSet(
		utc(2025, 1, 2, 6, 0),
		utc(2025, 1, 2, 8, 0),
	)
	got := alloc.NextAvailableSlot(occupied, utc(2025, 1, 2, 7, 30))

	want := utc(2025, 1, 2, 10, 0)
	if !got.Equal(want) {
		t.Fatalf("next slot = %v, want %v", got, want)
	}
}

func TestNextAvailableSlotRollsToNextDayWhenDayFull(t *testing.T) {
	cfg := testCalendar(t)
	alloc := NewAllocator(cfg, 30, zerolog.Nop())

	occupied := NewOccupiedSet()
	for _, hour := range []int{6, 8, 10, 12, 14, 16} {
		occupied.Add(utc(2025, 1, 2, hour, 0))
	}

	got := alloc.NextAvailableSlot(occupied, utc(2025, 1, 2, 6, 5))
	want := utc(2025, 1, 3, 6, 0)
	if !got.Equal(want) {
		t.Fatalf("next slot = %v, want %v", got, want)
	}
}

func TestNextAvailableSlotBeforeWindow(t *testing.T) {
	cfg := testCalendar(t)
	alloc := NewAllocator(cfg, 30, zerolog.Nop())

	got := alloc.NextAvailableSlot(NewOccupiedSet(), utc(2025, 1, 2, 5, 0))
	want := utc(2025, 1, 2, 6, 0)
	if !got.Equal(want) {
		t.Fatalf("next slot = %v, want %v", got, want)
	}
}

func TestNextAvailableSlotAfterWindow(t *testing.T) {
	cfg := testCalendar(t)
	alloc := NewAllocator(cfg, 30, zerolog.Nop())

	got := alloc.NextAvailableSlot(NewOccupiedSet(), utc(2025, 1, 2, 17, 0))
	want := utc(2025, 1, 3, 6, 0)
	if !got.Equal(want) {
		t.Fatalf("next slot = %v, want %v", got, want)
	}
}

func TestNextAvailableSlotNeverBeforeEarliestValid(t *testing.T) {
	cfg := testCalendar(t)
	alloc := NewAllocator(cfg, 30, zerolog.Nop())

	earliest := utc(2025, 1, 2, 11, 45)
	got := alloc.NextAvailableSlot(NewOccupiedSet(), earliest)
	if got.Before(earliest) {
		t.Fatalf("slot %v is before earliest valid %v", got, earliest)
	}
	if !got.Equal(utc(2025, 1, 2, 12, 0)) {
		t.Fatalf("next slot = %v, want 12:00", got)
	}
}

func TestNextAvailableSlotIsIdempotent(t *testing.T) {
	cfg := testCalendar(t)
	alloc := NewAllocator(cfg, 30, zerolog.Nop())

	occupied := NewOccupiedSet(utc(2025, 1, 2, 10, 0))
	earliest := utc(2025, 1, 2, 9, 5)

	first := alloc.NextAvailableSlot(occupied, earliest)
	for i := 0; i < 5; i++ {
		if got := alloc.NextAvailableSlot(occupied, earliest); !got.Equal(first) {
			t.Fatalf("call %d returned %v, first call returned %v", i+2, got, first)
		}
	}
}

func TestBatchAllocationYieldsDistinctSlots(t *testing.T) {
	cfg := testCalendar(t)
	alloc := NewAllocator(cfg, 30, zerolog.Nop())

	// Feed every assigned slot back into the occupied set, the caller
	// discipline every batch run must follow.
	occupied := NewOccupiedSet(
		utc(2025, 1, 2, 8, 0),
		utc(2025, 1, 2, 12, 0),
	)
	earliest := utc(2025, 1, 2, 6, 5)

	const n = 10
	assigned := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		slot := alloc.NextAvailableSlot(occupied, earliest)
		assigned = append(assigned, slot)
		occupied.Add(slot)
	}

	seen := make(map[int64]bool, n)
	for i, slot := range assigned {
		if seen[slot.Unix()] {
			t.Fatalf("slot %d (%v) assigned twice", i, slot)
		}
		seen[slot.Unix()] = true
		if slot.Before(earliest) {
			t.Fatalf("slot %d (%v) before earliest valid", i, slot)
		}
		if !cfg.Contains(slot) {
			t.Fatalf("slot %d (%v) outside window", i, slot)
		}
	}

	// Day one had 8:00 and 12:00 reserved, so only 6, 10, 14, 16 fit there.
	wantFirstDay := []time.Time{
		utc(2025, 1, 2, 6, 0),
		utc(2025, 1, 2, 10, 0),
		utc(2025, 1, 2, 14, 0),
		utc(2025, 1, 2, 16, 0),
		utc(2025, 1, 3, 6, 0),
	}
	for i, want := range wantFirstDay {
		if !assigned[i].Equal(want) {
			t.Fatalf("assigned[%d] = %v, want %v", i, assigned[i], want)
		}
	}
}

func TestHorizonExhaustionFallsBackAfterLatestOccupied(t *testing.T) {
	cfg := testCalendar(t)
	alloc := NewAllocator(cfg, 2, zerolog.Nop())

	occupied := NewOccupiedSet()
	earliest := utc(2025, 1, 2, 6, 5)
	for day := 2; day <= 3; day++ {
		for _, hour := range []int{6, 8, 10, 12, 14, 16} {
			occupied.Add(utc(2025, 1, day, hour, 0))
		}
	}

	// Latest occupied slot is Jan 3 16:00; one interval later is 18:00,
	// past endHour, so the fallback rolls to the next day's startHour.
	got := alloc.NextAvailableSlot(occupied, earliest)
	want := utc(2025, 1, 4, 6, 0)
	if !got.Equal(want) {
		t.Fatalf("fallback slot = %v, want %v", got, want)
	}
}

func TestHorizonExhaustionFallbackStaysInWindow(t *testing.T) {
	cfg := testCalendar(t)
	alloc := NewAllocator(cfg, 1, zerolog.Nop())

	occupied := NewOccupiedSet()
	earliest := utc(2025, 1, 2, 6, 5)
	for _, hour := range []int{6, 8, 10, 12, 14} {
		occupied.Add(utc(2025, 1, 2, hour, 0))
	}
	// 16:00 is free but the scan is cut to 1 day and 16:00 stays reachable,
	// so occupy it too to force the fallback.
	occupied.Add(utc(2025, 1, 2, 16, 0))

	got := alloc.NextAvailableSlot(occupied, earliest)
	// max occupied 16:00 + 2h = 18:00 -> rolls to next day startHour.
	if !got.Equal(utc(2025, 1, 3, 6, 0)) {
		t.Fatalf("fallback slot = %v", got)
	}
}

func TestHorizonExhaustionFallbackLandsInsideWindow(t *testing.T) {
	cfg := testCalendar(t)
	alloc := NewAllocator(cfg, 1, zerolog.Nop())

	occupied := NewOccupiedSet()
	earliest := utc(2025, 1, 2, 6, 5)
	for _, hour := range []int{6, 8, 10, 12, 14, 16} {
		occupied.Add(utc(2025, 1, 2, hour, 0))
	}
	// A remote reservation beyond the scan horizon; one interval after it
	// still fits the window, so the fallback lands there.
	occupied.Add(utc(2025, 1, 5, 9, 0))

	got := alloc.NextAvailableSlot(occupied, earliest)
	if !got.Equal(utc(2025, 1, 5, 11, 0)) {
		t.Fatalf("fallback slot = %v, want 2025-01-05 11:00", got)
	}
}

func TestHorizonExhaustionWithEmptyOccupied(t *testing.T) {
	cfg := testCalendar(t)
	// Horizon of one day, earliest valid past the whole window: nothing to
	// scan, nothing occupied, fallback is tomorrow's startHour.
	alloc := NewAllocator(cfg, 1, zerolog.Nop())

	earliest := utc(2025, 1, 2, 23, 30)
	got := alloc.NextAvailableSlot(NewOccupiedSet(), earliest)
	want := utc(2025, 1, 3, 6, 0)
	if !got.Equal(want) {
		t.Fatalf("fallback slot = %v, want %v", got, want)
	}
}

func TestEarliestValidTruncatesAndBuffers(t *testing.T) {
	cfg := testCalendar(t)

	now := utc(2025, 1, 2, 9, 42)
	got := EarliestValid(cfg, now, 5*time.Minute)
	want := utc(2025, 1, 2, 9, 5)
	if !got.Equal(want) {
		t.Fatalf("earliest valid = %v, want %v", got, want)
	}
}

func TestOccupiedSetComparesAbsoluteInstants(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	set := NewOccupiedSet(utc(2025, 1, 2, 11, 0))
	// 06:00 EST is 11:00 UTC: same instant, different representation.
	if !set.Contains(time.Date(2025, 1, 2, 6, 0, 0, 0, ny)) {
		t.Fatal("expected occupied set to match equal instants across timezones")
	}
}
