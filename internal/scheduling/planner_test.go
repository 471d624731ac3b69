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

func TestCalculateFillsDaysThenRollsOver(t *testing.T) {
	cfg := testCalendar(t)
	planner := NewPlanner(cfg, zerolog.Nop())

	start := utc(2025, 1, 2, 6, 0)
	schedule := planner.Calculate(8, &start, start)

	want := []time.Time{
		utc(2025, 1, 2, 6, 0),
		utc(2025, 1, 2, 8, 0),
		utc(2025, 1, 2, 10, 0),
		utc(2025, 1, 2, 12, 0),
		utc(2025, 1, 2, 14, 0),
		utc(2025, 1, 2, 16, 0),
		utc(2025, 1, 3, 6, 0),
		utc(2025, 1, 3, 8, 0),
	}
	if len(schedule) != len(want) {
		t.Fatalf("got %d slots, want %d", len(schedule), len(want))
	}
	for i := range want {
		if !schedule[i].Equal(want[i]) {
			t.Errorf("slot %d = %v, want %v", i, schedule[i], want[i])
		}
	}
}

func TestCalculateDefaultsToTomorrowStartHour(t *testing.T) {
	cfg := testCalendar(t)
	planner := NewPlanner(cfg, zerolog.Nop())

	now := utc(2025, 1, 2, 13, 37)
	schedule := planner.Calculate(2, nil, now)

	if !schedule[0].Equal(utc(2025, 1, 3, 6, 0)) {
		t.Fatalf("first slot = %v, want tomorrow 06:00", schedule[0])
	}
	if !schedule[1].Equal(utc(2025, 1, 3, 8, 0)) {
		t.Fatalf("second slot = %v, want tomorrow 08:00", schedule[1])
	}
}

func TestCalculateClampsEarlyReference(t *testing.T) {
	cfg := testCalendar(t)
	planner := NewPlanner(cfg, zerolog.Nop())

	start := utc(2025, 1, 2, 3, 0)
	schedule := planner.Calculate(1, &start, start)

	if !schedule[0].Equal(utc(2025, 1, 2, 6, 0)) {
		t.Fatalf("first slot = %v, want 06:00 same day", schedule[0])
	}
}

func TestCalculateRollsLateReferenceToNextDay(t *testing.T) {
	cfg := testCalendar(t)
	planner := NewPlanner(cfg, zerolog.Nop())

	cases := []struct {
		name string
		hour int
	}{
		{"at end hour", 16},
		{"past end hour", 19},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start := utc(2025, 1, 2, tc.hour, 0)
			schedule := planner.Calculate(1, &start, start)
			if !schedule[0].Equal(utc(2025, 1, 3, 6, 0)) {
				t.Fatalf("first slot = %v, want next day 06:00", schedule[0])
			}
		})
	}
}

func TestCalculateReturnsEmptyForNonPositiveCount(t *testing.T) {
	cfg := testCalendar(t)
	planner := NewPlanner(cfg, zerolog.Nop())

	if got := planner.Calculate(0, nil, utc(2025, 1, 2, 6, 0)); got != nil {
		t.Fatalf("count 0 returned %v", got)
	}
	if got := planner.Calculate(-3, nil, utc(2025, 1, 2, 6, 0)); got != nil {
		t.Fatalf("negative count returned %v", got)
	}
}

func TestCalculateIsStrictlyIncreasingAcrossManyDays(t *testing.T) {
	cfg := testCalendar(t)
	planner := NewPlanner(cfg, zerolog.Nop())

	start := utc(2025, 1, 2, 6, 0)
	schedule := planner.Calculate(50, &start, start)

	if len(schedule) != 50 {
		t.Fatalf("got %d slots, want 50", len(schedule))
	}
	for i := 1; i < len(schedule); i++ {
		if !schedule[i].After(schedule[i-1]) {
			t.Fatalf("slot %d (%v) not after slot %d (%v)", i, schedule[i], i-1, schedule[i-1])
		}
		if !cfg.Contains(schedule[i]) {
			t.Fatalf("slot %d (%v) outside window", i, schedule[i])
		}
	}
}

func TestCalculateHonorsTimezone(t *testing.T) {
	cfg, err := calendar.New("America/New_York", 6, 16, 2)
	if err != nil {
		t.Fatalf("new calendar: %v", err)
	}
	planner := NewPlanner(cfg, zerolog.Nop())

	now := utc(2025, 6, 1, 12, 0)
	schedule := planner.Calculate(1, nil, now)

	local := schedule[0].In(cfg.Location())
	if local.Hour() != 6 {
		t.Fatalf("first slot local hour = %d, want 6", local.Hour())
	}
	// 06:00 EDT is 10:00 UTC.
	if schedule[0].UTC().Hour() != 10 {
		t.Fatalf("first slot UTC hour = %d, want 10", schedule[0].UTC().Hour())
	}
}
