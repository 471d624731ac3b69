/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scheduling

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/castplan/internal/calendar"
	"github.com/friendsincode/castplan/internal/telemetry"
)

const (
	// DefaultHorizonDays bounds the gap-filling scan. Policy, not algorithm:
	// override it per channel through configuration.
	DefaultHorizonDays = 30

	// DefaultSlotBuffer keeps freshly issued publish times from landing in
	// the past by the time the commit reaches the platform.
	DefaultSlotBuffer = 5 * time.Minute
)

// Allocator finds the first free slot at or after an earliest-valid instant,
// scanning day by day up to a bounded horizon. It holds no state between
// calls; the same code path serves remote reservations and local batches.
type Allocator struct {
	cfg         *calendar.Config
	horizonDays int
	logger      zerolog.Logger
}

// NewAllocator constructs an allocator over the given calendar window.
func NewAllocator(cfg *calendar.Config, horizonDays int, logger zerolog.Logger) *Allocator {
	if horizonDays < 1 {
		horizonDays = DefaultHorizonDays
	}
	return &Allocator{
		cfg:         cfg,
		horizonDays: horizonDays,
		logger:      logger.With().Str("component", "slot_allocator").Logger(),
	}
}

// EarliestValid derives the earliest instant a new slot may occupy: now
// truncated to the top of its hour in the calendar timezone, plus a small
// buffer. Slots at exactly the current hour are thereby excluded.
func EarliestValid(cfg *calendar.Config, now time.Time, buffer time.Duration) time.Time {
	if buffer < 0 {
		buffer = DefaultSlotBuffer
	}
	return cfg.TruncateHour(now).Add(buffer)
}

// NextAvailableSlot returns the first slot >= earliestValid that is not in
// occupied. It never fails: when the horizon is exhausted it falls back to a
// deterministic instant past everything occupied, clamped into the window.
//
// To schedule a batch without double-booking, call once per item and Add the
// returned slot to occupied before the next call.
func (a *Allocator) NextAvailableSlot(occupied *OccupiedSet, earliestValid time.Time) time.Time {
	seq := a.cfg.Slots(earliestValid, a.horizonDays)
	for slot, ok := seq.Next(); ok; slot, ok = seq.Next() {
		if slot.Before(earliestValid) {
			continue
		}
		if occupied.Contains(slot) {
			continue
		}
		return slot
	}

	telemetry.AllocatorFallbacksTotal.Inc()
	a.logger.Warn().
		Int("horizon_days", a.horizonDays).
		Int("occupied", occupied.Len()).
		Time("earliest_valid", earliestValid).
		Msg("no free slot within horizon, using fallback")

	latest, ok := occupied.Latest()
	if !ok {
		return a.cfg.NextDayStart(earliestValid)
	}
	return a.clampIntoWindow(latest.Add(a.cfg.Interval()))
}

// clampIntoWindow truncates t to the top of its hour and forces it inside the
// daily window: hours past endHour roll to the next day's startHour, hours
// before startHour clamp up to startHour.
func (a *Allocator) clampIntoWindow(t time.Time) time.Time {
	t = a.cfg.TruncateHour(t)
	hour := t.In(a.cfg.Location()).Hour()
	switch {
	case hour > a.cfg.EndHour():
		return a.cfg.NextDayStart(t)
	case hour < a.cfg.StartHour():
		return a.cfg.DayStart(t)
	default:
		return t
	}
}
