/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scheduling

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/castplan/internal/calendar"
)

// Planner produces tightly packed, gapless fresh-batch schedules for dry-run
// previews. It ignores existing reservations entirely; anything that commits
// against the platform goes through the Allocator instead.
type Planner struct {
	cfg    *calendar.Config
	logger zerolog.Logger
}

// NewPlanner constructs a fresh-batch planner.
func NewPlanner(cfg *calendar.Config, logger zerolog.Logger) *Planner {
	return &Planner{
		cfg:    cfg,
		logger: logger.With().Str("component", "batch_planner").Logger(),
	}
}

// Calculate returns count publish instants in UTC, filling each day's window
// before rolling to the next day's startHour. When startRef is nil the batch
// starts tomorrow at startHour relative to now. A startRef before the window
// clamps up to startHour; one at or past endHour rolls to the next day.
func (p *Planner) Calculate(count int, startRef *time.Time, now time.Time) []time.Time {
	if count <= 0 {
		return nil
	}

	var day time.Time
	switch {
	case startRef == nil:
		day = p.cfg.NextDayStart(now)
	case startRef.In(p.cfg.Location()).Hour() >= p.cfg.EndHour():
		day = p.cfg.NextDayStart(*startRef)
	default:
		day = p.cfg.DayStart(*startRef)
	}

	schedule := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		slotInDay := i % p.cfg.SlotsPerDay()
		if i > 0 && slotInDay == 0 {
			day = p.cfg.NextDayStart(day)
		}
		local := day.In(p.cfg.Location())
		hour := p.cfg.StartHour() + slotInDay*p.cfg.IntervalHours()
		slot := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, p.cfg.Location())
		schedule = append(schedule, slot.UTC())
	}

	p.logger.Debug().
		Int("count", count).
		Time("first", schedule[0]).
		Time("last", schedule[len(schedule)-1]).
		Msg("calculated fresh batch")

	return schedule
}
