/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package calendar

import "time"

// DaySlots expands the window into slot instants for the local calendar day
// containing day, in chronological order. When the interval does not divide
// the window evenly the sequence stops at the last hour <= endHour.
func (c *Config) DaySlots(day time.Time) []time.Time {
	local := day.In(c.loc)
	slots := make([]time.Time, 0, c.slotsPerDay)
	for k := 0; k < c.slotsPerDay; k++ {
		hour := c.startHour + k*c.intervalHours
		slots = append(slots, time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, c.loc))
	}
	return slots
}

// SlotSeq walks slot instants day by day without materializing the whole
// horizon. The sequence is finite (bounded by days) and restartable.
type SlotSeq struct {
	cfg   *Config
	from  time.Time
	days  int
	day   int
	index int
	buf   []time.Time
}

// Slots returns a sequence over every slot on the days local calendar days
// starting with the day containing from. Instants before from are included;
// filtering is the caller's concern.
func (c *Config) Slots(from time.Time, days int) *SlotSeq {
	if days < 1 {
		days = 1
	}
	return &SlotSeq{cfg: c, from: from, days: days}
}

// Next returns the next slot instant, or false once the final day is
// exhausted.
func (s *SlotSeq) Next() (time.Time, bool) {
	for {
		if s.day >= s.days {
			return time.Time{}, false
		}
		if s.buf == nil {
			local := s.from.In(s.cfg.loc)
			day := time.Date(local.Year(), local.Month(), local.Day()+s.day, 0, 0, 0, 0, s.cfg.loc)
			s.buf = s.cfg.DaySlots(day)
			s.index = 0
		}
		if s.index < len(s.buf) {
			slot := s.buf[s.index]
			s.index++
			return slot, true
		}
		s.day++
		s.buf = nil
	}
}

// Reset rewinds the sequence to its first slot.
func (s *SlotSeq) Reset() {
	s.day = 0
	s.index = 0
	s.buf = nil
}
