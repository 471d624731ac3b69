/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package calendar describes a channel's daily publishing window and expands
// it into concrete slot instants. Everything here is pure: no I/O, no clocks.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// Construction errors. A config that fails validation is unusable; callers
// must not fall back to defaults.
var (
	ErrWindowInverted  = errors.New("start hour must be before end hour")
	ErrHourOutOfRange  = errors.New("hour must be between 0 and 23")
	ErrIntervalTooLow  = errors.New("interval must be at least one hour")
	ErrUnknownTimezone = errors.New("unknown timezone")
)

// Config is an immutable description of a publishing window: the daily
// [startHour, endHour] range in a timezone, and the spacing between slots.
type Config struct {
	timezone      string
	loc           *time.Location
	startHour     int
	endHour       int
	intervalHours int
	slotsPerDay   int
}

// New validates the window parameters and builds a Config. The window is
// inclusive on both ends, so slotsPerDay = (endHour-startHour)/intervalHours + 1.
func New(timezone string, startHour, endHour, intervalHours int) (*Config, error) {
	if startHour < 0 || startHour > 23 {
		return nil, fmt.Errorf("start hour %d: %w", startHour, ErrHourOutOfRange)
	}
	if endHour < 0 || endHour > 23 {
		return nil, fmt.Errorf("end hour %d: %w", endHour, ErrHourOutOfRange)
	}
	if startHour >= endHour {
		return nil, fmt.Errorf("window %d-%d: %w", startHour, endHour, ErrWindowInverted)
	}
	if intervalHours < 1 {
		return nil, fmt.Errorf("interval %dh: %w", intervalHours, ErrIntervalTooLow)
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, timezone)
	}

	return &Config{
		timezone:      timezone,
		loc:           loc,
		startHour:     startHour,
		endHour:       endHour,
		intervalHours: intervalHours,
		slotsPerDay:   (endHour-startHour)/intervalHours + 1,
	}, nil
}

// Timezone returns the configured timezone name.
func (c *Config) Timezone() string { return c.timezone }

// Location returns the resolved timezone.
func (c *Config) Location() *time.Location { return c.loc }

// StartHour returns the first publishable hour of the day.
func (c *Config) StartHour() int { return c.startHour }

// EndHour returns the last publishable hour of the day.
func (c *Config) EndHour() int { return c.endHour }

// IntervalHours returns the spacing between slots on the same day.
func (c *Config) IntervalHours() int { return c.intervalHours }

// SlotsPerDay returns how many slots fit in one day. Always at least 1.
func (c *Config) SlotsPerDay() int { return c.slotsPerDay }

// Interval returns the slot spacing as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.intervalHours) * time.Hour
}

func (c *Config) String() string {
	return fmt.Sprintf("%02d:00-%02d:00 every %dh (%s)", c.startHour, c.endHour, c.intervalHours, c.timezone)
}

// TruncateHour converts t to the configured timezone and drops minutes,
// seconds and sub-seconds.
func (c *Config) TruncateHour(t time.Time) time.Time {
	local := t.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, c.loc)
}

// DayStart returns startHour on the local calendar day containing t.
func (c *Config) DayStart(t time.Time) time.Time {
	local := t.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), c.startHour, 0, 0, 0, c.loc)
}

// NextDayStart returns startHour on the local calendar day after t.
func (c *Config) NextDayStart(t time.Time) time.Time {
	local := t.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, c.startHour, 0, 0, 0, c.loc)
}

// Contains reports whether t's local hour falls inside the window.
func (c *Config) Contains(t time.Time) bool {
	hour := t.In(c.loc).Hour()
	return hour >= c.startHour && hour <= c.endHour
}
