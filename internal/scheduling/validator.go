/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scheduling

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/castplan/internal/calendar"
	"github.com/friendsincode/castplan/internal/models"
)

// SpacingTolerance absorbs instant-arithmetic rounding when comparing
// same-day gaps against the interval, in hours.
const SpacingTolerance = 0.1

// Validator checks a finished batch against the calendar invariants. It is a
// post-condition check invoked by the caller before committing, deliberately
// not wired into the planner or allocator.
type Validator struct {
	cfg    *calendar.Config
	logger zerolog.Logger
}

// NewValidator creates a schedule validator for one calendar window.
func NewValidator(cfg *calendar.Config, logger zerolog.Logger) *Validator {
	return &Validator{
		cfg:    cfg,
		logger: logger.With().Str("component", "schedule_validator").Logger(),
	}
}

// Validate reports every invariant violation in the batch: local hours inside
// the window, same-day consecutive spacing equal to the interval, no
// duplicate instants, chronological order. It never fails on bad input; the
// caller decides whether a failed result is fatal.
func (v *Validator) Validate(instants []time.Time) *models.ValidationResult {
	result := &models.ValidationResult{
		Valid:     true,
		Errors:    []models.ValidationViolation{},
		Warnings:  []models.ValidationViolation{},
		Info:      []models.ValidationViolation{},
		CheckedAt: time.Now(),
		Count:     len(instants),
	}

	loc := v.cfg.Location()
	seen := make(map[int64]int, len(instants))

	for i, instant := range instants {
		local := instant.In(loc)

		if hour := local.Hour(); hour < v.cfg.StartHour() || hour > v.cfg.EndHour() {
			result.Errors = append(result.Errors, models.ValidationViolation{
				RuleType:  models.RuleTypeWindow,
				RuleName:  "Publishing Window",
				Severity:  models.RuleSeverityError,
				Message:   fmt.Sprintf("item %d scheduled at %02d:00, outside allowed range %02d:00-%02d:00", i+1, hour, v.cfg.StartHour(), v.cfg.EndHour()),
				Index:     i,
				PublishAt: instant,
				Details: map[string]any{
					"hour":       hour,
					"start_hour": v.cfg.StartHour(),
					"end_hour":   v.cfg.EndHour(),
				},
			})
		}

		if prev, dup := seen[instant.Unix()]; dup {
			result.Errors = append(result.Errors, models.ValidationViolation{
				RuleType:  models.RuleTypeDuplicate,
				RuleName:  "Distinct Slots",
				Severity:  models.RuleSeverityError,
				Message:   fmt.Sprintf("items %d and %d share the same publish instant %s", prev+1, i+1, instant.Format(time.RFC3339)),
				Index:     i,
				PublishAt: instant,
				Details:   map[string]any{"duplicate_of": prev},
			})
		} else {
			seen[instant.Unix()] = i
		}

		if i == 0 {
			continue
		}

		prevLocal := instants[i-1].In(loc)
		if instant.Before(instants[i-1]) {
			result.Errors = append(result.Errors, models.ValidationViolation{
				RuleType:  models.RuleTypeOrdering,
				RuleName:  "Chronological Order",
				Severity:  models.RuleSeverityError,
				Message:   fmt.Sprintf("item %d is earlier than item %d", i+1, i),
				Index:     i,
				PublishAt: instant,
			})
			continue
		}

		sameDay := local.Year() == prevLocal.Year() && local.YearDay() == prevLocal.YearDay()
		if sameDay {
			gap := instant.Sub(instants[i-1]).Hours()
			interval := float64(v.cfg.IntervalHours())
			if math.Abs(gap-interval) > SpacingTolerance {
				violation := models.ValidationViolation{
					RuleType:  models.RuleTypeSpacing,
					RuleName:  "Slot Spacing",
					Message:   fmt.Sprintf("item %d interval is %.1fh, expected %dh", i+1, gap, v.cfg.IntervalHours()),
					Index:     i,
					PublishAt: instant,
					Details: map[string]any{
						"gap_hours":      gap,
						"interval_hours": v.cfg.IntervalHours(),
					},
				}
				// A gap that is a larger multiple of the interval means an
				// existing reservation forced a skip; that batch is still
				// committable.
				multiple := gap / interval
				if multiple > 1 && math.Abs(multiple-math.Round(multiple))*interval <= SpacingTolerance {
					violation.Severity = models.RuleSeverityWarning
					result.Warnings = append(result.Warnings, violation)
				} else {
					violation.Severity = models.RuleSeverityError
					result.Errors = append(result.Errors, violation)
				}
			}
		}
	}

	if len(result.Errors) > 0 {
		result.Valid = false
	}

	v.logger.Debug().
		Int("count", len(instants)).
		Int("errors", len(result.Errors)).
		Bool("valid", result.Valid).
		Msg("validated batch")

	return result
}
