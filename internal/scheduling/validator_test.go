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
	"github.com/friendsincode/castplan/internal/models"
)

func TestValidatePassesCleanBatch(t *testing.T) {
	cfg := testCalendar(t)
	validator := NewValidator(cfg, zerolog.Nop())

	result := validator.Validate([]time.Time{
		utc(2025, 1, 2, 6, 0),
		utc(2025, 1, 2, 8, 0),
		utc(2025, 1, 2, 10, 0),
		utc(2025, 1, 3, 6, 0),
	})

	if !result.Valid {
		t.Fatalf("expected valid batch, got errors: %v", result.Errors)
	}
	if len(result.Errors) != 0 || len(result.Warnings) != 0 {
		t.Fatalf("expected no violations, got %d errors %d warnings", len(result.Errors), len(result.Warnings))
	}
	if result.Count != 4 {
		t.Fatalf("count = %d, want 4", result.Count)
	}
}

func TestValidateRejectsHourOutsideWindow(t *testing.T) {
	cfg := testCalendar(t)
	validator := NewValidator(cfg, zerolog.Nop())

	result := validator.Validate([]time.Time{utc(2025, 1, 2, 19, 0)})

	if result.Valid {
		t.Fatal("expected invalid batch")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(result.Errors))
	}
	if result.Errors[0].RuleType != models.RuleTypeWindow {
		t.Fatalf("rule type = %s, want %s", result.Errors[0].RuleType, models.RuleTypeWindow)
	}
}

func TestValidateChecksHourInLocalTimezone(t *testing.T) {
	cfg, err := calendar.New("America/New_York", 6, 16, 2)
	if err != nil {
		t.Fatalf("new calendar: %v", err)
	}
	validator := NewValidator(cfg, zerolog.Nop())

	// 11:00 UTC on Jan 2 is 06:00 in New York: inside the window even
	// though the UTC hour is not.
	result := validator.Validate([]time.Time{utc(2025, 1, 2, 11, 0)})
	if !result.Valid {
		t.Fatalf("expected valid batch, got errors: %v", result.Errors)
	}

	// 06:00 UTC is 01:00 in New York: outside.
	result = validator.Validate([]time.Time{utc(2025, 1, 2, 6, 0)})
	if result.Valid {
		t.Fatal("expected window violation for 01:00 local")
	}
}

func TestValidateRejectsBrokenSpacing(t *testing.T) {
	cfg := testCalendar(t)
	validator := NewValidator(cfg, zerolog.Nop())

	result := validator.Validate([]time.Time{
		utc(2025, 1, 2, 6, 0),
		utc(2025, 1, 2, 7, 0), // 1h gap, interval is 2h
	})

	if result.Valid {
		t.Fatal("expected spacing violation")
	}
	if result.Errors[0].RuleType != models.RuleTypeSpacing {
		t.Fatalf("rule type = %s, want %s", result.Errors[0].RuleType, models.RuleTypeSpacing)
	}
}

func TestValidateAllowsReservationForcedSkips(t *testing.T) {
	cfg := testCalendar(t)
	validator := NewValidator(cfg, zerolog.Nop())

	// 6:00 then 10:00: a reservation at 8:00 forced the skip. Reported as a
	// warning, batch still committable.
	result := validator.Validate([]time.Time{
		utc(2025, 1, 2, 6, 0),
		utc(2025, 1, 2, 10, 0),
	})

	if !result.Valid {
		t.Fatalf("expected valid batch, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(result.Warnings))
	}
	if result.Warnings[0].RuleType != models.RuleTypeSpacing {
		t.Fatalf("warning rule type = %s, want %s", result.Warnings[0].RuleType, models.RuleTypeSpacing)
	}
}

func TestValidateRejectsDuplicateInstants(t *testing.T) {
	cfg := testCalendar(t)
	validator := NewValidator(cfg, zerolog.Nop())

	result := validator.Validate([]time.Time{
		utc(2025, 1, 2, 6, 0),
		utc(2025, 1, 3, 6, 0),
		utc(2025, 1, 2, 6, 0),
	})

	if result.Valid {
		t.Fatal("expected duplicate violation")
	}
	found := false
	for _, violation := range result.Errors {
		if violation.RuleType == models.RuleTypeDuplicate {
			found = true
		}
	}
	if !found {
		t.Fatalf("no duplicate violation in %v", result.Errors)
	}
}

func TestValidateRejectsOutOfOrderBatch(t *testing.T) {
	cfg := testCalendar(t)
	validator := NewValidator(cfg, zerolog.Nop())

	result := validator.Validate([]time.Time{
		utc(2025, 1, 3, 6, 0),
		utc(2025, 1, 2, 6, 0),
	})

	if result.Valid {
		t.Fatal("expected ordering violation")
	}
	if result.Errors[0].RuleType != models.RuleTypeOrdering {
		t.Fatalf("rule type = %s, want %s", result.Errors[0].RuleType, models.RuleTypeOrdering)
	}
}

func TestValidatePassesEmptyBatch(t *testing.T) {
	cfg := testCalendar(t)
	validator := NewValidator(cfg, zerolog.Nop())

	if result := validator.Validate(nil); !result.Valid {
		t.Fatal("empty batch should be valid")
	}
}
