/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// RuleType defines the kind of calendar invariant a violation refers to.
type RuleType string

const (
	RuleTypeWindow    RuleType = "window"    // Hour outside [startHour, endHour]
	RuleTypeSpacing   RuleType = "spacing"   // Same-day gap differs from the interval
	RuleTypeDuplicate RuleType = "duplicate" // Two assignments share one instant
	RuleTypeOrdering  RuleType = "ordering"  // Batch not in chronological order
)

// RuleSeverity defines how serious a rule violation is.
type RuleSeverity string

const (
	RuleSeverityError   RuleSeverity = "error"   // Must be fixed
	RuleSeverityWarning RuleSeverity = "warning" // Should be reviewed
	RuleSeverityInfo    RuleSeverity = "info"    // Informational only
)

// ValidationViolation represents a single invariant violation in a batch.
type ValidationViolation struct {
	RuleType    RuleType       `json:"rule_type"`
	RuleName    string         `json:"rule_name"`
	Severity    RuleSeverity   `json:"severity"`
	Message     string         `json:"message"`
	Index       int            `json:"index"`
	PublishAt   time.Time      `json:"publish_at"`
	Details     map[string]any `json:"details,omitempty"`
}

// ValidationResult contains the result of validating an assigned batch.
// Violations are reported, never thrown; whether a failed validation is
// fatal is the caller's decision.
type ValidationResult struct {
	Valid     bool                  `json:"valid"`
	Errors    []ValidationViolation `json:"errors"`   // Severity = error
	Warnings  []ValidationViolation `json:"warnings"` // Severity = warning
	Info      []ValidationViolation `json:"info"`     // Severity = info
	CheckedAt time.Time             `json:"checked_at"`
	Count     int                   `json:"count"`
}
