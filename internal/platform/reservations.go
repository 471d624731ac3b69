/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package platform

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/castplan/internal/calendar"
	"github.com/friendsincode/castplan/internal/scheduling"
	"github.com/friendsincode/castplan/internal/telemetry"
)

// NormalizeReservations converts wire reservations into the occupied set the
// allocator consumes: each timestamp parsed, converted to the calendar
// timezone, truncated to the top of its hour.
//
// Malformed timestamps are dropped, not propagated: a schedule that is a bit
// tighter than optimal beats a run that aborts on one bad record from an
// external system. Drops are logged and counted so the assumption stays
// monitored.
func NormalizeReservations(cfg *calendar.Config, uploads []ScheduledUpload, logger zerolog.Logger) *scheduling.OccupiedSet {
	occupied := scheduling.NewOccupiedSet()
	for _, upload := range uploads {
		ts, err := time.Parse(time.RFC3339, upload.PublishAt)
		if err != nil {
			telemetry.ReservationsDroppedTotal.Inc()
			logger.Warn().
				Str("upload_id", upload.ID).
				Str("publish_at", upload.PublishAt).
				Msg("dropping reservation with malformed timestamp")
			continue
		}
		occupied.Add(cfg.TruncateHour(ts))
	}
	return occupied
}
