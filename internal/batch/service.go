/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package batch runs allocation batches end to end: snapshot the platform's
// reservations once, allocate a slot per pending item, validate the finished
// batch, commit sequentially.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/castplan/internal/calendar"
	"github.com/friendsincode/castplan/internal/models"
	"github.com/friendsincode/castplan/internal/platform"
	"github.com/friendsincode/castplan/internal/scheduling"
	"github.com/friendsincode/castplan/internal/telemetry"
)

var (
	// ErrChannelNotFound is returned when the channel does not exist.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrChannelInactive is returned when the channel is disabled.
	ErrChannelInactive = errors.New("channel is inactive")

	// ErrValidationFailed is returned when an allocated batch violates the
	// calendar invariants; nothing is committed in that case.
	ErrValidationFailed = errors.New("batch failed validation")
)

// Assignment pairs one pending item with its allocated publish instant.
type Assignment struct {
	Item      models.ContentItem `json:"item"`
	PublishAt time.Time          `json:"publish_at"`
}

// Result describes one allocation run.
type Result struct {
	BatchID     string                   `json:"batch_id"`
	ChannelID   string                   `json:"channel_id"`
	Assignments []Assignment             `json:"assignments"`
	Validation  *models.ValidationResult `json:"validation"`
	Committed   bool                     `json:"committed"`
	Summary     string                   `json:"summary"`
}

// Service orchestrates allocation batches for channels.
type Service struct {
	db          *gorm.DB
	client      platform.Client
	horizonDays int
	slotBuffer  time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// New constructs the batch service. horizonDays and slotBuffer are the policy
// knobs from configuration; zero values fall back to the defaults.
func New(db *gorm.DB, client platform.Client, horizonDays int, slotBuffer time.Duration, logger zerolog.Logger) *Service {
	if slotBuffer <= 0 {
		slotBuffer = scheduling.DefaultSlotBuffer
	}
	return &Service{
		db:          db,
		client:      client,
		horizonDays: horizonDays,
		slotBuffer:  slotBuffer,
		logger:      logger.With().Str("component", "batch_service").Logger(),
		now:         time.Now,
	}
}

// SetNow overrides the clock, for tests.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}

// Channel loads a channel and builds its calendar window.
func (s *Service) Channel(ctx context.Context, channelID string) (*models.Channel, *calendar.Config, error) {
	var channel models.Channel
	err := s.db.WithContext(ctx).First(&channel, "id = ?", channelID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load channel: %w", err)
	}

	cfg, err := calendar.New(channel.Timezone, channel.StartHour, channel.EndHour, channel.IntervalHours)
	if err != nil {
		return nil, nil, fmt.Errorf("channel %s calendar: %w", channel.Name, err)
	}
	return &channel, cfg, nil
}

// Preview returns a fresh-batch schedule for count items, ignoring platform
// reservations. Dry-run only; it must never feed a commit.
func (s *Service) Preview(ctx context.Context, channelID string, count int, startRef *time.Time) ([]time.Time, string, error) {
	_, cfg, err := s.Channel(ctx, channelID)
	if err != nil {
		return nil, "", err
	}

	planner := scheduling.NewPlanner(cfg, s.logger)
	schedule := planner.Calculate(count, startRef, s.now())
	return schedule, scheduling.Summary(cfg, schedule), nil
}

// Run allocates a slot for every pending item of the channel and, when commit
// is set, commits the batch to the platform one item at a time.
//
// The whole batch is computed from a single reservation snapshot, with each
// assigned slot fed back into the occupied set before the next allocation.
// Commits are sequential; batches for the same channel must not run
// concurrently, or both runs may pick the same first free slot.
func (s *Service) Run(ctx context.Context, channelID string, commit bool) (*Result, error) {
	ctx, span := telemetry.StartSpan(ctx, "batch", "batch.Run")
	defer span.End()

	channel, cfg, err := s.Channel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if !channel.Active {
		return nil, fmt.Errorf("%w: %s", ErrChannelInactive, channel.Name)
	}

	result := &Result{
		BatchID:   uuid.NewString(),
		ChannelID: channel.ID,
	}

	var items []models.ContentItem
	if err := s.db.WithContext(ctx).
		Where("channel_id = ? AND status = ?", channel.ID, models.ItemPending).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("load pending items: %w", err)
	}
	if len(items) == 0 {
		s.logger.Info().Str("channel", channel.Name).Msg("no pending items")
		result.Validation = scheduling.NewValidator(cfg, s.logger).Validate(nil)
		return result, nil
	}

	occupied, err := s.reservationSnapshot(ctx, cfg, channel)
	if err != nil {
		return nil, err
	}

	allocator := scheduling.NewAllocator(cfg, s.horizonDays, s.logger)
	earliest := scheduling.EarliestValid(cfg, s.now(), s.slotBuffer)

	schedule := make([]time.Time, 0, len(items))
	for _, item := range items {
		slot := allocator.NextAvailableSlot(occupied, earliest)
		occupied.Add(slot)
		schedule = append(schedule, slot)
		result.Assignments = append(result.Assignments, Assignment{Item: item, PublishAt: slot})
		telemetry.SlotsAllocatedTotal.WithLabelValues(channel.Name).Inc()
	}

	telemetry.AddSpanAttributes(span, map[string]any{
		"channel": channel.Name,
		"items":   len(items),
		"commit":  commit,
	})

	result.Validation = scheduling.NewValidator(cfg, s.logger).Validate(schedule)
	result.Summary = scheduling.Summary(cfg, schedule)

	if !result.Validation.Valid {
		telemetry.BatchesTotal.WithLabelValues(channel.Name, "invalid").Inc()
		s.logger.Error().
			Str("channel", channel.Name).
			Int("errors", len(result.Validation.Errors)).
			Msg("allocated batch failed validation")
		return result, ErrValidationFailed
	}

	if !commit {
		telemetry.BatchesTotal.WithLabelValues(channel.Name, "dry_run").Inc()
		return result, nil
	}

	if err := s.commitBatch(ctx, channel, result); err != nil {
		telemetry.BatchesTotal.WithLabelValues(channel.Name, "commit_failed").Inc()
		return result, err
	}

	result.Committed = true
	telemetry.BatchesTotal.WithLabelValues(channel.Name, "committed").Inc()
	s.logger.Info().
		Str("channel", channel.Name).
		Str("batch_id", result.BatchID).
		Int("items", len(result.Assignments)).
		Msg("batch committed")
	return result, nil
}

// reservationSnapshot fetches and normalizes the platform's reservations. A
// fetch failure degrades to an empty snapshot: the platform rejects true
// double-bookings at commit time, and an aborted run helps nobody.
func (s *Service) reservationSnapshot(ctx context.Context, cfg *calendar.Config, channel *models.Channel) (*scheduling.OccupiedSet, error) {
	uploads, err := s.client.FetchScheduledUploads(ctx)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("channel", channel.Name).
			Msg("reservation fetch failed, proceeding with empty snapshot")
		return scheduling.NewOccupiedSet(), nil
	}
	return platform.NormalizeReservations(cfg, uploads, s.logger), nil
}

// commitBatch commits assignments in schedule order, persisting each as it
// lands. A commit failure stops the batch; already-committed items keep their
// slots and the rest stay pending for the next run.
func (s *Service) commitBatch(ctx context.Context, channel *models.Channel, result *Result) error {
	for _, assignment := range result.Assignments {
		if err := s.client.ScheduleUpload(ctx, assignment.Item.ExternalID, assignment.PublishAt); err != nil {
			telemetry.CommitsTotal.WithLabelValues(channel.Name, "error").Inc()
			return fmt.Errorf("commit item %s: %w", assignment.Item.ID, err)
		}
		telemetry.CommitsTotal.WithLabelValues(channel.Name, "ok").Inc()

		now := s.now()
		record := models.ScheduleAssignment{
			ID:          uuid.NewString(),
			BatchID:     result.BatchID,
			ChannelID:   channel.ID,
			ItemID:      assignment.Item.ID,
			PublishAt:   assignment.PublishAt,
			CommittedAt: &now,
		}
		if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
			return fmt.Errorf("persist assignment for item %s: %w", assignment.Item.ID, err)
		}
		if err := s.db.WithContext(ctx).Model(&models.ContentItem{}).
			Where("id = ?", assignment.Item.ID).
			Update("status", models.ItemScheduled).Error; err != nil {
			return fmt.Errorf("mark item %s scheduled: %w", assignment.Item.ID, err)
		}
	}
	return nil
}
