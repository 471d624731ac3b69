/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package channels bootstraps channel definitions from YAML files.
package channels

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/friendsincode/castplan/internal/calendar"
	"github.com/friendsincode/castplan/internal/models"
)

// ChannelSpec is one channel definition in an import file.
type ChannelSpec struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Timezone      string `yaml:"timezone"`
	StartHour     int    `yaml:"start_hour"`
	EndHour       int    `yaml:"end_hour"`
	IntervalHours int    `yaml:"interval_hours"`
	Active        *bool  `yaml:"active"`
}

// ImportFile is the top level structure of a channel import file.
type ImportFile struct {
	Channels []ChannelSpec `yaml:"channels"`
}

// Importer upserts channel definitions into the database.
type Importer struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewImporter(db *gorm.DB, logger zerolog.Logger) *Importer {
	return &Importer{
		db:     db,
		logger: logger.With().Str("component", "channel_importer").Logger(),
	}
}

// ImportPath reads a YAML file and imports its channels.
func (i *Importer) ImportPath(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read channel file: %w", err)
	}
	return i.Import(ctx, data)
}

// Import parses YAML data and upserts each channel by name. Every channel's
// window is validated before anything is written; one bad entry fails the
// whole file.
func (i *Importer) Import(ctx context.Context, data []byte) (int, error) {
	var file ImportFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("parse channel file: %w", err)
	}
	if len(file.Channels) == 0 {
		return 0, fmt.Errorf("channel file defines no channels")
	}

	for idx, spec := range file.Channels {
		if spec.Name == "" {
			return 0, fmt.Errorf("channel %d: name is required", idx)
		}
		if _, err := calendar.New(spec.Timezone, spec.StartHour, spec.EndHour, spec.IntervalHours); err != nil {
			return 0, fmt.Errorf("channel %q: %w", spec.Name, err)
		}
	}

	imported := 0
	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, spec := range file.Channels {
			if err := i.upsert(tx, spec); err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	i.logger.Info().Int("channels", imported).Msg("channel import complete")
	return imported, nil
}

func (i *Importer) upsert(tx *gorm.DB, spec ChannelSpec) error {
	active := true
	if spec.Active != nil {
		active = *spec.Active
	}

	var existing models.Channel
	err := tx.First(&existing, "name = ?", spec.Name).Error
	switch {
	case err == nil:
		updates := map[string]any{
			"description":    spec.Description,
			"timezone":       spec.Timezone,
			"start_hour":     spec.StartHour,
			"end_hour":       spec.EndHour,
			"interval_hours": spec.IntervalHours,
			"active":         active,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("update channel %q: %w", spec.Name, err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		channel := models.Channel{
			ID:            uuid.NewString(),
			Name:          spec.Name,
			Description:   spec.Description,
			Timezone:      spec.Timezone,
			StartHour:     spec.StartHour,
			EndHour:       spec.EndHour,
			IntervalHours: spec.IntervalHours,
			Active:        active,
		}
		if err := tx.Create(&channel).Error; err != nil {
			return fmt.Errorf("create channel %q: %w", spec.Name, err)
		}
	default:
		return fmt.Errorf("look up channel %q: %w", spec.Name, err)
	}
	return nil
}
