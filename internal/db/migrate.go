/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/friendsincode/castplan/internal/models"
)

// Migrate applies database schema migrations using GORM auto-migrate.
func Migrate(database *gorm.DB) error {
	if err := database.AutoMigrate(
		&models.Channel{},
		&models.ContentItem{},
		&models.ScheduleAssignment{},
	); err != nil {
		return err
	}

	if err := applyPostgresDuplicateSlotGuard(database); err != nil {
		return err
	}

	return nil
}

// applyPostgresDuplicateSlotGuard rejects two committed assignments on the
// same channel at the same instant. Allocation already avoids collisions from
// a single process; the trigger catches races between concurrent runs.
func applyPostgresDuplicateSlotGuard(database *gorm.DB) error {
	if database.Dialector.Name() != "postgres" {
		return nil
	}

	stmt := `
CREATE OR REPLACE FUNCTION prevent_duplicate_publish_slot()
RETURNS trigger
LANGUAGE plpgsql
AS $$
BEGIN
  IF EXISTS (
    SELECT 1
    FROM schedule_assignments sa
    WHERE sa.channel_id = NEW.channel_id
      AND sa.id <> NEW.id
      AND sa.publish_at = NEW.publish_at
      AND sa.committed_at IS NOT NULL
  ) THEN
    RAISE EXCEPTION 'publish slot already taken for channel %', NEW.channel_id
      USING ERRCODE = '23514';
  END IF;

  RETURN NEW;
END;
$$;

DROP TRIGGER IF EXISTS trg_prevent_duplicate_publish_slot ON schedule_assignments;

CREATE TRIGGER trg_prevent_duplicate_publish_slot
BEFORE INSERT OR UPDATE OF channel_id, publish_at, committed_at
ON schedule_assignments
FOR EACH ROW
EXECUTE FUNCTION prevent_duplicate_publish_slot();
`
	if err := database.Exec(stmt).Error; err != nil {
		return fmt.Errorf("apply postgres duplicate slot guard: %w", err)
	}

	return nil
}
