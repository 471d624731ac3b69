/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/friendsincode/castplan/internal/batch"
	"github.com/friendsincode/castplan/internal/platform"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview a fresh publish schedule",
	Long:  "Compute a tightly packed publish schedule for a number of items without touching the platform or the database state",
	RunE:  runPlan,
}

var (
	planChannelID string
	planCount     int
	planStart     string
)

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planChannelID, "channel", "", "Channel ID (required)")
	planCmd.Flags().IntVar(&planCount, "count", 0, "Number of items to schedule (required)")
	planCmd.Flags().StringVar(&planStart, "start", "", "Optional start reference (RFC 3339); defaults to tomorrow's first slot")
	planCmd.MarkFlagRequired("channel")
	planCmd.MarkFlagRequired("count")
}

func runPlan(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if planCount < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	var startRef *time.Time
	if planStart != "" {
		ts, err := time.Parse(time.RFC3339, planStart)
		if err != nil {
			return fmt.Errorf("parse --start: %w", err)
		}
		startRef = &ts
	}

	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	client := platform.NewHTTPClient(cfg.PlatformBaseURL, cfg.PlatformToken, logger)
	svc := batch.New(database, client, cfg.HorizonDays, cfg.SlotBuffer(), logger)

	_, summary, err := svc.Preview(cmd.Context(), planChannelID, planCount, startRef)
	if err != nil {
		return err
	}

	fmt.Println(summary)
	return nil
}
