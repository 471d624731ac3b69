/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friendsincode/castplan/internal/batch"
	"github.com/friendsincode/castplan/internal/platform"
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Allocate publish slots for pending items",
	Long:  "Run a gap-filling allocation batch for a channel's pending items, avoiding slots already reserved on the platform",
	RunE:  runAllocate,
}

var (
	allocateChannelID string
	allocateDryRun    bool
)

func init() {
	rootCmd.AddCommand(allocateCmd)

	allocateCmd.Flags().StringVar(&allocateChannelID, "channel", "", "Channel ID (required)")
	allocateCmd.Flags().BoolVar(&allocateDryRun, "dry-run", false, "Compute the schedule without committing to the platform")
	allocateCmd.MarkFlagRequired("channel")
}

func runAllocate(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	client := platform.NewHTTPClient(cfg.PlatformBaseURL, cfg.PlatformToken, logger)
	svc := batch.New(database, client, cfg.HorizonDays, cfg.SlotBuffer(), logger)

	result, err := svc.Run(cmd.Context(), allocateChannelID, !allocateDryRun)
	if err != nil {
		return err
	}

	fmt.Println(result.Summary)

	for _, warning := range result.Validation.Warnings {
		fmt.Printf("warning: %s\n", warning.Message)
	}

	if result.Committed {
		fmt.Printf("Committed batch %s (%d items)\n", result.BatchID, len(result.Assignments))
	} else {
		fmt.Printf("Dry run: %d items would be scheduled\n", len(result.Assignments))
	}
	return nil
}
