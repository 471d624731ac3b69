/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friendsincode/castplan/internal/channels"
	"github.com/friendsincode/castplan/internal/models"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Manage channel definitions",
}

var channelsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import channels from a YAML file",
	Long:  "Create or update channel definitions from a YAML file; existing channels are matched by name",
	RunE:  runChannelsImport,
}

var channelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured channels",
	RunE:  runChannelsList,
}

var channelsImportFile string

func init() {
	rootCmd.AddCommand(channelsCmd)
	channelsCmd.AddCommand(channelsImportCmd)
	channelsCmd.AddCommand(channelsListCmd)

	channelsImportCmd.Flags().StringVar(&channelsImportFile, "file", "", "Path to channel YAML file (required)")
	channelsImportCmd.MarkFlagRequired("file")
}

func runChannelsImport(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	importer := channels.NewImporter(database, logger)
	n, err := importer.ImportPath(cmd.Context(), channelsImportFile)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d channels\n", n)
	return nil
}

func runChannelsList(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	var list []models.Channel
	if err := database.WithContext(cmd.Context()).Order("name ASC").Find(&list).Error; err != nil {
		return fmt.Errorf("list channels: %w", err)
	}

	for _, ch := range list {
		state := "active"
		if !ch.Active {
			state = "inactive"
		}
		fmt.Printf("%s  %-20s %s %02d:00-%02d:00 every %dh (%s)\n",
			ch.ID, ch.Name, ch.Timezone, ch.StartHour, ch.EndHour, ch.IntervalHours, state)
	}
	return nil
}
