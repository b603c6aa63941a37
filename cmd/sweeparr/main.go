// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autobrr/sweeparr/internal/commands"
	"github.com/autobrr/sweeparr/internal/logger"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func init() {
	logger.Init()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "sweeparr",
		Short: "Queue watchdog for Sonarr and Radarr",
		Long:  `sweeparr watches the Sonarr and Radarr download queues and removes items that are stuck, dangerous, or will never complete, blocklisting them and requesting a replacement search where that makes sense.`,
	}

	serveCmd := commands.ServeCommand(version)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(commands.HealthCommand())
	rootCmd.AddCommand(commands.HistoryCommand())
	rootCmd.AddCommand(commands.VersionCommand(version, commit, date))

	// Running without a subcommand starts the daemon
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
