// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// VersionCommand returns the version command
func VersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sweeparr %s\n", version)
			if commit != "" {
				fmt.Printf("commit: %s\n", commit)
			}
			if date != "" {
				fmt.Printf("build date: %s\n", date)
			}
		},
	}
}
