// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// BackendHealth is the health report for one configured backend
type BackendHealth struct {
	Backend string `json:"backend"`
	URL     string `json:"url"`
	Online  bool   `json:"online"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthCommand returns the health check command
func HealthCommand() *cobra.Command {
	var (
		configPath string
		outputJSON bool
	)

	command := &cobra.Command{
		Use:   "health",
		Short: "Check connectivity to the configured backends",
		Example: `  sweeparr health
  sweeparr health --json`,
	}

	command.Flags().StringVar(&configPath, "config", "config.toml", "path to config file")
	command.Flags().BoolVar(&outputJSON, "json", false, "output in JSON format")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(configPath)

		clients := buildClients(cfg)
		if len(clients) == 0 {
			return fmt.Errorf("no backend configured")
		}

		var (
			reports []BackendHealth
			failed  bool
		)

		for _, client := range clients {
			report := BackendHealth{
				Backend: client.DisplayName(),
				URL:     client.URL(),
			}

			status, err := client.GetSystemStatus(cmd.Context())
			if err != nil {
				report.Error = err.Error()
				failed = true
			} else {
				report.Online = true
				report.Version = status.Version
			}
			reports = append(reports, report)
		}

		if outputJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(reports); err != nil {
				return err
			}
		} else {
			for _, report := range reports {
				if report.Online {
					fmt.Printf("%-8s online  (version %s)\n", report.Backend, report.Version)
				} else {
					fmt.Printf("%-8s offline (%s)\n", report.Backend, report.Error)
				}
			}
		}

		if failed {
			return fmt.Errorf("one or more backends are unreachable")
		}
		return nil
	}

	return command
}
