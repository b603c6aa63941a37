// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/autobrr/sweeparr/internal/database"
)

// HistoryCommand returns the remediation history command
func HistoryCommand() *cobra.Command {
	var (
		configPath string
		outputJSON bool
		limit      int
	)

	command := &cobra.Command{
		Use:   "history",
		Short: "Show recently removed queue items",
		Example: `  sweeparr history
  sweeparr history --limit 100 --json`,
	}

	command.Flags().StringVar(&configPath, "config", "config.toml", "path to config file")
	command.Flags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	command.Flags().IntVar(&limit, "limit", 50, "maximum number of entries to show")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(configPath)

		db, err := database.InitDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		records, err := db.ListRemediations(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("failed to fetch history: %w", err)
		}

		if outputJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}

		if len(records) == 0 {
			fmt.Println("No remediations recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tBACKEND\tCATEGORY\tSTRIKES\tSEARCHED\tTITLE")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\t%s\n",
				rec.CreatedAt.Format("2006-01-02 15:04:05"),
				rec.Backend,
				rec.Category,
				rec.Strikes,
				rec.Searched,
				rec.Title)
		}
		return w.Flush()
	}

	return command
}
