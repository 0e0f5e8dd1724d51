package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/likorise/internal/config"
	"github.com/JonMunkholm/likorise/internal/sheets"
	"github.com/JonMunkholm/likorise/internal/site"
)

func newFetchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <sheet|section>",
		Short: "Fetch one sheet from the configured spreadsheet",
		Long: `Fetches a sheet from the spreadsheet named by SHEETS_SPREADSHEET_ID (or
SHEETS_FILE) and prints its records. The argument is either a sheet name or
one of the section keys instructors, schedule, members, which resolve to the
configured sheet names.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			client, err := sheets.NewClient(sheets.Config{
				SpreadsheetID: cfg.Sheets.SpreadsheetID,
				BaseURL:       cfg.Sheets.BaseURL,
				Timeout:       cfg.Sheets.FetchTimeout,
				MaxBodyBytes:  cfg.Sheets.MaxBodyBytes,
			}, nil)
			if err != nil {
				return err
			}

			name := resolveSheet(cfg, args[0])

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			start := time.Now()
			table, err := client.FetchTable(ctx, name)
			if err != nil {
				msg := site.MapError(err)
				return fmt.Errorf("%s (%s): %w", msg.Message, msg.Code, err)
			}
			slog.Info("sheet fetched",
				"sheet", name,
				"rows", len(table.Records),
				"duration_ms", time.Since(start).Milliseconds(),
			)

			return writeTable(cmd.OutOrStdout(), opts, table)
		},
	}
}

// resolveSheet maps a section key to its configured sheet name; anything
// else is taken as a sheet name.
func resolveSheet(cfg *config.Config, arg string) string {
	sec, err := site.ParseSection(arg)
	if err != nil {
		return arg
	}
	return site.SheetNames{
		Instructors: cfg.Sheets.Instructors,
		Schedule:    cfg.Sheets.Schedule,
		Members:     cfg.Sheets.Members,
	}.For(sec)
}
