package main

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/likorise/internal/csv"
)

func newParseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a CSV export from a file or stdin",
		Long: `Parses a CSV export with the site's parser. The first non-blank row is
the header; blank rows are skipped; a BOM is stripped. Malformed input never
fails: an unterminated quote runs to the end of the input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}

			in, err := openInput(cmd, path)
			if err != nil {
				return err
			}
			defer in.Close()

			text, err := csv.ReadText(in, maxInputBytes)
			if err != nil {
				return err
			}

			return writeTable(cmd.OutOrStdout(), opts, csv.ParseTable(text))
		},
	}
}
