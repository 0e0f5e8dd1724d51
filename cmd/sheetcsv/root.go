package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/likorise/internal/csv"
	"github.com/JonMunkholm/likorise/internal/logging"
)

// options are the flags shared by every subcommand.
type options struct {
	output     string
	withHeader bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "sheetcsv",
		Short: "Parse and fetch spreadsheet CSV exports",
		Long: `sheetcsv runs the site's CSV parser outside the server. It prints the
records of a CSV export (one object per row, keyed by the header row) as
JSON or YAML, either from a local file or fetched live from the configured
spreadsheet.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case "json", "yaml":
			default:
				return fmt.Errorf("invalid --output %q: must be json or yaml", opts.output)
			}
			// stdout carries the records, so logs go to stderr
			logging.SetupWriter(cmd.ErrOrStderr(), opts.logLevel, "text")
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")
	root.PersistentFlags().BoolVar(&opts.withHeader, "with-header", false, "emit {header, records} instead of a bare record list")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newParseCmd(opts), newFetchCmd(opts))
	return root
}

// maxInputBytes caps local input the same way the server caps downloads.
const maxInputBytes = 64 << 20

// openInput returns the named file, or stdin for "" and "-".
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return f, nil
}

// writeTable prints table in the selected format.
func writeTable(w io.Writer, opts *options, table csv.Table) error {
	var v any = table.Records
	if opts.withHeader {
		v = table
	}

	switch opts.output {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
}
