package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newRepairCmd() *cobra.Command {
	var (
		allowTrailingCommas bool
		allowSingleQuotes   bool
		allowUnquotedKeys   bool
		allowComments       bool
		maxRepairAttempts   int
	)

	cmd := &cobra.Command{
		Use:   "repair [file]",
		Short: "Repair almost-JSON text into valid JSON",
		Long:  "Reads JSON-ish text from a file (or stdin, if no file is given), repairs it, and writes valid JSON to stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile, cmd.Flags())
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			var input io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()
				input = f
			}

			raw, err := io.ReadAll(input)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			p := fuzzyjsonParser(cfg)
			val, err := p.Parse(string(raw))
			if err != nil {
				return fmt.Errorf("repairing input: %w", err)
			}

			out, err := val.MarshalJSON()
			if err != nil {
				return fmt.Errorf("marshaling repaired value: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().BoolVar(&allowTrailingCommas, "allow-trailing-commas", true, "tolerate a trailing comma before a closing brace or bracket")
	cmd.Flags().BoolVar(&allowSingleQuotes, "allow-single-quotes", true, "tolerate single-quoted strings")
	cmd.Flags().BoolVar(&allowUnquotedKeys, "allow-unquoted-keys", false, "tolerate bare identifier object keys")
	cmd.Flags().BoolVar(&allowComments, "allow-comments", true, "reserved; comment stripping is not currently implemented")
	cmd.Flags().IntVar(&maxRepairAttempts, "max-repair-attempts", 1500, "give up after this many repair steps")

	return cmd
}
