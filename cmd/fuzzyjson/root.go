package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the fuzzyjson CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "fuzzyjson",
		Short:        "Repair and validate almost-JSON text",
		Long:         `fuzzyjson repairs the kind of almost-JSON text an LLM or a hand-edited config file produces, then validates the result.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	cmd.AddCommand(newRepairCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}
