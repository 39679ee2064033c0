// Package config implements the idstore config subcommands.
package config

import "github.com/spf13/cobra"

// NewCmd returns the config command group.
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate configuration",
		Long: `Commands for the posixid configuration file shared by id and idstore.`,
	}

	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newInitCmd())
	return cmd
}
