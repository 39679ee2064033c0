// Package commands implements the idstore administration CLI.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	configcmd "github.com/marmos91/posixid/cmd/idstore/commands/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Execute runs the idstore command tree with the process arguments.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// NewRootCmd builds the idstore command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "idstore",
		Short: "Manage the posixid identity database",
		Long: `idstore populates and inspects the SQL identity database that
"id --source database" reads from.

The database location comes from the source.database section of the
configuration file (SQLite by default, PostgreSQL for shared deployments).

Use "idstore [command] --help" for more information about a command.`,
		Version:       Version + " (" + Commit + ", " + Date + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Configuration file (default $XDG_CONFIG_HOME/posixid/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newGroupsCmd())
	rootCmd.AddCommand(configcmd.NewCmd())

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	return rootCmd
}
