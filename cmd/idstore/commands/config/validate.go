package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/posixid/pkg/config"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate the posixid configuration file.

Checks for syntax errors, invalid values and incomplete database settings.

Examples:
  # Validate default config
  idstore config validate

  # Validate specific config file
  idstore config validate --config /etc/posixid/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			displayPath := configPath
			if displayPath == "" {
				displayPath = config.GetDefaultConfigPath()
				if !config.DefaultConfigExists() {
					displayPath += " (not found, using defaults)"
				}
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Configuration file: %s\n", displayPath)
			_, _ = fmt.Fprintln(out, "Validation: OK")

			_, _ = fmt.Fprintf(out, "\nConfiguration summary:\n")
			_, _ = fmt.Fprintf(out, "  Source type:     %s\n", cfg.Source.Type)
			if cfg.Source.Type == config.SourceDatabase {
				_, _ = fmt.Fprintf(out, "  Database type:   %s\n", cfg.Source.Database.Type)
			}
			_, _ = fmt.Fprintf(out, "  Group policy:    %s\n", cfg.Groups.Policy)
			_, _ = fmt.Fprintf(out, "  Log level:       %s\n", cfg.Logging.Level)
			return nil
		},
	}
}
