package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/posixid/internal/cli/output"
	"github.com/marmos91/posixid/internal/cli/prompt"
	"github.com/marmos91/posixid/pkg/config"
	"github.com/marmos91/posixid/pkg/identity"
	"github.com/marmos91/posixid/pkg/identity/store"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults and POSIXID_* environment
overrides are applied. The database password is masked.

Examples:
  # Show as YAML
  idstore config show -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Source.Database.Postgres.Password != "" {
				cfg.Source.Database.Postgres.Password = "********"
			}

			value, _ := cmd.Flags().GetString("output")
			format, err := output.ParseFormat(value, output.FormatYAML)
			if err != nil {
				return err
			}
			if !format.Structured() {
				format = output.FormatYAML
			}
			return output.NewPrinter(cmd.OutOrStdout(), format).Print(cfg)
		},
	}
}

func newInitCmd() *cobra.Command {
	var force, interactive bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Long: `Write the default configuration to the --config path, or to the
default location when --config is not given.

Examples:
  # Create $XDG_CONFIG_HOME/posixid/config.yaml
  idstore config init

  # Choose the identity source and group policy interactively
  idstore config init --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.GetDefaultConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
			}

			cfg := config.GetDefaultConfig()
			if interactive {
				if err := chooseSettings(cfg); err != nil {
					return err
				}
			}

			if err := config.SaveConfig(cfg, path); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for source and group policy")
	return cmd
}

func chooseSettings(cfg *config.Config) error {
	if !prompt.Interactive() {
		return prompt.ErrNotInteractive
	}

	source, err := prompt.Select("Identity source", []prompt.SelectOption{
		{Label: "files", Value: string(config.SourceFiles), Description: "Read /etc/passwd and /etc/group"},
		{Label: "database (SQLite)", Value: string(store.DatabaseTypeSQLite), Description: "Read a local database filled by idstore import"},
		{Label: "database (PostgreSQL)", Value: string(store.DatabaseTypePostgres), Description: "Read a shared database filled by idstore import"},
	})
	if err != nil {
		return err
	}
	if source != string(config.SourceFiles) {
		cfg.Source.Type = config.SourceDatabase
		cfg.Source.Database.Type = store.DatabaseType(source)
		cfg.Source.Database.ApplyDefaults()
	}

	policy, err := prompt.Select("Supplementary group policy", []prompt.SelectOption{
		{Label: "members", Value: string(identity.PolicyMembers), Description: "Groups that list the account as a member"},
		{Label: "exclude-primary", Value: string(identity.PolicyExcludePrimary), Description: "Member groups without the primary groups"},
		{Label: "primary-first", Value: string(identity.PolicyPrimaryFirst), Description: "Primary groups followed by member groups"},
	})
	if err != nil {
		return err
	}
	cfg.Groups.Policy = identity.Policy(policy)
	return nil
}
