package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/posixid/internal/cli/output"
	"github.com/marmos91/posixid/internal/logger"
	"github.com/marmos91/posixid/pkg/config"
	"github.com/marmos91/posixid/pkg/identity/store"
)

// loadConfig loads the configuration named by the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	return config.Load(configPath)
}

// initLogging configures the logger from the configuration file and flags.
func initLogging(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		// Commands that need the configuration report the error themselves.
		cfg = config.GetDefaultConfig()
	}

	level := cfg.Logging.Level
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "DEBUG"
	}
	return logger.Init(logger.Config{
		Level:  level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// openStore opens the identity database described by the configuration.
func openStore(cmd *cobra.Command) (*store.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	cfg.Source.Database.ApplyDefaults()

	s, err := config.OpenStore(cfg.Source)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

// printer returns a Printer for the --output flag.
func printer(cmd *cobra.Command) (*output.Printer, error) {
	value, _ := cmd.Flags().GetString("output")
	format, err := output.ParseFormat(value, output.FormatTable)
	if err != nil {
		return nil, err
	}
	if format == output.FormatText {
		return nil, fmt.Errorf("text output is not supported here (valid: table, json, yaml)")
	}
	return output.NewPrinter(cmd.OutOrStdout(), format), nil
}
