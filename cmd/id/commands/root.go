// Package commands implements the id command line.
package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/posixid/pkg/config"
	"github.com/marmos91/posixid/pkg/identity"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// deps are the collaborators the command reaches outside the process for.
type deps struct {
	openSource func(config.SourceConfig) (identity.Source, config.CloseFunc, error)
	process    func() identity.ProcessIDs
}

var defaultDeps = deps{
	openSource: config.CreateSource,
	process:    identity.CurrentProcess,
}

// Execute runs the id command with the process arguments.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// NewRootCmd returns a fresh id command bound to the system identity sources.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultDeps)
}

func newRootCmd(d deps) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "id [user]",
		Short: "Print user and group identity",
		Long: `Print user and group information for the given user, or for the
calling process when no user is given.

Without options, id prints the user and group ids with their names, the
effective ids when they differ from the real ones, and the supplementary
group list.

Examples:
  # Identity of the calling process
  id

  # Login name of the effective user
  id -un

  # Group names of another account
  id -Gn alice

  # Same report as JSON, read from the identity database
  id --source database -o json alice`,
		Version:       Version + " (" + Commit + ", " + Date + ")",
		Args:          maxOneOperand,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, d, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.BoolVarP(&opts.groups, "groups", "G", false, "Print all group ids")
	flags.BoolVarP(&opts.group, "group", "g", false, "Print only the primary group id")
	flags.BoolVarP(&opts.user, "user", "u", false, "Print only the user id")
	flags.BoolVarP(&opts.name, "name", "n", false, "Print names instead of numbers (with -G, -g or -u)")
	flags.BoolVarP(&opts.real, "real", "r", false, "Print the real id instead of the effective id (with -g or -u)")

	flags.StringVarP(&opts.output, "output", "o", "text", "Output format (text|table|json|yaml)")
	flags.StringVar(&opts.configFile, "config", "", "Configuration file (default $XDG_CONFIG_HOME/posixid/config.yaml)")
	flags.StringVar(&opts.source, "source", "", "Identity source (files|database|static)")
	flags.StringVar(&opts.passwdFile, "passwd-file", "", "Account database file for the files source")
	flags.StringVar(&opts.groupFile, "group-file", "", "Group database file for the files source")
	flags.StringVar(&opts.policy, "policy", "", "Supplementary group policy (members|exclude-primary|primary-first)")
	flags.BoolVar(&opts.verbose, "verbose", false, "Log lookups to stderr")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf(strings.TrimSpace(err.Error()))
	})

	return cmd
}

func maxOneOperand(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return ErrTooManyOperands
	}
	return nil
}
