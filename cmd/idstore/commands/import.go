package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/posixid/internal/cli/output"
	"github.com/marmos91/posixid/internal/cli/prompt"
	"github.com/marmos91/posixid/internal/logger"
	"github.com/marmos91/posixid/pkg/identity/files"
)

// confirmReplace asks before an import overwrites existing contents.
var confirmReplace = prompt.ConfirmWithForce

func newImportCmd() *cobra.Command {
	var (
		passwdPath, groupPath string
		force                 bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import accounts and groups from passwd and group files",
		Long: `Replace the contents of the identity database with the accounts
and groups read from passwd(5) and group(5) files.

Group order and member order are preserved, so lookups against the
database return the same first match as lookups against the files.
The replacement happens in a single transaction. Replacing a non-empty
database asks for confirmation unless --force is given.

Examples:
  # Import the system databases
  idstore import

  # Import files copied from another host
  idstore import --passwd ./passwd --group ./group

  # Replace without asking
  idstore import --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := printer(cmd)
			if err != nil {
				return err
			}

			s, cfg, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			filesCfg := cfg.Source.Files
			if passwdPath != "" {
				filesCfg.Passwd = passwdPath
			}
			if groupPath != "" {
				filesCfg.Group = groupPath
			}

			accounts, groups, err := s.Counts(cmd.Context())
			if err != nil {
				return err
			}
			if accounts > 0 || groups > 0 {
				label := fmt.Sprintf("Replace %d accounts and %d groups in the identity database", accounts, groups)
				ok, err := confirmReplace(label, force)
				if errors.Is(err, prompt.ErrNotInteractive) {
					return fmt.Errorf("identity database is not empty; use --force to replace it")
				}
				if err != nil {
					return err
				}
				if !ok {
					return prompt.ErrAborted
				}
			}

			ctx := logger.WithContext(cmd.Context(), logger.NewLogContext("idstore import").WithSource("files"))
			logger.DebugCtx(ctx, "importing identities",
				"passwd", filesCfg.Passwd, "group", filesCfg.Group, logger.KeyDatabase, string(cfg.Source.Database.Type))

			result, err := s.Import(ctx, files.New(filesCfg))
			if err != nil {
				return err
			}

			if p.Format().Structured() {
				return p.Print(result)
			}
			return output.SimpleTable(p.Writer(), [][2]string{
				{"Accounts", strconv.Itoa(result.Accounts)},
				{"Groups", strconv.Itoa(result.Groups)},
				{"Memberships", strconv.Itoa(result.Members)},
			})
		},
	}

	cmd.Flags().StringVar(&passwdPath, "passwd", "", "Account database file (default from configuration)")
	cmd.Flags().StringVar(&groupPath, "group", "", "Group database file (default from configuration)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace existing contents without confirmation")
	return cmd
}
