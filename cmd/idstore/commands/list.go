package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marmos91/posixid/pkg/identity"
)

// AccountList is a list of accounts for table rendering.
type AccountList []*identity.Account

// Headers implements TableRenderer.
func (al AccountList) Headers() []string {
	return []string{"NAME", "UID", "GID"}
}

// Rows implements TableRenderer.
func (al AccountList) Rows() [][]string {
	rows := make([][]string, 0, len(al))
	for _, a := range al {
		rows = append(rows, []string{a.Name, strconv.FormatUint(uint64(a.UID), 10), strconv.FormatUint(uint64(a.GID), 10)})
	}
	return rows
}

// GroupList is a list of groups for table rendering.
type GroupList []*identity.Group

// Headers implements TableRenderer.
func (gl GroupList) Headers() []string {
	return []string{"NAME", "GID", "MEMBERS"}
}

// Rows implements TableRenderer.
func (gl GroupList) Rows() [][]string {
	rows := make([][]string, 0, len(gl))
	for _, g := range gl {
		name := g.Name
		if name == "" {
			name = "-"
		}
		members := strings.Join(g.Members, ", ")
		if members == "" {
			members = "-"
		}
		rows = append(rows, []string{name, strconv.FormatUint(uint64(g.GID), 10), members})
	}
	return rows
}

func newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List accounts in the identity database",
		Long: `List accounts in database order.

Examples:
  # List accounts as table
  idstore users

  # List as JSON
  idstore users -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := printer(cmd)
			if err != nil {
				return err
			}
			s, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			accounts, err := s.Accounts(cmd.Context())
			if err != nil {
				return err
			}
			return p.PrintList(AccountList(accounts), len(accounts) == 0, "No users found.")
		},
	}
}

func newGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List groups in the identity database",
		Long: `List groups and their members in database order.

Examples:
  # List groups as table
  idstore groups

  # List as YAML
  idstore groups -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := printer(cmd)
			if err != nil {
				return err
			}
			s, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			groups, err := s.ListGroups(cmd.Context())
			if err != nil {
				return err
			}
			return p.PrintList(GroupList(groups), len(groups) == 0, "No groups found.")
		},
	}
}
