package identity

import (
	"fmt"
	"slices"
)

// Account is a user record from the account database.
//
// Accounts are read-only snapshots: a Source hands out fresh values and
// nothing in this package mutates them after construction.
type Account struct {
	// UID is the numeric user ID.
	UID uint32 `json:"uid" yaml:"uid"`

	// GID is the account's primary group ID.
	GID uint32 `json:"gid" yaml:"gid"`

	// Name is the login name. Accounts returned by a Source always carry one.
	Name string `json:"name" yaml:"name"`
}

// Validate checks if the account is usable as a database record.
func (a *Account) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("account name is required")
	}
	return nil
}

// Group is a record from the group database.
type Group struct {
	// GID is the numeric group ID.
	GID uint32 `json:"gid" yaml:"gid"`

	// Name is the group name. Empty means the group has no name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Members lists account names in database order.
	Members []string `json:"members,omitempty" yaml:"members,omitempty"`
}

// HasMember reports whether name appears in the member list.
// Comparison is exact: no case folding or normalization.
func (g *Group) HasMember(name string) bool {
	return slices.Contains(g.Members, name)
}

// Ref reduces the group to its (gid, name) pair.
func (g *Group) Ref() GroupRef {
	return GroupRef{GID: g.GID, Name: g.Name}
}

// GroupRef is a group reduced to the fields needed for display.
type GroupRef struct {
	GID  uint32 `json:"gid" yaml:"gid"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}
