// Package files implements an identity source over passwd(5) and group(5)
// flat files.
//
// The files are re-read on every lookup so that a long-lived Source always
// sees the current database, and the group cursor streams the file instead
// of loading it. Malformed lines are skipped with a warning, which matches
// how the C library treats them.
package files

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/marmos91/posixid/internal/logger"
	"github.com/marmos91/posixid/pkg/identity"
)

const (
	// DefaultPasswdPath is the system account database.
	DefaultPasswdPath = "/etc/passwd"

	// DefaultGroupPath is the system group database.
	DefaultGroupPath = "/etc/group"
)

// Config contains the database file locations.
type Config struct {
	// Passwd is the path to the account database.
	Passwd string `mapstructure:"passwd" yaml:"passwd" json:"passwd,omitempty" validate:"required"`

	// Group is the path to the group database.
	Group string `mapstructure:"group" yaml:"group" json:"group,omitempty" validate:"required"`
}

// ApplyDefaults fills in the system paths for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Passwd == "" {
		c.Passwd = DefaultPasswdPath
	}
	if c.Group == "" {
		c.Group = DefaultGroupPath
	}
}

// Source reads identities from passwd and group files.
type Source struct {
	passwd string
	group  string
}

var (
	_ identity.Source        = (*Source)(nil)
	_ identity.AccountLister = (*Source)(nil)
)

// New creates a files Source. Unset paths default to the system databases.
func New(cfg Config) *Source {
	cfg.ApplyDefaults()
	return &Source{passwd: cfg.Passwd, group: cfg.Group}
}

// LookupUser implements identity.Source.
func (s *Source) LookupUser(ctx context.Context, name string) (*identity.Account, error) {
	return s.findAccount(ctx, func(a *identity.Account) bool { return a.Name == name })
}

// LookupUserID implements identity.Source.
func (s *Source) LookupUserID(ctx context.Context, uid uint32) (*identity.Account, error) {
	return s.findAccount(ctx, func(a *identity.Account) bool { return a.UID == uid })
}

// LookupGroupID implements identity.Source.
func (s *Source) LookupGroupID(ctx context.Context, gid uint32) (*identity.Group, error) {
	var found *identity.Group
	err := identity.EachGroup(ctx, s, func(g *identity.Group) bool {
		if g.GID == gid {
			found = g
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, identity.ErrGroupNotFound
	}
	return found, nil
}

// Groups implements identity.Source. The returned cursor owns the open
// group file until Close.
func (s *Source) Groups(_ context.Context) (identity.GroupCursor, error) {
	f, err := os.Open(s.group)
	if err != nil {
		return nil, fmt.Errorf("failed to open group database: %w", err)
	}
	return &groupCursor{f: f, path: s.group, scanner: newScanner(f)}, nil
}

// Accounts implements identity.AccountLister.
func (s *Source) Accounts(ctx context.Context) ([]*identity.Account, error) {
	var out []*identity.Account
	err := s.eachAccount(ctx, func(a *identity.Account) bool {
		out = append(out, a)
		return true
	})
	return out, err
}

func (s *Source) findAccount(ctx context.Context, match func(*identity.Account) bool) (*identity.Account, error) {
	var found *identity.Account
	err := s.eachAccount(ctx, func(a *identity.Account) bool {
		if match(a) {
			found = a
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, identity.ErrUserNotFound
	}
	return found, nil
}

func (s *Source) eachAccount(ctx context.Context, fn func(*identity.Account) bool) error {
	f, err := os.Open(s.passwd)
	if err != nil {
		return fmt.Errorf("failed to open account database: %w", err)
	}
	defer func() { _ = f.Close() }()

	sc := newScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Text()
		if skipLine(line) {
			continue
		}
		acct, err := parsePasswdLine(line)
		if err != nil {
			logger.Warn("skipping malformed passwd entry", logger.Line(s.passwd, lineNo), logger.Err(err))
			continue
		}
		if !fn(acct) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("failed to read account database: %w", err)
	}
	return nil
}

type groupCursor struct {
	f       *os.File
	path    string
	scanner *bufio.Scanner
	line    int
}

func (c *groupCursor) Next() (*identity.Group, error) {
	if c.f == nil {
		return nil, io.EOF
	}
	for c.scanner.Scan() {
		c.line++
		line := c.scanner.Text()
		if skipLine(line) {
			continue
		}
		g, err := parseGroupLine(line)
		if err != nil {
			logger.Warn("skipping malformed group entry", logger.Line(c.path, c.line), logger.Err(err))
			continue
		}
		return g, nil
	}
	if err := c.scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read group database: %w", err)
	}
	return nil, io.EOF
}

func (c *groupCursor) Close() error {
	if c.f == nil {
		return nil
	}
	err := c.f.Close()
	c.f = nil
	return err
}

// newScanner returns a line scanner that tolerates long member lists.
func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return sc
}
