package identity

import (
	"context"
	"sync/atomic"
)

// StaticSource is an in-memory Source backed by fixed account and group
// tables. Lookups scan in table order, so the first match wins the same way
// it does in a flat-file database.
//
// StaticSource is used when identities come from configuration and as the
// injected database in tests.
type StaticSource struct {
	users  []*Account
	groups []*Group

	open atomic.Int32
}

// NewStaticSource creates a StaticSource from the given tables.
func NewStaticSource(users []*Account, groups []*Group) *StaticSource {
	return &StaticSource{users: users, groups: groups}
}

// LookupUser implements Source.
func (s *StaticSource) LookupUser(_ context.Context, name string) (*Account, error) {
	for _, u := range s.users {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

// LookupUserID implements Source.
func (s *StaticSource) LookupUserID(_ context.Context, uid uint32) (*Account, error) {
	for _, u := range s.users {
		if u.UID == uid {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

// LookupGroupID implements Source.
func (s *StaticSource) LookupGroupID(_ context.Context, gid uint32) (*Group, error) {
	for _, g := range s.groups {
		if g.GID == gid {
			return g, nil
		}
	}
	return nil, ErrGroupNotFound
}

// Groups implements Source.
func (s *StaticSource) Groups(_ context.Context) (GroupCursor, error) {
	s.open.Add(1)
	return &trackedCursor{SliceCursor: NewSliceCursor(s.groups), owner: s}, nil
}

// Accounts implements AccountLister.
func (s *StaticSource) Accounts(_ context.Context) ([]*Account, error) {
	return append([]*Account(nil), s.users...), nil
}

// OpenCursors returns the number of group cursors not yet closed.
func (s *StaticSource) OpenCursors() int {
	return int(s.open.Load())
}

type trackedCursor struct {
	*SliceCursor
	owner *StaticSource
	done  bool
}

func (c *trackedCursor) Close() error {
	if !c.done {
		c.done = true
		c.owner.open.Add(-1)
	}
	return c.SliceCursor.Close()
}
