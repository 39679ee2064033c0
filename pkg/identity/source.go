package identity

import (
	"context"
	"io"
)

// Source provides read access to the account and group databases.
//
// Lookups return ErrUserNotFound or ErrGroupNotFound on a miss; any other
// error means the database itself could not be read.
type Source interface {
	// LookupUser returns the account with the given login name.
	LookupUser(ctx context.Context, name string) (*Account, error)

	// LookupUserID returns the first account with the given UID.
	LookupUserID(ctx context.Context, uid uint32) (*Account, error)

	// LookupGroupID returns the first group with the given GID.
	LookupGroupID(ctx context.Context, gid uint32) (*Group, error)

	// Groups opens a cursor over the whole group database in database order.
	// The caller must Close the cursor.
	Groups(ctx context.Context) (GroupCursor, error)
}

// GroupCursor iterates over group records.
type GroupCursor interface {
	// Next returns the next group, or io.EOF when the enumeration is done.
	Next() (*Group, error)

	// Close releases the enumeration. It is safe to call more than once.
	Close() error
}

// AccountLister is implemented by sources that can enumerate every account.
type AccountLister interface {
	Accounts(ctx context.Context) ([]*Account, error)
}

// EachGroup opens a cursor on src and calls fn for every group until fn
// returns false or the enumeration ends. The cursor is closed on every path.
func EachGroup(ctx context.Context, src Source, fn func(*Group) bool) (err error) {
	cur, err := src.Groups(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cur.Close(); err == nil {
			err = cerr
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, err := cur.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !fn(g) {
			return nil
		}
	}
}

// SliceCursor is a GroupCursor over an in-memory slice.
type SliceCursor struct {
	groups []*Group
	pos    int
	closed bool
}

// NewSliceCursor returns a cursor that yields groups in slice order.
func NewSliceCursor(groups []*Group) *SliceCursor {
	return &SliceCursor{groups: groups}
}

// Next implements GroupCursor.
func (c *SliceCursor) Next() (*Group, error) {
	if c.closed || c.pos >= len(c.groups) {
		return nil, io.EOF
	}
	g := c.groups[c.pos]
	c.pos++
	return g, nil
}

// Close implements GroupCursor.
func (c *SliceCursor) Close() error {
	c.closed = true
	c.groups = nil
	return nil
}
