package store

import (
	"context"
	"io"

	"gorm.io/gorm"

	"github.com/marmos91/posixid/pkg/identity"
)

// pageSize is the number of groups the cursor loads per query.
const pageSize = 256

var (
	_ identity.Source        = (*Store)(nil)
	_ identity.AccountLister = (*Store)(nil)
)

// LookupUser implements identity.Source.
func (s *Store) LookupUser(ctx context.Context, name string) (*identity.Account, error) {
	var rec AccountRecord
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		Order("position").
		Take(&rec).Error
	if err != nil {
		return nil, convertNotFoundError(err, identity.ErrUserNotFound)
	}
	return rec.Account(), nil
}

// LookupUserID implements identity.Source.
func (s *Store) LookupUserID(ctx context.Context, uid uint32) (*identity.Account, error) {
	var rec AccountRecord
	err := s.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("position").
		Take(&rec).Error
	if err != nil {
		return nil, convertNotFoundError(err, identity.ErrUserNotFound)
	}
	return rec.Account(), nil
}

// LookupGroupID implements identity.Source.
func (s *Store) LookupGroupID(ctx context.Context, gid uint32) (*identity.Group, error) {
	var rec GroupRecord
	err := s.db.WithContext(ctx).
		Preload("Members", orderMembers).
		Where("gid = ?", gid).
		Order("position").
		Take(&rec).Error
	if err != nil {
		return nil, convertNotFoundError(err, identity.ErrGroupNotFound)
	}
	return rec.Group(), nil
}

// Groups implements identity.Source. The cursor pages through the groups
// table by position, loading each page with its members in one round trip.
func (s *Store) Groups(ctx context.Context) (identity.GroupCursor, error) {
	return &groupCursor{db: s.db.WithContext(ctx), after: -1}, nil
}

// Accounts implements identity.AccountLister.
func (s *Store) Accounts(ctx context.Context) ([]*identity.Account, error) {
	var recs []AccountRecord
	if err := s.db.WithContext(ctx).Order("position").Find(&recs).Error; err != nil {
		return nil, err
	}
	accounts := make([]*identity.Account, 0, len(recs))
	for i := range recs {
		accounts = append(accounts, recs[i].Account())
	}
	return accounts, nil
}

// ListGroups returns every group with its members in database order.
func (s *Store) ListGroups(ctx context.Context) ([]*identity.Group, error) {
	var groups []*identity.Group
	err := identity.EachGroup(ctx, s, func(g *identity.Group) bool {
		groups = append(groups, g)
		return true
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func orderMembers(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

type groupCursor struct {
	db     *gorm.DB
	page   []GroupRecord
	idx    int
	after  int64
	done   bool
	closed bool
}

func (c *groupCursor) Next() (*identity.Group, error) {
	if c.closed {
		return nil, io.EOF
	}
	if c.idx >= len(c.page) {
		if c.done {
			return nil, io.EOF
		}
		if err := c.fetch(); err != nil {
			return nil, err
		}
		if len(c.page) == 0 {
			return nil, io.EOF
		}
	}
	rec := &c.page[c.idx]
	c.idx++
	return rec.Group(), nil
}

func (c *groupCursor) fetch() error {
	var page []GroupRecord
	err := c.db.
		Preload("Members", orderMembers).
		Where("position > ?", c.after).
		Order("position").
		Limit(pageSize).
		Find(&page).Error
	if err != nil {
		return err
	}
	c.page = page
	c.idx = 0
	if len(page) < pageSize {
		c.done = true
	}
	if len(page) > 0 {
		c.after = page[len(page)-1].Position
	}
	return nil
}

func (c *groupCursor) Close() error {
	c.closed = true
	c.page = nil
	return nil
}

// Counts returns the number of accounts and groups in the database.
func (s *Store) Counts(ctx context.Context) (accounts, groups int64, err error) {
	db := s.db.WithContext(ctx)
	if err = db.Model(&AccountRecord{}).Count(&accounts).Error; err != nil {
		return 0, 0, err
	}
	if err = db.Model(&GroupRecord{}).Count(&groups).Error; err != nil {
		return 0, 0, err
	}
	return accounts, groups, nil
}
