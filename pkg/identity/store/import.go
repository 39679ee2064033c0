package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marmos91/posixid/internal/logger"
	"github.com/marmos91/posixid/pkg/identity"
)

// batchSize bounds the number of rows per INSERT statement.
const batchSize = 500

// ImportResult reports how many records an import wrote.
type ImportResult struct {
	Accounts int `json:"accounts" yaml:"accounts"`
	Groups   int `json:"groups" yaml:"groups"`
	Members  int `json:"members" yaml:"members"`
}

// ErrNotListable is returned when an import source cannot enumerate accounts.
var ErrNotListable = errors.New("source cannot enumerate accounts")

// Import copies every account and group from src into the database,
// replacing its previous contents. src must also implement
// identity.AccountLister.
func (s *Store) Import(ctx context.Context, src identity.Source) (*ImportResult, error) {
	lister, ok := src.(identity.AccountLister)
	if !ok {
		return nil, ErrNotListable
	}

	accounts, err := lister.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}

	var groups []*identity.Group
	err = identity.EachGroup(ctx, src, func(g *identity.Group) bool {
		groups = append(groups, g)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read groups: %w", err)
	}

	return s.Replace(ctx, accounts, groups)
}

// Replace atomically swaps the database contents for the given accounts and
// groups. Slice order becomes database order.
func (s *Store) Replace(ctx context.Context, accounts []*identity.Account, groups []*identity.Group) (*ImportResult, error) {
	accountRecs := make([]AccountRecord, 0, len(accounts))
	for i, a := range accounts {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("account %d (uid %d): %w", i, a.UID, err)
		}
		accountRecs = append(accountRecs, AccountRecord{
			ID:       uuid.New().String(),
			Position: int64(i),
			Name:     a.Name,
			UID:      a.UID,
			GID:      a.GID,
		})
	}

	groupRecs := make([]GroupRecord, 0, len(groups))
	var members []GroupMember
	for i, g := range groups {
		id := uuid.New().String()
		groupRecs = append(groupRecs, GroupRecord{
			ID:       id,
			Position: int64(i),
			Name:     g.Name,
			GID:      g.GID,
		})
		for j, m := range g.Members {
			members = append(members, GroupMember{GroupID: id, Position: j, Username: m})
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Children first so the delete never trips the foreign key.
		for _, model := range []any{&GroupMember{}, &GroupRecord{}, &AccountRecord{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		if len(accountRecs) > 0 {
			if err := tx.CreateInBatches(accountRecs, batchSize).Error; err != nil {
				return err
			}
		}
		if len(groupRecs) > 0 {
			if err := tx.Omit("Members").CreateInBatches(groupRecs, batchSize).Error; err != nil {
				return err
			}
		}
		if len(members) > 0 {
			if err := tx.CreateInBatches(members, batchSize).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import identities: %w", err)
	}

	result := &ImportResult{
		Accounts: len(accountRecs),
		Groups:   len(groupRecs),
		Members:  len(members),
	}
	logger.InfoCtx(ctx, "identity database replaced",
		logger.KeyDatabase, string(s.config.Type),
		"accounts", result.Accounts,
		"groups", result.Groups,
		"members", result.Members)
	return result, nil
}
