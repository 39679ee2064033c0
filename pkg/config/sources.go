package config

import (
	"fmt"

	"github.com/marmos91/posixid/internal/logger"
	"github.com/marmos91/posixid/pkg/identity"
	"github.com/marmos91/posixid/pkg/identity/files"
	"github.com/marmos91/posixid/pkg/identity/store"
)

// CloseFunc releases resources held by an identity source.
type CloseFunc func() error

func noopClose() error { return nil }

// CreateSource opens the identity source selected by cfg.
// The returned CloseFunc must be called when the source is no longer needed.
func CreateSource(cfg SourceConfig) (identity.Source, CloseFunc, error) {
	logger.Debug("opening identity source", logger.Source(string(cfg.Type)))
	switch cfg.Type {
	case SourceFiles, "":
		return files.New(cfg.Files), noopClose, nil
	case SourceDatabase:
		dbCfg := cfg.Database
		s, err := store.New(&dbCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open identity database: %w", err)
		}
		return s, s.Close, nil
	case SourceStatic:
		return createStaticSource(cfg.Static), noopClose, nil
	default:
		return nil, nil, fmt.Errorf("unknown identity source type: %q", cfg.Type)
	}
}

// OpenStore opens the SQL identity database regardless of the selected
// source type. Administrative commands use it to populate the database.
func OpenStore(cfg SourceConfig) (*store.Store, error) {
	dbCfg := cfg.Database
	s, err := store.New(&dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open identity database: %w", err)
	}
	return s, nil
}

func createStaticSource(cfg StaticConfig) *identity.StaticSource {
	users := make([]*identity.Account, 0, len(cfg.Users))
	for _, u := range cfg.Users {
		users = append(users, &identity.Account{Name: u.Name, UID: u.UID, GID: u.GID})
	}
	groups := make([]*identity.Group, 0, len(cfg.Groups))
	for _, g := range cfg.Groups {
		groups = append(groups, &identity.Group{Name: g.Name, GID: g.GID, Members: g.Members})
	}
	return identity.NewStaticSource(users, groups)
}
