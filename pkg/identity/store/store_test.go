package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/posixid/pkg/identity"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(&Config{
		Type:   DatabaseTypeSQLite,
		SQLite: SQLiteConfig{Path: filepath.Join(t.TempDir(), "identity.db")},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	_, err := s.Replace(context.Background(),
		[]*identity.Account{
			{Name: "root", UID: 0, GID: 0},
			{Name: "alice", UID: 1000, GID: 1000},
			{Name: "alias", UID: 1000, GID: 1000},
			{Name: "bob", UID: 1001, GID: 1001},
		},
		[]*identity.Group{
			{Name: "root", GID: 0},
			{Name: "wheel", GID: 10, Members: []string{"bob", "alice"}},
			{Name: "alice", GID: 1000},
			{Name: "docker", GID: 999, Members: []string{"alice"}},
			{Name: "wheel2", GID: 10},
		})
	require.NoError(t, err)
}

func TestConfig_ApplyDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	cfg := &Config{}
	cfg.ApplyDefaults()
	assert.Equal(t, DatabaseTypeSQLite, cfg.Type)
	assert.Equal(t, "/tmp/xdg/posixid/identity.db", cfg.SQLite.Path)

	pg := &Config{Type: DatabaseTypePostgres}
	pg.ApplyDefaults()
	assert.Equal(t, 5432, pg.Postgres.Port)
	assert.Equal(t, "disable", pg.Postgres.SSLMode)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"sqlite ok", Config{Type: DatabaseTypeSQLite, SQLite: SQLiteConfig{Path: "x.db"}}, ""},
		{"sqlite no path", Config{Type: DatabaseTypeSQLite}, "sqlite path is required"},
		{"postgres no host", Config{Type: DatabaseTypePostgres}, "postgres host is required"},
		{"postgres no db", Config{Type: DatabaseTypePostgres, Postgres: PostgresConfig{Host: "h"}}, "postgres database is required"},
		{"postgres no user", Config{Type: DatabaseTypePostgres, Postgres: PostgresConfig{Host: "h", Database: "d"}}, "postgres user is required"},
		{"unknown", Config{Type: "mysql"}, "unsupported database type: mysql"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := PostgresConfig{Host: "db", Port: 5433, Database: "ids", User: "u", Password: "p", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=ids sslmode=require", cfg.DSN())
}

func TestStore_Lookups(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	t.Run("user by name", func(t *testing.T) {
		a, err := s.LookupUser(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, &identity.Account{Name: "bob", UID: 1001, GID: 1001}, a)
	})

	t.Run("user by uid first match wins", func(t *testing.T) {
		a, err := s.LookupUserID(ctx, 1000)
		require.NoError(t, err)
		assert.Equal(t, "alice", a.Name)
	})

	t.Run("group by gid first match wins", func(t *testing.T) {
		g, err := s.LookupGroupID(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, "wheel", g.Name)
		assert.Equal(t, []string{"bob", "alice"}, g.Members)
	})

	t.Run("misses", func(t *testing.T) {
		_, err := s.LookupUser(ctx, "nobody")
		assert.ErrorIs(t, err, identity.ErrUserNotFound)

		_, err = s.LookupUserID(ctx, 4242)
		assert.ErrorIs(t, err, identity.ErrUserNotFound)

		_, err = s.LookupGroupID(ctx, 4242)
		assert.ErrorIs(t, err, identity.ErrGroupNotFound)
	})
}

func TestStore_GroupsPreservesOrder(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)

	groups, err := s.ListGroups(context.Background())
	require.NoError(t, err)

	var names []string
	for _, g := range groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"root", "wheel", "alice", "docker", "wheel2"}, names)
	assert.Equal(t, []string{"bob", "alice"}, groups[1].Members)
	assert.Empty(t, groups[0].Members)
}

func TestStore_GroupsCursorPages(t *testing.T) {
	s := newTestStore(t)

	const n = pageSize*2 + 7
	groups := make([]*identity.Group, 0, n)
	for i := 0; i < n; i++ {
		groups = append(groups, &identity.Group{
			Name:    fmt.Sprintf("g%d", i),
			GID:     uint32(5000 + i),
			Members: []string{"alice"},
		})
	}
	_, err := s.Replace(context.Background(), nil, groups)
	require.NoError(t, err)

	refs, err := identity.CollectGroups(context.Background(), s, "alice")
	require.NoError(t, err)
	require.Len(t, refs, n)
	for i, r := range refs {
		assert.Equal(t, uint32(5000+i), r.GID)
	}
}

func TestStore_CursorCloseStopsIteration(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)

	cur, err := s.Groups(context.Background())
	require.NoError(t, err)

	g, err := cur.Next()
	require.NoError(t, err)
	assert.Equal(t, "root", g.Name)

	require.NoError(t, cur.Close())
	require.NoError(t, cur.Close())
	_, err = cur.Next()
	assert.Error(t, err)
}

func TestStore_CollectGroups(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)

	refs, err := identity.CollectGroups(context.Background(), s, "alice")
	require.NoError(t, err)
	assert.Equal(t, []identity.GroupRef{
		{GID: 10, Name: "wheel"},
		{GID: 999, Name: "docker"},
	}, refs)
}

func TestStore_Import(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)

	src := identity.NewStaticSource(
		[]*identity.Account{{Name: "carol", UID: 1002, GID: 2000}},
		[]*identity.Group{
			{Name: "staff", GID: 2000},
			{Name: "sudo", GID: 27, Members: []string{"carol"}},
		})

	res, err := s.Import(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Accounts: 1, Groups: 2, Members: 1}, res)
	assert.Zero(t, src.OpenCursors())

	// Previous contents are gone.
	_, err = s.LookupUser(context.Background(), "alice")
	assert.ErrorIs(t, err, identity.ErrUserNotFound)

	accounts, err := s.Accounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []*identity.Account{{Name: "carol", UID: 1002, GID: 2000}}, accounts)

	g, err := s.LookupGroupID(context.Background(), 27)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, g.Members)
}

type groupsOnly struct{ identity.Source }

func TestStore_ImportRequiresLister(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Import(context.Background(), groupsOnly{identity.NewStaticSource(nil, nil)})
	assert.ErrorIs(t, err, ErrNotListable)
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.db")
	cfg := &Config{Type: DatabaseTypeSQLite, SQLite: SQLiteConfig{Path: path}}

	s, err := New(cfg)
	require.NoError(t, err)
	seed(t, s)
	require.NoError(t, s.Healthcheck(context.Background()))
	require.NoError(t, s.Close())

	s, err = New(&Config{Type: DatabaseTypeSQLite, SQLite: SQLiteConfig{Path: path}})
	require.NoError(t, err)
	defer s.Close()

	a, err := s.LookupUser(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), a.UID)
}
