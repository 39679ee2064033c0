//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/marmos91/posixid/pkg/identity"
)

func TestStore_Postgres(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("posixid_test"),
		postgres.WithUsername("posixid"),
		postgres.WithPassword("posixid"),
		testcontainers.WithWaitStrategyAndDeadline(60*time.Second,
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	s, err := New(&Config{
		Type: DatabaseTypePostgres,
		Postgres: PostgresConfig{
			Host:     host,
			Port:     port.Int(),
			Database: "posixid_test",
			User:     "posixid",
			Password: "posixid",
		},
	})
	require.NoError(t, err)
	defer s.Close()

	seed(t, s)

	a, err := s.LookupUserID(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, "alice", a.Name)

	refs, err := identity.CollectGroups(ctx, s, "alice")
	require.NoError(t, err)
	assert.Equal(t, []identity.GroupRef{{GID: 10, Name: "wheel"}, {GID: 999, Name: "docker"}}, refs)
}
