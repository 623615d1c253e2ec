//go:build integration

package repomanager_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/dbx"
	"github.com/ardenspace/space3-your-journey/internal/server/models"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway PostgreSQL and returns its DSN.
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "journey",
				"POSTGRES_PASSWORD": "journey",
				"POSTGRES_DB":       "journey",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://journey:journey@%s:%s/journey?sslmode=disable", host, port.Port())
}

func TestPostgres_MigrationsAndRepositories(t *testing.T) {
	ctx := context.Background()
	dsn := startPostgres(t)

	db, err := repomanager.OpenDB(ctx, dbx.DialectPostgres, dsn)
	require.NoError(t, err)
	defer db.Close()

	m := repomanager.NewSQLRepositoryManager(dbx.DialectPostgres, nil)
	require.NoError(t, m.RunMigrations(ctx, db))
	// migrations are idempotent
	require.NoError(t, m.RunMigrations(ctx, db))

	user, err := m.Users(db).Create(ctx, &models.User{Email: "pg@example.com", PasswordHash: []byte("hash")})
	require.NoError(t, err)
	_, err = m.Users(db).Create(ctx, &models.User{Email: "pg@example.com", PasswordHash: []byte("hash")})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	diaryID, err := m.Diaries(db).Create(ctx, user.ID, &models.Diary{Title: "Summer trip", Content: "sea", FontSize: 16})
	require.NoError(t, err)

	openDate := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	tc, err := m.TimeCapsules(db).Create(ctx, user.ID, diaryID, openDate)
	require.NoError(t, err)
	assert.True(t, tc.OpenDate.Equal(openDate))

	sealed := true
	require.NoError(t, m.Diaries(db).Update(ctx, user.ID, diaryID, models.DiaryPatch{IsTimeCapsule: &sealed, TimeCapsuleID: &tc.ID}))

	// a capsule entry leaves the regular feed
	feed, err := m.Diaries(db).List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)

	openable, err := m.TimeCapsules(db).ListOpenable(ctx, user.ID, time.Now())
	require.NoError(t, err)
	require.Len(t, openable, 1)
	assert.Equal(t, tc.ID, openable[0].ID)

	require.NoError(t, m.TimeCapsules(db).Open(ctx, user.ID, tc.ID))
	got, err := m.TimeCapsules(db).GetByID(ctx, user.ID, tc.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOpened)
}
