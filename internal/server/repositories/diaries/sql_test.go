package diaries

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/dbx"
	"github.com/ardenspace/space3-your-journey/internal/server/models"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newSQLiteRepo(t *testing.T) (*SQLRepository, *repotest.Clock) {
	t.Helper()
	clock := repotest.NewClock(t0)
	return NewSQLRepository(repotest.OpenSQLite(t), dbx.DialectSQLite, clock.Now), clock
}

func newMockRepo(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db, dbx.DialectPostgres, func() time.Time { return t0 }), mock
}

func sampleDiary(content string) *models.Diary {
	return &models.Diary{
		Title:           "trip",
		Content:         content,
		BackgroundColor: "#FFFFFF",
		NotebookDesign:  "lined",
		FontFamily:      "System",
		FontSize:        16,
		FontColor:       "#000000",
	}
}

func TestCreate_AssignsIDAndTimestamps(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	d := sampleDiary("hello")
	id, err := repo.Create(ctx, "u1", d)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.GetByID(ctx, "u1", id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hello", got.Content)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, got.CreatedAt.Equal(t0))
	assert.True(t, got.UpdatedAt.Equal(got.CreatedAt))
	assert.False(t, got.IsTimeCapsule)
	assert.Equal(t, float64(16), got.FontSize)
}

func TestCreate_KeepsCallerID(t *testing.T) {
	repo, _ := newSQLiteRepo(t)

	d := sampleDiary("x")
	d.ID = "fixed-id"
	id, err := repo.Create(context.Background(), "u1", d)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)
}

func TestGetByID_MissingAndForeignUser(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	got, err := repo.GetByID(ctx, "u1", "nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	id, err := repo.Create(ctx, "u1", sampleDiary("mine"))
	require.NoError(t, err)

	got, err = repo.GetByID(ctx, "u2", id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdate_MergesPatchAndBumpsUpdatedAt(t *testing.T) {
	repo, clock := newSQLiteRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, "u1", sampleDiary("draft"))
	require.NoError(t, err)

	clock.Advance(time.Hour)
	content := "final"
	size := 18.5
	require.NoError(t, repo.Update(ctx, "u1", id, models.DiaryPatch{Content: &content, FontSize: &size}))

	got, err := repo.GetByID(ctx, "u1", id)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Content)
	assert.Equal(t, 18.5, got.FontSize)
	assert.Equal(t, "trip", got.Title)
	assert.True(t, got.UpdatedAt.Equal(t0.Add(time.Hour)))
	assert.True(t, got.CreatedAt.Equal(t0))
}

func TestUpdate_MissingEntry(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	title := "t"
	err := repo.Update(context.Background(), "u1", "ghost", models.DiaryPatch{Title: &title})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, "u1", sampleDiary("bye"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "u1", id))
	assert.ErrorIs(t, repo.Delete(ctx, "u1", id), common.ErrorNotFound)
}

func TestList_ExcludesCapsulesNewestFirst(t *testing.T) {
	repo, clock := newSQLiteRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, "u1", sampleDiary("first"))
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := repo.Create(ctx, "u1", sampleDiary("second"))
	require.NoError(t, err)
	clock.Advance(time.Minute)
	capsule := sampleDiary("sealed")
	capsule.IsTimeCapsule = true
	capsule.TimeCapsuleID = "tc-1"
	_, err = repo.Create(ctx, "u1", capsule)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "u2", sampleDiary("other user"))
	require.NoError(t, err)

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)
	assert.Equal(t, first, list[1].ID)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	list, err := repo.List(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCreate_PostgresPlaceholdersAndStoreError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO diaries .* VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10, \$11, \$12, \$13\)`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), "u1", sampleDiary("x"))
	assert.ErrorIs(t, err, common.ErrStore)
	assert.ErrorContains(t, err, "db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_BuildsSetClause(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE diaries SET is_time_capsule = \$1, time_capsule_id = \$2, updated_at = \$3 WHERE user_id = \$4 AND id = \$5`).
		WithArgs(true, "tc-1", t0, "u1", "d1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	yes := true
	tc := "tc-1"
	require.NoError(t, repo.Update(context.Background(), "u1", "d1", models.DiaryPatch{IsTimeCapsule: &yes, TimeCapsuleID: &tc}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_StoreError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM diaries`).
		WithArgs("u1", "d1").
		WillReturnError(sql.ErrConnDone)

	_, err := repo.GetByID(context.Background(), "u1", "d1")
	assert.ErrorIs(t, err, common.ErrStore)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}
