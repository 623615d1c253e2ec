package dbx_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/dbx"
	"github.com/ardenspace/space3-your-journey/internal/server/models"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/repomanager"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = "u1"

func newRepos(t *testing.T) (*sql.DB, *repomanager.SQLRepositoryManager) {
	t.Helper()
	return repotest.OpenSQLite(t), repomanager.NewSQLRepositoryManager(dbx.DialectSQLite, nil)
}

// sealDiary writes a capsule and links the diary to it in one transaction,
// the way the capsule service does.
func sealDiary(ctx context.Context, db *sql.DB, m *repomanager.SQLRepositoryManager, diaryID string) (*models.TimeCapsule, error) {
	var tc *models.TimeCapsule
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		tc, err = m.TimeCapsules(tx).Create(ctx, userID, diaryID, time.Now().AddDate(0, 1, 0))
		if err != nil {
			return err
		}
		linked, id := true, tc.ID
		return m.Diaries(tx).Update(ctx, userID, diaryID, models.DiaryPatch{IsTimeCapsule: &linked, TimeCapsuleID: &id})
	})
	return tc, err
}

func TestWithTx_CommitsCapsuleAndLink(t *testing.T) {
	ctx := context.Background()
	db, m := newRepos(t)

	diaryID, err := m.Diaries(db).Create(ctx, userID, &models.Diary{Content: "letter to myself", FontSize: 16})
	require.NoError(t, err)

	tc, err := sealDiary(ctx, db, m, diaryID)
	require.NoError(t, err)

	d, err := m.Diaries(db).GetByID(ctx, userID, diaryID)
	require.NoError(t, err)
	assert.True(t, d.IsTimeCapsule)
	assert.Equal(t, tc.ID, d.TimeCapsuleID)

	all, err := m.TimeCapsules(db).ListAll(ctx, userID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, diaryID, all[0].DiaryID)
}

func TestWithTx_FailedLinkRollsBackCapsule(t *testing.T) {
	ctx := context.Background()
	db, m := newRepos(t)

	_, err := sealDiary(ctx, db, m, "no-such-diary")
	require.ErrorIs(t, err, common.ErrorNotFound)

	all, err := m.TimeCapsules(db).ListAll(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, all, "capsule insert must be rolled back with the link")
}

func TestWithTx_PanicRollsBackAndPropagates(t *testing.T) {
	ctx := context.Background()
	db, m := newRepos(t)

	require.Panics(t, func() {
		_ = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			_, err := m.TimeCapsules(tx).Create(ctx, userID, "d1", time.Now())
			require.NoError(t, err)
			panic("link failed hard")
		})
	})

	all, err := m.TimeCapsules(db).ListAll(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestWithTx_BeginError(t *testing.T) {
	db, m := newRepos(t)
	require.NoError(t, db.Close())

	_, err := sealDiary(context.Background(), db, m, "d1")
	require.Error(t, err)
}
