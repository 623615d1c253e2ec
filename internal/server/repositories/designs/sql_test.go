package designs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/dbx"
	"github.com/ardenspace/space3-your-journey/internal/server/models"
	"github.com/ardenspace/space3-your-journey/internal/server/repositories/repotest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGetList(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := NewSQLRepository(repotest.OpenSQLite(t), dbx.DialectSQLite, func() time.Time { return at })
	ctx := context.Background()

	grid := &models.NotebookDesign{Name: "grid", Category: "paper", ImageKey: "designs/grid.png", ThumbnailKey: "designs/grid_t.png"}
	lined := &models.NotebookDesign{Name: "lined", Category: "paper", ImageKey: "designs/lined.png"}
	stars := &models.NotebookDesign{Name: "stars", Category: "night", ImageKey: "designs/stars.png"}
	for _, d := range []*models.NotebookDesign{lined, grid, stars} {
		_, err := repo.Create(ctx, d)
		require.NoError(t, err)
	}

	got, err := repo.GetByID(ctx, grid.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(grid, got); diff != "" {
		t.Fatalf("design mismatch (-want +got):\n%s", diff)
	}

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"stars", "grid", "lined"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

func TestList_StoreError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM notebook_designs ORDER BY category, name`).
		WillReturnError(errors.New("boom"))

	_, err = NewSQLRepository(db, dbx.DialectPostgres, nil).List(context.Background())
	assert.ErrorIs(t, err, common.ErrStore)
}
