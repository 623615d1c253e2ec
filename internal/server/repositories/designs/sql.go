package designs

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/dbx"
	"github.com/ardenspace/space3-your-journey/internal/server/models"
	"github.com/google/uuid"
)

const designColumns = `id, name, category, image_key, thumbnail_key, created_at`

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
	now     func() time.Time
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect, now func() time.Time) *SQLRepository {
	if now == nil {
		now = time.Now
	}
	return &SQLRepository{db: db, dialect: dialect, now: now}
}

func (r *SQLRepository) Create(ctx context.Context, d *models.NotebookDesign) (string, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = dbx.Stamp(r.now())

	query := r.dialect.Rebind(`INSERT INTO notebook_designs (` + designColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query,
		d.ID, d.Name, d.Category, d.ImageKey, d.ThumbnailKey, d.CreatedAt); err != nil {
		return "", dbx.Wrap("create design", err)
	}
	return d.ID, nil
}

// GetByID returns nil with no error when the design does not exist.
func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.NotebookDesign, error) {
	query := r.dialect.Rebind(`SELECT ` + designColumns + ` FROM notebook_designs WHERE id = ?`)

	d, err := scanDesign(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbx.Wrap("get design", err)
	}
	return d, nil
}

// List returns the catalog grouped by category, then by name.
func (r *SQLRepository) List(ctx context.Context) ([]*models.NotebookDesign, error) {
	query := `SELECT ` + designColumns + ` FROM notebook_designs ORDER BY category, name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dbx.Wrap("list designs", err)
	}
	defer rows.Close()

	result := make([]*models.NotebookDesign, 0)
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, dbx.Wrap("list designs", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Wrap("list designs", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDesign(s scanner) (*models.NotebookDesign, error) {
	var (
		d       models.NotebookDesign
		created dbx.Time
	)
	if err := s.Scan(&d.ID, &d.Name, &d.Category, &d.ImageKey, &d.ThumbnailKey, &created); err != nil {
		return nil, err
	}
	d.CreatedAt = created.Time
	return &d, nil
}
