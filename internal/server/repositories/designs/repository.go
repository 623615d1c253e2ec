// Package designs declares the storage contract for the notebook design
// catalog.
package designs

import (
	"context"

	"github.com/ardenspace/space3-your-journey/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, d *models.NotebookDesign) (string, error)
	GetByID(ctx context.Context, id string) (*models.NotebookDesign, error)
	List(ctx context.Context) ([]*models.NotebookDesign, error)
}
