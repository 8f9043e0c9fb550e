// Package travellers persists customer records with their personal fields
// sealed by the caller.
package travellers

import (
	"context"

	"github.com/dmitrijs2005/urbanmobility/internal/models"
)

type Repository interface {
	Create(ctx context.Context, t *models.Traveller) (int64, error)
	ListAll(ctx context.Context) ([]models.Traveller, error)
	GetByID(ctx context.Context, id int64) (*models.Traveller, error)
	// Update rewrites every column except ID and RegistrationDate.
	Update(ctx context.Context, t *models.Traveller) error
	Delete(ctx context.Context, id int64) error
}
