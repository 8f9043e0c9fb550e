// Package scooters persists fleet records. Text attributes arrive already
// sealed; telemetry numbers and dates are stored as given.
package scooters

import (
	"context"

	"github.com/dmitrijs2005/urbanmobility/internal/models"
)

type Repository interface {
	// Create returns common.ErrorAlreadyExists when the serial index is taken.
	Create(ctx context.Context, s *models.Scooter) (int64, error)
	ListAll(ctx context.Context) ([]models.Scooter, error)
	GetByID(ctx context.Context, id int64) (*models.Scooter, error)
	GetBySerialIndex(ctx context.Context, serialIndex string) (*models.Scooter, error)
	// Update rewrites every column except ID and InServiceDate.
	Update(ctx context.Context, s *models.Scooter) error
	UpdateTelemetry(ctx context.Context, id int64, t models.ScooterTelemetry) error
	Delete(ctx context.Context, id int64) error
}
