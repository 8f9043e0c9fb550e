// Package users persists operator accounts.
//
// Values are stored exactly as given: the services package seals sensitive
// fields with a cryptox.FieldCipher before calling Create or Update, and the
// repository never sees plaintext usernames or hashes.
package users

import (
	"context"

	"github.com/dmitrijs2005/urbanmobility/internal/models"
)

// Repository describes storage operations on operator accounts.
type Repository interface {
	// Create inserts u and returns its new ID. A duplicate username index
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, u *models.User) (int64, error)

	// ListAll returns every account in ID order.
	ListAll(ctx context.Context) ([]models.User, error)

	// GetByID and GetByIndex return common.ErrorNotFound when no row matches.
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIndex(ctx context.Context, usernameIndex string) (*models.User, error)

	// Update rewrites every mutable column of u. RegistrationDate is never
	// touched.
	Update(ctx context.Context, u *models.User) error

	// UpdatePasswordHash replaces only the stored hash.
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error

	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
