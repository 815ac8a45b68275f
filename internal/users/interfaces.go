package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
)

// Repository defines persistence operations for users and their addresses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error

	CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error)
	FindAddressByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	FindAddressByUser(ctx context.Context, userID uuid.UUID) (*models.Address, error)
	UpdateAddress(ctx context.Context, address *models.Address) (*models.Address, error)
	DeleteAddress(ctx context.Context, id uuid.UUID) error
}
