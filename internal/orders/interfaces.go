package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	"github.com/storefrontlabs/storefront-backend/pkg/pagination"
)

// Repository defines persistence operations for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByCart(ctx context.Context, cartID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID, statusID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListAll(ctx context.Context, params pagination.Params) (*OrderList, error)
}

// StatusRepository defines persistence for the order status reference table.
type StatusRepository interface {
	WithTx(tx *gorm.DB) StatusRepository
	Create(ctx context.Context, status *models.OrderStatus) (*models.OrderStatus, error)
	FindByName(ctx context.Context, name string) (*models.OrderStatus, error)
	List(ctx context.Context) ([]models.OrderStatus, error)
}

// OrderList is a page of orders plus the cursor for the next page.
type OrderList struct {
	Orders     []models.Order
	NextCursor *string
}
