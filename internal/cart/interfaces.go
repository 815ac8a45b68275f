package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
)

// Repository defines persistence operations for carts and their lines.
// DeleteOrderByCart exists so cart deletion can clean the linked order
// inside the same transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCart(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	FindCartByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	FindCartByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	DeleteCart(ctx context.Context, id uuid.UUID) error

	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	FindItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error)
	FindItemByCartAndProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	UpdateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteItemsByCart(ctx context.Context, cartID uuid.UUID) error

	DeleteOrderByCart(ctx context.Context, cartID uuid.UUID) error
}
