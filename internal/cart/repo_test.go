package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL UNIQUE,
  status_id TEXT NOT NULL,
  total_price NUMERIC NOT NULL,
  order_date DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(carts).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	require.NoError(t, db.Exec(orders).Error)
	return db
}

func TestRepositoryAddSameProductTwiceKeepsOneRow(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	cart, err := repo.CreateCart(ctx, &models.Cart{UserID: uuid.New()})
	require.NoError(t, err)

	productID := uuid.New()
	_, err = repo.CreateItem(ctx, &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: 2})
	require.NoError(t, err)

	// the service-level upsert: find the row, bump the quantity
	existing, err := repo.FindItemByCartAndProduct(ctx, cart.ID, productID)
	require.NoError(t, err)
	existing.Quantity += 3
	_, err = repo.UpdateItem(ctx, existing)
	require.NoError(t, err)

	found, err := repo.FindCartByID(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 5, found.Items[0].Quantity)
}

func TestRepositoryUniqueCartProductConstraint(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	cart, err := repo.CreateCart(ctx, &models.Cart{UserID: uuid.New()})
	require.NoError(t, err)

	productID := uuid.New()
	_, err = repo.CreateItem(ctx, &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: 1})
	require.NoError(t, err)

	_, err = repo.CreateItem(ctx, &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: 1})
	require.Error(t, err)
}

func TestRepositoryOneCartPerUser(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	_, err := repo.CreateCart(ctx, &models.Cart{UserID: userID})
	require.NoError(t, err)

	_, err = repo.CreateCart(ctx, &models.Cart{UserID: userID})
	require.Error(t, err)
}

func TestRepositoryCartCascadeCleanup(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	cart, err := repo.CreateCart(ctx, &models.Cart{UserID: uuid.New()})
	require.NoError(t, err)
	_, err = repo.CreateItem(ctx, &models.CartItem{CartID: cart.ID, ProductID: uuid.New(), Quantity: 1})
	require.NoError(t, err)

	order := &models.Order{ID: uuid.New(), CartID: cart.ID, StatusID: uuid.New()}
	require.NoError(t, db.Exec(
		`INSERT INTO orders (id, cart_id, status_id, total_price, order_date) VALUES (?, ?, ?, 0, CURRENT_TIMESTAMP)`,
		order.ID, order.CartID, order.StatusID,
	).Error)

	require.NoError(t, repo.DeleteItemsByCart(ctx, cart.ID))
	require.NoError(t, repo.DeleteOrderByCart(ctx, cart.ID))
	require.NoError(t, repo.DeleteCart(ctx, cart.ID))

	_, err = repo.FindCartByID(ctx, cart.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var orderCount int64
	require.NoError(t, db.Table("orders").Where("cart_id = ?", cart.ID).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}
