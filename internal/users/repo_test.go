package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	"github.com/storefrontlabs/storefront-backend/pkg/enums"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'customer',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	addresses := `
CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  street TEXT NOT NULL,
  number TEXT NOT NULL,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  zip_code TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(addresses).Error)
	return db
}

func TestRepositoryUserEmailUnique(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first, err := repo.CreateUser(ctx, &models.User{
		Email:        "dup@example.com",
		PasswordHash: "hash",
		Role:         enums.RoleCustomer,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first.ID)

	_, err = repo.CreateUser(ctx, &models.User{
		Email:        "dup@example.com",
		PasswordHash: "hash",
		Role:         enums.RoleCustomer,
	})
	require.Error(t, err)

	found, err := repo.FindUserByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestRepositoryOneAddressPerUser(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, &models.User{
		Email:        "addr@example.com",
		PasswordHash: "hash",
		Role:         enums.RoleCustomer,
	})
	require.NoError(t, err)

	address := &models.Address{
		UserID:  user.ID,
		Street:  "Main St",
		Number:  "1",
		City:    "Springfield",
		State:   "IL",
		ZipCode: "62701",
	}
	_, err = repo.CreateAddress(ctx, address)
	require.NoError(t, err)

	_, err = repo.CreateAddress(ctx, &models.Address{
		UserID:  user.ID,
		Street:  "Second St",
		Number:  "2",
		City:    "Springfield",
		State:   "IL",
		ZipCode: "62702",
	})
	require.Error(t, err)

	found, err := repo.FindAddressByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main St", found.Street)
}
