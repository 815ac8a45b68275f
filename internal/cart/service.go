package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/internal/catalog"
	"github.com/storefrontlabs/storefront-backend/pkg/access"
	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.ProductDTO, error)
}

// Service exposes cart operations. Every operation on an existing cart
// is owner-or-staff guarded.
type Service interface {
	Create(ctx context.Context, p access.Principal) (*CartDTO, error)
	Get(ctx context.Context, cartID uuid.UUID, p access.Principal) (*CartDTO, error)
	Delete(ctx context.Context, cartID uuid.UUID, p access.Principal) error
	AddItem(ctx context.Context, cartID uuid.UUID, p access.Principal, input AddItemInput) (string, error)
	UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, p access.Principal, input UpdateItemInput) (string, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID, p access.Principal) error
}

// AddItemInput is the payload for adding a product to a cart.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// UpdateItemInput replaces a cart line's product and quantity.
type UpdateItemInput struct {
	NewProductID uuid.UUID
	Quantity     int
}

type service struct {
	repo     Repository
	tx       txRunner
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		products: products,
	}, nil
}

// Create opens the caller's cart. One cart per user: a second create
// conflicts.
func (s *service) Create(ctx context.Context, p access.Principal) (*CartDTO, error) {
	if p.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	if _, err := s.repo.FindCartByUser(ctx, p.UserID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart already exists for this user")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	created, err := s.repo.CreateCart(ctx, &models.Cart{UserID: p.UserID})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart already exists for this user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return NewCartDTO(created), nil
}

func (s *service) Get(ctx context.Context, cartID uuid.UUID, p access.Principal) (*CartDTO, error) {
	cart, err := s.findCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := access.Require(cart.UserID, p); err != nil {
		return nil, err
	}
	return NewCartDTO(cart), nil
}

// Delete removes the cart, its lines, and any linked order in one
// transaction. Cleanup failures are aggregated so nothing is silently
// skipped.
func (s *service) Delete(ctx context.Context, cartID uuid.UUID, p access.Principal) error {
	cart, err := s.findCart(ctx, cartID)
	if err != nil {
		return err
	}
	if err := access.Require(cart.UserID, p); err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		var cleanupErr error
		cleanupErr = multierr.Append(cleanupErr, txRepo.DeleteItemsByCart(ctx, cart.ID))
		cleanupErr = multierr.Append(cleanupErr, txRepo.DeleteOrderByCart(ctx, cart.ID))
		cleanupErr = multierr.Append(cleanupErr, txRepo.DeleteCart(ctx, cart.ID))
		return cleanupErr
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}

// AddItem upserts a cart line: an existing (cart, product) row gets its
// quantity incremented, otherwise a new row is created. The whole
// read-modify-write runs in one transaction; the unique constraint on
// (cart_id, product_id) catches a lost race, which surfaces as a
// conflict with no retry.
func (s *service) AddItem(ctx context.Context, cartID uuid.UUID, p access.Principal, input AddItemInput) (string, error) {
	cart, err := s.findCart(ctx, cartID)
	if err != nil {
		return "", err
	}
	if err := access.Require(cart.UserID, p); err != nil {
		return "", err
	}
	if input.Quantity < 1 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if err := s.ensureProduct(ctx, input.ProductID); err != nil {
		return "", err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		existing, err := txRepo.FindItemByCartAndProduct(ctx, cart.ID, input.ProductID)
		if err == nil {
			existing.Quantity += input.Quantity
			_, err = txRepo.UpdateItem(ctx, existing)
			return err
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		_, err = txRepo.CreateItem(ctx, &models.CartItem{
			CartID:    cart.ID,
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
		})
		return err
	})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return "", pkgerrors.New(pkgerrors.CodeConflict, "cart item was modified concurrently")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return "item added to cart", nil
}

// UpdateItem replaces a line's product and quantity. When the new
// product already sits on another line of the same cart, the
// quantities merge into the surviving line and the stale one is
// deleted, all in one transaction.
func (s *service) UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, p access.Principal, input UpdateItemInput) (string, error) {
	cart, err := s.findCart(ctx, cartID)
	if err != nil {
		return "", err
	}
	if err := access.Require(cart.UserID, p); err != nil {
		return "", err
	}

	item, err := s.findItem(ctx, cart.ID, itemID)
	if err != nil {
		return "", err
	}
	if input.NewProductID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "new product id is required")
	}
	if input.Quantity < 1 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if err := s.ensureProduct(ctx, input.NewProductID); err != nil {
		return "", err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		existing, err := txRepo.FindItemByCartAndProduct(ctx, cart.ID, input.NewProductID)
		if err == nil && existing.ID != item.ID {
			existing.Quantity += input.Quantity
			if _, err := txRepo.UpdateItem(ctx, existing); err != nil {
				return err
			}
			return txRepo.DeleteItem(ctx, item.ID)
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		item.ProductID = input.NewProductID
		item.Quantity = input.Quantity
		_, err = txRepo.UpdateItem(ctx, item)
		return err
	})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return "", pkgerrors.New(pkgerrors.CodeConflict, "cart item was modified concurrently")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	return "cart item updated", nil
}

func (s *service) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID, p access.Principal) error {
	cart, err := s.findCart(ctx, cartID)
	if err != nil {
		return err
	}
	if err := access.Require(cart.UserID, p); err != nil {
		return err
	}
	if _, err := s.findItem(ctx, cart.ID, itemID); err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return nil
}

func (s *service) findCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindCartByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) findItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
	if item.CartID != cartID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return item, nil
}

func (s *service) ensureProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("product with id %s not found", productID))
		}
		return err
	}
	return nil
}
