package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/internal/catalog"
	"github.com/storefrontlabs/storefront-backend/pkg/access"
	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
	"github.com/storefrontlabs/storefront-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartLoader interface {
	FindCartByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
}

type productLoader interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.ProductDTO, error)
}

// Service exposes checkout and order lifecycle operations.
type Service interface {
	Create(ctx context.Context, p access.Principal, input CreateOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, orderID uuid.UUID, p access.Principal) (*OrderDTO, error)
	ListMine(ctx context.Context, p access.Principal, params pagination.Params) (*OrderListDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, p access.Principal, statusName string) (*OrderDTO, error)
	Cancel(ctx context.Context, orderID uuid.UUID, p access.Principal) (string, error)
	CreateStatus(ctx context.Context, p access.Principal, name string) (*models.OrderStatus, error)
}

// CreateOrderInput is the checkout payload.
type CreateOrderInput struct {
	CartID uuid.UUID
}

type service struct {
	repo     Repository
	statuses StatusRepository
	carts    cartLoader
	products productLoader
	tx       txRunner
	pricing  PricingStrategy
	now      func() time.Time
}

// NewService constructs an order service instance.
func NewService(repo Repository, statuses StatusRepository, carts cartLoader, products productLoader, tx txRunner, pricing PricingStrategy) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if statuses == nil {
		return nil, fmt.Errorf("status repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart loader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if pricing == nil {
		pricing = DistinctProductSum{}
	}
	return &service{
		repo:     repo,
		statuses: statuses,
		carts:    carts,
		products: products,
		tx:       tx,
		pricing:  pricing,
		now:      time.Now,
	}, nil
}

// Create checks out a cart into a Pending order. One order per cart:
// the in-transaction lookup plus the unique cart_id constraint make a
// second checkout conflict.
func (s *service) Create(ctx context.Context, p access.Principal, input CreateOrderInput) (*OrderDTO, error) {
	if input.CartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}

	cart, err := s.carts.FindCartByID(ctx, input.CartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := access.Require(cart.UserID, p); err != nil {
		return nil, err
	}

	total, err := s.priceCart(ctx, cart)
	if err != nil {
		return nil, err
	}

	pending, err := s.statuses.FindByName(ctx, enums.OrderStatusPending.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pending status")
	}

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if _, err := txRepo.FindByCart(ctx, cart.ID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "order already exists for this cart")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		order := &models.Order{
			CartID:     cart.ID,
			StatusID:   pending.ID,
			TotalPrice: total,
			OrderDate:  s.now(),
		}
		created, err = txRepo.Create(ctx, order)
		return err
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already exists for this cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	created.Status = pending
	return NewOrderDTO(created), nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID, p access.Principal) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOrderAccess(order, p); err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

// ListMine returns the caller's orders; staff see every order.
func (s *service) ListMine(ctx context.Context, p access.Principal, params pagination.Params) (*OrderListDTO, error) {
	if p.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	var (
		list *OrderList
		err  error
	)
	if p.Role.IsStaff() {
		list, err = s.repo.ListAll(ctx, params)
	} else {
		list, err = s.repo.ListByUser(ctx, p.UserID, params)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	dtos := make([]OrderDTO, 0, len(list.Orders))
	for i := range list.Orders {
		dtos = append(dtos, *NewOrderDTO(&list.Orders[i]))
	}
	return &OrderListDTO{Orders: dtos, NextCursor: list.NextCursor}, nil
}

// UpdateStatus re-points the order at a whitelisted status. Validation
// failures leave the stored status untouched.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, p access.Principal, statusName string) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOrderAccess(order, p); err != nil {
		return nil, err
	}

	if !enums.OrderStatusName(statusName).IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid order status %q", statusName)).
			WithDetails(map[string]any{"allowed": enums.OrderStatusNames()})
	}

	status, err := s.statuses.FindByName(ctx, statusName)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order status")
	}
	if err := s.repo.UpdateStatus(ctx, order.ID, status.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	order.StatusID = status.ID
	order.Status = status
	return NewOrderDTO(order), nil
}

// Cancel hard-deletes the order, freeing the cart for a new checkout.
func (s *service) Cancel(ctx context.Context, orderID uuid.UUID, p access.Principal) (string, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if err := s.requireOrderAccess(order, p); err != nil {
		return "", err
	}
	if err := s.repo.Delete(ctx, order.ID); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}
	return "order cancelled", nil
}

// CreateStatus adds a whitelisted status row. Staff only; the
// whitelist is case-sensitive.
func (s *service) CreateStatus(ctx context.Context, p access.Principal, name string) (*models.OrderStatus, error) {
	if err := access.RequireStaff(p); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if !enums.OrderStatusName(name).IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid order status %q", name)).
			WithDetails(map[string]any{"allowed": enums.OrderStatusNames()})
	}

	status, err := s.statuses.Create(ctx, &models.OrderStatus{Name: name})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order status already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order status")
	}
	return status, nil
}

func (s *service) priceCart(ctx context.Context, cart *models.Cart) (decimal.Decimal, error) {
	items := make([]PricedItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, err := s.products.GetProduct(ctx, line.ProductID)
		if err != nil {
			return decimal.Zero, err
		}
		items = append(items, PricedItem{
			ProductID: line.ProductID,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
		})
	}
	return s.pricing.Total(items), nil
}

func (s *service) findOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) requireOrderAccess(order *models.Order, p access.Principal) error {
	if order.Cart == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "order cart not loaded")
	}
	return access.Require(order.Cart.UserID, p)
}
