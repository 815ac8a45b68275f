package orders

import (
	"context"
	"testing"

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

// Walks a full checkout: a cart holding a $10.00 and a $20.00 product
// becomes a Pending order totalling $30.00 under the distinct-product
// sum, moves to Completed, and a stranger's cancel attempt is refused.
func TestServiceCheckoutLifecycle(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	fix := newOrdersFixture(owner)
	fix.addProduct("10.00", 2)
	fix.addProduct("20.00", 1)
	svc := fix.service(DistinctProductSum{})
	ctx := context.Background()
	principal := access.Principal{UserID: owner, Role: enums.RoleCustomer}

	dto, err := svc.Create(ctx, principal, CreateOrderInput{CartID: fix.cart.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if dto.Status != "Pending" {
		t.Fatalf("expected Pending, got %q", dto.Status)
	}
	if !dto.TotalPrice.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("expected total 30.00, got %s", dto.TotalPrice)
	}

	updated, err := svc.UpdateStatus(ctx, dto.ID, principal, "Completed")
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != "Completed" {
		t.Fatalf("expected Completed, got %q", updated.Status)
	}

	stranger := access.Principal{UserID: uuid.New(), Role: enums.RoleCustomer}
	_, err = svc.Cancel(ctx, dto.ID, stranger)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if typed.Message() != access.ForbiddenMessage {
		t.Fatalf("unexpected forbidden message %q", typed.Message())
	}
}

func TestServiceCreateConflictsOnSecondOrder(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	fix := newOrdersFixture(owner)
	fix.addProduct("5.00", 1)
	svc := fix.service(DistinctProductSum{})
	ctx := context.Background()
	principal := access.Principal{UserID: owner, Role: enums.RoleCustomer}

	if _, err := svc.Create(ctx, principal, CreateOrderInput{CartID: fix.cart.ID}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.Create(ctx, principal, CreateOrderInput{CartID: fix.cart.ID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceCreateValidationAndNotFound(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	fix := newOrdersFixture(owner)
	svc := fix.service(DistinctProductSum{})
	ctx := context.Background()
	principal := access.Principal{UserID: owner, Role: enums.RoleCustomer}

	_, err := svc.Create(ctx, principal, CreateOrderInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for missing cart id, got %v", err)
	}

	_, err = svc.Create(ctx, principal, CreateOrderInput{CartID: uuid.New()})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for missing cart, got %v", err)
	}
}

func TestServiceUpdateStatusWhitelist(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	fix := newOrdersFixture(owner)
	fix.addProduct("5.00", 1)
	svc := fix.service(DistinctProductSum{})
	ctx := context.Background()
	principal := access.Principal{UserID: owner, Role: enums.RoleCustomer}

	dto, err := svc.Create(ctx, principal, CreateOrderInput{CartID: fix.cart.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for _, bad := range []string{"pending", "Shipped", "COMPLETED", ""} {
		_, err := svc.UpdateStatus(ctx, dto.ID, principal, bad)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation for %q, got %v", bad, err)
		}
	}

	// failed updates left the stored status untouched
	after, err := svc.Get(ctx, dto.ID, principal)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if after.Status != "Pending" {
		t.Fatalf("expected status still Pending, got %q", after.Status)
	}
}

func TestServiceCancelThenGetNotFound(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	fix := newOrdersFixture(owner)
	fix.addProduct("5.00", 1)
	svc := fix.service(DistinctProductSum{})
	ctx := context.Background()
	principal := access.Principal{UserID: owner, Role: enums.RoleCustomer}

	dto, err := svc.Create(ctx, principal, CreateOrderInput{CartID: fix.cart.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	msg, err := svc.Cancel(ctx, dto.ID, principal)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if msg == "" {
		t.Fatal("expected confirmation message")
	}

	_, err = svc.Get(ctx, dto.ID, principal)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after cancel, got %v", err)
	}
}

func TestServiceStaffSeesAllOrders(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	fix := newOrdersFixture(owner)
	fix.addProduct("5.00", 1)
	svc := fix.service(DistinctProductSum{})
	ctx := context.Background()

	dto, err := svc.Create(ctx, access.Principal{UserID: owner, Role: enums.RoleCustomer}, CreateOrderInput{CartID: fix.cart.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	staff := access.Principal{UserID: uuid.New(), Role: enums.RoleStaff}
	if _, err := svc.Get(ctx, dto.ID, staff); err != nil {
		t.Fatalf("staff get failed: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, dto.ID, staff, "Processing"); err != nil {
		t.Fatalf("staff update failed: %v", err)
	}

	list, err := svc.ListMine(ctx, staff, pagination.Params{})
	if err != nil {
		t.Fatalf("staff list failed: %v", err)
	}
	if len(list.Orders) != 1 {
		t.Fatalf("expected staff to see the order, got %d", len(list.Orders))
	}
}

func TestServiceCreateStatusStaffOnlyWhitelist(t *testing.T) {
	t.Parallel()

	fix := newOrdersFixture(uuid.New())
	svc := fix.service(DistinctProductSum{})
	ctx := context.Background()

	customer := access.Principal{UserID: uuid.New(), Role: enums.RoleCustomer}
	_, err := svc.CreateStatus(ctx, customer, "Pending")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	staff := access.Principal{UserID: uuid.New(), Role: enums.RoleStaff}
	_, err = svc.CreateStatus(ctx, staff, "Shipped")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for non-whitelisted name, got %v", err)
	}

	status, err := svc.CreateStatus(ctx, staff, "Processing")
	if err != nil {
		t.Fatalf("create status failed: %v", err)
	}
	if status.Name != "Processing" {
		t.Fatalf("unexpected status %q", status.Name)
	}
}

func TestServiceQuantityWeightedTotal(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	fix := newOrdersFixture(owner)
	fix.addProduct("10.00", 2)
	fix.addProduct("20.00", 1)
	svc := fix.service(QuantityWeightedSum{})

	dto, err := svc.Create(context.Background(), access.Principal{UserID: owner, Role: enums.RoleCustomer},
		CreateOrderInput{CartID: fix.cart.ID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !dto.TotalPrice.Equal(decimal.RequireFromString("40.00")) {
		t.Fatalf("expected total 40.00, got %s", dto.TotalPrice)
	}
}

// fixture wires the stub repos the service tests share.

type ordersFixture struct {
	cart     *models.Cart
	products map[uuid.UUID]decimal.Decimal
	repo     *stubOrderRepo
	statuses *stubStatusRepo
}

func newOrdersFixture(ownerID uuid.UUID) *ordersFixture {
	return &ordersFixture{
		cart:     &models.Cart{ID: uuid.New(), UserID: ownerID},
		products: map[uuid.UUID]decimal.Decimal{},
		repo:     &stubOrderRepo{orders: map[uuid.UUID]*models.Order{}},
		statuses: newStubStatusRepo(),
	}
}

func (f *ordersFixture) addProduct(price string, quantity int) uuid.UUID {
	id := uuid.New()
	f.products[id] = decimal.RequireFromString(price)
	f.cart.Items = append(f.cart.Items, models.CartItem{
		ID:        uuid.New(),
		CartID:    f.cart.ID,
		ProductID: id,
		Quantity:  quantity,
	})
	return id
}

func (f *ordersFixture) service(strategy PricingStrategy) Service {
	f.repo.statuses = f.statuses
	f.repo.cart = f.cart
	svc, err := NewService(f.repo, f.statuses, stubCartLoader{cart: f.cart},
		stubOrderProductLoader{prices: f.products}, stubOrdersTxRunner{}, strategy)
	if err != nil {
		panic(err)
	}
	return svc
}

type stubOrdersTxRunner struct{}

func (stubOrdersTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCartLoader struct {
	cart *models.Cart
}

func (s stubCartLoader) FindCartByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	if s.cart == nil || s.cart.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.cart, nil
}

type stubOrderProductLoader struct {
	prices map[uuid.UUID]decimal.Decimal
}

func (s stubOrderProductLoader) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.ProductDTO, error) {
	price, ok := s.prices[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &catalog.ProductDTO{ID: id, Price: price}, nil
}

type stubStatusRepo struct {
	byName map[string]*models.OrderStatus
}

func newStubStatusRepo() *stubStatusRepo {
	repo := &stubStatusRepo{byName: map[string]*models.OrderStatus{}}
	for _, name := range enums.OrderStatusNames() {
		repo.byName[name.String()] = &models.OrderStatus{ID: uuid.New(), Name: name.String()}
	}
	return repo
}

func (s *stubStatusRepo) WithTx(tx *gorm.DB) StatusRepository { return s }

func (s *stubStatusRepo) Create(ctx context.Context, status *models.OrderStatus) (*models.OrderStatus, error) {
	if status.ID == uuid.Nil {
		status.ID = uuid.New()
	}
	s.byName[status.Name] = status
	return status, nil
}

func (s *stubStatusRepo) FindByName(ctx context.Context, name string) (*models.OrderStatus, error) {
	status, ok := s.byName[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return status, nil
}

func (s *stubStatusRepo) List(ctx context.Context) ([]models.OrderStatus, error) {
	statuses := make([]models.OrderStatus, 0, len(s.byName))
	for _, status := range s.byName {
		statuses = append(statuses, *status)
	}
	return statuses, nil
}

type stubOrderRepo struct {
	orders   map[uuid.UUID]*models.Order
	statuses *stubStatusRepo
	cart     *models.Cart
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	copied.Cart = s.cart
	copied.Status = s.statusByID(order.StatusID)
	return &copied, nil
}

func (s *stubOrderRepo) FindByCart(ctx context.Context, cartID uuid.UUID) (*models.Order, error) {
	for _, order := range s.orders {
		if order.CartID == cartID {
			return order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, orderID, statusID uuid.UUID) error {
	order, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.StatusID = statusID
	return nil
}

func (s *stubOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.orders, id)
	return nil
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	list := &OrderList{}
	for _, order := range s.orders {
		if s.cart != nil && order.CartID == s.cart.ID && s.cart.UserID == userID {
			copied := *order
			copied.Status = s.statusByID(order.StatusID)
			list.Orders = append(list.Orders, copied)
		}
	}
	return list, nil
}

func (s *stubOrderRepo) ListAll(ctx context.Context, params pagination.Params) (*OrderList, error) {
	list := &OrderList{}
	for _, order := range s.orders {
		copied := *order
		copied.Status = s.statusByID(order.StatusID)
		list.Orders = append(list.Orders, copied)
	}
	return list, nil
}

func (s *stubOrderRepo) statusByID(id uuid.UUID) *models.OrderStatus {
	if s.statuses == nil {
		return nil
	}
	for _, status := range s.statuses.byName {
		if status.ID == id {
			return status
		}
	}
	return nil
}
