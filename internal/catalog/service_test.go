package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/pkg/access"
	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	"github.com/storefrontlabs/storefront-backend/pkg/enums"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
)

func TestServiceCreateCategoryRequiresStaff(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(&stubCatalogRepo{})
	_, err := svc.CreateCategory(context.Background(), access.Principal{
		UserID: uuid.New(),
		Role:   enums.RoleCustomer,
	}, CategoryInput{Name: "Books"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestServiceCreateProductValidation(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(&stubCatalogRepo{})
	principal := access.Principal{UserID: uuid.New(), Role: enums.RoleCustomer}

	_, err := svc.CreateProduct(context.Background(), principal, ProductInput{
		Name:  "Widget",
		Price: decimal.RequireFromString("-1"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}

	_, err = svc.CreateProduct(context.Background(), principal, ProductInput{
		Name:            "Widget",
		Price:           decimal.Zero,
		QuantityInStock: -3,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative stock, got %v", err)
	}
}

func TestServiceCreateProductResolvesCategoryByName(t *testing.T) {
	t.Parallel()

	category := &models.Category{ID: uuid.New(), Name: "Games"}
	repo := &stubCatalogRepo{category: category}
	svc := newTestCatalogService(repo)
	principal := access.Principal{UserID: uuid.New(), Role: enums.RoleCustomer}

	name := "Games"
	dto, err := svc.CreateProduct(context.Background(), principal, ProductInput{
		Name:            "Chess Set",
		Price:           decimal.RequireFromString("25.00"),
		QuantityInStock: 3,
		Category:        &name,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Category == nil || *dto.Category != "Games" {
		t.Fatalf("expected category resolved, got %+v", dto)
	}

	missing := "Nope"
	_, err = svc.CreateProduct(context.Background(), principal, ProductInput{
		Name:     "Chess Set",
		Price:    decimal.Zero,
		Category: &missing,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown category, got %v", err)
	}
}

func TestServiceGetProductNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(&stubCatalogRepo{productErr: gorm.ErrRecordNotFound})
	_, err := svc.GetProduct(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func newTestCatalogService(repo Repository) Service {
	svc, err := NewService(repo)
	if err != nil {
		panic(err)
	}
	return svc
}

type stubCatalogRepo struct {
	category   *models.Category
	product    *models.Product
	productErr error
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCatalogRepo) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	return category, nil
}

func (s *stubCatalogRepo) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if s.category == nil || s.category.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.category, nil
}

func (s *stubCatalogRepo) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	if s.category == nil || s.category.Name != name {
		return nil, gorm.ErrRecordNotFound
	}
	return s.category, nil
}

func (s *stubCatalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	if s.category == nil {
		return nil, nil
	}
	return []models.Category{*s.category}, nil
}

func (s *stubCatalogRepo) UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	return category, nil
}

func (s *stubCatalogRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubCatalogRepo) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CategoryID != nil && s.category != nil && *product.CategoryID == s.category.ID {
		product.Category = s.category
	}
	s.product = product
	return product, nil
}

func (s *stubCatalogRepo) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.productErr != nil {
		return nil, s.productErr
	}
	if s.product == nil || s.product.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.product, nil
}

func (s *stubCatalogRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.product == nil {
		return nil, nil
	}
	return []models.Product{*s.product}, nil
}

func (s *stubCatalogRepo) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.product = product
	return product, nil
}

func (s *stubCatalogRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error { return nil }
