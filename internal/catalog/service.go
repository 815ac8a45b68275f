package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-backend/pkg/access"
	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
	pkgerrors "github.com/storefrontlabs/storefront-backend/pkg/errors"
)

// Service exposes catalog management operations. Reads are public;
// category writes require staff, product writes any authenticated user.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	CreateCategory(ctx context.Context, p access.Principal, input CategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, p access.Principal, input CategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID, p access.Principal) error

	ListProducts(ctx context.Context) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, p access.Principal, input ProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, p access.Principal, input ProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, p access.Principal) error
}

// CategoryInput holds the validated payload for category writes.
type CategoryInput struct {
	Name string
}

// ProductInput holds the validated payload for product writes. Category
// is resolved by name when provided.
type ProductInput struct {
	Name            string
	Description     *string
	Price           decimal.Decimal
	QuantityInStock int
	Category        *string
}

type service struct {
	repo Repository
}

// NewService constructs a catalog service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		dtos = append(dtos, *NewCategoryDTO(&categories[i]))
	}
	return dtos, nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewCategoryDTO(category), nil
}

func (s *service) CreateCategory(ctx context.Context, p access.Principal, input CategoryInput) (*CategoryDTO, error) {
	if err := access.RequireStaff(p); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category, err := s.repo.CreateCategory(ctx, &models.Category{Name: input.Name})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return NewCategoryDTO(category), nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, p access.Principal, input CategoryInput) (*CategoryDTO, error) {
	if err := access.RequireStaff(p); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = input.Name
	updated, err := s.repo.UpdateCategory(ctx, category)
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return NewCategoryDTO(updated), nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID, p access.Principal) error {
	if err := access.RequireStaff(p); err != nil {
		return err
	}
	if _, err := s.findCategory(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *NewProductDTO(&products[i]))
	}
	return dtos, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(product), nil
}

func (s *service) CreateProduct(ctx context.Context, p access.Principal, input ProductInput) (*ProductDTO, error) {
	if p.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		QuantityInStock: input.QuantityInStock,
	}
	if err := s.resolveCategory(ctx, input.Category, product); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return s.GetProduct(ctx, created.ID)
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, p access.Principal, input ProductInput) (*ProductDTO, error) {
	if p.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.QuantityInStock = input.QuantityInStock
	product.Category = nil
	product.CategoryID = nil
	if err := s.resolveCategory(ctx, input.Category, product); err != nil {
		return nil, err
	}

	if _, err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return s.GetProduct(ctx, id)
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID, p access.Principal) error {
	if p.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) findCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func (s *service) resolveCategory(ctx context.Context, name *string, product *models.Product) error {
	if name == nil || *name == "" {
		return nil
	}
	category, err := s.repo.FindCategoryByName(ctx, *name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("category %q not found", *name))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	product.CategoryID = &category.ID
	return nil
}

func validateProductInput(input ProductInput) error {
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if input.QuantityInStock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity in stock must be non-negative")
	}
	return nil
}
