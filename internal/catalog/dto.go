package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
)

// CategoryDTO is the API representation of a category.
type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProductDTO is the API representation of a product.
type ProductDTO struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	QuantityInStock int             `json:"quantityInStock"`
	Category        *string         `json:"category,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// NewCategoryDTO maps a category model to its DTO.
func NewCategoryDTO(category *models.Category) *CategoryDTO {
	if category == nil {
		return nil
	}
	return &CategoryDTO{
		ID:   category.ID,
		Name: category.Name,
	}
}

// NewProductDTO maps a product model to its DTO.
func NewProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:              product.ID,
		Name:            product.Name,
		Description:     product.Description,
		Price:           product.Price,
		QuantityInStock: product.QuantityInStock,
		CreatedAt:       product.CreatedAt,
	}
	if product.Category != nil {
		name := product.Category.Name
		dto.Category = &name
	}
	return dto
}
