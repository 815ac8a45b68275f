package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog listing. The cart and order paths only read it.
type Product struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string          `gorm:"type:text;not null"`
	Description     *string         `gorm:"type:text"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	QuantityInStock int             `gorm:"column:quantity_in_stock;not null"`
	CategoryID      *uuid.UUID      `gorm:"type:uuid"`
	Category        *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
