package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is an immutable checkout record derived from a cart. The unique
// index on cart_id enforces the one-order-per-cart invariant; order_date
// and total_price are fixed at creation, only the status reference moves.
type Order struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CartID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Cart       *Cart           `gorm:"foreignKey:CartID"`
	StatusID   uuid.UUID       `gorm:"type:uuid;not null"`
	Status     *OrderStatus    `gorm:"foreignKey:StatusID"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	OrderDate  time.Time       `gorm:"column:order_date;not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
