package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/storefront-backend/pkg/db/models"
)

// OrderDTO is the API representation of an order. Status carries the
// status NAME, not its id.
type OrderDTO struct {
	ID         uuid.UUID       `json:"id"`
	CartID     uuid.UUID       `json:"cartId"`
	Status     string          `json:"status"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	OrderDate  time.Time       `json:"orderDate"`
}

// OrderListDTO is a cursor-paginated page of orders.
type OrderListDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"nextCursor,omitempty"`
}

// NewOrderDTO maps an order model (with preloaded status) to its DTO.
func NewOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:         order.ID,
		CartID:     order.CartID,
		TotalPrice: order.TotalPrice,
		OrderDate:  order.OrderDate,
	}
	if order.Status != nil {
		dto.Status = order.Status.Name
	}
	return dto
}
