package orders

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pricing strategy names accepted by STOREFRONT_PRICING_STRATEGY.
const (
	StrategyDistinctProductSum = "distinct_product_sum"
	StrategyQuantityWeighted   = "quantity_weighted_sum"
)

// PricedItem is one cart line as seen by a pricing strategy.
type PricedItem struct {
	ProductID uuid.UUID
	UnitPrice decimal.Decimal
	Quantity  int
}

// PricingStrategy derives an order total from the cart lines.
type PricingStrategy interface {
	Name() string
	Total(items []PricedItem) decimal.Decimal
}

// DistinctProductSum sums unit prices over distinct products, ignoring
// line quantities. This reproduces the legacy checkout arithmetic and
// remains the default; switch the configured strategy to change it.
type DistinctProductSum struct{}

func (DistinctProductSum) Name() string { return StrategyDistinctProductSum }

func (DistinctProductSum) Total(items []PricedItem) decimal.Decimal {
	total := decimal.Zero
	seen := map[uuid.UUID]struct{}{}
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		total = total.Add(item.UnitPrice)
	}
	return total
}

// QuantityWeightedSum sums unit price times quantity per line.
type QuantityWeightedSum struct{}

func (QuantityWeightedSum) Name() string { return StrategyQuantityWeighted }

func (QuantityWeightedSum) Total(items []PricedItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// StrategyFromName resolves a configured strategy name.
func StrategyFromName(name string) (PricingStrategy, error) {
	switch name {
	case "", StrategyDistinctProductSum:
		return DistinctProductSum{}, nil
	case StrategyQuantityWeighted:
		return QuantityWeightedSum{}, nil
	default:
		return nil, fmt.Errorf("unknown pricing strategy %q", name)
	}
}
