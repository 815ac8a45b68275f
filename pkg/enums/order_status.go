package enums

import "fmt"

// OrderStatusName is the human-readable name of an order status row.
// The set is a closed, case-sensitive whitelist.
type OrderStatusName string

const (
	OrderStatusPending    OrderStatusName = "Pending"
	OrderStatusProcessing OrderStatusName = "Processing"
	OrderStatusCompleted  OrderStatusName = "Completed"
	OrderStatusCancelled  OrderStatusName = "Cancelled"
)

var validOrderStatusNames = []OrderStatusName{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (n OrderStatusName) String() string {
	return string(n)
}

// IsValid reports whether the value matches the whitelist exactly.
func (n OrderStatusName) IsValid() bool {
	for _, candidate := range validOrderStatusNames {
		if candidate == n {
			return true
		}
	}
	return false
}

// OrderStatusNames returns the full whitelist in declaration order.
func OrderStatusNames() []OrderStatusName {
	return append([]OrderStatusName(nil), validOrderStatusNames...)
}

// ParseOrderStatusName converts raw input into an OrderStatusName.
// Matching is case-sensitive: "pending" is not a valid status.
func ParseOrderStatusName(value string) (OrderStatusName, error) {
	for _, candidate := range validOrderStatusNames {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status name %q", value)
}
