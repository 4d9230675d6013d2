package enums

import (
	"fmt"
	"strings"
)

// OrderStatus tracks the lifecycle of a marketplace order. The values are
// display strings and travel as-is over the wire and in the database.
type OrderStatus string

const (
	OrderStatusFoodPreparing    OrderStatus = "Food Preparing"
	OrderStatusLookingForDriver OrderStatus = "Looking for driver"
	OrderStatusDriverAssigned   OrderStatus = "Driver assigned"
	OrderStatusOutForDelivery   OrderStatus = "Out for delivery"
	OrderStatusDelivered        OrderStatus = "Delivered"
	OrderStatusRedistribute     OrderStatus = "Redistribute"
	OrderStatusCancelled        OrderStatus = "Cancelled"
	OrderStatusDonated          OrderStatus = "Donated"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusFoodPreparing,
	OrderStatusLookingForDriver,
	OrderStatusDriverAssigned,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusRedistribute,
	OrderStatusCancelled,
	OrderStatusDonated,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from the status.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusDelivered || o == OrderStatusDonated
}

// ParseOrderStatus converts raw input into an OrderStatus. Matching is
// case-insensitive and ignores surrounding whitespace so that client-supplied
// values like "food preparing" canonicalize to the display form.
func ParseOrderStatus(value string) (OrderStatus, error) {
	folded := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validOrderStatuses {
		if strings.ToLower(string(candidate)) == folded {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
