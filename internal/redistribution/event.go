package redistribution

import (
	"github.com/google/uuid"

	"github.com/mealbridge/mealbridge-backend/pkg/enums"
	"github.com/mealbridge/mealbridge-backend/pkg/types"
)

// Event is one cancelled order waiting to be offered around.
type Event struct {
	OrderID      uuid.UUID          `json:"orderId"`
	Items        types.OrderItems   `json:"orderItems"`
	CancelledBy  uuid.UUID          `json:"cancelledByUserId"`
	FoodCategory enums.FoodCategory `json:"foodCategory"`
	Message      string             `json:"message"`
}
