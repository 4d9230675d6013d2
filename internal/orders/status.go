package orders

import (
	"github.com/mealbridge/mealbridge-backend/pkg/enums"
	pkgerrors "github.com/mealbridge/mealbridge-backend/pkg/errors"
)

// statusTransitions is the authoritative order lifecycle graph. A status can
// always "transition" to itself; that is handled in CanTransition rather than
// listed here.
var statusTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusFoodPreparing:    {enums.OrderStatusLookingForDriver, enums.OrderStatusRedistribute},
	enums.OrderStatusLookingForDriver: {enums.OrderStatusDriverAssigned, enums.OrderStatusRedistribute},
	enums.OrderStatusDriverAssigned:   {enums.OrderStatusOutForDelivery, enums.OrderStatusRedistribute},
	enums.OrderStatusOutForDelivery:   {enums.OrderStatusDelivered, enums.OrderStatusRedistribute},
	enums.OrderStatusRedistribute:     {enums.OrderStatusFoodPreparing, enums.OrderStatusCancelled, enums.OrderStatusDonated},
	enums.OrderStatusCancelled:        {enums.OrderStatusDonated},
	enums.OrderStatusDelivered:        {},
	enums.OrderStatusDonated:          {},
}

// AllowedNext returns the statuses reachable from current, excluding the
// implicit self-transition.
func AllowedNext(current enums.OrderStatus) []enums.OrderStatus {
	next, ok := statusTransitions[current]
	if !ok {
		return nil
	}
	out := make([]enums.OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether current may move to next. Re-asserting the
// current status is always allowed.
func CanTransition(current, next enums.OrderStatus) bool {
	if current == next {
		return current.IsValid()
	}
	for _, candidate := range statusTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// transitionError builds the state-conflict error reported when a requested
// move is not in the lifecycle graph.
func transitionError(current, requested enums.OrderStatus) *pkgerrors.Error {
	allowed := AllowedNext(current)
	allowedStrings := make([]string, 0, len(allowed))
	for _, status := range allowed {
		allowedStrings = append(allowedStrings, status.String())
	}
	return pkgerrors.Newf(pkgerrors.CodeStateConflict,
		"Illegal transition from %q to %q", current, requested).
		WithDetails(map[string]any{
			"current":   current.String(),
			"requested": requested.String(),
			"allowed":   allowedStrings,
		})
}
