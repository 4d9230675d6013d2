package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mealbridge/mealbridge-backend/internal/redistribution"
	"github.com/mealbridge/mealbridge-backend/pkg/enums"
)

// subscriberBuffer bounds the per-connection send queue. A subscriber that
// falls this far behind starts losing messages instead of blocking the hub.
const subscriberBuffer = 16

// Message is one server-sent event.
type Message struct {
	Event enums.RealtimeEvent `json:"event"`
	Data  any                 `json:"data"`
}

type subscriber struct {
	connID uuid.UUID
	userID uuid.UUID
	ch     chan Message
}

// Hub tracks connected users and routes events to their open streams. Users
// are remembered in the order their first connection arrived, which is the
// order redistribution offers rotate in.
type Hub struct {
	mu    sync.Mutex
	subs  map[uuid.UUID]*subscriber
	order []uuid.UUID
}

// NewHub builds an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]*subscriber)}
}

// Subscribe registers a connection for the user and returns its id and the
// channel events arrive on.
func (h *Hub) Subscribe(userID uuid.UUID) (uuid.UUID, <-chan Message) {
	sub := &subscriber{
		connID: uuid.New(),
		userID: userID,
		ch:     make(chan Message, subscriberBuffer),
	}

	h.mu.Lock()
	h.subs[sub.connID] = sub
	h.order = append(h.order, sub.connID)
	h.mu.Unlock()

	return sub.connID, sub.ch
}

// Unsubscribe drops the connection and closes its channel.
func (h *Hub) Unsubscribe(connID uuid.UUID) {
	h.mu.Lock()
	sub, ok := h.subs[connID]
	if ok {
		delete(h.subs, connID)
		for i, id := range h.order {
			if id == connID {
				h.order = append(h.order[:i], h.order[i+1:]...)
				break
			}
		}
	}
	h.mu.Unlock()

	if ok {
		close(sub.ch)
	}
}

// ConnectionsFor returns the open connection ids of one user, oldest first.
func (h *Hub) ConnectionsFor(userID uuid.UUID) []uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()

	var conns []uuid.UUID
	for _, connID := range h.order {
		if sub := h.subs[connID]; sub != nil && sub.userID == userID {
			conns = append(conns, connID)
		}
	}
	return conns
}

// UserFor resolves a connection back to the user behind it.
func (h *Hub) UserFor(connID uuid.UUID) (uuid.UUID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subs[connID]
	if !ok {
		return uuid.Nil, false
	}
	return sub.userID, true
}

// ConnectedUsers returns the distinct connected users, ordered by when each
// user's earliest still-open connection arrived.
func (h *Hub) ConnectedUsers() []uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()

	seen := make(map[uuid.UUID]struct{}, len(h.order))
	users := make([]uuid.UUID, 0, len(h.order))
	for _, connID := range h.order {
		sub := h.subs[connID]
		if sub == nil {
			continue
		}
		if _, dup := seen[sub.userID]; dup {
			continue
		}
		seen[sub.userID] = struct{}{}
		users = append(users, sub.userID)
	}
	return users
}

// SendTo delivers the message to every open connection of the user. Slow
// subscribers lose the message rather than stalling delivery.
func (h *Hub) SendTo(userID uuid.UUID, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, connID := range h.order {
		sub := h.subs[connID]
		if sub == nil || sub.userID != userID {
			continue
		}
		select {
		case sub.ch <- msg:
		default:
		}
	}
}

// Broadcast delivers the message to every open connection.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, connID := range h.order {
		sub := h.subs[connID]
		if sub == nil {
			continue
		}
		select {
		case sub.ch <- msg:
		default:
		}
	}
}

// OrderStatusChanged pushes a lifecycle update to everyone watching.
func (h *Hub) OrderStatusChanged(orderID uuid.UUID, status enums.OrderStatus) {
	h.Broadcast(Message{
		Event: enums.RealtimeEventOrderStatus,
		Data: map[string]any{
			"orderId": orderID.String(),
			"status":  status.String(),
		},
	})
}

// OrderClaimed announces that a redistributing order found a new owner.
func (h *Hub) OrderClaimed(orderID, claimedBy uuid.UUID) {
	h.Broadcast(Message{
		Event: enums.RealtimeEventOrderClaimed,
		Data: map[string]any{
			"orderId":   orderID.String(),
			"claimedBy": claimedBy.String(),
		},
	})
}

// DriverOrderClaimed announces that a driver picked up the delivery.
func (h *Hub) DriverOrderClaimed(orderID, driverID uuid.UUID, driverName string) {
	h.Broadcast(Message{
		Event: enums.RealtimeEventDriverClaimed,
		Data: map[string]any{
			"orderId":    orderID.String(),
			"driverId":   driverID.String(),
			"driverName": driverName,
		},
	})
}

// DriverOrderDelivered announces a completed delivery.
func (h *Hub) DriverOrderDelivered(orderID uuid.UUID) {
	h.Broadcast(Message{
		Event: enums.RealtimeEventDriverDelivered,
		Data:  map[string]any{"orderId": orderID.String()},
	})
}

// SendOffer pushes a redistribution offer to one user.
func (h *Hub) SendOffer(userID uuid.UUID, event redistribution.Event) {
	h.SendTo(userID, Message{
		Event: enums.RealtimeEventRedistributeOffer,
		Data:  event,
	})
}

// CloseOffer tells the user their offer window is over.
func (h *Hub) CloseOffer(userID uuid.UUID, orderID uuid.UUID) {
	h.SendTo(userID, Message{
		Event: enums.RealtimeEventRedistributeClosed,
		Data:  map[string]any{"orderId": orderID.String()},
	})
}
