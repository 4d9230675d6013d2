package enums

// RealtimeEvent names the server-sent event types pushed to connected
// clients.
type RealtimeEvent string

const (
	RealtimeEventOrderStatus        RealtimeEvent = "order:status"
	RealtimeEventOrderClaimed       RealtimeEvent = "order:claimed"
	RealtimeEventRedistributeOffer  RealtimeEvent = "redistribute:offer"
	RealtimeEventRedistributeClosed RealtimeEvent = "redistribute:closed"
	RealtimeEventDriverClaimed      RealtimeEvent = "driver:order-claimed"
	RealtimeEventDriverDelivered    RealtimeEvent = "driver:order-delivered"
)

// String implements fmt.Stringer.
func (r RealtimeEvent) String() string {
	return string(r)
}
