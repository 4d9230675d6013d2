package metrics

import "github.com/prometheus/client_golang/prometheus"

// NotifierMetrics tracks the redistribution queue and offer outcomes.
type NotifierMetrics struct {
	queueDepth prometheus.Gauge
	offers     prometheus.Counter
	claims     prometheus.Counter
	exhausted  prometheus.Counter
}

// NewNotifierMetrics registers the redistribution metrics on the provided
// registerer.
func NewNotifierMetrics(reg prometheus.Registerer) *NotifierMetrics {
	if reg == nil {
		return &NotifierMetrics{}
	}
	queueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "redistribution_queue_depth",
		Help: "Cancelled orders waiting for redistribution fan-out.",
	})
	offers := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redistribution_offers_total",
		Help: "Individual offers pushed to connected users.",
	})
	claims := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redistribution_claims_total",
		Help: "Redistribution events ended by a claim.",
	})
	exhausted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redistribution_exhausted_total",
		Help: "Redistribution events that ran out of eligible users.",
	})
	reg.MustRegister(queueDepth, offers, claims, exhausted)
	return &NotifierMetrics{
		queueDepth: queueDepth,
		offers:     offers,
		claims:     claims,
		exhausted:  exhausted,
	}
}

// SetQueueDepth records the current queue length.
func (n *NotifierMetrics) SetQueueDepth(depth int) {
	if n == nil || n.queueDepth == nil {
		return
	}
	n.queueDepth.Set(float64(depth))
}

// IncOffers counts one offer pushed to a user.
func (n *NotifierMetrics) IncOffers() {
	if n == nil || n.offers == nil {
		return
	}
	n.offers.Inc()
}

// IncClaims counts one event ended by a claim.
func (n *NotifierMetrics) IncClaims() {
	if n == nil || n.claims == nil {
		return
	}
	n.claims.Inc()
}

// IncExhausted counts one event that ran out of recipients.
func (n *NotifierMetrics) IncExhausted() {
	if n == nil || n.exhausted == nil {
		return
	}
	n.exhausted.Inc()
}
