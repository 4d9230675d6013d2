package redistribution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mealbridge/mealbridge-backend/pkg/logger"
	"github.com/mealbridge/mealbridge-backend/pkg/metrics"
)

const prefsLookupTimeout = 5 * time.Second

// PrefsLookup loads targeting preferences for a batch of users.
type PrefsLookup interface {
	PreferencesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]UserPrefs, error)
}

// Registry lists currently connected users in connection order.
type Registry interface {
	ConnectedUsers() []uuid.UUID
}

// Sink delivers offers to individual users.
type Sink interface {
	SendOffer(userID uuid.UUID, event Event)
	CloseOffer(userID uuid.UUID, orderID uuid.UUID)
}

// Notifier fans cancelled orders out to connected users, one recipient at a
// time. Events queue FIFO and a single goroutine drains the queue; each
// recipient gets the offer window to react before the rotation moves on, and
// a claim ends the current event early.
type Notifier struct {
	prefs    PrefsLookup
	registry Registry
	sink     Sink
	window   time.Duration
	metrics  *metrics.NotifierMetrics
	logg     *logger.Logger

	mu            sync.Mutex
	queue         []Event
	processing    bool
	currentOrder  uuid.UUID
	cancelCurrent context.CancelFunc
}

// NewNotifier wires the redistribution notifier.
func NewNotifier(
	prefs PrefsLookup,
	registry Registry,
	sink Sink,
	window time.Duration,
	m *metrics.NotifierMetrics,
	logg *logger.Logger,
) (*Notifier, error) {
	if prefs == nil {
		return nil, fmt.Errorf("prefs lookup is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if window <= 0 {
		window = 5 * time.Second
	}
	return &Notifier{
		prefs:    prefs,
		registry: registry,
		sink:     sink,
		window:   window,
		metrics:  m,
		logg:     logg,
	}, nil
}

// Enqueue adds the event to the queue and starts the drain goroutine when
// one is not already running.
func (n *Notifier) Enqueue(ctx context.Context, event Event) {
	n.mu.Lock()
	n.queue = append(n.queue, event)
	n.metrics.SetQueueDepth(len(n.queue))
	start := !n.processing
	if start {
		n.processing = true
	}
	n.mu.Unlock()

	n.logg.Info(n.logg.WithOrderID(ctx, event.OrderID.String()), "redistribution event queued")
	if start {
		go n.run()
	}
}

// MarkClaimed ends the event for the given order: a queued event is dropped,
// the in-flight one is cancelled. Events for other orders are untouched.
func (n *Notifier) MarkClaimed(orderID uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()

	kept := n.queue[:0]
	for _, event := range n.queue {
		if event.OrderID != orderID {
			kept = append(kept, event)
		}
	}
	n.queue = kept
	n.metrics.SetQueueDepth(len(n.queue))

	if n.currentOrder == orderID && n.cancelCurrent != nil {
		n.cancelCurrent()
	}
}

func (n *Notifier) run() {
	for {
		n.mu.Lock()
		if len(n.queue) == 0 {
			n.processing = false
			n.mu.Unlock()
			return
		}
		event := n.queue[0]
		n.queue = n.queue[1:]
		n.metrics.SetQueueDepth(len(n.queue))

		ctx, cancel := context.WithCancel(context.Background())
		n.currentOrder = event.OrderID
		n.cancelCurrent = cancel
		n.mu.Unlock()

		n.offer(ctx, event)

		n.mu.Lock()
		n.currentOrder = uuid.Nil
		n.cancelCurrent = nil
		n.mu.Unlock()
		cancel()
	}
}

func (n *Notifier) offer(ctx context.Context, event Event) {
	recipients := n.recipients(ctx, event)
	if len(recipients) == 0 {
		n.metrics.IncExhausted()
		n.logg.Info(n.logg.WithOrderID(context.Background(), event.OrderID.String()),
			"no eligible users connected, redistribution offer dropped")
		return
	}

	for _, userID := range recipients {
		n.sink.SendOffer(userID, event)
		n.metrics.IncOffers()

		timer := time.NewTimer(n.window)
		select {
		case <-ctx.Done():
			timer.Stop()
			n.sink.CloseOffer(userID, event.OrderID)
			n.metrics.IncClaims()
			return
		case <-timer.C:
			n.sink.CloseOffer(userID, event.OrderID)
		}
	}
	n.metrics.IncExhausted()
}

func (n *Notifier) recipients(ctx context.Context, event Event) []uuid.UUID {
	connected := n.registry.ConnectedUsers()
	if len(connected) == 0 {
		return nil
	}

	lookupCtx, cancel := context.WithTimeout(context.Background(), prefsLookupTimeout)
	defer cancel()

	prefs, err := n.prefs.PreferencesByIDs(lookupCtx, connected)
	if err != nil {
		// Missing preferences widen the audience rather than block the offer.
		n.logg.Warn(n.logg.WithOrderID(ctx, event.OrderID.String()),
			"preference lookup failed, offering to all connected users")
		prefs = nil
	}
	return EligibleRecipients(event, connected, prefs)
}
