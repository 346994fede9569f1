package bus

import "time"

// EventBus is a synchronous in-process pub/sub bus.
//
// - Type-based fan-out: handlers subscribe by Event.Type().
// - Synchronous delivery: Publish runs every handler in the caller goroutine,
//   in subscription order, before returning.
// - Error aggregation: handler errors are joined and returned from Publish.
// - Metrics are collected only while at least one observer is registered.
//
// The simulation publishes from inside a tick, so handlers must not block.
type EventBus interface {
	// Publish delivers the event to all active subscribers of event.Type().
	Publish(event Event) error
	// PublishBatch publishes events in order and joins their errors.
	PublishBatch(events ...Event) error
	// Subscribe registers a handler for one event type.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// SubscribeAll registers a handler receiving every event type.
	SubscribeAll(handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. Nil is ignored.
	Unsubscribe(Subscription) error

	AddObserver(obs EventBusObserver)
	RemoveObserver(obs EventBusObserver)
	// GetMetrics returns a snapshot of the counters gathered while observed.
	GetMetrics() EventBusMetrics
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	// EventHandler is invoked per delivered event.
	EventHandler func(event Event) error
)

// Subscription represents a registered handler.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// EventBusObserver is notified about deliveries. Observers should return quickly.
type EventBusObserver interface {
	OnPublish(eventType string, event Event)
	OnDelivered(eventType string, handlers int, err error, durationMicros int64)
}

type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
