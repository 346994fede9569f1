package bus

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// wildcard is the routing key used by SubscribeAll.
const wildcard = "*"

type simpleEvent struct {
	typeStr string
	source  string
	ts      time.Time
	data    any
}

func (e simpleEvent) Type() string         { return e.typeStr }
func (e simpleEvent) Source() string       { return e.source }
func (e simpleEvent) Timestamp() time.Time { return e.ts }
func (e simpleEvent) Data() any            { return e.data }

// NewEvent creates a simple Event implementation.
func NewEvent(typ, src string, data any) Event {
	return simpleEvent{typeStr: typ, source: src, ts: time.Now(), data: data}
}

type subscription struct {
	id        string
	eventType string
	handler   EventHandler
	active    bool
	cancel    func()
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) EventType() string { return s.eventType }
func (s *subscription) IsActive() bool    { return s.active }
func (s *subscription) Cancel() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.active = false
	return nil
}

// inMemoryBus keeps subscriptions in registration order per event type so
// delivery is deterministic from tick to tick.
type inMemoryBus struct {
	mu        sync.RWMutex
	handlers  map[string][]*subscription
	metrics   EventBusMetrics
	observers map[EventBusObserver]struct{}
}

// New creates a new EventBus instance.
func New() EventBus {
	return &inMemoryBus{
		handlers:  make(map[string][]*subscription),
		observers: make(map[EventBusObserver]struct{}),
	}
}

func (b *inMemoryBus) Publish(event Event) error {
	if event == nil {
		return nil
	}
	return b.deliver(event)
}

func (b *inMemoryBus) PublishBatch(events ...Event) error {
	var all error
	for _, e := range events {
		if err := b.Publish(e); err != nil {
			all = errors.Join(all, err)
		}
	}
	return all
}

func (b *inMemoryBus) Subscribe(eventType string, handler EventHandler) (Subscription, error) {
	if eventType == "" {
		return nil, ErrEmptyEventType
	}
	if handler == nil {
		return nil, ErrNilHandler
	}
	return b.subscribe(eventType, handler), nil
}

func (b *inMemoryBus) SubscribeAll(handler EventHandler) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	return b.subscribe(wildcard, handler), nil
}

func (b *inMemoryBus) subscribe(eventType string, handler EventHandler) *subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &subscription{id: uuid.NewString(), eventType: eventType, handler: handler, active: true}
	s.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[eventType]
		for i, cur := range subs {
			if cur == s {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		s.active = false
	}
	b.handlers[eventType] = append(b.handlers[eventType], s)
	return s
}

func (b *inMemoryBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *inMemoryBus) AddObserver(obs EventBusObserver) {
	b.mu.Lock()
	b.observers[obs] = struct{}{}
	b.mu.Unlock()
}

func (b *inMemoryBus) RemoveObserver(obs EventBusObserver) {
	b.mu.Lock()
	delete(b.observers, obs)
	b.mu.Unlock()
}

func (b *inMemoryBus) GetMetrics() EventBusMetrics {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.metrics
}

func (b *inMemoryBus) deliver(event Event) error {
	start := time.Now()
	etype := event.Type()

	b.mu.RLock()
	subs := make([]*subscription, 0, len(b.handlers[etype])+len(b.handlers[wildcard]))
	subs = append(subs, b.handlers[etype]...)
	subs = append(subs, b.handlers[wildcard]...)
	observers := make([]EventBusObserver, 0, len(b.observers))
	for obs := range b.observers {
		observers = append(observers, obs)
	}
	b.mu.RUnlock()

	for _, obs := range observers {
		obs.OnPublish(etype, event)
	}

	var all error
	delivered := 0
	for _, s := range subs {
		if !s.active {
			continue
		}
		delivered++
		if err := s.handler(event); err != nil {
			all = errors.Join(all, err)
		}
	}

	if len(observers) > 0 {
		dur := time.Since(start).Microseconds()
		for _, obs := range observers {
			obs.OnDelivered(etype, delivered, all, dur)
		}
		b.mu.Lock()
		b.metrics.Published++
		b.metrics.DeliveredHandlers += uint64(delivered)
		if all != nil {
			b.metrics.Errors++
		}
		var active uint64
		for _, list := range b.handlers {
			active += uint64(len(list))
		}
		b.metrics.SubscribersActive = active
		b.mu.Unlock()
	}
	return all
}
