// Package eventbus provides the synchronous EventBus used between services and the presenter.
package eventbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/wavescope/internal/domain"
	"github.com/tejashwikalptaru/wavescope/internal/ports"
)

// SyncEventBus delivers events synchronously, on the publisher's goroutine,
// in subscription order. Type-specific handlers run before wildcard handlers.
//
// Thread-safety: Publish, Subscribe and Unsubscribe may be called concurrently.
// Handlers may themselves publish or (un)subscribe; delivery works on a copy
// of the subscriber list taken when Publish was called.
type SyncEventBus struct {
	logger *slog.Logger

	mu       sync.RWMutex
	byType   map[domain.EventType][]subscription
	wildcard []subscription
	nextID   uint64
	closed   bool
}

type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
}

// NewSyncEventBus creates a new synchronous event bus.
// A nil logger disables panic and debug logging.
func NewSyncEventBus(logger *slog.Logger) *SyncEventBus {
	return &SyncEventBus{
		logger: logger,
		byType: make(map[domain.EventType][]subscription),
	}
}

// Publish delivers event to its subscribers. Publishing on a closed bus is a no-op.
// A panicking handler is logged and does not stop delivery to the others.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	typed := append([]subscription(nil), bus.byType[event.Type()]...)
	wildcard := append([]subscription(nil), bus.wildcard...)
	bus.mu.RUnlock()

	if bus.logger != nil {
		bus.logger.Debug("event published",
			slog.String("event_type", string(event.Type())),
			slog.Int("handlers", len(typed)+len(wildcard)))
	}

	for _, sub := range typed {
		bus.deliver(sub, event)
	}
	for _, sub := range wildcard {
		bus.deliver(sub, event)
	}
}

func (bus *SyncEventBus) deliver(sub subscription, event domain.Event) {
	defer func() {
		if r := recover(); r != nil && bus.logger != nil {
			bus.logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("subscription", string(sub.id)),
				slog.String("event_type", string(event.Type())))
		}
	}()
	sub.handler(event)
}

// Subscribe registers a handler for events of one type.
// It panics on a nil handler or a closed bus, both programming errors.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(handler, func(sub subscription) {
		bus.byType[eventType] = append(bus.byType[eventType], sub)
	}, "sub")
}

// SubscribeAll registers a handler that receives every event.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(handler, func(sub subscription) {
		bus.wildcard = append(bus.wildcard, sub)
	}, "sub-all")
}

func (bus *SyncEventBus) add(handler domain.EventHandler, insert func(subscription), prefix string) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		panic("cannot subscribe to closed event bus")
	}

	bus.nextID++
	sub := subscription{
		id:      domain.SubscriptionID(fmt.Sprintf("%s-%d", prefix, bus.nextID)),
		handler: handler,
	}
	insert(sub)
	return sub.id
}

// Unsubscribe removes a subscription, preserving the order of the others.
// Unknown IDs are ignored.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for eventType, subs := range bus.byType {
		if i := indexOf(subs, id); i >= 0 {
			bus.byType[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
	if i := indexOf(bus.wildcard, id); i >= 0 {
		bus.wildcard = append(bus.wildcard[:i:i], bus.wildcard[i+1:]...)
	}
}

func indexOf(subs []subscription, id domain.SubscriptionID) int {
	for i, sub := range subs {
		if sub.id == id {
			return i
		}
	}
	return -1
}

// HasSubscribers reports whether an event of the given type would reach anyone.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.byType[eventType]) > 0 || len(bus.wildcard) > 0
}

// Close drops every subscription. Closing twice returns domain.ErrClosed.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return fmt.Errorf("event bus: %w", domain.ErrClosed)
	}
	bus.closed = true
	bus.byType = make(map[domain.EventType][]subscription)
	bus.wildcard = nil
	return nil
}

// SubscriberCount returns the number of active subscriptions.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	count := len(bus.wildcard)
	for _, subs := range bus.byType {
		count += len(subs)
	}
	return count
}

var _ ports.EventBus = (*SyncEventBus)(nil)
