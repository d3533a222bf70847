// Package ports define the EventBus interface for event-driven communication.
// The event bus decouples the playback and visualization services from the presenter.
package ports

import (
	"github.com/tejashwikalptaru/wavescope/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
//
// Publishers (services) do not know about subscribers (presenter, logging).
// Multiple subscribers can listen to the same event.
//
// Thread-safety: Implementations must be thread-safe as events may be published and
// subscribed from multiple goroutines simultaneously.
//
// Example usage:
//
//	// In a service
//	bus.Publish(domain.NewPlaybackStartedEvent(file))
//
//	// In the presenter
//	subID := bus.Subscribe(domain.EventPlaybackStarted, func(event domain.Event) {
//	    view.SetPlayState(true)
//	})
//	bus.Unsubscribe(subID)
type EventBus interface {
	// Publish delivers an event to all subscribers of that event type.
	// Handlers should return quickly; Publish is called from the service goroutine.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type.
	// Returns a SubscriptionID that can be used to unsubscribe later.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered event handler.
	// If the subscription ID is invalid or already unsubscribed, this is a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives all events regardless of type.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers returns true if anyone listens for the given event type.
	HasSubscribers(eventType domain.EventType) bool

	// Close shuts down the event bus and drops all subscriptions.
	Close() error
}
