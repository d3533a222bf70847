// Package domain defines events for the event-driven architecture.
// Events let the presenter follow service state without direct callbacks.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// File intake events
	EventFileLoaded   EventType = "file.loaded"
	EventFileRejected EventType = "file.rejected"

	// Playback events
	EventPlaybackStarted EventType = "playback.started"
	EventPlaybackPaused  EventType = "playback.paused"

	// Analysis session events
	EventSessionCreated  EventType = "session.created"
	EventSessionReleased EventType = "session.released"

	// Visualization events
	EventModeChanged EventType = "mode.changed"
	EventTeardown    EventType = "visualizer.teardown"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// FileLoadedEvent is published after a file replaced the previous source.
type FileLoadedEvent struct {
	baseEvent
	File  AudioFile
	Track TrackInfo
}

// Type returns the event type.
func (e FileLoadedEvent) Type() EventType {
	return EventFileLoaded
}

// NewFileLoadedEvent creates a new FileLoadedEvent.
func NewFileLoadedEvent(file AudioFile, track TrackInfo) FileLoadedEvent {
	return FileLoadedEvent{
		baseEvent: newBaseEvent(),
		File:      file,
		Track:     track,
	}
}

// FileRejectedEvent is published when a file cannot be loaded.
type FileRejectedEvent struct {
	baseEvent
	File   AudioFile
	Reason error
}

// Type returns the event type.
func (e FileRejectedEvent) Type() EventType {
	return EventFileRejected
}

// NewFileRejectedEvent creates a new FileRejectedEvent.
func NewFileRejectedEvent(file AudioFile, reason error) FileRejectedEvent {
	return FileRejectedEvent{
		baseEvent: newBaseEvent(),
		File:      file,
		Reason:    reason,
	}
}

// PlaybackStartedEvent is published when playback enters the playing state.
type PlaybackStartedEvent struct {
	baseEvent
	File AudioFile
}

// Type returns the event type.
func (e PlaybackStartedEvent) Type() EventType {
	return EventPlaybackStarted
}

// NewPlaybackStartedEvent creates a new PlaybackStartedEvent.
func NewPlaybackStartedEvent(file AudioFile) PlaybackStartedEvent {
	return PlaybackStartedEvent{
		baseEvent: newBaseEvent(),
		File:      file,
	}
}

// PlaybackPausedEvent is published when playback leaves the playing state.
type PlaybackPausedEvent struct {
	baseEvent
	File AudioFile
}

// Type returns the event type.
func (e PlaybackPausedEvent) Type() EventType {
	return EventPlaybackPaused
}

// NewPlaybackPausedEvent creates a new PlaybackPausedEvent.
func NewPlaybackPausedEvent(file AudioFile) PlaybackPausedEvent {
	return PlaybackPausedEvent{
		baseEvent: newBaseEvent(),
		File:      file,
	}
}

// SessionCreatedEvent is published when an analyser is bound to the loaded source.
type SessionCreatedEvent struct {
	baseEvent
	FFTSize  int
	BinCount int
}

// Type returns the event type.
func (e SessionCreatedEvent) Type() EventType {
	return EventSessionCreated
}

// NewSessionCreatedEvent creates a new SessionCreatedEvent.
func NewSessionCreatedEvent(fftSize, binCount int) SessionCreatedEvent {
	return SessionCreatedEvent{
		baseEvent: newBaseEvent(),
		FFTSize:   fftSize,
		BinCount:  binCount,
	}
}

// SessionReleasedEvent is published when the analysis session is destroyed.
type SessionReleasedEvent struct {
	baseEvent
}

// Type returns the event type.
func (e SessionReleasedEvent) Type() EventType {
	return EventSessionReleased
}

// NewSessionReleasedEvent creates a new SessionReleasedEvent.
func NewSessionReleasedEvent() SessionReleasedEvent {
	return SessionReleasedEvent{baseEvent: newBaseEvent()}
}

// ModeChangedEvent is published when the selected visualization mode changes.
type ModeChangedEvent struct {
	baseEvent
	Previous VisualizationMode
	Mode     VisualizationMode
}

// Type returns the event type.
func (e ModeChangedEvent) Type() EventType {
	return EventModeChanged
}

// NewModeChangedEvent creates a new ModeChangedEvent.
func NewModeChangedEvent(previous, mode VisualizationMode) ModeChangedEvent {
	return ModeChangedEvent{
		baseEvent: newBaseEvent(),
		Previous:  previous,
		Mode:      mode,
	}
}

// TeardownEvent is published once the visualizer released every resource.
type TeardownEvent struct {
	baseEvent
}

// Type returns the event type.
func (e TeardownEvent) Type() EventType {
	return EventTeardown
}

// NewTeardownEvent creates a new TeardownEvent.
func NewTeardownEvent() TeardownEvent {
	return TeardownEvent{baseEvent: newBaseEvent()}
}
