// Package event provides a small synchronous publish/subscribe bus.
//
// Events are typed values with a hierarchical topic (see package topic) and
// standard metadata. Subscribers register a pattern, which may contain "*"
// and "**" wildcards, and receive every published event whose topic matches.
package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/flyout/internal/event/topic"
)

// Event is an immutable event with a typed payload.
type Event[T any] struct {
	// Type is the hierarchical event type (e.g., "menu.row.activate").
	Type topic.Topic

	// Payload contains the event-specific data.
	Payload T

	// Metadata contains standard event information.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID uniquely identifies this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string
}

// NewEvent creates an event with a fresh ID and the current time.
func NewEvent[T any](eventType topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    eventType,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// EventTopic returns the event's topic for type-erased handling.
func (e Event[T]) EventTopic() topic.Topic {
	return e.Type
}

// EventMetadata returns the event's metadata for type-erased handling.
func (e Event[T]) EventMetadata() Metadata {
	return e.Metadata
}

// TopicProvider is implemented by every Event.
type TopicProvider interface {
	EventTopic() topic.Topic
}

// MetadataProvider is implemented by every Event.
type MetadataProvider interface {
	EventMetadata() Metadata
}
