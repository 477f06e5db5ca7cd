package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/flyout/internal/event/topic"
)

// Handler processes an event. The event is type-erased; handlers type-assert
// it to the Event[T] they expect.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// Subscription identifies a registered handler.
type Subscription struct {
	id      string
	pattern topic.Topic
}

// ID returns the subscription's unique identifier.
func (s Subscription) ID() string {
	return s.id
}

// Pattern returns the topic pattern the subscription matches.
func (s Subscription) Pattern() topic.Topic {
	return s.pattern
}

type subscriber struct {
	sub     Subscription
	handler Handler
}

// Stats holds bus counters.
type Stats struct {
	EventsPublished   uint64
	EventsDelivered   uint64
	HandlerErrors     uint64
	HandlerPanics     uint64
	ActiveSubscribers int
}

// ErrorHandler observes handler errors and recovered panics.
type ErrorHandler func(sub Subscription, event any, err error)

// Bus delivers events synchronously, in subscription order, on the
// publisher's goroutine. It is safe for concurrent use.
type Bus struct {
	mu   sync.RWMutex
	subs []subscriber

	onError ErrorHandler

	published atomic.Uint64
	delivered atomic.Uint64
	errors    atomic.Uint64
	panics    atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithErrorHandler sets a callback for handler errors and panics.
func WithErrorHandler(h ErrorHandler) BusOption {
	return func(b *Bus) {
		b.onError = h
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for every topic matching pattern.
func (b *Bus) Subscribe(pattern topic.Topic, handler Handler) (Subscription, error) {
	if handler == nil {
		return Subscription{}, ErrNilHandler
	}
	if !pattern.IsValid() {
		return Subscription{}, ErrInvalidTopic
	}

	sub := Subscription{id: uuid.NewString(), pattern: pattern}

	b.mu.Lock()
	b.subs = append(b.subs, subscriber{sub: sub, handler: handler})
	b.mu.Unlock()

	return sub, nil
}

// SubscribeFunc is Subscribe for a function handler.
func (b *Bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc) (Subscription, error) {
	return b.Subscribe(pattern, fn)
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub Subscription) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.sub.id == sub.id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers event to every matching handler and returns when all of
// them have run. Handler errors and panics are counted and reported to the
// error handler; they do not stop delivery to later subscribers.
func (b *Bus) Publish(ctx context.Context, event any) error {
	tp, ok := event.(TopicProvider)
	if !ok || tp.EventTopic() == "" {
		return ErrInvalidEvent
	}
	eventTopic := tp.EventTopic()

	b.mu.RLock()
	var matched []subscriber
	for _, s := range b.subs {
		if eventTopic.Matches(s.sub.pattern) {
			matched = append(matched, s)
		}
	}
	b.mu.RUnlock()

	b.published.Add(1)

	for _, s := range matched {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.deliver(ctx, s, eventTopic, event); err != nil {
			b.errors.Add(1)
			if b.onError != nil {
				b.onError(s.sub, event, err)
			}
			continue
		}
		b.delivered.Add(1)
	}
	return nil
}

// deliver runs one handler with panic recovery.
func (b *Bus) deliver(ctx context.Context, s subscriber, eventTopic topic.Topic, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			err = &PanicError{SubscriptionID: s.sub.id, Topic: eventTopic.String(), Value: r}
		}
	}()
	return s.handler.Handle(ctx, event)
}

// Stats returns current bus counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := len(b.subs)
	b.mu.RUnlock()

	return Stats{
		EventsPublished:   b.published.Load(),
		EventsDelivered:   b.delivered.Load(),
		HandlerErrors:     b.errors.Load(),
		HandlerPanics:     b.panics.Load(),
		ActiveSubscribers: active,
	}
}
