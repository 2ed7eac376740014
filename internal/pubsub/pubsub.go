// Package pubsub is the in-process event bus. Modules publish domain events
// on named topics and subscribers react to them asynchronously.
package pubsub

import (
	"context"
)

// Message is the structure passed between components on the bus.
type Message struct {
	// Topic identifies the channel the message belongs to (e.g. "species.created").
	Topic string
	// UserID identifies the user whose action produced the message.
	UserID string
	// Payload is the JSON encoded event body.
	Payload []byte
	// Metadata carries extra context such as the request ID.
	Metadata map[string]string
}

// Handler processes a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher sends messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Subscriber receives messages from the bus. Subscribe returns once the
// subscription is active; messages are handled on a background goroutine
// until ctx is cancelled or the bus is closed.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler Handler) error
}

// Bus is both ends of the event bus.
type Bus interface {
	Publisher
	Subscriber
	Close() error
}
