package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
)

// Event names a topic and fixes its payload type.
type Event[T any] struct {
	name string
}

// NewEvent declares a typed event on topic name.
func NewEvent[T any](name string) Event[T] {
	return Event[T]{name: name}
}

// Name returns the topic name.
func (e Event[T]) Name() string {
	return e.name
}

// Publish sends payload as a typed event. The compiler ensures payload
// matches the event's type.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], userID string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.name, err)
	}
	return p.Publish(ctx, Message{Topic: event.name, UserID: userID, Payload: data})
}

// Decode unmarshals a message received on event's topic.
func (e Event[T]) Decode(msg Message) (T, error) {
	var out T
	if msg.Topic != "" && msg.Topic != e.name {
		return out, fmt.Errorf("decode %s: message is for topic %s", e.name, msg.Topic)
	}
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", e.name, err)
	}
	return out, nil
}

// Subscribe registers a handler that receives decoded payloads.
func Subscribe[T any](ctx context.Context, s Subscriber, event Event[T], handle func(ctx context.Context, msg Message, payload T) error) error {
	return s.Subscribe(ctx, event.name, func(ctx context.Context, msg Message) error {
		payload, err := event.Decode(msg)
		if err != nil {
			return err
		}
		return handle(ctx, msg, payload)
	})
}
