package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	// Metadata keys used to carry Message fields through watermill.
	metaKeyUserID = "user_id"
	metaKeyTopic  = "topic"
)

// WatermillBridge implements Bus on watermill's GoChannel.
type WatermillBridge struct {
	pub    message.Publisher
	sub    message.Subscriber
	tracer trace.Tracer
	wg     sync.WaitGroup
}

var _ Bus = (*WatermillBridge)(nil)

// NewWatermillBridge creates an in-memory bus. A nil tracer disables tracing.
func NewWatermillBridge(tracer trace.Tracer) *WatermillBridge {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(tracerName)
	}
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	return &WatermillBridge{pub: goChannel, sub: goChannel, tracer: tracer}
}

// toWatermill converts a Message to a watermill message.
func toWatermill(msg Message) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)
	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}
	wmMsg.Metadata.Set(metaKeyUserID, msg.UserID)
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)
	return wmMsg
}

// fromWatermill converts a watermill message back to a Message.
func fromWatermill(wmMsg *message.Message) Message {
	metadata := make(map[string]string, len(wmMsg.Metadata))
	for k, v := range wmMsg.Metadata {
		if k != metaKeyTopic && k != metaKeyUserID {
			metadata[k] = v
		}
	}
	return Message{
		Topic:    wmMsg.Metadata.Get(metaKeyTopic),
		UserID:   wmMsg.Metadata.Get(metaKeyUserID),
		Payload:  wmMsg.Payload,
		Metadata: metadata,
	}
}

func spanAttributes(operation, topic string, wmMsg *message.Message) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.String("messaging.system", "watermill"),
		attribute.String("messaging.operation", operation),
		attribute.String("messaging.destination", topic),
		attribute.String("messaging.message_id", wmMsg.UUID),
		attribute.String("user.id", wmMsg.Metadata.Get(metaKeyUserID)),
		attribute.Int("messaging.message_payload_size_bytes", len(wmMsg.Payload)),
	)
}

// Publish implements Publisher.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	if msg.Topic == "" {
		return fmt.Errorf("publish: topic is required")
	}
	wmMsg := toWatermill(msg)

	spanCtx, span := wb.tracer.Start(ctx, "pubsub.publish."+msg.Topic, spanAttributes("publish", msg.Topic, wmMsg))
	defer span.End()
	wmMsg.SetContext(spanCtx)

	if err := wb.pub.Publish(msg.Topic, wmMsg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("publish %s: %w", msg.Topic, err)
	}
	return nil
}

// Subscribe implements Subscriber.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.sub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}

	wb.wg.Add(1)
	go func() {
		defer wb.wg.Done()
		for wmMsg := range messages {
			wb.process(ctx, topic, wmMsg, handler)
		}
		slog.Debug("Subscription message loop ended", "topic", topic)
	}()
	return nil
}

func (wb *WatermillBridge) process(ctx context.Context, topic string, wmMsg *message.Message, handler Handler) {
	spanCtx, span := wb.tracer.Start(ctx, "pubsub.process."+topic, spanAttributes("process", topic, wmMsg))
	defer span.End()

	if err := handler(spanCtx, fromWatermill(wmMsg)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "Failed to handle message", "topic", topic, "msg_id", wmMsg.UUID, "error", err)
	}
	// GoChannel redelivers nacked messages immediately, so failures are
	// acked after logging.
	wmMsg.Ack()
}

// Close stops the bus and waits for subscriber loops to drain.
func (wb *WatermillBridge) Close() error {
	err := wb.sub.Close()
	wb.wg.Wait()
	return err
}
