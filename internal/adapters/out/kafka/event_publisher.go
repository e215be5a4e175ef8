// Package kafka publishes order lifecycle events to a Kafka topic.
//
// Every event becomes one message keyed by the order code, so all events of
// an order land on the same partition and keep their order. The event kind
// and id travel as headers next to the propagated trace context, letting
// consumers route without decoding the payload.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"fulfillment/internal/core/domain/model/order"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
)

const (
	headerEventKind = "event-kind"
	headerEventID   = "event-id"
)

// MessageWriter is the part of *kafkago.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type EventPublisher struct {
	writer MessageWriter
}

func NewEventPublisher(writer MessageWriter) *EventPublisher {
	return &EventPublisher{writer: writer}
}

// NewWriter builds an asynchronous writer for topic that hashes message keys
// onto partitions. WriteMessages only enqueues; delivery failures surface in
// the completion callback, which logs them.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		Completion:   completionLogger(logger.With("component", "kafka_writer", "topic", topic)),
	}
}

func completionLogger(logger *slog.Logger) func([]kafkago.Message, error) {
	return func(msgs []kafkago.Message, err error) {
		if err == nil {
			return
		}
		keys := make([]string, 0, len(msgs))
		for _, m := range msgs {
			keys = append(keys, string(m.Key))
		}
		logger.Error("deliver order events failed",
			"messages", len(msgs),
			"keys", keys,
			"error", err,
		)
	}
}

// Publish writes all events in one batch.
func (p *EventPublisher) Publish(ctx context.Context, events []order.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, 0, len(events))
	for _, e := range events {
		msg, err := buildMessage(ctx, e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d order events: %w", len(msgs), err)
	}
	return nil
}

func (p *EventPublisher) Close() error {
	return p.writer.Close()
}

type eventPayload struct {
	ID         string            `json:"id"`
	Kind       string            `json:"kind"`
	OrderID    int64             `json:"order_id"`
	OrderCode  string            `json:"order_code"`
	State      string            `json:"state"`
	Template   string            `json:"template,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func buildMessage(ctx context.Context, e order.Event) (kafkago.Message, error) {
	value, err := json.Marshal(eventPayload{
		ID:         e.ID.String(),
		Kind:       string(e.Kind),
		OrderID:    e.OrderID,
		OrderCode:  e.OrderCode,
		State:      e.State.String(),
		Template:   e.Template,
		Data:       e.Data,
		OccurredAt: e.OccurredAt.UTC(),
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("marshal %s event: %w", e.Kind, err)
	}

	key := e.OrderCode
	if key == "" {
		key = strconv.FormatInt(e.OrderID, 10)
	}

	msg := kafkago.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafkago.Header{
			{Key: headerEventKind, Value: []byte(e.Kind)},
			{Key: headerEventID, Value: []byte(e.ID.String())},
		},
		Time: e.OccurredAt,
	}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{msg: &msg})
	return msg, nil
}

// headerCarrier adapts message headers to the otel propagation API.
type headerCarrier struct {
	msg *kafkago.Message
}

func (c headerCarrier) Get(key string) string {
	for _, h := range c.msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	for i, h := range c.msg.Headers {
		if h.Key == key {
			c.msg.Headers[i].Value = []byte(value)
			return
		}
	}
	c.msg.Headers = append(c.msg.Headers, kafkago.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.msg.Headers))
	for _, h := range c.msg.Headers {
		keys = append(keys, h.Key)
	}
	return keys
}
