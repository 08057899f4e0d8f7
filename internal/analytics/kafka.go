package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/inkwell-letters/fulfillment/internal/events"
)

var _ Sink = (*KafkaSink)(nil)

// envelope is the wire shape written to the analytics topic.
type envelope struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// KafkaSink forwards workflow events to a Kafka topic. Writes go through a
// buffered inbox drained by one goroutine so a slow broker never blocks the
// event bus; a full inbox drops the event and logs it.
type KafkaSink struct {
	writer *kafka.Writer
	inbox  chan kafka.Message
	closed chan struct{}
	logger *slog.Logger
}

func NewKafkaSink(brokers []string, topic string, buffer int, logger *slog.Logger) *KafkaSink {
	if logger == nil {
		logger = slog.Default()
	}
	if buffer <= 0 {
		buffer = 256
	}
	sink := &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		inbox:  make(chan kafka.Message, buffer),
		closed: make(chan struct{}),
		logger: logger,
	}
	go sink.drain()
	return sink
}

func (s *KafkaSink) Record(_ context.Context, evt events.Event) {
	value, err := json.Marshal(envelope{
		ID:         evt.ID,
		Name:       evt.Name,
		OccurredAt: evt.OccurredAt,
		Payload:    evt.Payload,
	})
	if err != nil {
		s.logger.Warn("analytics event marshal failed", slog.String("event", evt.Name), slog.String("error", err.Error()))
		return
	}
	message := kafka.Message{
		Key:   keyFor(evt),
		Value: value,
		Time:  evt.OccurredAt,
	}
	select {
	case s.inbox <- message:
	default:
		s.logger.Warn("analytics inbox full, event dropped", slog.String("event", evt.Name))
	}
}

// Close flushes buffered events and releases the writer. Record must not be
// called after Close.
func (s *KafkaSink) Close() {
	close(s.inbox)
	<-s.closed
}

func (s *KafkaSink) drain() {
	defer close(s.closed)
	for message := range s.inbox {
		if err := s.writer.WriteMessages(context.Background(), message); err != nil {
			s.logger.Warn("analytics write failed", slog.String("error", err.Error()))
		}
	}
	_ = s.writer.Close()
}

// keyFor partitions by order so one order's funnel stays in sequence.
func keyFor(evt events.Event) []byte {
	if payload, ok := evt.Payload.(events.OrderPayload); ok && payload.OrderID != "" {
		return []byte(payload.OrderID)
	}
	if payload, ok := evt.Payload.(events.StockPayload); ok && payload.SKU != "" {
		return []byte(payload.SKU)
	}
	return []byte(evt.ID)
}
