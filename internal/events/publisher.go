// Package events publishes packing slip domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/packing-slip-service/internal/domain/model"
	"github.com/guttosm/packing-slip-service/internal/metrics"
	"github.com/segmentio/kafka-go"
)

const (
	// TypePackingSlipGenerated is the event type emitted after a slip is committed.
	TypePackingSlipGenerated = "packing_slip.generated"
	// Source identifies this service in event envelopes.
	Source = "packing-slip-service"
)

const specVersion = "1.0"

// Config holds Kafka producer configuration.
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	BatchTimeout time.Duration
}

// MessageWriter is the subset of *kafka.Writer used by the publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Event is the envelope of a published event.
type Event struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Source      string          `json:"source"`
	Subject     string          `json:"subject"`
	Time        time.Time       `json:"time"`
	SpecVersion string          `json:"specversion"`
	Data        json.RawMessage `json:"data"`
}

// PackingSlipGenerated is the payload of a packing_slip.generated event.
type PackingSlipGenerated struct {
	PackingSlipNo string    `json:"packing_slip_no"`
	InvoiceID     string    `json:"invoice_id"`
	InvoiceNo     string    `json:"invoice_no"`
	BoxCapacity   int64     `json:"box_capacity"`
	TotalQty      int64     `json:"total_qty"`
	TotalBoxes    int       `json:"total_boxes"`
	GeneratedAt   time.Time `json:"generated_at"`
	GeneratedBy   string    `json:"generated_by,omitempty"`
}

// KafkaPublisher writes events to a single Kafka topic.
type KafkaPublisher struct {
	writer       MessageWriter
	topic        string
	writeTimeout time.Duration
	newID        func() string
}

// NewKafkaPublisher creates a publisher backed by a synchronous kafka.Writer.
func NewKafkaPublisher(cfg Config) *KafkaPublisher {
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           batchTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return NewKafkaPublisherWithWriter(writer, cfg.Topic, cfg.WriteTimeout)
}

// NewKafkaPublisherWithWriter creates a publisher over an existing writer.
func NewKafkaPublisherWithWriter(writer MessageWriter, topic string, writeTimeout time.Duration) *KafkaPublisher {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &KafkaPublisher{
		writer:       writer,
		topic:        topic,
		writeTimeout: writeTimeout,
		newID:        uuid.NewString,
	}
}

// PublishPackingSlipGenerated publishes a packing_slip.generated event keyed by
// invoice id, so all events of an invoice land on the same partition.
func (p *KafkaPublisher) PublishPackingSlipGenerated(ctx context.Context, slip *model.PackingSlip) error {
	data, err := json.Marshal(PackingSlipGenerated{
		PackingSlipNo: slip.PackingSlipNo,
		InvoiceID:     slip.InvoiceID,
		InvoiceNo:     slip.InvoiceNo,
		BoxCapacity:   slip.BoxCapacity,
		TotalQty:      slip.TotalQty,
		TotalBoxes:    slip.TotalBoxes,
		GeneratedAt:   slip.GeneratedAt,
		GeneratedBy:   slip.GeneratedBy,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := Event{
		ID:          p.newID(),
		Type:        TypePackingSlipGenerated,
		Source:      Source,
		Subject:     slip.PackingSlipNo,
		Time:        slip.GeneratedAt,
		SpecVersion: specVersion,
		Data:        data,
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(slip.InvoiceID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "ce-specversion", Value: []byte(event.SpecVersion)},
			{Key: "ce-type", Value: []byte(event.Type)},
			{Key: "ce-source", Value: []byte(event.Source)},
			{Key: "ce-id", Value: []byte(event.ID)},
			{Key: "ce-time", Value: []byte(event.Time.Format(time.RFC3339))},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: event.Time,
	}

	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		metrics.RecordEventPublished(p.topic, "error")
		return fmt.Errorf("failed to publish event to topic %s: %w", p.topic, err)
	}

	metrics.RecordEventPublished(p.topic, "success")
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher discards events. It is used when Kafka is disabled.
type NoopPublisher struct{}

// PublishPackingSlipGenerated does nothing.
func (NoopPublisher) PublishPackingSlipGenerated(context.Context, *model.PackingSlip) error {
	return nil
}

// Close does nothing.
func (NoopPublisher) Close() error {
	return nil
}
