// Package events publishes and consumes company lifecycle events over
// Kafka. Publication is fire-and-forget: a failed or slow broker never
// fails the triggering write, which has already committed to the store.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/arflisch/companyapi/internal/company/models"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	CompanyCreated EventType = "company_created"
)

// Event is the wire envelope published to the topic. The company payload
// carries the transfer-shape fields including the assigned id.
type Event struct {
	EventID    string            `json:"event_id"`
	Type       EventType         `json:"type"`
	OccurredAt time.Time         `json:"occurred_at"`
	Company    models.CompanyDTO `json:"company"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

// NewProducer ensures the topic exists (retrying the broker dial with
// exponential backoff) and starts the background send loop.
func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	err := backoff.Retry(func() error {
		conn, err := kafka.Dial("tcp", brokers[0])
		if err != nil {
			return err
		}
		defer conn.Close()

		return conn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		})
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	p := &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		events:    make(chan Event, 1000),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}

	go p.eventLoop()
	return p, nil
}

// NewProducerWithWriter builds a Producer over an existing writer and
// starts the send loop. Used when the caller owns the writer lifecycle,
// and by tests.
func NewProducerWithWriter(writer KafkaWriter, logger *zap.Logger) *Producer {
	p := &Producer{
		writer:    writer,
		events:    make(chan Event, 1000),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}

	go p.eventLoop()
	return p
}

// Produce enqueues an event without blocking the caller. When the queue
// is full the event is dropped and logged.
func (p *Producer) Produce(eventType EventType, company *models.Company) {
	event := Event{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Company:    company.ToDTO(),
	}
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.Int64("company_id", company.ID),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.Int64("company_id", event.Company.ID),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.Company.ID, 10)),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.Int64("company_id", event.Company.ID),
		)
		return
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
