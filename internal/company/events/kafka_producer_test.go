package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/arflisch/companyapi/internal/company/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing.
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestNewProducerWithWriter(t *testing.T) {
	logger := zaptest.NewLogger(t)
	producer := NewProducerWithWriter(&MockKafkaWriter{}, logger)

	assert.NotNil(t, producer.writer)
	assert.NotNil(t, producer.events)
	assert.NotNil(t, producer.closeChan)
	assert.Equal(t, "kafka_producer", producer.logger.Check(zap.InfoLevel, "").LoggerName)
}

func TestProducer_Produce(t *testing.T) {
	t.Run("envelope carries transfer-shape fields", func(t *testing.T) {
		producer := &Producer{
			events: make(chan Event, 10),
			logger: zaptest.NewLogger(t),
		}
		company := &models.Company{ID: 42, Name: "Acme", Vat: "BE123"}

		producer.Produce(CompanyCreated, company)

		require.Equal(t, 1, len(producer.events))
		event := <-producer.events
		assert.NotEmpty(t, event.EventID)
		assert.Equal(t, CompanyCreated, event.Type)
		assert.False(t, event.OccurredAt.IsZero())
		assert.Equal(t, models.CompanyDTO{ID: 42, Name: "Acme", Vat: "BE123"}, event.Company)
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		producer := &Producer{
			events: make(chan Event, 1),
			logger: zap.New(core),
		}
		company := &models.Company{ID: 1, Name: "Acme", Vat: "BE123"}

		// Fill the channel
		producer.Produce(CompanyCreated, company)
		producer.Produce(CompanyCreated, company) // This should be dropped

		assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
	})
}

func TestProducer_SendEvent(t *testing.T) {
	company := &models.Company{ID: 7, Name: "Test Company", Vat: "BE123"}
	event := Event{
		EventID:    "event-1",
		Type:       CompanyCreated,
		OccurredAt: time.Now().UTC(),
		Company:    company.ToDTO(),
	}

	t.Run("successful send", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
		producer := &Producer{
			writer: mockWriter,
			logger: zaptest.NewLogger(t),
		}

		producer.sendEvent(context.Background(), event)

		value, err := json.Marshal(event)
		require.NoError(t, err)
		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, []kafka.Message{
			{
				Key:   []byte("7"),
				Value: value,
			},
		})
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer := &Producer{logger: zap.New(core)}

		// Force a marshal failure
		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.Int64("company_id", 7)).Len())
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))
		producer := &Producer{
			writer: mockWriter,
			logger: zap.New(core),
		}

		producer.sendEvent(context.Background(), event)

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestProducer_Close(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("Close").Return(nil)

	producer := &Producer{
		writer:    mockWriter,
		closeChan: make(chan struct{}),
		logger:    zaptest.NewLogger(t),
	}

	producer.Close()

	// Verify close channel is closed
	select {
	case <-producer.closeChan:
	default:
		t.Error("closeChan not closed")
	}

	mockWriter.AssertCalled(t, "Close")
}

func TestProducer_EventLoop(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)

	producer := NewProducerWithWriter(mockWriter, zaptest.NewLogger(t))
	defer func() {
		mockWriter.On("Close").Return(nil)
		producer.Close()
	}()

	producer.Produce(CompanyCreated, &models.Company{ID: 1, Name: "Acme", Vat: "BE123"})

	assert.Eventually(t, func() bool {
		for _, call := range mockWriter.Calls {
			if call.Method == "WriteMessages" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}
