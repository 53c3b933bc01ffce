package notification

import (
	"context"
	"testing"

	"github.com/arflisch/companyapi/internal/company/events"
	"github.com/arflisch/companyapi/internal/company/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandleCompanyCreated(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	handler := NewHandler(zap.New(core))

	err := handler.Handle(context.Background(), events.Event{
		EventID: "event-1",
		Type:    events.CompanyCreated,
		Company: models.CompanyDTO{ID: 42, Name: "Acme", Vat: "BE123"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), handler.Processed())
	assert.Equal(t, 1, recorded.FilterMessage("company created").Len())
	assert.Equal(t, 1, recorded.FilterField(zap.Int64("company_id", 42)).Len())
}

func TestHandleUnknownEventType(t *testing.T) {
	core, recorded := observer.New(zap.WarnLevel)
	handler := NewHandler(zap.New(core))

	err := handler.Handle(context.Background(), events.Event{
		EventID: "event-2",
		Type:    events.EventType("company_exploded"),
	})

	require.NoError(t, err, "unknown events are skipped so the consumer keeps committing")
	assert.Zero(t, handler.Processed())
	assert.Equal(t, 1, recorded.FilterMessage("skipping unknown event type").Len())
}
