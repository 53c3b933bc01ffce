// Package notification reacts to company lifecycle events consumed from
// Kafka on behalf of the notification service.
package notification

import (
	"context"
	"sync/atomic"

	"github.com/arflisch/companyapi/internal/company/events"
	"go.uber.org/zap"
)

// Handler processes company events. Unknown event types are logged and
// skipped so the consumer keeps committing.
type Handler struct {
	logger    *zap.Logger
	processed atomic.Int64
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger.Named("notification")}
}

// Handle dispatches one event. It is registered on the events.Consumer.
func (h *Handler) Handle(_ context.Context, event events.Event) error {
	switch event.Type {
	case events.CompanyCreated:
		h.logger.Info("company created",
			zap.String("event_id", event.EventID),
			zap.Int64("company_id", event.Company.ID),
			zap.String("name", event.Company.Name),
			zap.String("vat", event.Company.Vat),
			zap.Time("occurred_at", event.OccurredAt),
		)
	default:
		h.logger.Warn("skipping unknown event type",
			zap.String("event_id", event.EventID),
			zap.String("event_type", string(event.Type)),
		)
		return nil
	}

	h.processed.Add(1)
	return nil
}

// Processed returns how many notifications were handled.
func (h *Handler) Processed() int64 {
	return h.processed.Load()
}
