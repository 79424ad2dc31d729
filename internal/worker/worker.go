package worker

import (
	"context"
	"strconv"

	"quote-service/internal/broker"
	"quote-service/internal/models"
	"quote-service/internal/util"

	"go.uber.org/zap"
)

// AuditStore persists audit entries
type AuditStore interface {
	InsertAuditEntry(ctx context.Context, entry *models.AuditEntry) error
}

// AuditWorker records every quote and customer event in the audit log
type AuditWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        AuditStore
	logger       *zap.Logger
}

// NewAuditWorker creates a new audit worker
func NewAuditWorker(consumer *broker.Consumer, store AuditStore) *AuditWorker {
	w := &AuditWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		store:        store,
		logger:       util.GetLogger(),
	}

	w.eventHandler.OnQuoteIssued(w.recordQuoteIssued)
	w.eventHandler.OnCustomerCreated(w.recordCustomerCreated)
	return w
}

// Start starts the worker
func (w *AuditWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting audit worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AuditWorker) Stop() error {
	w.logger.Info("Stopping audit worker")
	return w.consumer.Close()
}

func (w *AuditWorker) recordQuoteIssued(ctx context.Context, event *models.QuoteIssuedEvent, raw []byte) error {
	return w.record(ctx, &models.AuditEntry{
		EventID:   event.EventID,
		EventType: event.EventType,
		Entity:    "quote",
		EntityID:  event.EventID,
		Payload:   string(raw),
	})
}

func (w *AuditWorker) recordCustomerCreated(ctx context.Context, event *models.CustomerCreatedEvent, raw []byte) error {
	return w.record(ctx, &models.AuditEntry{
		EventID:   event.EventID,
		EventType: event.EventType,
		Entity:    "customer",
		EntityID:  strconv.FormatInt(event.CustomerID, 10),
		Payload:   string(raw),
	})
}

func (w *AuditWorker) record(ctx context.Context, entry *models.AuditEntry) error {
	ctx, span := util.StartSpan(ctx, "AuditWorker.record")
	defer span.End()

	if err := w.store.InsertAuditEntry(ctx, entry); err != nil {
		w.logger.Error("Failed to write audit entry",
			zap.String("event_id", entry.EventID),
			zap.Error(err))
		return err
	}

	util.AuditEntriesWritten.WithLabelValues(entry.EventType).Inc()
	return nil
}
