package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"quote-service/internal/models"
	"quote-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishQuoteIssued publishes QuoteIssued event
func (ep *EventPublisher) PublishQuoteIssued(ctx context.Context, event *models.QuoteIssuedEvent) error {
	key := fmt.Sprintf("quote-%s", event.EventID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishCustomerCreated publishes CustomerCreated event
func (ep *EventPublisher) PublishCustomerCreated(ctx context.Context, event *models.CustomerCreatedEvent) error {
	key := fmt.Sprintf("customer-%d", event.CustomerID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onQuoteIssued     func(context.Context, *models.QuoteIssuedEvent, []byte) error
	onCustomerCreated func(context.Context, *models.CustomerCreatedEvent, []byte) error
	logger            *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnQuoteIssued registers a handler for QuoteIssued events.
// The handler also receives the raw message value.
func (eh *EventHandler) OnQuoteIssued(handler func(context.Context, *models.QuoteIssuedEvent, []byte) error) {
	eh.onQuoteIssued = handler
}

// OnCustomerCreated registers a handler for CustomerCreated events
func (eh *EventHandler) OnCustomerCreated(handler func(context.Context, *models.CustomerCreatedEvent, []byte) error) {
	eh.onCustomerCreated = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("event_type", baseEvent.EventType),
		zap.String("event_id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeQuoteIssued:
		if eh.onQuoteIssued != nil {
			var event models.QuoteIssuedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal QuoteIssued event: %w", err)
			}
			return eh.onQuoteIssued(ctx, &event, msg.Value)
		}

	case models.EventTypeCustomerCreated:
		if eh.onCustomerCreated != nil {
			var event models.CustomerCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CustomerCreated event: %w", err)
			}
			return eh.onCustomerCreated(ctx, &event, msg.Value)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
