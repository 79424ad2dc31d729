package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"quote-service/internal/models"
	"quote-service/internal/shared"
	"quote-service/internal/util"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// InventoryStore is the read side of the inventory repository used for quoting
type InventoryStore interface {
	GetBOM(ctx context.Context, productIDs []int64) (map[int64][]models.BOMLine, error)
	GetComponents(ctx context.Context, componentIDs []int64) (map[int64]models.Component, error)
}

// InventoryLocator resolves a store location to its inventory.
// An empty location selects the default store. The returned release func must be called once the reads are done.
type InventoryLocator interface {
	Inventory(ctx context.Context, location string) (InventoryStore, func(), error)
}

// EventPublisher publishes domain events
type EventPublisher interface {
	PublishQuoteIssued(ctx context.Context, event *models.QuoteIssuedEvent) error
	PublishCustomerCreated(ctx context.Context, event *models.CustomerCreatedEvent) error
}

// QuoteRequest is a validated availability quote request
type QuoteRequest struct {
	Lines        []models.OrderLine
	HandlingDays int
	ShippingDays int
	Location     string
}

// Validate checks the request shape before any store access
func (r *QuoteRequest) Validate() error {
	if len(r.Lines) == 0 {
		return shared.ValidationError("lines must not be empty")
	}
	for i, line := range r.Lines {
		if line.ProductID <= 0 {
			return shared.ValidationError("lines[%d].product_id must be a positive integer", i)
		}
		if line.Quantity <= 0 {
			return shared.ValidationError("lines[%d].quantity must be a positive integer", i)
		}
	}
	if r.HandlingDays < 0 {
		return shared.ValidationError("handling_days must be non-negative")
	}
	if r.ShippingDays < 0 {
		return shared.ValidationError("shipping_days must be non-negative")
	}
	return nil
}

// AvailabilityService quotes whether orders can be built from component stock
type AvailabilityService struct {
	inventory           InventoryLocator
	eventPublisher      EventPublisher
	defaultHandlingDays int
	defaultShippingDays int
	now                 func() time.Time
	logger              *zap.Logger
}

// NewAvailabilityService creates a new availability service.
// eventPublisher may be nil, in which case no events are published.
func NewAvailabilityService(
	inventory InventoryLocator,
	eventPublisher EventPublisher,
	defaultHandlingDays int,
	defaultShippingDays int,
) *AvailabilityService {
	return &AvailabilityService{
		inventory:           inventory,
		eventPublisher:      eventPublisher,
		defaultHandlingDays: defaultHandlingDays,
		defaultShippingDays: defaultShippingDays,
		now:                 time.Now,
		logger:              util.GetLogger(),
	}
}

// Quote computes an availability quote. It reads inventory only and never reserves stock.
func (s *AvailabilityService) Quote(ctx context.Context, req *QuoteRequest) (*models.AvailabilityQuote, error) {
	ctx, span := util.StartSpan(ctx, "AvailabilityService.Quote")
	defer span.End()

	start := time.Now()
	defer func() {
		util.QuoteLatency.Observe(time.Since(start).Seconds())
	}()

	if err := req.Validate(); err != nil {
		util.QuotesTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("order.lines", len(req.Lines)),
		attribute.Int("order.handling_days", req.HandlingDays),
		attribute.Int("order.shipping_days", req.ShippingDays),
		attribute.Bool("store.override", req.Location != ""),
	)

	inv, release, err := s.inventory.Inventory(ctx, req.Location)
	if err != nil {
		util.QuotesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	defer release()

	quote, err := QuoteAvailability(ctx, inv, req.Lines, req.HandlingDays, req.ShippingDays, today(s.now()))
	if err != nil {
		util.QuotesTotal.WithLabelValues(outcomeForError(err)).Inc()
		s.logger.Warn("Quote failed",
			zap.Int("lines", len(req.Lines)),
			zap.Error(err))
		return nil, err
	}

	outcome := "fulfillable"
	if !quote.CanFulfillNow {
		outcome = "backorder"
	}
	util.QuotesTotal.WithLabelValues(outcome).Inc()
	util.QuoteBottlenecks.Observe(float64(len(quote.BottleneckComponents)))
	span.SetAttributes(
		attribute.Bool("quote.can_fulfill_now", quote.CanFulfillNow),
		attribute.Int("quote.bottlenecks", len(quote.BottleneckComponents)),
	)

	s.logger.Info("Quote issued",
		zap.Int("lines", len(req.Lines)),
		zap.Bool("can_fulfill_now", quote.CanFulfillNow),
		zap.String("earliest_ship_date", quote.EarliestShipDate),
		zap.Int("bottlenecks", len(quote.BottleneckComponents)))

	s.publishQuoteIssued(ctx, req, quote)
	return quote, nil
}

func (s *AvailabilityService) publishQuoteIssued(ctx context.Context, req *QuoteRequest, quote *models.AvailabilityQuote) {
	if s.eventPublisher == nil {
		return
	}

	componentIDs := make([]int64, len(quote.BottleneckComponents))
	for i, b := range quote.BottleneckComponents {
		componentIDs[i] = b.ComponentID
	}

	event := &models.QuoteIssuedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeQuoteIssued,
			Timestamp: s.now().UTC(),
		},
		Lines:                 req.Lines,
		CanFulfillNow:         quote.CanFulfillNow,
		EarliestShipDate:      quote.EarliestShipDate,
		EstimatedDeliveryDate: quote.EstimatedDeliveryDate,
		BottleneckComponents:  componentIDs,
	}

	if err := s.eventPublisher.PublishQuoteIssued(ctx, event); err != nil {
		util.EventsPublishFailed.WithLabelValues(models.EventTypeQuoteIssued).Inc()
		s.logger.Error("Failed to publish QuoteIssued event", zap.Error(err))
	}
}

// QuoteAvailability explodes the BOM of every line, compares requirements with stock on hand
// and dates the order. The slowest bottleneck to restock gates the whole order.
func QuoteAvailability(
	ctx context.Context,
	inv InventoryStore,
	lines []models.OrderLine,
	handlingDays, shippingDays int,
	today time.Time,
) (*models.AvailabilityQuote, error) {
	bom, err := inv.GetBOM(ctx, productIDs(lines))
	if err != nil {
		return nil, err
	}

	required, err := ExplodeBOM(lines, bom)
	if err != nil {
		return nil, err
	}

	if len(required) == 0 {
		return fulfillableQuote(today, handlingDays, shippingDays,
			"No BOM rows found for the requested products; assuming buildable now."), nil
	}

	componentIDs := make([]int64, 0, len(required))
	for id := range required {
		componentIDs = append(componentIDs, id)
	}

	components, err := inv.GetComponents(ctx, componentIDs)
	if err != nil {
		return nil, err
	}

	bottlenecks := make([]models.BottleneckComponent, 0)
	maxLead := 0
	for id, qty := range required {
		c, ok := components[id]
		if !ok {
			return nil, shared.NotFoundError("Component %d not found.", id)
		}
		if qty <= c.QuantityOnHand {
			continue
		}
		if c.LeadTimeDays > maxLead {
			maxLead = c.LeadTimeDays
		}
		bottlenecks = append(bottlenecks, models.BottleneckComponent{
			ComponentID:    id,
			ComponentName:  c.Name,
			RequiredQty:    qty,
			QuantityOnHand: c.QuantityOnHand,
			Shortage:       qty - c.QuantityOnHand,
			LeadTimeDays:   c.LeadTimeDays,
			AvailableOn:    addDays(today, c.LeadTimeDays),
		})
	}

	if len(bottlenecks) == 0 {
		return fulfillableQuote(today, handlingDays, shippingDays,
			"All required components are available on hand; the order can be fulfilled now."), nil
	}

	sortBottlenecks(bottlenecks)

	ship := today.AddDate(0, 0, maxLead+handlingDays)
	return &models.AvailabilityQuote{
		CanFulfillNow:         false,
		EarliestShipDate:      ship.Format(dateLayout),
		EstimatedDeliveryDate: addDays(ship, shippingDays),
		BottleneckComponents:  bottlenecks,
		Explanation:           explainShortage(bottlenecks, ship),
	}, nil
}

func fulfillableQuote(today time.Time, handlingDays, shippingDays int, explanation string) *models.AvailabilityQuote {
	ship := today.AddDate(0, 0, handlingDays)
	return &models.AvailabilityQuote{
		CanFulfillNow:         true,
		EarliestShipDate:      ship.Format(dateLayout),
		EstimatedDeliveryDate: addDays(ship, shippingDays),
		BottleneckComponents:  []models.BottleneckComponent{},
		Explanation:           explanation,
	}
}

// sortBottlenecks orders by shortage desc, lead time desc, component id asc
func sortBottlenecks(b []models.BottleneckComponent) {
	sort.Slice(b, func(i, j int) bool {
		if b[i].Shortage != b[j].Shortage {
			return b[i].Shortage > b[j].Shortage
		}
		if b[i].LeadTimeDays != b[j].LeadTimeDays {
			return b[i].LeadTimeDays > b[j].LeadTimeDays
		}
		return b[i].ComponentID < b[j].ComponentID
	})
}

func explainShortage(bottlenecks []models.BottleneckComponent, ship time.Time) string {
	top := bottlenecks[0]
	if len(bottlenecks) == 1 {
		return fmt.Sprintf(
			"Order is short on %s (need %d, have %d). Lead time is %d days; earliest ship date is %s.",
			top.ComponentName, top.RequiredQty, top.QuantityOnHand, top.LeadTimeDays, ship.Format(dateLayout))
	}
	return fmt.Sprintf(
		"Order cannot be fulfilled immediately; %d components are short. "+
			"The bottleneck is %s (need %d, have %d, short %d, lead %d days), so earliest ship date is %s.",
		len(bottlenecks), top.ComponentName, top.RequiredQty, top.QuantityOnHand, top.Shortage,
		top.LeadTimeDays, ship.Format(dateLayout))
}

// today truncates t to its UTC calendar date
func today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func addDays(t time.Time, days int) string {
	return t.AddDate(0, 0, days).Format(dateLayout)
}

func outcomeForError(err error) string {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return "not_found"
	case errors.Is(err, shared.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
