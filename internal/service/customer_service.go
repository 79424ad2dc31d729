package service

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"quote-service/internal/models"
	"quote-service/internal/shared"
	"quote-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerStore persists customers
type CustomerStore interface {
	ListCustomers(ctx context.Context) ([]models.CustomerSummary, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	CreateCustomer(ctx context.Context, c *models.Customer) error
}

// customerFields lists the required customer fields in the order they are checked
var customerFields = []string{
	"first_name",
	"last_name",
	"title",
	"company",
	"address",
	"city",
	"state",
	"zipcode",
	"phone_number",
}

// CustomerService handles customer lookups and sign-ups
type CustomerService struct {
	store          CustomerStore
	eventPublisher EventPublisher
	logger         *zap.Logger
}

// NewCustomerService creates a new customer service. eventPublisher may be nil.
func NewCustomerService(store CustomerStore, eventPublisher EventPublisher) *CustomerService {
	return &CustomerService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// ListCustomers returns every customer with order totals, ordered by ID
func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.CustomerSummary, error) {
	ctx, span := util.StartSpan(ctx, "CustomerService.ListCustomers")
	defer span.End()

	return s.store.ListCustomers(ctx)
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	ctx, span := util.StartSpan(ctx, "CustomerService.GetCustomer")
	defer span.End()

	return s.store.GetCustomer(ctx, id)
}

// AddCustomer validates raw JSON fields and creates the customer
func (s *CustomerService) AddCustomer(ctx context.Context, fields map[string]interface{}) (*models.Customer, error) {
	ctx, span := util.StartSpan(ctx, "CustomerService.AddCustomer")
	defer span.End()

	values := make(map[string]string, len(customerFields))
	for _, name := range customerFields {
		v, err := customerField(fields, name)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}

	customer := &models.Customer{
		FirstName:   values["first_name"],
		LastName:    values["last_name"],
		Title:       values["title"],
		Company:     values["company"],
		Address:     values["address"],
		City:        values["city"],
		State:       values["state"],
		Zipcode:     values["zipcode"],
		PhoneNumber: values["phone_number"],
	}

	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		s.logger.Error("Failed to create customer", zap.Error(err))
		return nil, err
	}

	util.CustomersCreatedTotal.Inc()
	s.logger.Info("Customer created", zap.Int64("customer_id", customer.ID))

	s.publishCustomerCreated(ctx, customer)
	return customer, nil
}

func (s *CustomerService) publishCustomerCreated(ctx context.Context, customer *models.Customer) {
	if s.eventPublisher == nil {
		return
	}

	event := &models.CustomerCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCustomerCreated,
			Timestamp: time.Now().UTC(),
		},
		CustomerID: customer.ID,
		Company:    customer.Company,
	}

	if err := s.eventPublisher.PublishCustomerCreated(ctx, event); err != nil {
		util.EventsPublishFailed.WithLabelValues(models.EventTypeCustomerCreated).Inc()
		s.logger.Error("Failed to publish CustomerCreated event",
			zap.Int64("customer_id", customer.ID),
			zap.Error(err))
	}
}

// customerField reads a required text field. Numbers are accepted as their decimal text.
func customerField(fields map[string]interface{}, name string) (string, error) {
	raw, ok := fields[name]
	if !ok || raw == nil {
		return "", shared.ValidationError("Field %s must be present.", name)
	}

	var text string
	switch v := raw.(type) {
	case string:
		text = v
	case json.Number:
		text = v.String()
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		text = strconv.FormatInt(v, 10)
	case int:
		text = strconv.Itoa(v)
	default:
		return "", shared.ValidationError("Field %s must be a string.", name)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", shared.ValidationError("Field %s must be present.", name)
	}
	return text, nil
}

// ParseCustomerID reads customer_id from a decoded JSON value.
// Integral numbers and numeric strings are accepted.
func ParseCustomerID(raw interface{}) (int64, error) {
	invalid := shared.ValidationError("Field customer_id must be an integer.")

	switch v := raw.(type) {
	case nil:
		return 0, shared.ValidationError("Field customer_id must be present.")
	case json.Number:
		if id, err := v.Int64(); err == nil {
			return id, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, invalid
		}
		return integralFloat(f, invalid)
	case float64:
		return integralFloat(v, invalid)
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, shared.ValidationError("Field customer_id must be present.")
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, invalid
		}
		return id, nil
	default:
		return 0, invalid
	}
}

func integralFloat(f float64, invalid error) (int64, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, invalid
	}
	return int64(f), nil
}
