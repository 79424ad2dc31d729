package service

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"quote-service/internal/models"
	"quote-service/internal/shared"

	"github.com/go-playground/validator/v10"
)

// maxDays bounds handling and shipping overrides to ten years
const maxDays = 3650

type quotePayload struct {
	Lines        []quotePayloadLine `json:"lines" validate:"required,min=1,dive"`
	HandlingDays *float64           `json:"handling_days" validate:"omitempty,gte=0,lte=3650"`
	ShippingDays *float64           `json:"shipping_days" validate:"omitempty,gte=0,lte=3650"`
}

type quotePayloadLine struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Quantity  int64 `json:"quantity" validate:"gt=0"`
}

var payloadValidator = newPayloadValidator()

func newPayloadValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseQuotePayload decodes the JSON payload of the quote tool into a typed request.
// Missing handling and shipping days fall back to the service defaults; fractional days are truncated.
func (s *AvailabilityService) ParseQuotePayload(payload, location string) (*QuoteRequest, error) {
	var p quotePayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, payloadDecodeError(err)
	}

	if err := payloadValidator.Struct(&p); err != nil {
		return nil, payloadValidationError(err)
	}

	req := &QuoteRequest{
		Lines:        make([]models.OrderLine, len(p.Lines)),
		HandlingDays: s.defaultHandlingDays,
		ShippingDays: s.defaultShippingDays,
		Location:     location,
	}
	for i, line := range p.Lines {
		req.Lines[i] = models.OrderLine{ProductID: line.ProductID, Quantity: line.Quantity}
	}
	if p.HandlingDays != nil {
		req.HandlingDays = int(*p.HandlingDays)
	}
	if p.ShippingDays != nil {
		req.ShippingDays = int(*p.ShippingDays)
	}

	return req, req.Validate()
}

func payloadDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			return shared.ValidationError("payload must be a JSON object, got %s", typeErr.Value)
		}
		return shared.ValidationError("payload field %s has the wrong type: got %s", field, typeErr.Value)
	}
	return shared.ValidationError("payload is not valid JSON: %v", err)
}

func payloadValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return shared.ValidationError("invalid payload: %v", err)
	}

	fe := fieldErrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required", "min":
		return shared.ValidationError("%s must not be empty", field)
	case "gt":
		return shared.ValidationError("%s must be a positive integer", field)
	case "gte":
		return shared.ValidationError("%s must be non-negative", field)
	case "lte":
		return shared.ValidationError("%s must be at most %d", field, maxDays)
	default:
		return shared.ValidationError("%s is invalid", field)
	}
}

