package service

import (
	"errors"
	"testing"

	"quote-service/internal/models"
	"quote-service/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuotePayloadDefaults(t *testing.T) {
	svc := NewAvailabilityService(&fakeLocator{}, nil, 2, 5)

	req, err := svc.ParseQuotePayload(`{"lines":[{"product_id":1,"quantity":2}]}`, "")
	require.NoError(t, err)
	assert.Equal(t, []models.OrderLine{{ProductID: 1, Quantity: 2}}, req.Lines)
	assert.Equal(t, 2, req.HandlingDays)
	assert.Equal(t, 5, req.ShippingDays)
	assert.Empty(t, req.Location)
}

func TestParseQuotePayloadOverrides(t *testing.T) {
	svc := NewAvailabilityService(&fakeLocator{}, nil, 2, 5)

	req, err := svc.ParseQuotePayload(
		`{"lines":[{"product_id":1,"quantity":2},{"product_id":2,"quantity":1}],"handling_days":0,"shipping_days":3.9}`,
		"other.sqlite")
	require.NoError(t, err)
	assert.Len(t, req.Lines, 2)
	assert.Equal(t, 0, req.HandlingDays)
	assert.Equal(t, 3, req.ShippingDays)
	assert.Equal(t, "other.sqlite", req.Location)
}

func TestParseQuotePayloadErrors(t *testing.T) {
	svc := NewAvailabilityService(&fakeLocator{}, nil, 2, 5)

	tests := []struct {
		name    string
		payload string
		msg     string
	}{
		{"missing lines", `{}`, "lines must not be empty"},
		{"empty lines", `{"lines":[]}`, "lines must not be empty"},
		{"null payload", `null`, "lines must not be empty"},
		{"zero quantity", `{"lines":[{"product_id":1,"quantity":0}]}`, "lines[0].quantity must be a positive integer"},
		{"negative product", `{"lines":[{"product_id":-4,"quantity":1}]}`, "lines[0].product_id must be a positive integer"},
		{"negative handling", `{"lines":[{"product_id":1,"quantity":1}],"handling_days":-1}`, "handling_days must be non-negative"},
		{"shipping too large", `{"lines":[{"product_id":1,"quantity":1}],"shipping_days":5000}`, "shipping_days must be at most 3650"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseQuotePayload(tt.payload, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrValidation))
			assert.Equal(t, tt.msg, shared.Message(err))
		})
	}
}

func TestParseQuotePayloadMalformed(t *testing.T) {
	svc := NewAvailabilityService(&fakeLocator{}, nil, 2, 5)

	for _, payload := range []string{
		`not json`,
		`[1,2]`,
		`{"lines":[{"product_id":"one","quantity":1}]}`,
		`{"lines":[{"product_id":1,"quantity":1.5}]}`,
	} {
		_, err := svc.ParseQuotePayload(payload, "")
		require.Error(t, err, payload)
		assert.True(t, errors.Is(err, shared.ErrValidation), payload)
	}
}
