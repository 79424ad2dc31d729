package models

import "time"

// Event types
const (
	EventTypeQuoteIssued     = "QUOTE_ISSUED"
	EventTypeCustomerCreated = "CUSTOMER_CREATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// QuoteIssuedEvent published after an availability quote is computed
type QuoteIssuedEvent struct {
	BaseEvent
	Lines                 []OrderLine `json:"lines"`
	CanFulfillNow         bool        `json:"can_fulfill_now"`
	EarliestShipDate      string      `json:"earliest_ship_date"`
	EstimatedDeliveryDate string      `json:"estimated_delivery_date"`
	BottleneckComponents  []int64     `json:"bottleneck_components"`
}

// CustomerCreatedEvent published when a customer is added
type CustomerCreatedEvent struct {
	BaseEvent
	CustomerID int64  `json:"customer_id"`
	Company    string `json:"company"`
}
