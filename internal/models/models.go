package models

import "github.com/shopspring/decimal"

// Product represents a sellable product built from components
type Product struct {
	ID    int64           `db:"id" json:"product_id"`
	Name  string          `db:"product_name" json:"product_name"`
	Price decimal.Decimal `db:"price" json:"price"`
}

// Component represents a stocked part bought from a supplier
type Component struct {
	ID             int64           `db:"id" json:"component_id"`
	SupplierID     int64           `db:"supplier_id" json:"supplier_id"`
	Name           string          `db:"component_name" json:"component_name"`
	QuantityOnHand int64           `db:"quantity_on_hand" json:"quantity_on_hand"`
	UnitCost       decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	LeadTimeDays   int             `db:"lead_time_days" json:"lead_time_days"`
	ReorderPoint   int64           `db:"reorder_point" json:"reorder_point"`
}

// BOMLine is one bill-of-materials row: units of a component needed per product unit
type BOMLine struct {
	ProductID    int64 `db:"product_id" json:"product_id"`
	ComponentID  int64 `db:"component_id" json:"component_id"`
	ComponentQty int64 `db:"component_qty" json:"component_qty"`
}

// ProductAvailability is a product with the units buildable from stock on hand
type ProductAvailability struct {
	ProductID   int64  `db:"product_id" json:"product_id"`
	ProductName string `db:"product_name" json:"product_name"`
	UnitsOnHand int64  `db:"units_on_hand" json:"units_on_hand"`
}

// OrderLine is a requested product quantity
type OrderLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// BottleneckComponent is a component whose requirement exceeds stock on hand
type BottleneckComponent struct {
	ComponentID    int64  `json:"component_id"`
	ComponentName  string `json:"component_name"`
	RequiredQty    int64  `json:"required_qty"`
	QuantityOnHand int64  `json:"quantity_on_hand"`
	Shortage       int64  `json:"shortage"`
	LeadTimeDays   int    `json:"lead_time_days"`
	AvailableOn    string `json:"available_on"`
}

// AvailabilityQuote is the answer to "can this order be fulfilled, and by when"
type AvailabilityQuote struct {
	CanFulfillNow         bool                  `json:"can_fulfill_now"`
	EarliestShipDate      string                `json:"earliest_ship_date"`
	EstimatedDeliveryDate string                `json:"estimated_delivery_date"`
	BottleneckComponents  []BottleneckComponent `json:"bottleneck_components"`
	Explanation           string                `json:"explanation"`
}

// Customer represents a customer account
type Customer struct {
	ID          int64  `db:"id" json:"customer_id"`
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	Title       string `db:"title" json:"title"`
	Company     string `db:"company" json:"company"`
	Address     string `db:"address" json:"address"`
	City        string `db:"city" json:"city"`
	State       string `db:"state" json:"state"`
	Zipcode     string `db:"zipcode" json:"zipcode"`
	PhoneNumber string `db:"phone_number" json:"phone_number"`
}

// CustomerSummary is a customer with order aggregates
type CustomerSummary struct {
	ID              int64           `db:"customer_id" json:"customer_id"`
	FirstName       string          `db:"first_name" json:"-"`
	LastName        string          `db:"last_name" json:"-"`
	Name            string          `db:"-" json:"name"`
	Company         string          `db:"company" json:"company"`
	OrdersCount     int64           `db:"orders_count" json:"orders_count"`
	TotalOrderValue decimal.Decimal `db:"total_order_value" json:"total_order_value"`
}

// AuditEntry records a domain event consumed by the audit worker
type AuditEntry struct {
	ID        int64  `db:"id" json:"id"`
	EventID   string `db:"event_id" json:"event_id"`
	EventType string `db:"event_type" json:"event_type"`
	Entity    string `db:"entity" json:"entity"`
	EntityID  string `db:"entity_id" json:"entity_id"`
	Payload   string `db:"payload" json:"payload"`
}
