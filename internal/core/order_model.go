package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the order lifecycle state. The fulfillment pipeline advances
// an order AWAITING_FULFILLMENT/PROCESSING → READY_TO_PACK via the Committer;
// every other transition is a plain status update from the UI.
type OrderStatus string

const (
	StatusPending             OrderStatus = "PENDING"
	StatusAwaitingFulfillment OrderStatus = "AWAITING_FULFILLMENT"
	StatusProcessing          OrderStatus = "PROCESSING"
	StatusReadyToPack         OrderStatus = "READY_TO_PACK"
	StatusShipped             OrderStatus = "SHIPPED"
	StatusCompleted           OrderStatus = "COMPLETED"
	StatusCancelled           OrderStatus = "CANCELLED"
)

// OpenStatuses is the set of statuses considered open for picking. Orders in
// any other status never enter the pick list.
var OpenStatuses = []OrderStatus{StatusAwaitingFulfillment, StatusProcessing}

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusAwaitingFulfillment, StatusProcessing,
		StatusReadyToPack, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// OrderSource identifies where an order originated.
type OrderSource string

const (
	SourceManual   OrderSource = "MANUAL"
	SourceExternal OrderSource = "EXTERNAL"
)

// Order is a customer purchase. External orders carry the identifier of the
// originating e-commerce platform so status changes can be pushed back.
type Order struct {
	ID           int             `json:"id"`
	OrderNumber  string          `json:"order_number"`
	Status       OrderStatus     `json:"status"`
	Source       OrderSource     `json:"source"`
	ExternalID   *string         `json:"external_id,omitempty"`
	CustomerID   *int            `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name,omitempty"` // joined from customers
	Total        decimal.Decimal `json:"total"`
	Notes        string          `json:"notes"`
	Items        []LineItem      `json:"items"`
	OrderedAt    time.Time       `json:"ordered_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// LineItem is one product line on an order. ProductID is a plain reference
// with no foreign key: products can be deleted out from under open orders,
// and the fulfillment core treats a dangling reference as "product missing".
type LineItem struct {
	ID          int             `json:"id"`
	OrderID     int             `json:"order_id"`
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Picked      bool            `json:"picked"` // legacy per-line flag, unused by the scan engine
}

// OrderLineInput is used when creating a new order. If UnitPrice is zero the
// product's catalog price is used.
type OrderLineInput struct {
	ProductID int
	Quantity  int
	UnitPrice decimal.Decimal
}

// ExternalOrderInput is the shape delivered by the out-of-scope order-source
// sync when it imports an order from the external platform.
type ExternalOrderInput struct {
	ExternalID  string
	OrderNumber string
	Status      OrderStatus
	OrderedAt   time.Time
	Lines       []OrderLineInput
}
