package app

import (
	"time"

	"stockroom/internal/core"
	"stockroom/internal/fulfillment"

	"github.com/shopspring/decimal"
)

// ProductRequest is the input for product create/update.
type ProductRequest struct {
	Name        string          `json:"name"`
	Barcode     string          `json:"barcode"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"min_quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Actor       string          `json:"actor"`
}

// CustomerRequest is the input for customer create/update.
type CustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
	Actor   string `json:"actor"`
}

// CreateOrderRequest is the input for creating a manual order.
type CreateOrderRequest struct {
	CustomerID *int             `json:"customer_id,omitempty"`
	Notes      string           `json:"notes"`
	Actor      string           `json:"actor"`
	Lines      []OrderLineInput `json:"lines"`
}

// ImportOrderRequest is the payload for importing an order from the external
// platform. Re-imports of the same ExternalID upsert in place.
type ImportOrderRequest struct {
	ExternalID  string           `json:"external_id"`
	OrderNumber string           `json:"order_number"`
	Status      core.OrderStatus `json:"status"`
	OrderedAt   time.Time        `json:"ordered_at"`
	Actor       string           `json:"actor"`
	Lines       []OrderLineInput `json:"lines"`
}

// OrderLineInput is a single line within a CreateOrderRequest. A zero
// UnitPrice means "use the catalog price".
type OrderLineInput struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product `json:"products"`
}

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []core.Customer `json:"customers"`
}

// OrderListResult is returned by ListOrders.
type OrderListResult struct {
	Orders []core.Order `json:"orders"`
}

// PickListResult is the UI view of the active pick session.
type PickListResult struct {
	Entries     []*fulfillment.PickListEntry `json:"entries"`
	ReadyOrders []int                        `json:"ready_orders,omitempty"`
	LastScan    string                       `json:"last_scan,omitempty"`
	Feedback    *fulfillment.Feedback        `json:"feedback,omitempty"`
}

// CommitResult pairs the fulfillment outcome with the refreshed pick list.
type CommitResult struct {
	Result   *fulfillment.Result `json:"result"`
	PickList *PickListResult     `json:"pick_list"`
}
