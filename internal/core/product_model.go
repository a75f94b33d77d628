package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. Quantity is the current stock count; the
// Committer never writes a value below zero. Barcode may be empty; such
// products are still pickable through manual search in the UI.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Barcode     string          `json:"barcode"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"min_quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductInput carries the writable fields for product create/update.
type ProductInput struct {
	Name        string
	Barcode     string
	Quantity    int
	MinQuantity int
	UnitPrice   decimal.Decimal
}

// ListProductsOptions narrows and pages ListProducts. A zero value lists the
// first page of the whole catalog.
type ListProductsOptions struct {
	Search string // case-insensitive match on name or barcode
	Limit  int    // defaults to 100
	Offset int
}
