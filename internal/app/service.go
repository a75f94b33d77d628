package app

import (
	"context"

	"stockroom/internal/core"
	"stockroom/internal/fulfillment"
)

// ApplicationService is the single interface the UI adapter calls. It
// decouples presentation from business logic. Implementations must contain
// no display logic of any kind.
type ApplicationService interface {
	// ── Products ──────────────────────────────────────────────────────────────
	ListProducts(ctx context.Context, opts core.ListProductsOptions) (*ProductListResult, error)
	GetProduct(ctx context.Context, id int) (*core.Product, error)
	CreateProduct(ctx context.Context, req ProductRequest) (*core.Product, error)
	UpdateProduct(ctx context.Context, id int, req ProductRequest) (*core.Product, error)
	DeleteProduct(ctx context.Context, id int, actor string) error
	// LowStockProducts lists products at or below their minimum quantity.
	LowStockProducts(ctx context.Context) ([]core.Product, error)

	// ── Customers ─────────────────────────────────────────────────────────────
	ListCustomers(ctx context.Context, search string) (*CustomerListResult, error)
	GetCustomer(ctx context.Context, id int) (*core.Customer, error)
	CreateCustomer(ctx context.Context, req CustomerRequest) (*core.Customer, error)
	UpdateCustomer(ctx context.Context, id int, req CustomerRequest) (*core.Customer, error)
	DeleteCustomer(ctx context.Context, id int, actor string) error

	// ── Orders ────────────────────────────────────────────────────────────────
	ListOrders(ctx context.Context, statusIn []core.OrderStatus) (*OrderListResult, error)
	GetOrder(ctx context.Context, id int) (*core.Order, error)
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*core.Order, error)
	// ImportOrder upserts an order delivered by the external platform.
	ImportOrder(ctx context.Context, req ImportOrderRequest) (*core.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status core.OrderStatus, actor string) (*core.Order, error)
	DeleteOrder(ctx context.Context, id int, actor string) error

	// ── Fulfillment ───────────────────────────────────────────────────────────

	// GetPickList returns the current pick session, starting one from the
	// open orders if none is active.
	GetPickList(ctx context.Context) (*PickListResult, error)
	// RefreshPickList rebuilds the session from the open orders, discarding
	// any in-progress scan counts.
	RefreshPickList(ctx context.Context) (*PickListResult, error)
	// SubmitScan reconciles one scanned identifier against the session.
	SubmitScan(ctx context.Context, identifier string) (*PickListResult, error)
	// AdjustEntry moves an entry's fulfilled count by delta, clamped.
	AdjustEntry(ctx context.Context, productID, delta int) (*PickListResult, error)
	// ToggleEntry flips an entry between fully picked and untouched.
	ToggleEntry(ctx context.Context, productID int) (*PickListResult, error)
	// CommitOrders commits the selected orders; on any success the pick
	// session is rebuilt from the remaining open orders.
	CommitOrders(ctx context.Context, orderIDs []int, actor string) (*CommitResult, error)

	// ── Reports & activity ────────────────────────────────────────────────────
	GetStockReport(ctx context.Context) (*core.StockReport, error)
	GetOrderStatusSummary(ctx context.Context) ([]core.StatusCount, error)
	GetSalesByDay(ctx context.Context, fromDate, toDate string) ([]core.SalesDay, error)
	RecentActivity(ctx context.Context, limit int) ([]core.ActivityEntry, error)
}

// Committer is implemented by *fulfillment.Committer; the indirection keeps
// app tests free of real stores.
type Committer interface {
	Commit(ctx context.Context, orderIDs []int, actor string) (*fulfillment.Result, error)
}
