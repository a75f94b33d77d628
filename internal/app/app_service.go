package app

import (
	"context"
	"sync"

	"stockroom/internal/core"
	"stockroom/internal/fulfillment"
)

type appService struct {
	products  core.ProductService
	customers core.CustomerService
	orders    core.OrderService
	activity  core.ActivityService
	reporting core.ReportingService
	committer Committer

	// One pick session per deployment: the app serves a single packing
	// station. The mutex serializes session access because HTTP handlers run
	// concurrently even though the station submits one scan at a time.
	mu      sync.Mutex
	session *fulfillment.Session
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	products core.ProductService,
	customers core.CustomerService,
	orders core.OrderService,
	activity core.ActivityService,
	reporting core.ReportingService,
	committer Committer,
) ApplicationService {
	return &appService{
		products:  products,
		customers: customers,
		orders:    orders,
		activity:  activity,
		reporting: reporting,
		committer: committer,
	}
}

// ── Products ──────────────────────────────────────────────────────────────────

func (s *appService) ListProducts(ctx context.Context, opts core.ListProductsOptions) (*ProductListResult, error) {
	products, err := s.products.ListProducts(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) GetProduct(ctx context.Context, id int) (*core.Product, error) {
	return s.products.GetProduct(ctx, id)
}

func (s *appService) CreateProduct(ctx context.Context, req ProductRequest) (*core.Product, error) {
	p, err := s.products.CreateProduct(ctx, core.ProductInput{
		Name:        req.Name,
		Barcode:     req.Barcode,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, core.ActivityAdded, "product", p.ID, p.Name, req.Actor, nil)
	return p, nil
}

func (s *appService) UpdateProduct(ctx context.Context, id int, req ProductRequest) (*core.Product, error) {
	p, err := s.products.UpdateProduct(ctx, id, core.ProductInput{
		Name:        req.Name,
		Barcode:     req.Barcode,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, core.ActivityUpdated, "product", p.ID, p.Name, req.Actor, nil)
	return p, nil
}

func (s *appService) LowStockProducts(ctx context.Context) ([]core.Product, error) {
	return s.products.LowStock(ctx)
}

func (s *appService) DeleteProduct(ctx context.Context, id int, actor string) error {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.logActivity(ctx, core.ActivityRemoved, "product", id, p.Name, actor, nil)
	return nil
}

// ── Customers ─────────────────────────────────────────────────────────────────

func (s *appService) ListCustomers(ctx context.Context, search string) (*CustomerListResult, error) {
	customers, err := s.customers.ListCustomers(ctx, search)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

func (s *appService) GetCustomer(ctx context.Context, id int) (*core.Customer, error) {
	return s.customers.GetCustomer(ctx, id)
}

func (s *appService) CreateCustomer(ctx context.Context, req CustomerRequest) (*core.Customer, error) {
	c, err := s.customers.CreateCustomer(ctx, core.CustomerInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, core.ActivityAdded, "customer", c.ID, c.Name, req.Actor, nil)
	return c, nil
}

func (s *appService) UpdateCustomer(ctx context.Context, id int, req CustomerRequest) (*core.Customer, error) {
	c, err := s.customers.UpdateCustomer(ctx, id, core.CustomerInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, core.ActivityUpdated, "customer", c.ID, c.Name, req.Actor, nil)
	return c, nil
}

func (s *appService) DeleteCustomer(ctx context.Context, id int, actor string) error {
	c, err := s.customers.GetCustomer(ctx, id)
	if err != nil {
		return err
	}
	if err := s.customers.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	s.logActivity(ctx, core.ActivityRemoved, "customer", id, c.Name, actor, nil)
	return nil
}

// ── Orders ────────────────────────────────────────────────────────────────────

func (s *appService) ListOrders(ctx context.Context, statusIn []core.OrderStatus) (*OrderListResult, error) {
	orders, err := s.orders.ListOrders(ctx, statusIn)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders}, nil
}

func (s *appService) GetOrder(ctx context.Context, id int) (*core.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

func (s *appService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*core.Order, error) {
	lines := make([]core.OrderLineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = core.OrderLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}
	order, err := s.orders.CreateOrder(ctx, req.CustomerID, lines, req.Notes)
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, core.ActivityAdded, "order", order.ID, order.OrderNumber, req.Actor, nil)
	return order, nil
}

func (s *appService) ImportOrder(ctx context.Context, req ImportOrderRequest) (*core.Order, error) {
	lines := make([]core.OrderLineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = core.OrderLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		}
	}
	order, err := s.orders.ImportExternal(ctx, core.ExternalOrderInput{
		ExternalID:  req.ExternalID,
		OrderNumber: req.OrderNumber,
		Status:      req.Status,
		OrderedAt:   req.OrderedAt,
		Lines:       lines,
	})
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, core.ActivityUpdated, "order", order.ID, order.OrderNumber, req.Actor, nil)
	return order, nil
}

func (s *appService) UpdateOrderStatus(ctx context.Context, id int, status core.OrderStatus, actor string) (*core.Order, error) {
	if err := s.orders.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, err
	}
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logActivity(ctx, core.ActivityUpdated, "order", order.ID, order.OrderNumber, actor, nil)
	return order, nil
}

func (s *appService) DeleteOrder(ctx context.Context, id int, actor string) error {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if err := s.orders.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.logActivity(ctx, core.ActivityRemoved, "order", id, order.OrderNumber, actor, nil)
	return nil
}

// ── Fulfillment ───────────────────────────────────────────────────────────────

// rebuildSession aggregates the open orders into a fresh session.
// Caller must hold s.mu.
func (s *appService) rebuildSession(ctx context.Context) error {
	orders, err := s.orders.ListOrders(ctx, core.OpenStatuses)
	if err != nil {
		return err
	}
	entries := fulfillment.BuildPickList(ctx, orders, s.products)
	s.session = fulfillment.NewSession(entries)
	return nil
}

// snapshot renders the session for the UI. Caller must hold s.mu.
func (s *appService) snapshot() *PickListResult {
	return &PickListResult{
		Entries:     s.session.Entries(),
		ReadyOrders: s.session.ReadyOrders(),
		LastScan:    s.session.LastScan(),
		Feedback:    s.session.Feedback(),
	}
}

func (s *appService) GetPickList(ctx context.Context) (*PickListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		if err := s.rebuildSession(ctx); err != nil {
			return nil, err
		}
	}
	return s.snapshot(), nil
}

func (s *appService) RefreshPickList(ctx context.Context) (*PickListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.rebuildSession(ctx); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

func (s *appService) SubmitScan(ctx context.Context, identifier string) (*PickListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		if err := s.rebuildSession(ctx); err != nil {
			return nil, err
		}
	}
	s.session.SubmitScan(identifier)
	return s.snapshot(), nil
}

func (s *appService) AdjustEntry(ctx context.Context, productID, delta int) (*PickListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		if err := s.rebuildSession(ctx); err != nil {
			return nil, err
		}
	}
	if entry := s.session.Entry(productID); entry != nil {
		s.session.Adjust(entry, delta)
	}
	return s.snapshot(), nil
}

func (s *appService) ToggleEntry(ctx context.Context, productID int) (*PickListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		if err := s.rebuildSession(ctx); err != nil {
			return nil, err
		}
	}
	if entry := s.session.Entry(productID); entry != nil {
		s.session.ToggleComplete(entry)
	}
	return s.snapshot(), nil
}

func (s *appService) CommitOrders(ctx context.Context, orderIDs []int, actor string) (*CommitResult, error) {
	res, err := s.committer.Commit(ctx, orderIDs, actor)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if res.OrdersSucceeded > 0 || s.session == nil {
		if err := s.rebuildSession(ctx); err != nil {
			return nil, err
		}
	}
	return &CommitResult{Result: res, PickList: s.snapshot()}, nil
}

// ── Reports & activity ────────────────────────────────────────────────────────

func (s *appService) GetStockReport(ctx context.Context) (*core.StockReport, error) {
	return s.reporting.GetStockReport(ctx)
}

func (s *appService) GetOrderStatusSummary(ctx context.Context) ([]core.StatusCount, error) {
	return s.reporting.GetOrderStatusSummary(ctx)
}

func (s *appService) GetSalesByDay(ctx context.Context, fromDate, toDate string) ([]core.SalesDay, error) {
	return s.reporting.GetSalesByDay(ctx, fromDate, toDate)
}

func (s *appService) RecentActivity(ctx context.Context, limit int) ([]core.ActivityEntry, error) {
	return s.activity.Recent(ctx, limit)
}

// logActivity writes an audit entry, ignoring failures: the audit sink is
// fire-and-forget everywhere in this application.
func (s *appService) logActivity(ctx context.Context, kind core.ActivityKind, entityType string, id int, name, actor string, qty *int) {
	_ = s.activity.Log(ctx, core.ActivityInput{
		Kind:       kind,
		EntityType: entityType,
		EntityID:   id,
		EntityName: name,
		Actor:      actor,
		Quantity:   qty,
	})
}
