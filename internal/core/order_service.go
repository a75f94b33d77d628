package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OrderService manages order records. The fulfillment Committer is the only
// caller that advances orders through the picking pipeline; everything else
// here is plain CRUD for the UI and the external order-source importer.
type OrderService interface {
	// CreateOrder records a manual order. Lines must have positive quantities;
	// unit prices default to the product's catalog price. The order number is
	// assigned gaplessly from the order_sequences counter.
	CreateOrder(ctx context.Context, customerID *int, lines []OrderLineInput, notes string) (*Order, error)
	// ImportExternal upserts an order delivered by the external platform sync,
	// keyed on its external identifier.
	ImportExternal(ctx context.Context, in ExternalOrderInput) (*Order, error)

	GetOrder(ctx context.Context, id int) (*Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)
	// ListOrders returns orders whose status is in statusIn, newest first,
	// with line items loaded. An empty statusIn lists every order.
	ListOrders(ctx context.Context, statusIn []OrderStatus) ([]Order, error)

	// UpdateOrderStatus merges a new status and updated_at into the order
	// document, leaving every other field untouched.
	UpdateOrderStatus(ctx context.Context, id int, status OrderStatus) error
	// DeleteOrder removes an order and its line items. Never called by the
	// fulfillment core.
	DeleteOrder(ctx context.Context, id int) error
}

type orderService struct {
	pool *pgxpool.Pool
}

func NewOrderService(pool *pgxpool.Pool) OrderService {
	return &orderService{pool: pool}
}

// nextOrderNumber claims the next number from the single-row order_sequences
// counter inside the caller's transaction. The row lock makes numbering
// gapless for committed orders.
func nextOrderNumber(ctx context.Context, tx pgx.Tx) (string, error) {
	var n int64
	err := tx.QueryRow(ctx,
		"UPDATE order_sequences SET last_number = last_number + 1 WHERE id = 1 RETURNING last_number",
	).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("failed to advance order sequence: %w", err)
	}
	return fmt.Sprintf("SO-%06d", n), nil
}

func (s *orderService) CreateOrder(ctx context.Context, customerID *int, lines []OrderLineInput, notes string) (*Order, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("order must have at least one line")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if customerID != nil {
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)", *customerID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to verify customer: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("customer %d: %w", *customerID, ErrNotFound)
		}
	}

	// Resolve products and compute line totals.
	type resolvedLine struct {
		productID   int
		productName string
		quantity    int
		unitPrice   decimal.Decimal
		lineTotal   decimal.Decimal
	}
	var resolved []resolvedLine
	var total decimal.Decimal

	for i, input := range lines {
		if input.Quantity <= 0 {
			return nil, fmt.Errorf("line %d: quantity must be positive, got %d", i+1, input.Quantity)
		}

		var name string
		var catalogPrice decimal.Decimal
		err = tx.QueryRow(ctx, "SELECT name, unit_price FROM products WHERE id = $1", input.ProductID).
			Scan(&name, &catalogPrice)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("line %d: product %d: %w", i+1, input.ProductID, ErrNotFound)
			}
			return nil, fmt.Errorf("line %d: failed to resolve product: %w", i+1, err)
		}

		price := input.UnitPrice
		if price.IsZero() {
			price = catalogPrice
		}
		lineTotal := price.Mul(decimal.NewFromInt(int64(input.Quantity)))
		total = total.Add(lineTotal)

		resolved = append(resolved, resolvedLine{
			productID:   input.ProductID,
			productName: name,
			quantity:    input.Quantity,
			unitPrice:   price,
			lineTotal:   lineTotal,
		})
	}

	orderNumber, err := nextOrderNumber(ctx, tx)
	if err != nil {
		return nil, err
	}

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (order_number, status, source, customer_id, total, notes, ordered_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id
	`, orderNumber, StatusAwaitingFulfillment, SourceManual, customerID, total, notes).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, rl := range resolved {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, orderID, rl.productID, rl.productName, rl.quantity, rl.unitPrice, rl.lineTotal)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

func (s *orderService) ImportExternal(ctx context.Context, in ExternalOrderInput) (*Order, error) {
	if in.ExternalID == "" {
		return nil, fmt.Errorf("external order id is required")
	}
	status := in.Status
	if status == "" {
		status = StatusAwaitingFulfillment
	}
	if !ValidStatus(status) {
		return nil, fmt.Errorf("unknown order status %q", status)
	}
	orderedAt := in.OrderedAt
	if orderedAt.IsZero() {
		orderedAt = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var total decimal.Decimal
	type resolvedLine struct {
		productID   int
		productName string
		quantity    int
		unitPrice   decimal.Decimal
		lineTotal   decimal.Decimal
	}
	var resolved []resolvedLine
	for i, input := range in.Lines {
		if input.Quantity <= 0 {
			return nil, fmt.Errorf("line %d: quantity must be positive, got %d", i+1, input.Quantity)
		}
		// External lines may reference products this catalog no longer has;
		// keep the reference and carry the name from the catalog when present.
		var name string
		err = tx.QueryRow(ctx, "SELECT name FROM products WHERE id = $1", input.ProductID).Scan(&name)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("line %d: failed to resolve product: %w", i+1, err)
		}
		lineTotal := input.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity)))
		total = total.Add(lineTotal)
		resolved = append(resolved, resolvedLine{
			productID:   input.ProductID,
			productName: name,
			quantity:    input.Quantity,
			unitPrice:   input.UnitPrice,
			lineTotal:   lineTotal,
		})
	}

	orderNumber := in.OrderNumber
	if orderNumber == "" {
		orderNumber, err = nextOrderNumber(ctx, tx)
		if err != nil {
			return nil, err
		}
	}

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (order_number, status, source, external_id, total, ordered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id) WHERE external_id IS NOT NULL
		DO UPDATE SET status = EXCLUDED.status, total = EXCLUDED.total, updated_at = NOW()
		RETURNING id
	`, orderNumber, status, SourceExternal, in.ExternalID, total, orderedAt).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert external order: %w", err)
	}

	// Replace line items on re-import: the external platform is authoritative
	// for its own orders.
	if _, err = tx.Exec(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID); err != nil {
		return nil, fmt.Errorf("failed to clear order lines: %w", err)
	}
	for _, rl := range resolved {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, orderID, rl.productID, rl.productName, rl.quantity, rl.unitPrice, rl.lineTotal)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit external order import: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

const orderColumns = `o.id, o.order_number, o.status, o.source, o.external_id,
       o.customer_id, COALESCE(c.name, ''), o.total, o.notes,
       o.ordered_at, o.created_at, o.updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.Status, &o.Source, &o.ExternalID,
		&o.CustomerID, &o.CustomerName, &o.Total, &o.Notes,
		&o.OrderedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *orderService) GetOrder(ctx context.Context, id int) (*Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", id, err)
	}

	items, err := s.fetchItems(ctx, []int{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (s *orderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	var id int
	err := s.pool.QueryRow(ctx, "SELECT id FROM orders WHERE order_number = $1", orderNumber).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", orderNumber, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lookup order by number: %w", err)
	}
	return s.GetOrder(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context, statusIn []OrderStatus) ([]Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
	`
	args := []any{}
	if len(statusIn) > 0 {
		statuses := make([]string, len(statusIn))
		for i, st := range statusIn {
			statuses[i] = string(st)
		}
		query += " WHERE o.status = ANY($1)"
		args = append(args, statuses)
	}
	query += " ORDER BY o.id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	var ids []int
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, nil
	}

	items, err := s.fetchItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id int, status OrderStatus) error {
	if !ValidStatus(status) {
		return fmt.Errorf("unknown order status %q", status)
	}
	tag, err := s.pool.Exec(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return nil
}

// fetchItems loads line items for the given order ids in one query, keyed by
// order id.
func (s *orderService) fetchItems(ctx context.Context, orderIDs []int) (map[int][]LineItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, line_total, picked
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := make(map[int][]LineItem)
	for rows.Next() {
		var li LineItem
		if err := rows.Scan(&li.ID, &li.OrderID, &li.ProductID, &li.ProductName,
			&li.Quantity, &li.UnitPrice, &li.LineTotal, &li.Picked); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[li.OrderID] = append(items[li.OrderID], li)
	}
	return items, rows.Err()
}
