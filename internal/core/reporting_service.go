package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// StockReport summarizes the state of the catalog: counts, retail valuation
// of everything on hand, and the items that need reordering.
type StockReport struct {
	ProductCount int             `json:"product_count"`
	UnitsOnHand  int             `json:"units_on_hand"`
	Valuation    decimal.Decimal `json:"valuation"` // sum of quantity × unit_price
	LowStock     []Product       `json:"low_stock"`
}

// StatusCount is one row of the order pipeline summary.
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int         `json:"count"`
}

// SalesDay aggregates non-cancelled order totals for one calendar day.
type SalesDay struct {
	Day    string          `json:"day"` // YYYY-MM-DD
	Orders int             `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only reporting queries for the dashboard.
type ReportingService interface {
	GetStockReport(ctx context.Context) (*StockReport, error)
	// GetOrderStatusSummary returns order counts per status, pipeline order.
	GetOrderStatusSummary(ctx context.Context) ([]StatusCount, error)
	// GetSalesByDay returns daily order totals within [fromDate, toDate],
	// both YYYY-MM-DD; an empty string leaves that bound open.
	GetSalesByDay(ctx context.Context, fromDate, toDate string) ([]SalesDay, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type reportingService struct {
	pool *pgxpool.Pool
}

func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) GetStockReport(ctx context.Context) (*StockReport, error) {
	var r StockReport
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(quantity), 0), COALESCE(SUM(quantity * unit_price), 0)
		FROM products
	`).Scan(&r.ProductCount, &r.UnitsOnHand, &r.Valuation)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stock totals: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE quantity <= min_quantity
		ORDER BY quantity, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan low stock product: %w", err)
		}
		r.LowStock = append(r.LowStock, *p)
	}
	return &r, rows.Err()
}

func (s *reportingService) GetOrderStatusSummary(ctx context.Context) ([]StatusCount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM orders
		GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query order status summary: %w", err)
	}
	defer rows.Close()

	byStatus := make(map[OrderStatus]int)
	for rows.Next() {
		var st OrderStatus
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		byStatus[st] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Emit in pipeline order so the dashboard renders consistently.
	pipeline := []OrderStatus{StatusPending, StatusAwaitingFulfillment, StatusProcessing,
		StatusReadyToPack, StatusShipped, StatusCompleted, StatusCancelled}
	var out []StatusCount
	for _, st := range pipeline {
		if n, ok := byStatus[st]; ok {
			out = append(out, StatusCount{Status: st, Count: n})
		}
	}
	return out, nil
}

func (s *reportingService) GetSalesByDay(ctx context.Context, fromDate, toDate string) ([]SalesDay, error) {
	query := `
		SELECT ordered_at::date::text, COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE status <> $1
	`
	args := []any{StatusCancelled}
	if fromDate != "" {
		args = append(args, fromDate)
		query += fmt.Sprintf(" AND ordered_at::date >= $%d", len(args))
	}
	if toDate != "" {
		args = append(args, toDate)
		query += fmt.Sprintf(" AND ordered_at::date <= $%d", len(args))
	}
	query += " GROUP BY ordered_at::date ORDER BY ordered_at::date"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales by day: %w", err)
	}
	defer rows.Close()

	var days []SalesDay
	for rows.Next() {
		var d SalesDay
		if err := rows.Scan(&d.Day, &d.Orders, &d.Total); err != nil {
			return nil, fmt.Errorf("failed to scan sales day: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
