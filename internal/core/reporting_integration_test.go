package core_test

import (
	"context"
	"testing"
	"time"

	"stockroom/internal/core"

	"github.com/shopspring/decimal"
)

func TestReportingService_StockReport(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	productSvc := core.NewProductService(pool)
	reporting := core.NewReportingService(pool)
	ctx := context.Background()

	if _, err := productSvc.CreateProduct(ctx, core.ProductInput{
		Name: "Mug", Quantity: 10, MinQuantity: 2, UnitPrice: decimal.NewFromFloat(9.95),
	}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if _, err := productSvc.CreateProduct(ctx, core.ProductInput{
		Name: "Candle", Quantity: 1, MinQuantity: 5, UnitPrice: decimal.NewFromFloat(12.00),
	}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	report, err := reporting.GetStockReport(ctx)
	if err != nil {
		t.Fatalf("GetStockReport failed: %v", err)
	}
	if report.ProductCount != 2 {
		t.Errorf("expected 2 products, got %d", report.ProductCount)
	}
	if report.UnitsOnHand != 11 {
		t.Errorf("expected 11 units, got %d", report.UnitsOnHand)
	}
	wantValuation := decimal.NewFromFloat(9.95).Mul(decimal.NewFromInt(10)).
		Add(decimal.NewFromFloat(12.00))
	if !report.Valuation.Equal(wantValuation) {
		t.Errorf("expected valuation %s, got %s", wantValuation, report.Valuation)
	}
	if len(report.LowStock) != 1 || report.LowStock[0].Name != "Candle" {
		t.Errorf("unexpected low-stock list %+v", report.LowStock)
	}
}

func TestReportingService_OrderStatusSummary(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	productSvc := core.NewProductService(pool)
	orderSvc := core.NewOrderService(pool)
	reporting := core.NewReportingService(pool)
	ctx := context.Background()

	mug := seedProduct(t, productSvc, "Mug", "111", 50)
	for i := 0; i < 3; i++ {
		if _, err := orderSvc.CreateOrder(ctx, nil, []core.OrderLineInput{{ProductID: mug.ID, Quantity: 1}}, ""); err != nil {
			t.Fatalf("CreateOrder failed: %v", err)
		}
	}
	shipped, err := orderSvc.CreateOrder(ctx, nil, []core.OrderLineInput{{ProductID: mug.ID, Quantity: 1}}, "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if err := orderSvc.UpdateOrderStatus(ctx, shipped.ID, core.StatusShipped); err != nil {
		t.Fatalf("UpdateOrderStatus failed: %v", err)
	}

	summary, err := reporting.GetOrderStatusSummary(ctx)
	if err != nil {
		t.Fatalf("GetOrderStatusSummary failed: %v", err)
	}

	counts := make(map[core.OrderStatus]int)
	for _, sc := range summary {
		counts[sc.Status] = sc.Count
	}
	if counts[core.StatusAwaitingFulfillment] != 3 {
		t.Errorf("expected 3 awaiting, got %d", counts[core.StatusAwaitingFulfillment])
	}
	if counts[core.StatusShipped] != 1 {
		t.Errorf("expected 1 shipped, got %d", counts[core.StatusShipped])
	}
}

func TestReportingService_SalesByDay(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	productSvc := core.NewProductService(pool)
	orderSvc := core.NewOrderService(pool)
	reporting := core.NewReportingService(pool)
	ctx := context.Background()

	mug := seedProduct(t, productSvc, "Mug", "111", 50)
	order, err := orderSvc.CreateOrder(ctx, nil, []core.OrderLineInput{{ProductID: mug.ID, Quantity: 2}}, "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	cancelled, err := orderSvc.CreateOrder(ctx, nil, []core.OrderLineInput{{ProductID: mug.ID, Quantity: 5}}, "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if err := orderSvc.UpdateOrderStatus(ctx, cancelled.ID, core.StatusCancelled); err != nil {
		t.Fatalf("UpdateOrderStatus failed: %v", err)
	}

	today := time.Now().Format("2006-01-02")
	days, err := reporting.GetSalesByDay(ctx, today, today)
	if err != nil {
		t.Fatalf("GetSalesByDay failed: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if days[0].Orders != 1 {
		t.Errorf("cancelled orders must be excluded, got %d", days[0].Orders)
	}
	if days[0].Day != today {
		t.Errorf("expected day %s, got %s", today, days[0].Day)
	}
	if !days[0].Total.Equal(order.Total) {
		t.Errorf("expected total %s, got %s", order.Total, days[0].Total)
	}
}

func TestActivityService_LogAndRecent(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewActivityService(pool)
	ctx := context.Background()

	qty := 3
	inputs := []core.ActivityInput{
		{Kind: core.ActivityAdded, EntityType: "product", EntityID: 1, EntityName: "Mug", Actor: "dana"},
		{Kind: core.ActivityRemoved, EntityType: "product", EntityID: 1, EntityName: "Mug", Actor: "dana", Quantity: &qty},
		{Kind: core.ActivityUpdated, EntityType: "order", EntityID: 7, EntityName: "SO-000007", Actor: "dana"},
	}
	for _, in := range inputs {
		if err := svc.Log(ctx, in); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	recent, err := svc.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected limit honored, got %d entries", len(recent))
	}
	// Newest first.
	if recent[0].Kind != core.ActivityUpdated || recent[0].EntityName != "SO-000007" {
		t.Errorf("unexpected newest entry %+v", recent[0])
	}
	if recent[1].Quantity == nil || *recent[1].Quantity != 3 {
		t.Errorf("expected quantity carried, got %+v", recent[1].Quantity)
	}
}
