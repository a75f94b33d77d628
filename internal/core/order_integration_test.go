package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockroom/internal/core"

	"github.com/shopspring/decimal"
)

func TestOrderService_CreateOrder(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	productSvc := core.NewProductService(pool)
	customerSvc := core.NewCustomerService(pool)
	orderSvc := core.NewOrderService(pool)
	ctx := context.Background()

	mug := seedProduct(t, productSvc, "Enamel Mug", "4006381333931", 20)
	candle := seedProduct(t, productSvc, "Beeswax Candle", "7350053850019", 10)

	customer, err := customerSvc.CreateCustomer(ctx, core.CustomerInput{Name: "Harbor Gift Shop"})
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}

	order, err := orderSvc.CreateOrder(ctx, &customer.ID, []core.OrderLineInput{
		{ProductID: mug.ID, Quantity: 3},
		{ProductID: candle.ID, Quantity: 1, UnitPrice: decimal.NewFromFloat(11.00)},
	}, "rush order")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if order.OrderNumber != "SO-000001" {
		t.Errorf("expected SO-000001, got %q", order.OrderNumber)
	}
	if order.Status != core.StatusAwaitingFulfillment {
		t.Errorf("expected AWAITING_FULFILLMENT, got %q", order.Status)
	}
	if order.Source != core.SourceManual {
		t.Errorf("expected MANUAL source, got %q", order.Source)
	}
	if order.CustomerName != "Harbor Gift Shop" {
		t.Errorf("expected joined customer name, got %q", order.CustomerName)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}

	// Catalog price for the mug, explicit price for the candle.
	wantTotal := decimal.NewFromFloat(9.95).Mul(decimal.NewFromInt(3)).
		Add(decimal.NewFromFloat(11.00))
	if !order.Total.Equal(wantTotal) {
		t.Errorf("expected total %s, got %s", wantTotal, order.Total)
	}

	// Numbering is sequential.
	second, err := orderSvc.CreateOrder(ctx, nil, []core.OrderLineInput{
		{ProductID: mug.ID, Quantity: 1},
	}, "")
	if err != nil {
		t.Fatalf("second CreateOrder failed: %v", err)
	}
	if second.OrderNumber != "SO-000002" {
		t.Errorf("expected SO-000002, got %q", second.OrderNumber)
	}
	if second.CustomerID != nil {
		t.Errorf("expected walk-in order without customer, got %v", second.CustomerID)
	}
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	productSvc := core.NewProductService(pool)
	orderSvc := core.NewOrderService(pool)
	ctx := context.Background()

	mug := seedProduct(t, productSvc, "Enamel Mug", "4006381333931", 20)

	if _, err := orderSvc.CreateOrder(ctx, nil, nil, ""); err == nil {
		t.Error("expected rejection of empty order")
	}

	if _, err := orderSvc.CreateOrder(ctx, nil, []core.OrderLineInput{
		{ProductID: mug.ID, Quantity: 0},
	}, ""); err == nil {
		t.Error("expected rejection of zero quantity")
	}

	if _, err := orderSvc.CreateOrder(ctx, nil, []core.OrderLineInput{
		{ProductID: 999999, Quantity: 1},
	}, ""); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown product, got %v", err)
	}

	missing := 999999
	if _, err := orderSvc.CreateOrder(ctx, &missing, []core.OrderLineInput{
		{ProductID: mug.ID, Quantity: 1},
	}, ""); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown customer, got %v", err)
	}

	// Failed creations must not burn order numbers.
	order, err := orderSvc.CreateOrder(ctx, nil, []core.OrderLineInput{
		{ProductID: mug.ID, Quantity: 1},
	}, "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.OrderNumber != "SO-000001" {
		t.Errorf("expected gapless numbering SO-000001, got %q", order.OrderNumber)
	}
}

func TestOrderService_ImportExternal(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	productSvc := core.NewProductService(pool)
	orderSvc := core.NewOrderService(pool)
	ctx := context.Background()

	mug := seedProduct(t, productSvc, "Enamel Mug", "4006381333931", 20)

	in := core.ExternalOrderInput{
		ExternalID:  "shop-1001",
		OrderNumber: "WEB-1001",
		Status:      core.StatusAwaitingFulfillment,
		OrderedAt:   time.Now().Add(-time.Hour),
		Lines: []core.OrderLineInput{
			{ProductID: mug.ID, Quantity: 2, UnitPrice: decimal.NewFromFloat(9.95)},
		},
	}

	order, err := orderSvc.ImportExternal(ctx, in)
	if err != nil {
		t.Fatalf("ImportExternal failed: %v", err)
	}
	if order.Source != core.SourceExternal {
		t.Errorf("expected EXTERNAL source, got %q", order.Source)
	}
	if order.ExternalID == nil || *order.ExternalID != "shop-1001" {
		t.Errorf("expected external id carried, got %v", order.ExternalID)
	}
	if order.OrderNumber != "WEB-1001" {
		t.Errorf("expected platform order number kept, got %q", order.OrderNumber)
	}

	// Re-import upserts in place and replaces the lines.
	in.Lines = append(in.Lines, core.OrderLineInput{
		ProductID: 424242, Quantity: 1, UnitPrice: decimal.NewFromFloat(5.00),
	})
	again, err := orderSvc.ImportExternal(ctx, in)
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	if again.ID != order.ID {
		t.Errorf("expected upsert onto the same order, got %d vs %d", again.ID, order.ID)
	}
	if len(again.Items) != 2 {
		t.Fatalf("expected replaced lines, got %d", len(again.Items))
	}
	// The unknown product keeps its reference with an empty catalog name.
	if again.Items[1].ProductID != 424242 || again.Items[1].ProductName != "" {
		t.Errorf("unexpected dangling line %+v", again.Items[1])
	}
}

func TestOrderService_ListOrders(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	productSvc := core.NewProductService(pool)
	orderSvc := core.NewOrderService(pool)
	ctx := context.Background()

	mug := seedProduct(t, productSvc, "Enamel Mug", "4006381333931", 20)

	first, err := orderSvc.CreateOrder(ctx, nil, []core.OrderLineInput{{ProductID: mug.ID, Quantity: 1}}, "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	second, err := orderSvc.CreateOrder(ctx, nil, []core.OrderLineInput{{ProductID: mug.ID, Quantity: 2}}, "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if err := orderSvc.UpdateOrderStatus(ctx, second.ID, core.StatusShipped); err != nil {
		t.Fatalf("UpdateOrderStatus failed: %v", err)
	}

	open, err := orderSvc.ListOrders(ctx, core.OpenStatuses)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(open) != 1 || open[0].ID != first.ID {
		t.Fatalf("expected only the open order, got %+v", open)
	}
	// Items come back with the listing; the pick-list builder depends on it.
	if len(open[0].Items) != 1 {
		t.Errorf("expected items loaded, got %d", len(open[0].Items))
	}

	all, err := orderSvc.ListOrders(ctx, nil)
	if err != nil {
		t.Fatalf("ListOrders all failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected both orders without a filter, got %d", len(all))
	}
}

func TestOrderService_GetByNumberAndDelete(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	productSvc := core.NewProductService(pool)
	orderSvc := core.NewOrderService(pool)
	ctx := context.Background()

	mug := seedProduct(t, productSvc, "Enamel Mug", "4006381333931", 20)
	order, err := orderSvc.CreateOrder(ctx, nil, []core.OrderLineInput{{ProductID: mug.ID, Quantity: 1}}, "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	byNumber, err := orderSvc.GetOrderByNumber(ctx, order.OrderNumber)
	if err != nil {
		t.Fatalf("GetOrderByNumber failed: %v", err)
	}
	if byNumber.ID != order.ID {
		t.Errorf("expected order %d, got %d", order.ID, byNumber.ID)
	}

	if err := orderSvc.DeleteOrder(ctx, order.ID); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if _, err := orderSvc.GetOrder(ctx, order.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := orderSvc.DeleteOrder(ctx, order.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}
