package core_test

import (
	"context"
	"errors"
	"testing"

	"stockroom/internal/core"
)

func TestCustomerService_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewCustomerService(pool)
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, core.CustomerInput{
		Name:    "Harbor Gift Shop",
		Email:   "orders@harborgifts.example",
		Phone:   "555-0101",
		Address: "12 Pier Road",
	})
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}

	got, err := svc.GetCustomer(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if got.Name != "Harbor Gift Shop" || got.Email != "orders@harborgifts.example" {
		t.Errorf("unexpected customer %+v", got)
	}

	updated, err := svc.UpdateCustomer(ctx, c.ID, core.CustomerInput{
		Name:  "Harbor Gifts",
		Email: "hello@harborgifts.example",
	})
	if err != nil {
		t.Fatalf("UpdateCustomer failed: %v", err)
	}
	if updated.Name != "Harbor Gifts" {
		t.Errorf("expected renamed customer, got %q", updated.Name)
	}

	if err := svc.DeleteCustomer(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCustomer failed: %v", err)
	}
	if _, err := svc.GetCustomer(ctx, c.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCustomerService_Search(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewCustomerService(pool)
	ctx := context.Background()

	names := []string{"Maple & Main", "Fernwood Interiors", "Maple Hill Trading"}
	for _, name := range names {
		if _, err := svc.CreateCustomer(ctx, core.CustomerInput{Name: name}); err != nil {
			t.Fatalf("CreateCustomer %q failed: %v", name, err)
		}
	}

	maples, err := svc.ListCustomers(ctx, "maple")
	if err != nil {
		t.Fatalf("ListCustomers failed: %v", err)
	}
	if len(maples) != 2 {
		t.Errorf("expected 2 matches, got %d", len(maples))
	}

	all, err := svc.ListCustomers(ctx, "")
	if err != nil {
		t.Fatalf("ListCustomers failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected all 3 customers, got %d", len(all))
	}
}

func TestCustomerService_DeleteDetachesOrders(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	customerSvc := core.NewCustomerService(pool)
	productSvc := core.NewProductService(pool)
	orderSvc := core.NewOrderService(pool)
	ctx := context.Background()

	c, err := customerSvc.CreateCustomer(ctx, core.CustomerInput{Name: "Fernwood Interiors"})
	if err != nil {
		t.Fatalf("CreateCustomer failed: %v", err)
	}
	mug := seedProduct(t, productSvc, "Mug", "111", 10)
	order, err := orderSvc.CreateOrder(ctx, &c.ID, []core.OrderLineInput{{ProductID: mug.ID, Quantity: 1}}, "")
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if err := customerSvc.DeleteCustomer(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCustomer failed: %v", err)
	}

	// The order survives, detached from the deleted customer.
	got, err := orderSvc.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if got.CustomerID != nil {
		t.Errorf("expected customer reference cleared, got %v", got.CustomerID)
	}
	if got.CustomerName != "" {
		t.Errorf("expected empty customer name, got %q", got.CustomerName)
	}
}
