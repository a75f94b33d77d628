package fulfillment

import (
	"context"
	"errors"
	"testing"

	"stockroom/internal/core"
)

type fakeOrderStore struct {
	orders    map[int]*core.Order
	statuses  map[int]core.OrderStatus
	statusErr map[int]error
}

func newFakeOrderStore(orders ...*core.Order) *fakeOrderStore {
	f := &fakeOrderStore{
		orders:    make(map[int]*core.Order),
		statuses:  make(map[int]core.OrderStatus),
		statusErr: make(map[int]error),
	}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeOrderStore) GetOrder(ctx context.Context, id int) (*core.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderStore) UpdateOrderStatus(ctx context.Context, id int, status core.OrderStatus) error {
	if err := f.statusErr[id]; err != nil {
		return err
	}
	f.statuses[id] = status
	return nil
}

type fakeProductStore struct {
	products  map[int]*core.Product
	updateErr map[int]error
}

func newFakeProductStore(products ...*core.Product) *fakeProductStore {
	f := &fakeProductStore{
		products:  make(map[int]*core.Product),
		updateErr: make(map[int]error),
	}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductStore) GetProduct(ctx context.Context, id int) (*core.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductStore) UpdateProductQuantity(ctx context.Context, id, quantity int) error {
	if err := f.updateErr[id]; err != nil {
		return err
	}
	f.products[id].Quantity = quantity
	return nil
}

type fakeActivityLog struct {
	entries []core.ActivityInput
}

func (f *fakeActivityLog) Log(ctx context.Context, in core.ActivityInput) error {
	f.entries = append(f.entries, in)
	return nil
}

type fakeSync struct {
	calls []string
	err   error
}

func (f *fakeSync) UpdateOrderStatus(ctx context.Context, externalID string, status core.OrderStatus) error {
	f.calls = append(f.calls, externalID)
	return f.err
}

func strPtr(s string) *string { return &s }

func TestCommitter_EmptySelection(t *testing.T) {
	c := NewCommitter(newFakeOrderStore(), newFakeProductStore(), &fakeActivityLog{}, nil)

	_, err := c.Commit(context.Background(), nil, "tester")
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
}

func TestCommitter_Success(t *testing.T) {
	orders := newFakeOrderStore(&core.Order{
		ID: 10, OrderNumber: "SO-000010", Status: core.StatusAwaitingFulfillment,
		Items: []core.LineItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	products := newFakeProductStore(
		&core.Product{ID: 1, Name: "Mug", Quantity: 10},
		&core.Product{ID: 2, Name: "Candle", Quantity: 5},
	)
	activity := &fakeActivityLog{}
	c := NewCommitter(orders, products, activity, nil)

	res, err := c.Commit(context.Background(), []int{10}, "tester")
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if res.OrdersSucceeded != 1 || res.OrdersFailed != 0 {
		t.Errorf("unexpected result %+v", res)
	}
	if products.products[1].Quantity != 8 || products.products[2].Quantity != 4 {
		t.Errorf("stock not decremented: %d, %d",
			products.products[1].Quantity, products.products[2].Quantity)
	}
	if orders.statuses[10] != core.StatusReadyToPack {
		t.Errorf("expected READY_TO_PACK, got %q", orders.statuses[10])
	}
	if res.Products.Succeeded != 2 || res.Products.Failed != 0 {
		t.Errorf("unexpected product result %+v", res.Products)
	}

	// Two stock removals plus one order update in the audit trail.
	if len(activity.entries) != 3 {
		t.Fatalf("expected 3 activity entries, got %d", len(activity.entries))
	}
	first := activity.entries[0]
	if first.Kind != core.ActivityRemoved || first.Quantity == nil || *first.Quantity != 2 {
		t.Errorf("unexpected first activity entry %+v", first)
	}
	last := activity.entries[2]
	if last.Kind != core.ActivityUpdated || last.EntityName != "SO-000010" {
		t.Errorf("unexpected final activity entry %+v", last)
	}
}

func TestCommitter_InsufficientStock(t *testing.T) {
	orders := newFakeOrderStore(&core.Order{
		ID: 10, OrderNumber: "SO-000010", Status: core.StatusProcessing,
		Items: []core.LineItem{{ProductID: 1, Quantity: 7}},
	})
	products := newFakeProductStore(&core.Product{ID: 1, Name: "Mug", Quantity: 5})
	c := NewCommitter(orders, products, &fakeActivityLog{}, nil)

	res, err := c.Commit(context.Background(), []int{10}, "tester")
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if res.OrdersSucceeded != 0 || res.OrdersFailed != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	if len(res.FailedOrderIDs) != 1 || res.FailedOrderIDs[0] != 10 {
		t.Errorf("expected failed order 10, got %v", res.FailedOrderIDs)
	}
	if len(res.Products.Insufficient) != 1 {
		t.Fatalf("expected 1 insufficient record, got %d", len(res.Products.Insufficient))
	}
	ins := res.Products.Insufficient[0]
	if ins.ProductName != "Mug" || ins.Needed != 7 || ins.Available != 5 {
		t.Errorf("unexpected insufficient record %+v", ins)
	}
	if products.products[1].Quantity != 5 {
		t.Errorf("stock must be untouched on shortage, got %d", products.products[1].Quantity)
	}
	if _, updated := orders.statuses[10]; updated {
		t.Error("status must not change for a short order")
	}
}

func TestCommitter_NoRollbackOfEarlierLines(t *testing.T) {
	orders := newFakeOrderStore(&core.Order{
		ID: 10, OrderNumber: "SO-000010",
		Items: []core.LineItem{
			{ProductID: 1, Quantity: 2}, // enough stock
			{ProductID: 2, Quantity: 9}, // short
		},
	})
	products := newFakeProductStore(
		&core.Product{ID: 1, Name: "Mug", Quantity: 10},
		&core.Product{ID: 2, Name: "Candle", Quantity: 1},
	)
	c := NewCommitter(orders, products, &fakeActivityLog{}, nil)

	res, err := c.Commit(context.Background(), []int{10}, "tester")
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if res.OrdersFailed != 1 {
		t.Errorf("expected order failure, got %+v", res)
	}
	// The first line's decrement stands even though the order failed.
	if products.products[1].Quantity != 8 {
		t.Errorf("expected earlier decrement to stand, got %d", products.products[1].Quantity)
	}
	if products.products[2].Quantity != 1 {
		t.Errorf("short line must not decrement, got %d", products.products[2].Quantity)
	}
}

func TestCommitter_MissingProductDoesNotBlockStatus(t *testing.T) {
	orders := newFakeOrderStore(&core.Order{
		ID: 10, OrderNumber: "SO-000010",
		Items: []core.LineItem{{ProductID: 99, Quantity: 1}}, // dangling reference
	})
	c := NewCommitter(orders, newFakeProductStore(), &fakeActivityLog{}, nil)

	res, err := c.Commit(context.Background(), []int{10}, "tester")
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if res.OrdersSucceeded != 1 {
		t.Errorf("a dangling product reference must not fail the order, got %+v", res)
	}
	if res.Products.Failed != 1 {
		t.Errorf("expected the product failure recorded, got %+v", res.Products)
	}
	if orders.statuses[10] != core.StatusReadyToPack {
		t.Errorf("expected READY_TO_PACK, got %q", orders.statuses[10])
	}
}

func TestCommitter_PartialBatch(t *testing.T) {
	orders := newFakeOrderStore(
		&core.Order{ID: 10, OrderNumber: "SO-000010",
			Items: []core.LineItem{{ProductID: 1, Quantity: 1}}},
		&core.Order{ID: 11, OrderNumber: "SO-000011",
			Items: []core.LineItem{{ProductID: 2, Quantity: 5}}},
	)
	products := newFakeProductStore(
		&core.Product{ID: 1, Name: "Mug", Quantity: 3},
		&core.Product{ID: 2, Name: "Candle", Quantity: 1},
	)
	c := NewCommitter(orders, products, &fakeActivityLog{}, nil)

	res, err := c.Commit(context.Background(), []int{10, 11, 404}, "tester")
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if res.OrdersSucceeded != 1 {
		t.Errorf("expected 1 success, got %d", res.OrdersSucceeded)
	}
	if res.OrdersFailed != 2 {
		t.Errorf("expected 2 failures (short + missing), got %d", res.OrdersFailed)
	}
	if orders.statuses[10] != core.StatusReadyToPack {
		t.Error("order 10 should have advanced despite sibling failures")
	}
}

func TestCommitter_ExternalOrderSyncsSource(t *testing.T) {
	orders := newFakeOrderStore(&core.Order{
		ID: 10, OrderNumber: "SO-000010",
		Source: core.SourceExternal, ExternalID: strPtr("ext-42"),
		Items: []core.LineItem{{ProductID: 1, Quantity: 1}},
	})
	products := newFakeProductStore(&core.Product{ID: 1, Name: "Mug", Quantity: 3})
	sync := &fakeSync{}
	c := NewCommitter(orders, products, &fakeActivityLog{}, sync)

	if _, err := c.Commit(context.Background(), []int{10}, "tester"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if len(sync.calls) != 1 || sync.calls[0] != "ext-42" {
		t.Errorf("expected sync call for ext-42, got %v", sync.calls)
	}
}

func TestCommitter_SyncFailureDoesNotFailOrder(t *testing.T) {
	orders := newFakeOrderStore(&core.Order{
		ID: 10, OrderNumber: "SO-000010",
		Source: core.SourceExternal, ExternalID: strPtr("ext-42"),
		Items: []core.LineItem{{ProductID: 1, Quantity: 1}},
	})
	products := newFakeProductStore(&core.Product{ID: 1, Name: "Mug", Quantity: 3})
	sync := &fakeSync{err: errors.New("upstream 503")}
	c := NewCommitter(orders, products, &fakeActivityLog{}, sync)

	res, err := c.Commit(context.Background(), []int{10}, "tester")
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if res.OrdersSucceeded != 1 || res.OrdersFailed != 0 {
		t.Errorf("sync failure must not fail the commit, got %+v", res)
	}
	if orders.statuses[10] != core.StatusReadyToPack {
		t.Error("local status must advance regardless of sync outcome")
	}
}

func TestCommitter_ManualOrderSkipsSync(t *testing.T) {
	orders := newFakeOrderStore(&core.Order{
		ID: 10, OrderNumber: "SO-000010", Source: core.SourceManual,
		Items: []core.LineItem{{ProductID: 1, Quantity: 1}},
	})
	products := newFakeProductStore(&core.Product{ID: 1, Name: "Mug", Quantity: 3})
	sync := &fakeSync{}
	c := NewCommitter(orders, products, &fakeActivityLog{}, sync)

	if _, err := c.Commit(context.Background(), []int{10}, "tester"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if len(sync.calls) != 0 {
		t.Errorf("manual orders must not hit the source platform, got %v", sync.calls)
	}
}

func TestCommitter_StatusUpdateFailure(t *testing.T) {
	orders := newFakeOrderStore(&core.Order{
		ID: 10, OrderNumber: "SO-000010",
		Items: []core.LineItem{{ProductID: 1, Quantity: 1}},
	})
	orders.statusErr[10] = errors.New("deadlock detected")
	products := newFakeProductStore(&core.Product{ID: 1, Name: "Mug", Quantity: 3})
	c := NewCommitter(orders, products, &fakeActivityLog{}, nil)

	res, err := c.Commit(context.Background(), []int{10}, "tester")
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if res.OrdersFailed != 1 || res.OrdersSucceeded != 0 {
		t.Errorf("expected order counted failed, got %+v", res)
	}
	// Stock was already decremented before the status write failed.
	if products.products[1].Quantity != 2 {
		t.Errorf("expected decrement to stand, got %d", products.products[1].Quantity)
	}
}
