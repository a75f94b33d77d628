package fulfillment

import (
	"context"
	"errors"
	"log"

	"stockroom/internal/core"
)

// ErrEmptySelection is returned by Commit when no orders were selected.
var ErrEmptySelection = errors.New("no orders selected")

// OrderStore is the slice of the order store the committer needs.
// Satisfied by core.OrderService.
type OrderStore interface {
	GetOrder(ctx context.Context, id int) (*core.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status core.OrderStatus) error
}

// ProductStore is the slice of the product store the committer needs.
// Satisfied by core.ProductService.
type ProductStore interface {
	GetProduct(ctx context.Context, id int) (*core.Product, error)
	UpdateProductQuantity(ctx context.Context, id, quantity int) error
}

// ActivityLog accepts audit entries. Satisfied by core.ActivityService.
// Writes are fire-and-forget: a failed audit write never fails a commit.
type ActivityLog interface {
	Log(ctx context.Context, in core.ActivityInput) error
}

// SourceSync pushes a status change back to the external order platform.
// Satisfied by *ordersync.Client.
type SourceSync interface {
	UpdateOrderStatus(ctx context.Context, externalID string, status core.OrderStatus) error
}

// InsufficientStock records one line item that could not be decremented.
type InsufficientStock struct {
	ProductName string `json:"product_name"`
	Needed      int    `json:"needed"`
	Available   int    `json:"available"`
}

// ProductUpdateResult is the nested stock-decrement outcome of one commit.
type ProductUpdateResult struct {
	Succeeded    int                 `json:"succeeded"`
	Failed       int                 `json:"failed"`
	Insufficient []InsufficientStock `json:"insufficient,omitempty"`
}

// Result summarizes one Commit invocation for user display. It is built fresh
// per call and never persisted.
type Result struct {
	OrdersSucceeded int                 `json:"orders_succeeded"`
	OrdersFailed    int                 `json:"orders_failed"`
	FailedOrderIDs  []int               `json:"failed_order_ids,omitempty"`
	Products        ProductUpdateResult `json:"products"`
}

// Committer transitions picked orders to READY_TO_PACK, decrementing stock
// for every line item on the way.
//
// Orders are processed sequentially and independently: one order's failure
// never blocks the rest, and decrements already applied to an order's earlier
// line items are not rolled back when a later line comes up short. Two
// concurrent commits can both read a product quantity before either writes
// it; that lost update is an accepted limitation of the design.
type Committer struct {
	orders   OrderStore
	products ProductStore
	activity ActivityLog
	sync     SourceSync // nil when no external platform is configured
}

// NewCommitter wires a Committer. sync may be nil.
func NewCommitter(orders OrderStore, products ProductStore, activity ActivityLog, sync SourceSync) *Committer {
	return &Committer{orders: orders, products: products, activity: activity, sync: sync}
}

// Commit processes the selected orders one at a time. For each order it
// decrements stock per line item, guarding against negative quantities, and
// advances the order's status only when no line item was short. External
// orders additionally get a best-effort status push to the source platform.
//
// Per-order and per-line failures are folded into the Result rather than
// returned; the error return is reserved for an empty selection.
func (c *Committer) Commit(ctx context.Context, orderIDs []int, actor string) (*Result, error) {
	if len(orderIDs) == 0 {
		return nil, ErrEmptySelection
	}

	res := &Result{}
	for _, orderID := range orderIDs {
		order, err := c.orders.GetOrder(ctx, orderID)
		if err != nil {
			log.Printf("commit: order %d fetch failed: %v", orderID, err)
			res.OrdersFailed++
			res.FailedOrderIDs = append(res.FailedOrderIDs, orderID)
			continue
		}

		short := false
		for _, item := range order.Items {
			p, err := c.products.GetProduct(ctx, item.ProductID)
			if err != nil {
				log.Printf("commit: product %d fetch failed for order %s: %v",
					item.ProductID, order.OrderNumber, err)
				res.Products.Failed++
				continue
			}

			if p.Quantity < item.Quantity {
				res.Products.Insufficient = append(res.Products.Insufficient, InsufficientStock{
					ProductName: p.Name,
					Needed:      item.Quantity,
					Available:   p.Quantity,
				})
				res.Products.Failed++
				short = true
				continue
			}

			if err := c.products.UpdateProductQuantity(ctx, p.ID, p.Quantity-item.Quantity); err != nil {
				log.Printf("commit: quantity update failed for product %s: %v", p.Name, err)
				res.Products.Failed++
				continue
			}
			res.Products.Succeeded++

			qty := item.Quantity
			_ = c.activity.Log(ctx, core.ActivityInput{
				Kind:       core.ActivityRemoved,
				EntityType: "product",
				EntityID:   p.ID,
				EntityName: p.Name,
				Actor:      actor,
				Quantity:   &qty,
			})
		}

		if short {
			// Status stays as-is; decrements already applied above stand.
			res.OrdersFailed++
			res.FailedOrderIDs = append(res.FailedOrderIDs, order.ID)
			continue
		}

		if err := c.orders.UpdateOrderStatus(ctx, order.ID, core.StatusReadyToPack); err != nil {
			log.Printf("commit: status update failed for order %s: %v", order.OrderNumber, err)
			res.OrdersFailed++
			res.FailedOrderIDs = append(res.FailedOrderIDs, order.ID)
			continue
		}

		if order.Source == core.SourceExternal && order.ExternalID != nil && c.sync != nil {
			// Best effort: the local store is the source of truth.
			if err := c.sync.UpdateOrderStatus(ctx, *order.ExternalID, core.StatusReadyToPack); err != nil {
				log.Printf("commit: source sync failed for order %s: %v", order.OrderNumber, err)
			}
		}

		_ = c.activity.Log(ctx, core.ActivityInput{
			Kind:       core.ActivityUpdated,
			EntityType: "order",
			EntityID:   order.ID,
			EntityName: order.OrderNumber,
			Actor:      actor,
		})
		res.OrdersSucceeded++
	}

	return res, nil
}
