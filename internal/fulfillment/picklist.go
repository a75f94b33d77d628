// Package fulfillment implements the pick-and-pack workflow: aggregating open
// orders into a deduplicated pick list, reconciling barcode scans against it,
// and committing the picked orders back to the store with stock decrements.
package fulfillment

import (
	"context"
	"sort"

	"stockroom/internal/core"
)

// ProductLookup is the slice of the product store the aggregator needs.
// Satisfied by core.ProductService.
type ProductLookup interface {
	GetProduct(ctx context.Context, id int) (*core.Product, error)
}

// OrderContribution records how much of a pick-list entry one order accounts
// for, keeping per-order traceability through the aggregation.
type OrderContribution struct {
	OrderID     int    `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Quantity    int    `json:"quantity"`
}

// PickListEntry is the per-product aggregate of everything that must be
// physically gathered for the current batch of open orders. Fulfilled lives
// only in memory for the duration of a session and is never persisted.
type PickListEntry struct {
	ProductID int                 `json:"product_id"`
	Name      string              `json:"name"`
	Barcode   string              `json:"barcode"`
	Required  int                 `json:"required"`
	Fulfilled int                 `json:"fulfilled"`
	Orders    []OrderContribution `json:"orders"`
}

// Complete reports whether the entry has been fully picked.
func (e *PickListEntry) Complete() bool {
	return e.Fulfilled >= e.Required
}

// BuildPickList merges the line items of the given orders into one pick list,
// grouped by product id. Each distinct product is looked up at most once per
// call; a failed lookup leaves the entry's barcode empty but never aborts the
// pass. Entries come back sorted by required quantity, highest first, ties in
// first-seen order.
func BuildPickList(ctx context.Context, orders []core.Order, products ProductLookup) []*PickListEntry {
	byProduct := make(map[int]*PickListEntry)
	var entries []*PickListEntry

	// Per-pass product cache. A nil value records a failed lookup so it is
	// not retried within the same pass.
	cache := make(map[int]*core.Product)
	lookup := func(id int) *core.Product {
		if p, seen := cache[id]; seen {
			return p
		}
		p, err := products.GetProduct(ctx, id)
		if err != nil {
			p = nil
		}
		cache[id] = p
		return p
	}

	for _, order := range orders {
		for _, item := range order.Items {
			entry, ok := byProduct[item.ProductID]
			if !ok {
				entry = &PickListEntry{
					ProductID: item.ProductID,
					Name:      item.ProductName,
				}
				if p := lookup(item.ProductID); p != nil {
					entry.Barcode = p.Barcode
					if entry.Name == "" {
						entry.Name = p.Name
					}
				}
				byProduct[item.ProductID] = entry
				entries = append(entries, entry)
			}

			entry.Required += item.Quantity

			// Merge repeated contributions from the same order instead of
			// duplicating the order reference.
			merged := false
			for i := range entry.Orders {
				if entry.Orders[i].OrderID == order.ID {
					entry.Orders[i].Quantity += item.Quantity
					merged = true
					break
				}
			}
			if !merged {
				entry.Orders = append(entry.Orders, OrderContribution{
					OrderID:     order.ID,
					OrderNumber: order.OrderNumber,
					Quantity:    item.Quantity,
				})
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Required > entries[j].Required
	})
	return entries
}
