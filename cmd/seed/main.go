// seed is a one-shot tool that loads demo data into an empty database: a small
// catalog with scannable barcodes, a few customers, and open orders so the
// pick list has something to show.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"

	"stockroom/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	var productCount int
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&productCount); err != nil {
		log.Fatalf("Failed to inspect products: %v", err)
	}
	if productCount > 0 {
		log.Fatalf("Refusing to seed: products table already has %d rows", productCount)
	}

	log.Println("Seeding products...")
	_, err = tx.Exec(ctx, `
		INSERT INTO products (name, barcode, quantity, min_quantity, unit_price) VALUES
		('Canvas Tote Bag',        '0123456789012', 120, 20, 14.50),
		('Enamel Mug',             '4006381333931',  80, 10,  9.95),
		('Beeswax Candle',         '7350053850019',  45,  5, 12.00),
		('Linen Tea Towel',        '5901234123457', 200, 25,  8.25),
		('Walnut Serving Board',   '9780201379624',  15,  3, 32.00),
		('Ceramic Planter',        '0712345678911',  60, 10, 18.75),
		('Wool Throw Blanket',     '8711253001202',  12,  4, 64.00),
		('Stoneware Dinner Plate', '3661112501234', 140, 30, 11.40);
	`)
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	log.Println("Seeding customers...")
	_, err = tx.Exec(ctx, `
		INSERT INTO customers (name, email, phone, address) VALUES
		('Harbor Gift Shop',   'orders@harborgifts.example', '555-0101', '12 Pier Road'),
		('Maple & Main',       'buy@mapleandmain.example',   '555-0102', '48 Main Street'),
		('Fernwood Interiors', 'hello@fernwood.example',     '555-0103', '7 Cedar Lane');
	`)
	if err != nil {
		log.Fatalf("Failed to seed customers: %v", err)
	}

	log.Println("Seeding orders...")
	_, err = tx.Exec(ctx, `
		INSERT INTO orders (order_number, status, source, customer_id, total, ordered_at) VALUES
		('SO-000001', 'AWAITING_FULFILLMENT', 'MANUAL', 1, 55.45, now() - interval '2 days'),
		('SO-000002', 'AWAITING_FULFILLMENT', 'MANUAL', 2, 94.75, now() - interval '1 day'),
		('SO-000003', 'PROCESSING',           'MANUAL', 3, 64.00, now());

		INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, line_total) VALUES
		(1, 1, 'Canvas Tote Bag',        2, 14.50, 29.00),
		(1, 4, 'Linen Tea Towel',        2,  8.25, 16.50),
		(1, 2, 'Enamel Mug',             1,  9.95,  9.95),
		(2, 5, 'Walnut Serving Board',   2, 32.00, 64.00),
		(2, 3, 'Beeswax Candle',         1, 12.00, 12.00),
		(2, 6, 'Ceramic Planter',        1, 18.75, 18.75),
		(3, 7, 'Wool Throw Blanket',     1, 64.00, 64.00);

		UPDATE order_sequences SET last_number = 3 WHERE id = 1;
	`)
	if err != nil {
		log.Fatalf("Failed to seed orders: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Seed complete.")
}
