package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductService manages the product catalog and stock counts.
type ProductService interface {
	CreateProduct(ctx context.Context, in ProductInput) (*Product, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*Product, error)
	ListProducts(ctx context.Context, opts ListProductsOptions) ([]Product, error)
	UpdateProduct(ctx context.Context, id int, in ProductInput) (*Product, error)
	// UpdateProductQuantity writes quantity and updated_at only, the partial
	// update the fulfillment Committer relies on.
	UpdateProductQuantity(ctx context.Context, id, quantity int) error
	DeleteProduct(ctx context.Context, id int) error
	// LowStock returns products at or below their minimum quantity threshold.
	LowStock(ctx context.Context) ([]Product, error)
}

type productService struct {
	pool *pgxpool.Pool
}

func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

const productColumns = "id, name, barcode, quantity, min_quantity, unit_price, created_at, updated_at"

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Barcode, &p.Quantity, &p.MinQuantity,
		&p.UnitPrice, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *productService) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if in.Quantity < 0 || in.MinQuantity < 0 {
		return nil, fmt.Errorf("quantities cannot be negative")
	}

	p, err := scanProduct(s.pool.QueryRow(ctx, `
		INSERT INTO products (name, barcode, quantity, min_quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns,
		in.Name, in.Barcode, in.Quantity, in.MinQuantity, in.UnitPrice))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

func (s *productService) GetProduct(ctx context.Context, id int) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	return p, nil
}

func (s *productService) GetProductByBarcode(ctx context.Context, barcode string) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE barcode = $1 AND barcode <> ''", barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product with barcode %q: %w", barcode, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch product by barcode: %w", err)
	}
	return p, nil
}

func (s *productService) ListProducts(ctx context.Context, opts ListProductsOptions) ([]Product, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	query := "SELECT " + productColumns + " FROM products"
	args := []any{}
	if opts.Search != "" {
		query += " WHERE name ILIKE $1 OR barcode ILIKE $1"
		args = append(args, "%"+opts.Search+"%")
	}
	query += fmt.Sprintf(" ORDER BY name, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, opts.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *productService) UpdateProduct(ctx context.Context, id int, in ProductInput) (*Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if in.Quantity < 0 || in.MinQuantity < 0 {
		return nil, fmt.Errorf("quantities cannot be negative")
	}

	p, err := scanProduct(s.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $1, barcode = $2, quantity = $3, min_quantity = $4, unit_price = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+productColumns,
		in.Name, in.Barcode, in.Quantity, in.MinQuantity, in.UnitPrice, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return p, nil
}

func (s *productService) UpdateProductQuantity(ctx context.Context, id, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("quantity cannot be negative, got %d", quantity)
	}
	tag, err := s.pool.Exec(ctx,
		"UPDATE products SET quantity = $1, updated_at = NOW() WHERE id = $2", quantity, id)
	if err != nil {
		return fmt.Errorf("failed to update quantity for product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *productService) LowStock(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+productColumns+" FROM products WHERE quantity <= min_quantity ORDER BY quantity, name")
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}
