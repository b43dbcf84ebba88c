package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caddie-pos/caddie-pos/internal/shared"
)

// ListFilters narrows product listings.
type ListFilters struct {
	Category string
	Search   string
}

// Repository defines persistence operations for the catalog.
type Repository interface {
	ListProducts(ctx context.Context, filters ListFilters) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, id int64, p Product) error

	ListSuppliers(ctx context.Context) ([]Supplier, error)
	GetSupplier(ctx context.Context, id int64) (Supplier, error)
	CreateSupplier(ctx context.Context, s Supplier) (Supplier, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListProducts(ctx context.Context, filters ListFilters) ([]Product, error) {
	query := `SELECT id, name, category, description, stock_alert_threshold, created_at FROM products WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Category != "" {
		argCount++
		query += ` AND category = $` + strconv.Itoa(argCount)
		args = append(args, filters.Category)
	}
	if filters.Search != "" {
		argCount++
		query += ` AND name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.StockAlertThreshold, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) GetProduct(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.db.QueryRow(ctx, `SELECT id, name, category, description, stock_alert_threshold, created_at FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.StockAlertThreshold, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) CreateProduct(ctx context.Context, p Product) (Product, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (name, category, description, stock_alert_threshold) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		p.Name, p.Category, p.Description, p.StockAlertThreshold).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (r *repository) UpdateProduct(ctx context.Context, id int64, p Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET name = $1, category = $2, description = $3, stock_alert_threshold = $4 WHERE id = $5`,
		p.Name, p.Category, p.Description, p.StockAlertThreshold, id)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, contact, email, phone, created_at FROM suppliers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Contact, &s.Email, &s.Phone, &s.CreatedAt); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *repository) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	var s Supplier
	err := r.db.QueryRow(ctx, `SELECT id, name, contact, email, phone, created_at FROM suppliers WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Contact, &s.Email, &s.Phone, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Supplier{}, shared.ErrNotFound
		}
		return Supplier{}, err
	}
	return s, nil
}

func (r *repository) CreateSupplier(ctx context.Context, s Supplier) (Supplier, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO suppliers (name, contact, email, phone) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		s.Name, s.Contact, s.Email, s.Phone).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return Supplier{}, fmt.Errorf("create supplier: %w", err)
	}
	return s, nil
}
