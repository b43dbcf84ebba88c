package reporting

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the dashboard aggregation queries.
type Repository interface {
	StockTotals(ctx context.Context) (totalProducts, totalStock int, err error)
	AlertTotals(ctx context.Context) (lowStock, expired int, err error)
	SalesTotals(ctx context.Context) (count int, revenue float64, err error)
	EmployeeTotals(ctx context.Context) (total, active int, err error)
	FinanceTotals(ctx context.Context) (investments, expenses, salaries float64, err error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) StockTotals(ctx context.Context) (int, int, error) {
	var totalProducts, totalStock int
	err := r.pool.QueryRow(ctx, `
		SELECT
		  (SELECT COUNT(*) FROM products),
		  COALESCE((SELECT SUM(remaining_quantity) FROM lots), 0)`).Scan(&totalProducts, &totalStock)
	if err != nil {
		return 0, 0, fmt.Errorf("stock totals: %w", err)
	}
	return totalProducts, totalStock, nil
}

func (r *pgRepository) AlertTotals(ctx context.Context) (int, int, error) {
	var lowStock, expired int
	err := r.pool.QueryRow(ctx, `
		SELECT
		  COUNT(*) FILTER (WHERE alert_type = 'low_stock'),
		  COUNT(*) FILTER (WHERE alert_type = 'expired_product')
		FROM alerts WHERE status = 'active'`).Scan(&lowStock, &expired)
	if err != nil {
		return 0, 0, fmt.Errorf("alert totals: %w", err)
	}
	return lowStock, expired, nil
}

func (r *pgRepository) SalesTotals(ctx context.Context) (int, float64, error) {
	var count int
	var revenue float64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(final_amount), 0) FROM sales`).Scan(&count, &revenue)
	if err != nil {
		return 0, 0, fmt.Errorf("sales totals: %w", err)
	}
	return count, revenue, nil
}

func (r *pgRepository) EmployeeTotals(ctx context.Context) (int, int, error) {
	var total, active int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'active')
		FROM employees`).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("employee totals: %w", err)
	}
	return total, active, nil
}

func (r *pgRepository) FinanceTotals(ctx context.Context) (float64, float64, float64, error) {
	var investments, expenses, salaries float64
	// Expenses roll up both expense and salary records for the net view.
	err := r.pool.QueryRow(ctx, `
		SELECT
		  COALESCE(SUM(amount) FILTER (WHERE record_type = 'investment'), 0),
		  COALESCE(SUM(amount) FILTER (WHERE record_type IN ('expense', 'salary')), 0),
		  COALESCE(SUM(amount) FILTER (WHERE record_type = 'salary'), 0)
		FROM financial_records`).Scan(&investments, &expenses, &salaries)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("finance totals: %w", err)
	}
	return investments, expenses, salaries, nil
}
