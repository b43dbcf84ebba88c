package alerts

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caddie-pos/caddie-pos/internal/shared"
)

const alertColumns = `id, alert_type, COALESCE(product_id, 0), COALESCE(lot_id, 0), message, status, created_at, resolved_at`

// Filters narrows alert listings.
type Filters struct {
	Status Status
	Type   Type
}

// Repository defines persistence operations for alerts.
type Repository interface {
	List(ctx context.Context, filters Filters) ([]Alert, error)
	Insert(ctx context.Context, a Alert) (Alert, error)
	HasActive(ctx context.Context, lotID int64, alertType Type) (bool, error)
	Resolve(ctx context.Context, id int64) (Alert, error)
	CountActive(ctx context.Context) (lowStock int, expired int, err error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, filters Filters) ([]Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Status != "" {
		argCount++
		query += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, string(filters.Status))
	}
	if filters.Type != "" {
		argCount++
		query += ` AND alert_type = $` + strconv.Itoa(argCount)
		args = append(args, string(filters.Type))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.AlertType, &a.ProductID, &a.LotID, &a.Message, &a.Status, &a.CreatedAt, &a.ResolvedAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *repository) Insert(ctx context.Context, a Alert) (Alert, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO alerts (alert_type, product_id, lot_id, message, status)
		 VALUES ($1, $2, $3, $4, 'active')
		 RETURNING id, status, created_at`,
		string(a.AlertType), a.ProductID, a.LotID, a.Message).
		Scan(&a.ID, &a.Status, &a.CreatedAt)
	if err != nil {
		return Alert{}, fmt.Errorf("insert alert: %w", err)
	}
	return a, nil
}

func (r *repository) HasActive(ctx context.Context, lotID int64, alertType Type) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM alerts WHERE lot_id = $1 AND alert_type = $2 AND status = 'active')`,
		lotID, string(alertType)).Scan(&exists)
	return exists, err
}

func (r *repository) Resolve(ctx context.Context, id int64) (Alert, error) {
	var a Alert
	err := r.db.QueryRow(ctx,
		`UPDATE alerts SET status = 'resolved', resolved_at = NOW()
		 WHERE id = $1 AND status = 'active'
		 RETURNING `+alertColumns, id).
		Scan(&a.ID, &a.AlertType, &a.ProductID, &a.LotID, &a.Message, &a.Status, &a.CreatedAt, &a.ResolvedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Alert{}, shared.ErrNotFound
		}
		return Alert{}, fmt.Errorf("resolve alert: %w", err)
	}
	return a, nil
}

// Querier is the subset of pgx.Tx the transactional raise helper uses.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RaiseTx inserts an alert inside an existing transaction unless an
// active one of the same type already targets the lot. Reports whether
// a row was inserted.
func RaiseTx(ctx context.Context, q Querier, a Alert) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM alerts WHERE lot_id = $1 AND alert_type = $2 AND status = 'active')`,
		a.LotID, string(a.AlertType)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active alert: %w", err)
	}
	if exists {
		return false, nil
	}
	var id int64
	err = q.QueryRow(ctx,
		`INSERT INTO alerts (alert_type, product_id, lot_id, message, status)
		 VALUES ($1, $2, $3, $4, 'active') RETURNING id`,
		string(a.AlertType), a.ProductID, a.LotID, a.Message).Scan(&id)
	if err != nil {
		return false, fmt.Errorf("insert alert: %w", err)
	}
	return true, nil
}

func (r *repository) CountActive(ctx context.Context) (int, int, error) {
	var lowStock, expired int
	err := r.db.QueryRow(ctx,
		`SELECT
		   COUNT(*) FILTER (WHERE alert_type = 'low_stock'),
		   COUNT(*) FILTER (WHERE alert_type = 'expired_product')
		 FROM alerts WHERE status = 'active'`).Scan(&lowStock, &expired)
	return lowStock, expired, err
}
