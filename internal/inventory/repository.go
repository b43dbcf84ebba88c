package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caddie-pos/caddie-pos/internal/shared"
)

// ErrLotConflict signals a deduction lost against concurrent stock movement.
var ErrLotConflict = errors.New("lot deduction conflict")

const lotColumns = `id, matricule_id, product_id, supplier_id, unit_price, initial_quantity, remaining_quantity, entry_date, expiration_date, status, created_at`

// LotFilters narrows lot listings.
type LotFilters struct {
	ProductID int64
	Status    LotStatus
}

// Repository defines persistence operations for the inventory module.
type Repository interface {
	ListLots(ctx context.Context, filters LotFilters) ([]Lot, error)
	GetLot(ctx context.Context, id int64) (Lot, error)
	CreateLot(ctx context.Context, lot Lot) (Lot, error)
	ExpireDueLots(ctx context.Context) ([]Lot, error)
	StockByProduct(ctx context.Context, productID int64) (int, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListLots(ctx context.Context, filters LotFilters) ([]Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.ProductID != 0 {
		argCount++
		query += ` AND product_id = $` + strconv.Itoa(argCount)
		args = append(args, filters.ProductID)
	}
	if filters.Status != "" {
		argCount++
		query += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, string(filters.Status))
	}
	query += ` ORDER BY expiration_date ASC, id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	return scanLots(rows)
}

func (r *repository) GetLot(ctx context.Context, id int64) (Lot, error) {
	var l Lot
	err := r.db.QueryRow(ctx, `SELECT `+lotColumns+` FROM lots WHERE id = $1`, id).
		Scan(&l.ID, &l.MatriculeID, &l.ProductID, &l.SupplierID, &l.UnitPrice, &l.InitialQuantity, &l.RemainingQuantity, &l.EntryDate, &l.ExpirationDate, &l.Status, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lot{}, shared.ErrNotFound
		}
		return Lot{}, err
	}
	return l, nil
}

func (r *repository) CreateLot(ctx context.Context, lot Lot) (Lot, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO lots (matricule_id, product_id, supplier_id, unit_price, initial_quantity, remaining_quantity, entry_date, expiration_date, status)
		 VALUES ($1, $2, $3, $4, $5, $5, $6, $7, 'active')
		 RETURNING id, status, created_at`,
		lot.MatriculeID, lot.ProductID, lot.SupplierID, lot.UnitPrice, lot.InitialQuantity, lot.EntryDate, lot.ExpirationDate).
		Scan(&lot.ID, &lot.Status, &lot.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Lot{}, shared.ErrNotFound
		}
		return Lot{}, fmt.Errorf("create lot: %w", err)
	}
	lot.RemainingQuantity = lot.InitialQuantity
	return lot, nil
}

// ExpireDueLots flips active lots past their expiration date and
// returns the affected rows.
func (r *repository) ExpireDueLots(ctx context.Context) ([]Lot, error) {
	rows, err := r.db.Query(ctx,
		`UPDATE lots SET status = 'expired'
		 WHERE status = 'active' AND expiration_date <= NOW()
		 RETURNING `+lotColumns)
	if err != nil {
		return nil, fmt.Errorf("expire due lots: %w", err)
	}
	defer rows.Close()
	return scanLots(rows)
}

func (r *repository) StockByProduct(ctx context.Context, productID int64) (int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(remaining_quantity), 0) FROM lots WHERE product_id = $1 AND status = 'active'`,
		productID).Scan(&total)
	return total, err
}

func scanLots(rows pgx.Rows) ([]Lot, error) {
	var lots []Lot
	for rows.Next() {
		var l Lot
		if err := rows.Scan(&l.ID, &l.MatriculeID, &l.ProductID, &l.SupplierID, &l.UnitPrice, &l.InitialQuantity, &l.RemainingQuantity, &l.EntryDate, &l.ExpirationDate, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		lots = append(lots, l)
	}
	return lots, rows.Err()
}

// Querier is the subset of pgx.Tx the transactional allocator uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txAllocator struct {
	q Querier
}

// NewTxAllocator adapts a transaction into an AllocationTx.
func NewTxAllocator(q Querier) AllocationTx {
	return &txAllocator{q: q}
}

func (a *txAllocator) LockActiveLots(ctx context.Context, productID int64) ([]Lot, error) {
	rows, err := a.q.Query(ctx,
		`SELECT `+lotColumns+` FROM lots
		 WHERE product_id = $1 AND status = 'active' AND remaining_quantity > 0
		 ORDER BY expiration_date ASC, id ASC
		 FOR UPDATE`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLots(rows)
}

func (a *txAllocator) DeductLot(ctx context.Context, lotID int64, qty int) (int, error) {
	var newRemaining int
	err := a.q.QueryRow(ctx,
		`UPDATE lots
		 SET remaining_quantity = remaining_quantity - $2,
		     status = CASE WHEN remaining_quantity - $2 = 0 THEN 'depleted'::lot_status ELSE status END
		 WHERE id = $1 AND status = 'active' AND remaining_quantity >= $2
		 RETURNING remaining_quantity`, lotID, qty).Scan(&newRemaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrLotConflict
		}
		return 0, err
	}
	return newRemaining, nil
}
