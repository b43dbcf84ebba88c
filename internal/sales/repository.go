package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caddie-pos/caddie-pos/internal/alerts"
	"github.com/caddie-pos/caddie-pos/internal/finance"
	"github.com/caddie-pos/caddie-pos/internal/inventory"
	"github.com/caddie-pos/caddie-pos/internal/loyalty"
	"github.com/caddie-pos/caddie-pos/internal/platform/db"
	"github.com/caddie-pos/caddie-pos/internal/shared"
)

// TxRepository is everything a checkout touches inside one transaction:
// lot allocation, loyalty counters, and the sale, alert and ledger rows.
type TxRepository interface {
	inventory.AllocationTx
	loyalty.PurchaseTx

	GetProduct(ctx context.Context, id int64) (ProductInfo, error)
	RaiseLowStock(ctx context.Context, productID, lotID int64, productName, matricule string) (bool, error)
	AppendRevenue(ctx context.Context, amount float64, description string) error
	InsertSale(ctx context.Context, s Sale) (Sale, error)
	InsertSaleItems(ctx context.Context, saleID int64, items []SaleItem) error
}

// Repository defines persistence operations for the sales module.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error
	ListSales(ctx context.Context, limit int) ([]Sale, error)
	GetSale(ctx context.Context, id int64) (Sale, []SaleItem, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// WithTx runs fn inside one RepeatableRead transaction.
func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{
			AllocationTx: inventory.NewTxAllocator(tx),
			PurchaseTx:   loyalty.NewTxPurchase(tx),
			tx:           tx,
		})
	})
}

const saleColumns = `id, receipt_number, cashier_id, client_id, total_amount, discount_amount, final_amount, payment_method, sale_date, created_at`

func (r *repository) ListSales(ctx context.Context, limit int) ([]Sale, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+saleColumns+` FROM sales ORDER BY sale_date DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *repository) GetSale(ctx context.Context, id int64) (Sale, []SaleItem, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
	sale, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sale{}, nil, shared.ErrNotFound
		}
		return Sale{}, nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, sale_id, lot_id, product_id, quantity, unit_price, subtotal FROM sale_items WHERE sale_id = $1 ORDER BY id`, id)
	if err != nil {
		return Sale{}, nil, fmt.Errorf("sale items: %w", err)
	}
	defer rows.Close()

	var items []SaleItem
	for rows.Next() {
		var it SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.LotID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return Sale{}, nil, err
		}
		items = append(items, it)
	}
	return sale, items, rows.Err()
}

func scanSale(row pgx.Row) (Sale, error) {
	var s Sale
	err := row.Scan(&s.ID, &s.ReceiptNumber, &s.CashierID, &s.ClientID, &s.TotalAmount, &s.DiscountAmount, &s.FinalAmount, &s.PaymentMethod, &s.SaleDate, &s.CreatedAt)
	return s, err
}

type txRepository struct {
	inventory.AllocationTx
	loyalty.PurchaseTx
	tx pgx.Tx
}

func (t *txRepository) GetProduct(ctx context.Context, id int64) (ProductInfo, error) {
	var p ProductInfo
	err := t.tx.QueryRow(ctx,
		`SELECT id, name, stock_alert_threshold FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.StockAlertThreshold)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductInfo{}, shared.ErrNotFound
		}
		return ProductInfo{}, err
	}
	return p, nil
}

func (t *txRepository) RaiseLowStock(ctx context.Context, productID, lotID int64, productName, matricule string) (bool, error) {
	return alerts.RaiseTx(ctx, t.tx, alerts.Alert{
		AlertType: alerts.TypeLowStock,
		ProductID: productID,
		LotID:     lotID,
		Message:   fmt.Sprintf("Stock faible pour %s - Lot %s", productName, matricule),
	})
}

func (t *txRepository) AppendRevenue(ctx context.Context, amount float64, description string) error {
	_, err := finance.AppendTx(ctx, t.tx, finance.Record{
		RecordType:  finance.TypeRevenue,
		Amount:      amount,
		Description: description,
	})
	return err
}

func (t *txRepository) InsertSale(ctx context.Context, s Sale) (Sale, error) {
	err := t.tx.QueryRow(ctx,
		`INSERT INTO sales (receipt_number, cashier_id, client_id, total_amount, discount_amount, final_amount, payment_method)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, sale_date, created_at`,
		s.ReceiptNumber, s.CashierID, s.ClientID, s.TotalAmount, s.DiscountAmount, s.FinalAmount, s.PaymentMethod).
		Scan(&s.ID, &s.SaleDate, &s.CreatedAt)
	if err != nil {
		return Sale{}, err
	}
	return s, nil
}

func (t *txRepository) InsertSaleItems(ctx context.Context, saleID int64, items []SaleItem) error {
	for _, it := range items {
		_, err := t.tx.Exec(ctx,
			`INSERT INTO sale_items (sale_id, lot_id, product_id, quantity, unit_price, subtotal)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			saleID, it.LotID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}
