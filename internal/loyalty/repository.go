package loyalty

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caddie-pos/caddie-pos/internal/shared"
)

const clientColumns = `id, user_id, qr_code, loyalty_points, total_purchases, eligible_discounts_remaining, created_at`
const purchaseColumns = `id, client_id, amount, discount_applied, discount_percentage, final_amount, purchase_date`

// Repository defines persistence operations for loyalty profiles.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Client, error)
	GetByUser(ctx context.Context, userID int64) (Client, error)
	GetByQRCode(ctx context.Context, qr string) (Client, error)
	Create(ctx context.Context, c Client) (Client, error)
	History(ctx context.Context, clientID int64) ([]Purchase, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id int64) (Client, error) {
	return scanClient(r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
}

func (r *repository) GetByUser(ctx context.Context, userID int64) (Client, error) {
	return scanClient(r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE user_id = $1`, userID))
}

func (r *repository) GetByQRCode(ctx context.Context, qr string) (Client, error) {
	return scanClient(r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE qr_code = $1`, qr))
}

func (r *repository) Create(ctx context.Context, c Client) (Client, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO clients (user_id, qr_code) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO NOTHING
		 RETURNING `+clientColumns,
		c.UserID, c.QRCode).
		Scan(&c.ID, &c.UserID, &c.QRCode, &c.LoyaltyPoints, &c.TotalPurchases, &c.EligibleDiscountsRemaining, &c.CreatedAt)
	if err != nil {
		// Lost a provisioning race; the row exists, read it back.
		if errors.Is(err, pgx.ErrNoRows) {
			return r.GetByUser(ctx, c.UserID)
		}
		return Client{}, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

func (r *repository) History(ctx context.Context, clientID int64) ([]Purchase, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE client_id = $1 ORDER BY purchase_date DESC`,
		clientID)
	if err != nil {
		return nil, fmt.Errorf("purchase history: %w", err)
	}
	defer rows.Close()

	var purchases []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Amount, &p.DiscountApplied, &p.DiscountPercentage, &p.FinalAmount, &p.PurchaseDate); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.UserID, &c.QRCode, &c.LoyaltyPoints, &c.TotalPurchases, &c.EligibleDiscountsRemaining, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, shared.ErrNotFound
		}
		return Client{}, err
	}
	return c, nil
}

// Querier is the subset of pgx.Tx the transactional engine uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txPurchase struct {
	q Querier
}

// NewTxPurchase adapts a transaction into a PurchaseTx.
func NewTxPurchase(q Querier) PurchaseTx {
	return &txPurchase{q: q}
}

func (t *txPurchase) LockClient(ctx context.Context, clientID int64) (Client, error) {
	return scanClient(t.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1 FOR UPDATE`, clientID))
}

func (t *txPurchase) UpdateClient(ctx context.Context, clientID int64, eligibleRemaining, totalPurchases, loyaltyPoints int) error {
	var id int64
	err := t.q.QueryRow(ctx,
		`UPDATE clients
		 SET eligible_discounts_remaining = $2, total_purchases = $3, loyalty_points = $4
		 WHERE id = $1 RETURNING id`,
		clientID, eligibleRemaining, totalPurchases, loyaltyPoints).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	return err
}

func (t *txPurchase) InsertPurchase(ctx context.Context, p Purchase) (Purchase, error) {
	err := t.q.QueryRow(ctx,
		`INSERT INTO purchases (client_id, amount, discount_applied, discount_percentage, final_amount)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, purchase_date`,
		p.ClientID, p.Amount, p.DiscountApplied, p.DiscountPercentage, p.FinalAmount).
		Scan(&p.ID, &p.PurchaseDate)
	if err != nil {
		return Purchase{}, err
	}
	return p, nil
}

func (t *txPurchase) CountQualifying(ctx context.Context, clientID int64) (int, error) {
	var count int
	err := t.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM purchases WHERE client_id = $1 AND amount >= $2`,
		clientID, QualifyingThreshold).Scan(&count)
	return count, err
}

func (t *txPurchase) GrantDiscounts(ctx context.Context, clientID int64, batch int) error {
	var id int64
	err := t.q.QueryRow(ctx,
		`UPDATE clients SET eligible_discounts_remaining = eligible_discounts_remaining + $2 WHERE id = $1 RETURNING id`,
		clientID, batch).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	return err
}
