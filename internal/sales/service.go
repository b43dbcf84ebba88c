package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/caddie-pos/caddie-pos/internal/inventory"
	"github.com/caddie-pos/caddie-pos/internal/loyalty"
	"github.com/caddie-pos/caddie-pos/internal/observability"
)

// StatsInvalidator lets completed sales invalidate cached dashboards.
type StatsInvalidator interface {
	Bump(ctx context.Context)
}

// Service orchestrates checkouts.
type Service struct {
	logger            *slog.Logger
	repo              Repository
	metrics           *observability.Metrics
	stats             StatsInvalidator
	receiptMaxRetries int
}

// NewService constructs a new Service. stats may be nil.
func NewService(logger *slog.Logger, repo Repository, metrics *observability.Metrics, stats StatsInvalidator, receiptMaxRetries int) *Service {
	if receiptMaxRetries < 1 {
		receiptMaxRetries = 1
	}
	return &Service{
		logger:            logger,
		repo:              repo,
		metrics:           metrics,
		stats:             stats,
		receiptMaxRetries: receiptMaxRetries,
	}
}

// CompleteSale runs the whole checkout inside one transaction: FEFO
// allocation per cart line, stock alerts for lots falling under their
// product threshold, the loyalty state machine when a client card is
// presented, then the sale, its items and a revenue ledger row. Any
// allocation or loyalty failure rolls everything back. Transient
// conflicts (a receipt number collision, a serialization failure or a
// deadlock between checkouts locking the same lots) retry the whole
// transaction with a fresh receipt number, up to a bounded count.
func (s *Service) CompleteSale(ctx context.Context, cashierID int64, req CompleteSaleRequest) (*Sale, []SaleItem, error) {
	if len(req.Items) == 0 {
		return nil, nil, ErrEmptyCart
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, nil, fmt.Errorf("%w: quantité invalide pour le produit %d", ErrEmptyCart, line.ProductID)
		}
	}

	var (
		sale  Sale
		items []SaleItem
	)

	var lastErr error
	for attempt := 1; attempt <= s.receiptMaxRetries; attempt++ {
		receipt := NewReceiptNumber(time.Now())

		err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			committed, txItems, err := s.runCheckout(ctx, tx, cashierID, req, receipt)
			if err != nil {
				return err
			}
			sale = committed
			items = txItems
			return nil
		})
		if err == nil {
			s.metrics.SaleCompleted()
			if s.stats != nil {
				s.stats.Bump(ctx)
			}
			s.logger.Info("sale completed",
				slog.String("receipt", sale.ReceiptNumber),
				slog.Int64("cashier_id", cashierID),
				slog.Float64("final_amount", sale.FinalAmount))
			return &sale, items, nil
		}

		if isRetryableConflict(err) {
			s.logger.Warn("checkout conflict, retrying",
				slog.String("receipt", receipt),
				slog.Int("attempt", attempt),
				slog.Any("error", err))
			lastErr = err
			continue
		}

		s.countRejection(err)
		return nil, nil, err
	}

	s.metrics.SaleRejected("conflict_exhausted")
	return nil, nil, fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
}

func (s *Service) runCheckout(ctx context.Context, tx TxRepository, cashierID int64, req CompleteSaleRequest, receipt string) (Sale, []SaleItem, error) {
	var (
		gross float64
		items []SaleItem
	)

	for _, line := range req.Items {
		product, err := tx.GetProduct(ctx, line.ProductID)
		if err != nil {
			return Sale{}, nil, fmt.Errorf("produit %d: %w", line.ProductID, err)
		}

		draws, err := inventory.Allocate(ctx, tx, line.ProductID, line.Quantity)
		if err != nil {
			return Sale{}, nil, err
		}

		for _, draw := range draws {
			subtotal := draw.UnitPrice * float64(draw.Quantity)
			items = append(items, SaleItem{
				LotID:     draw.LotID,
				ProductID: line.ProductID,
				Quantity:  draw.Quantity,
				UnitPrice: draw.UnitPrice,
				Subtotal:  subtotal,
			})
			gross += subtotal

			if draw.NewRemaining < product.StockAlertThreshold {
				if _, err := tx.RaiseLowStock(ctx, product.ID, draw.LotID, product.Name, draw.Matricule); err != nil {
					// Advisory only, the sale goes through.
					s.logger.Error("raise low stock alert", slog.Any("error", err), slog.Int64("lot_id", draw.LotID))
				}
			}
		}
	}

	var (
		discount float64
		final    = gross
	)
	if req.ClientID != nil {
		res, err := loyalty.Apply(ctx, tx, *req.ClientID, gross)
		if err != nil {
			return Sale{}, nil, fmt.Errorf("client %d: %w", *req.ClientID, err)
		}
		discount = res.DiscountAmount
		final = res.FinalAmount
	}

	sale, err := tx.InsertSale(ctx, Sale{
		ReceiptNumber:  receipt,
		CashierID:      cashierID,
		ClientID:       req.ClientID,
		TotalAmount:    gross,
		DiscountAmount: discount,
		FinalAmount:    final,
		PaymentMethod:  req.PaymentMethod,
	})
	if err != nil {
		return Sale{}, nil, err
	}

	if err := tx.InsertSaleItems(ctx, sale.ID, items); err != nil {
		return Sale{}, nil, err
	}
	for i := range items {
		items[i].SaleID = sale.ID
	}

	if err := tx.AppendRevenue(ctx, final, "Vente "+receipt); err != nil {
		// The ledger is advisory for checkout; reconciliation catches gaps.
		s.logger.Error("append revenue record", slog.Any("error", err), slog.String("receipt", receipt))
	}

	return sale, items, nil
}

func (s *Service) countRejection(err error) {
	var insufficient *inventory.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		s.metrics.SaleRejected("insufficient_stock")
	case errors.Is(err, ErrEmptyCart):
		s.metrics.SaleRejected("empty_cart")
	default:
		s.metrics.SaleRejected("error")
	}
}

// ListSales returns recent sales, newest first.
func (s *Service) ListSales(ctx context.Context, limit int) ([]Sale, error) {
	return s.repo.ListSales(ctx, limit)
}

// GetSale returns one sale with its items.
func (s *Service) GetSale(ctx context.Context, id int64) (Sale, []SaleItem, error) {
	return s.repo.GetSale(ctx, id)
}

// isRetryableConflict reports conflicts worth another attempt: a
// unique violation on the receipt number, a serialization failure
// (40001) once a concurrent checkout commits a decrement on a locked
// lot, or a deadlock (40P01) from carts locking lots in opposite
// orders.
func isRetryableConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01":
		return true
	case "23505":
		return strings.Contains(pgErr.ConstraintName, "receipt")
	}
	return false
}
