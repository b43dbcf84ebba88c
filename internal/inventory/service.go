package inventory

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caddie-pos/caddie-pos/internal/catalog"
)

// ErrInvalidLot flags a lot failing business validation.
var ErrInvalidLot = errors.New("invalid lot")

// ProductDirectory resolves products for threshold checks.
type ProductDirectory interface {
	GetProduct(ctx context.Context, id int64) (catalog.Product, error)
}

// AlertRaiser lets inventory raise stock alerts without owning them.
type AlertRaiser interface {
	RaiseLowStock(ctx context.Context, productID, lotID int64, productName, matricule string) error
	RaiseExpired(ctx context.Context, productID, lotID int64, productName, matricule string) error
}

// Service wraps inventory business rules.
type Service struct {
	logger   *slog.Logger
	repo     Repository
	products ProductDirectory
	alerts   AlertRaiser
}

// NewService constructs a new Service.
func NewService(logger *slog.Logger, repo Repository, products ProductDirectory, alerts AlertRaiser) *Service {
	return &Service{logger: logger, repo: repo, products: products, alerts: alerts}
}

// CreateLotInput carries the fields a stock manager submits for a new lot.
type CreateLotInput struct {
	ProductID       int64
	SupplierID      int64
	UnitPrice       float64
	InitialQuantity int
	EntryDate       time.Time
	ExpirationDate  time.Time
}

// CreateLot registers a received batch. A low stock alert fires right
// away when the batch arrives already under the product threshold.
func (s *Service) CreateLot(ctx context.Context, in CreateLotInput) (Lot, error) {
	if in.InitialQuantity <= 0 {
		return Lot{}, fmt.Errorf("%w: quantité initiale positive requise", ErrInvalidLot)
	}
	if in.UnitPrice < 0 {
		return Lot{}, fmt.Errorf("%w: prix unitaire négatif", ErrInvalidLot)
	}
	if in.ExpirationDate.IsZero() {
		return Lot{}, fmt.Errorf("%w: date d'expiration requise", ErrInvalidLot)
	}

	product, err := s.products.GetProduct(ctx, in.ProductID)
	if err != nil {
		return Lot{}, fmt.Errorf("resolve product %d: %w", in.ProductID, err)
	}

	entry := in.EntryDate
	if entry.IsZero() {
		entry = time.Now()
	}

	lot, err := s.repo.CreateLot(ctx, Lot{
		MatriculeID:     NewMatricule(),
		ProductID:       in.ProductID,
		SupplierID:      in.SupplierID,
		UnitPrice:       in.UnitPrice,
		InitialQuantity: in.InitialQuantity,
		EntryDate:       entry,
		ExpirationDate:  in.ExpirationDate,
	})
	if err != nil {
		return Lot{}, err
	}

	if lot.RemainingQuantity < product.StockAlertThreshold {
		if err := s.alerts.RaiseLowStock(ctx, product.ID, lot.ID, product.Name, lot.MatriculeID); err != nil {
			s.logger.Error("raise low stock alert on lot entry", slog.Any("error", err), slog.Int64("lot_id", lot.ID))
		}
	}
	return lot, nil
}

// ListLots returns lots, optionally filtered by product and status.
func (s *Service) ListLots(ctx context.Context, filters LotFilters) ([]Lot, error) {
	return s.repo.ListLots(ctx, filters)
}

// GetLot returns one lot by id.
func (s *Service) GetLot(ctx context.Context, id int64) (Lot, error) {
	return s.repo.GetLot(ctx, id)
}

// StockByProduct sums remaining quantity across active lots.
func (s *Service) StockByProduct(ctx context.Context, productID int64) (int, error) {
	return s.repo.StockByProduct(ctx, productID)
}

// SweepExpired flips overdue lots to expired and raises one alert per
// lot. Alert failures are logged without aborting the sweep.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	expired, err := s.repo.ExpireDueLots(ctx)
	if err != nil {
		return 0, err
	}
	for _, lot := range expired {
		name := ""
		if product, err := s.products.GetProduct(ctx, lot.ProductID); err == nil {
			name = product.Name
		}
		if err := s.alerts.RaiseExpired(ctx, lot.ProductID, lot.ID, name, lot.MatriculeID); err != nil {
			s.logger.Error("raise expired alert", slog.Any("error", err), slog.Int64("lot_id", lot.ID))
		}
	}
	return len(expired), nil
}

const matriculeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewMatricule builds a lot identifier of the form LOT-<unix-ms>-<rand8>.
func NewMatricule() string {
	return fmt.Sprintf("LOT-%d-%s", time.Now().UnixMilli(), randomCode(8))
}

func randomCode(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read failing means a broken platform; fall back to time.
		return fmt.Sprintf("%0*d", n, time.Now().UnixNano()%1_0000_0000)
	}
	for i, b := range buf {
		buf[i] = matriculeAlphabet[int(b)%len(matriculeAlphabet)]
	}
	return string(buf)
}
