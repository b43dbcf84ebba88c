package alerts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/caddie-pos/caddie-pos/internal/observability"
)

// Service wraps alert business rules.
type Service struct {
	logger  *slog.Logger
	repo    Repository
	metrics *observability.Metrics
}

// NewService constructs a new Service.
func NewService(logger *slog.Logger, repo Repository, metrics *observability.Metrics) *Service {
	return &Service{logger: logger, repo: repo, metrics: metrics}
}

// List returns alerts matching the filters, newest first.
func (s *Service) List(ctx context.Context, filters Filters) ([]Alert, error) {
	return s.repo.List(ctx, filters)
}

// RaiseLowStock creates a low stock alert for a lot unless an active
// one already exists for it. The dedupe is a point read, not a lock:
// concurrent sales may still produce duplicates, which is acceptable.
func (s *Service) RaiseLowStock(ctx context.Context, productID, lotID int64, productName, matricule string) error {
	return s.raise(ctx, TypeLowStock, productID, lotID,
		fmt.Sprintf("Stock faible pour %s - Lot %s", productName, matricule))
}

// RaiseExpired creates an expired product alert for a lot, deduped the
// same way as low stock alerts.
func (s *Service) RaiseExpired(ctx context.Context, productID, lotID int64, productName, matricule string) error {
	return s.raise(ctx, TypeExpired, productID, lotID,
		fmt.Sprintf("Produit expiré %s - Lot %s", productName, matricule))
}

func (s *Service) raise(ctx context.Context, alertType Type, productID, lotID int64, message string) error {
	exists, err := s.repo.HasActive(ctx, lotID, alertType)
	if err != nil {
		return fmt.Errorf("check active alert: %w", err)
	}
	if exists {
		return nil
	}
	if _, err := s.repo.Insert(ctx, Alert{
		AlertType: alertType,
		ProductID: productID,
		LotID:     lotID,
		Message:   message,
	}); err != nil {
		return err
	}
	s.metrics.AlertRaised(string(alertType))
	s.logger.Info("alert raised",
		slog.String("type", string(alertType)),
		slog.Int64("lot_id", lotID),
		slog.String("message", message))
	return nil
}

// Resolve marks an active alert resolved and stamps resolved_at.
func (s *Service) Resolve(ctx context.Context, id int64) (Alert, error) {
	return s.repo.Resolve(ctx, id)
}

// CountActive returns active alert totals per type.
func (s *Service) CountActive(ctx context.Context) (lowStock int, expired int, err error) {
	return s.repo.CountActive(ctx)
}
