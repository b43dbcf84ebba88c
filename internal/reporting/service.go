package reporting

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/singleflight"
)

// Service builds the supervisor dashboard, serving from the redis
// cache when possible and collapsing concurrent rebuilds.
type Service struct {
	logger *slog.Logger
	repo   Repository
	cache  *Cache
	group  singleflight.Group
}

// NewService constructs a Service. cache may be nil, which disables
// caching but keeps the singleflight collapse.
func NewService(logger *slog.Logger, repo Repository, cache *Cache) *Service {
	return &Service{logger: logger, repo: repo, cache: cache}
}

// Stats returns the dashboard aggregate.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("stats cache read failed", slog.Any("error", err))
		} else if ok {
			return cached, nil
		}
	}

	ch := s.group.DoChan("stats", func() (any, error) {
		return s.build(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Stats{}, res.Err
		}
		return res.Val.(Stats), nil
	}
}

func (s *Service) build(ctx context.Context) (Stats, error) {
	totalProducts, totalStock, err := s.repo.StockTotals(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("build stats: %w", err)
	}
	lowStock, expired, err := s.repo.AlertTotals(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("build stats: %w", err)
	}
	salesCount, revenue, err := s.repo.SalesTotals(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("build stats: %w", err)
	}
	totalEmployees, activeEmployees, err := s.repo.EmployeeTotals(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("build stats: %w", err)
	}
	investments, expenses, salaries, err := s.repo.FinanceTotals(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("build stats: %w", err)
	}

	stats := Stats{
		TotalProducts:    totalProducts,
		TotalStock:       totalStock,
		LowStockCount:    lowStock,
		ExpiredCount:     expired,
		TotalSales:       salesCount,
		SalesRevenue:     math.Round(revenue),
		TotalEmployees:   totalEmployees,
		ActiveEmployees:  activeEmployees,
		TotalSalaries:    math.Round(salaries),
		TotalInvestments: math.Round(investments),
		TotalExpenses:    math.Round(expenses),
		NetRevenue:       math.Round(revenue - expenses),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, stats); err != nil {
			s.logger.Warn("stats cache write failed", slog.Any("error", err))
		}
	}
	return stats, nil
}

// Warmup precomputes the dashboard so the first supervisor request of
// the day hits the cache. Run by the nightly worker task.
func (s *Service) Warmup(ctx context.Context) error {
	_, err := s.build(ctx)
	return err
}
