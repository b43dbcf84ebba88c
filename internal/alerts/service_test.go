package alerts_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/caddie-pos/caddie-pos/internal/alerts"
	"github.com/caddie-pos/caddie-pos/internal/observability"
	"github.com/caddie-pos/caddie-pos/internal/shared"
	_ "github.com/caddie-pos/caddie-pos/testing"
)

type memoryRepo struct {
	alerts map[int64]alerts.Alert
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{alerts: make(map[int64]alerts.Alert), nextID: 1}
}

func (m *memoryRepo) List(ctx context.Context, filters alerts.Filters) ([]alerts.Alert, error) {
	var out []alerts.Alert
	for _, a := range m.alerts {
		if filters.Status != "" && a.Status != filters.Status {
			continue
		}
		if filters.Type != "" && a.AlertType != filters.Type {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memoryRepo) Insert(ctx context.Context, a alerts.Alert) (alerts.Alert, error) {
	a.ID = m.nextID
	m.nextID++
	a.Status = alerts.StatusActive
	a.CreatedAt = time.Now()
	m.alerts[a.ID] = a
	return a, nil
}

func (m *memoryRepo) HasActive(ctx context.Context, lotID int64, alertType alerts.Type) (bool, error) {
	for _, a := range m.alerts {
		if a.LotID == lotID && a.AlertType == alertType && a.Status == alerts.StatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) Resolve(ctx context.Context, id int64) (alerts.Alert, error) {
	a, ok := m.alerts[id]
	if !ok || a.Status != alerts.StatusActive {
		return alerts.Alert{}, shared.ErrNotFound
	}
	now := time.Now()
	a.Status = alerts.StatusResolved
	a.ResolvedAt = &now
	m.alerts[id] = a
	return a, nil
}

func (m *memoryRepo) CountActive(ctx context.Context) (int, int, error) {
	var low, expired int
	for _, a := range m.alerts {
		if a.Status != alerts.StatusActive {
			continue
		}
		switch a.AlertType {
		case alerts.TypeLowStock:
			low++
		case alerts.TypeExpired:
			expired++
		}
	}
	return low, expired, nil
}

func newService(t *testing.T) (*alerts.Service, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return alerts.NewService(logger, repo, observability.NewMetrics()), repo
}

func TestRaiseLowStockMessage(t *testing.T) {
	svc, repo := newService(t)

	err := svc.RaiseLowStock(context.Background(), 10, 3, "Lait demi-écrémé", "LOT-1725000000000-AB12CD34")
	require.NoError(t, err)

	list, err := repo.List(context.Background(), alerts.Filters{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, alerts.TypeLowStock, list[0].AlertType)
	require.Equal(t, "Stock faible pour Lait demi-écrémé - Lot LOT-1725000000000-AB12CD34", list[0].Message)
}

func TestRaiseLowStockDedupesActive(t *testing.T) {
	svc, repo := newService(t)

	require.NoError(t, svc.RaiseLowStock(context.Background(), 10, 3, "Lait", "LOT-X"))
	require.NoError(t, svc.RaiseLowStock(context.Background(), 10, 3, "Lait", "LOT-X"))

	list, err := repo.List(context.Background(), alerts.Filters{})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRaiseAgainAfterResolve(t *testing.T) {
	svc, repo := newService(t)

	require.NoError(t, svc.RaiseLowStock(context.Background(), 10, 3, "Lait", "LOT-X"))
	list, err := repo.List(context.Background(), alerts.Filters{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	resolved, err := svc.Resolve(context.Background(), list[0].ID)
	require.NoError(t, err)
	require.Equal(t, alerts.StatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	require.NoError(t, svc.RaiseLowStock(context.Background(), 10, 3, "Lait", "LOT-X"))
	list, err = repo.List(context.Background(), alerts.Filters{Status: alerts.StatusActive})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestDedupeIsPerTypePerLot(t *testing.T) {
	svc, repo := newService(t)

	require.NoError(t, svc.RaiseLowStock(context.Background(), 10, 3, "Lait", "LOT-X"))
	require.NoError(t, svc.RaiseExpired(context.Background(), 10, 3, "Lait", "LOT-X"))
	require.NoError(t, svc.RaiseLowStock(context.Background(), 10, 4, "Lait", "LOT-Y"))

	list, err := repo.List(context.Background(), alerts.Filters{})
	require.NoError(t, err)
	require.Len(t, list, 3)

	low, expired, err := svc.CountActive(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, low)
	require.Equal(t, 1, expired)
}

func TestResolveUnknownAlert(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Resolve(context.Background(), 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
