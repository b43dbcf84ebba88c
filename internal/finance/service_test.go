package finance_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/caddie-pos/caddie-pos/internal/finance"
	_ "github.com/caddie-pos/caddie-pos/testing"
)

type memoryRepo struct {
	records []finance.Record
	nextID  int64
}

func (m *memoryRepo) Append(ctx context.Context, r finance.Record) (finance.Record, error) {
	m.nextID++
	r.ID = m.nextID
	if r.RecordDate.IsZero() {
		r.RecordDate = time.Now()
	}
	r.CreatedAt = time.Now()
	m.records = append(m.records, r)
	return r, nil
}

func (m *memoryRepo) List(ctx context.Context, recordType finance.RecordType) ([]finance.Record, error) {
	var out []finance.Record
	for _, r := range m.records {
		if recordType != "" && r.RecordType != recordType {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memoryRepo) Totals(ctx context.Context) (map[finance.RecordType]float64, error) {
	totals := make(map[finance.RecordType]float64)
	for _, r := range m.records {
		totals[r.RecordType] += r.Amount
	}
	return totals, nil
}

func TestAppendValidation(t *testing.T) {
	svc := finance.NewService(&memoryRepo{})

	_, err := svc.Append(context.Background(), "loan", 100, "", time.Time{})
	require.ErrorIs(t, err, finance.ErrInvalidRecord)

	_, err = svc.Append(context.Background(), finance.TypeRevenue, -1, "", time.Time{})
	require.ErrorIs(t, err, finance.ErrInvalidRecord)
}

func TestAppendAndListByType(t *testing.T) {
	repo := &memoryRepo{}
	svc := finance.NewService(repo)

	_, err := svc.Append(context.Background(), finance.TypeRevenue, 25000, "Vente REC-20260831-ABC123", time.Time{})
	require.NoError(t, err)
	_, err = svc.Append(context.Background(), finance.TypeSalary, 90000, "Salaires août", time.Time{})
	require.NoError(t, err)

	revenue, err := svc.List(context.Background(), finance.TypeRevenue)
	require.NoError(t, err)
	require.Len(t, revenue, 1)
	require.True(t, strings.HasPrefix(revenue[0].Description, "Vente "))

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestSummarize(t *testing.T) {
	repo := &memoryRepo{}
	svc := finance.NewService(repo)

	_, err := svc.Append(context.Background(), finance.TypeRevenue, 100000, "", time.Time{})
	require.NoError(t, err)
	_, err = svc.Append(context.Background(), finance.TypeExpense, 30000, "", time.Time{})
	require.NoError(t, err)
	_, err = svc.Append(context.Background(), finance.TypeSalary, 20000, "", time.Time{})
	require.NoError(t, err)
	_, err = svc.Append(context.Background(), finance.TypeInvestment, 10000, "", time.Time{})
	require.NoError(t, err)

	sum, err := svc.Summarize(context.Background())
	require.NoError(t, err)
	require.Equal(t, 100000.0, sum.TotalRevenue)
	require.Equal(t, 40000.0, sum.Net)
	require.NotEmpty(t, sum.NetDisplay)
}

func TestFormatAmountFrenchGrouping(t *testing.T) {
	s := finance.FormatAmount(1234567.5)
	// French locale groups with narrow no-break spaces and a comma decimal.
	require.Contains(t, s, ",50")
	require.True(t, strings.HasSuffix(s, "F"))
}
