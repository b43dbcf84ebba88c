package finance

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRecord flags a ledger entry failing validation.
var ErrInvalidRecord = errors.New("invalid financial record")

// Service wraps ledger business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Append adds a ledger entry.
func (s *Service) Append(ctx context.Context, recordType RecordType, amount float64, description string, date time.Time) (Record, error) {
	if !ValidType(recordType) {
		return Record{}, fmt.Errorf("%w: type %q inconnu", ErrInvalidRecord, recordType)
	}
	if amount < 0 {
		return Record{}, fmt.Errorf("%w: montant négatif", ErrInvalidRecord)
	}
	return s.repo.Append(ctx, Record{
		RecordType:  recordType,
		Amount:      amount,
		Description: description,
		RecordDate:  date,
	})
}

// List returns ledger entries, optionally filtered by type.
func (s *Service) List(ctx context.Context, recordType RecordType) ([]Record, error) {
	if recordType != "" && !ValidType(recordType) {
		return nil, fmt.Errorf("%w: type %q inconnu", ErrInvalidRecord, recordType)
	}
	return s.repo.List(ctx, recordType)
}

// Summarize rolls the ledger up per type.
func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{
		TotalInvestment: totals[TypeInvestment],
		TotalRevenue:    totals[TypeRevenue],
		TotalExpense:    totals[TypeExpense],
		TotalSalary:     totals[TypeSalary],
	}
	sum.Net = sum.TotalRevenue - sum.TotalExpense - sum.TotalSalary - sum.TotalInvestment
	sum.NetDisplay = FormatAmount(sum.Net)
	return sum, nil
}
