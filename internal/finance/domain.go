package finance

import "time"

// RecordType classifies ledger entries.
type RecordType string

const (
	TypeInvestment RecordType = "investment"
	TypeRevenue    RecordType = "revenue"
	TypeExpense    RecordType = "expense"
	TypeSalary     RecordType = "salary"
)

// Record is one append-only ledger row. Entries are never edited or
// deleted; corrections are new entries.
type Record struct {
	ID          int64      `json:"id"`
	RecordType  RecordType `json:"recordType"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	RecordDate  time.Time  `json:"recordDate"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Summary aggregates the ledger per type.
type Summary struct {
	TotalInvestment float64 `json:"totalInvestment"`
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalExpense    float64 `json:"totalExpense"`
	TotalSalary     float64 `json:"totalSalary"`
	Net             float64 `json:"net"`
	NetDisplay      string  `json:"netDisplay"`
}

// ValidType reports whether t is a known record type.
func ValidType(t RecordType) bool {
	switch t {
	case TypeInvestment, TypeRevenue, TypeExpense, TypeSalary:
		return true
	default:
		return false
	}
}
