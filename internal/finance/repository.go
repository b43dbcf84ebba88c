package finance

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recordColumns = `id, record_type, amount, description, record_date, created_at`

// Repository defines persistence operations for the ledger.
type Repository interface {
	Append(ctx context.Context, r Record) (Record, error)
	List(ctx context.Context, recordType RecordType) ([]Record, error)
	Totals(ctx context.Context) (map[RecordType]float64, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Append(ctx context.Context, rec Record) (Record, error) {
	return appendRecord(ctx, r.db, rec)
}

func (r *repository) List(ctx context.Context, recordType RecordType) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM financial_records WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if recordType != "" {
		argCount++
		query += ` AND record_type = $` + strconv.Itoa(argCount)
		args = append(args, string(recordType))
	}
	query += ` ORDER BY record_date DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list financial records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.RecordType, &rec.Amount, &rec.Description, &rec.RecordDate, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *repository) Totals(ctx context.Context) (map[RecordType]float64, error) {
	rows, err := r.db.Query(ctx, `SELECT record_type, COALESCE(SUM(amount), 0) FROM financial_records GROUP BY record_type`)
	if err != nil {
		return nil, fmt.Errorf("sum financial records: %w", err)
	}
	defer rows.Close()

	totals := make(map[RecordType]float64)
	for rows.Next() {
		var t RecordType
		var sum float64
		if err := rows.Scan(&t, &sum); err != nil {
			return nil, err
		}
		totals[t] = sum
	}
	return totals, rows.Err()
}

// Querier is the subset of pgx.Tx the transactional appender uses.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AppendTx writes a ledger row inside an existing transaction.
func AppendTx(ctx context.Context, q Querier, rec Record) (Record, error) {
	return appendRecord(ctx, q, rec)
}

func appendRecord(ctx context.Context, q Querier, rec Record) (Record, error) {
	err := q.QueryRow(ctx,
		`INSERT INTO financial_records (record_type, amount, description, record_date)
		 VALUES ($1, $2, $3, COALESCE($4, NOW()))
		 RETURNING id, record_date, created_at`,
		string(rec.RecordType), rec.Amount, rec.Description, nullableTime(rec)).
		Scan(&rec.ID, &rec.RecordDate, &rec.CreatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("append financial record: %w", err)
	}
	return rec, nil
}

func nullableTime(rec Record) any {
	if rec.RecordDate.IsZero() {
		return nil
	}
	return rec.RecordDate
}
