package hr

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caddie-pos/caddie-pos/internal/shared"
)

// Repository persists employees, work hours and leave requests.
type Repository interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id int64) (Employee, error)
	CreateEmployee(ctx context.Context, e Employee) (Employee, error)
	UpdateEmployeeStatus(ctx context.Context, id int64, status EmployeeStatus) error

	ListWorkHours(ctx context.Context, f WorkHourFilters) ([]WorkHour, error)
	CreateWorkHour(ctx context.Context, wh WorkHour) (WorkHour, error)

	ListLeaveRequests(ctx context.Context, status LeaveStatus) ([]LeaveRequest, error)
	GetLeaveRequest(ctx context.Context, id int64) (LeaveRequest, error)
	CreateLeaveRequest(ctx context.Context, lr LeaveRequest) (LeaveRequest, error)
	ReviewLeaveRequest(ctx context.Context, id int64, status LeaveStatus) (LeaveRequest, error)
}

// WorkHourFilters narrows work hour listings for payroll views.
type WorkHourFilters struct {
	EmployeeID int64
	Month      int
	Year       int
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const employeeColumns = `id, user_id, hourly_rate, hire_date, status`

func (r *pgRepository) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		ORDER BY hire_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.UserID, &e.HourlyRate, &e.HireDate, &e.Status); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *pgRepository) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	var e Employee
	err := r.pool.QueryRow(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE id = $1`, id).Scan(&e.ID, &e.UserID, &e.HourlyRate, &e.HireDate, &e.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, shared.ErrNotFound
	}
	if err != nil {
		return Employee{}, fmt.Errorf("get employee %d: %w", id, err)
	}
	return e, nil
}

func (r *pgRepository) CreateEmployee(ctx context.Context, e Employee) (Employee, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO employees (user_id, hourly_rate, hire_date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		e.UserID, e.HourlyRate, e.HireDate, e.Status,
	).Scan(&e.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503":
				return Employee{}, shared.ErrNotFound
			case "23505":
				return Employee{}, ErrEmployeeExists
			}
		}
		return Employee{}, fmt.Errorf("create employee: %w", err)
	}
	return e, nil
}

func (r *pgRepository) UpdateEmployeeStatus(ctx context.Context, id int64, status EmployeeStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE employees SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update employee %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *pgRepository) ListWorkHours(ctx context.Context, f WorkHourFilters) ([]WorkHour, error) {
	query := `
		SELECT id, employee_id, work_date, hours_worked, month, year
		FROM work_hours
		WHERE 1=1`
	args := []any{}

	if f.EmployeeID > 0 {
		args = append(args, f.EmployeeID)
		query += ` AND employee_id = $` + strconv.Itoa(len(args))
	}
	if f.Month > 0 {
		args = append(args, f.Month)
		query += ` AND month = $` + strconv.Itoa(len(args))
	}
	if f.Year > 0 {
		args = append(args, f.Year)
		query += ` AND year = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY work_date DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work hours: %w", err)
	}
	defer rows.Close()

	var out []WorkHour
	for rows.Next() {
		var wh WorkHour
		if err := rows.Scan(&wh.ID, &wh.EmployeeID, &wh.WorkDate, &wh.HoursWorked, &wh.Month, &wh.Year); err != nil {
			return nil, fmt.Errorf("scan work hour: %w", err)
		}
		out = append(out, wh)
	}
	return out, rows.Err()
}

func (r *pgRepository) CreateWorkHour(ctx context.Context, wh WorkHour) (WorkHour, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO work_hours (employee_id, work_date, hours_worked, month, year)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		wh.EmployeeID, wh.WorkDate, wh.HoursWorked, wh.Month, wh.Year,
	).Scan(&wh.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return WorkHour{}, shared.ErrNotFound
		}
		return WorkHour{}, fmt.Errorf("create work hour: %w", err)
	}
	return wh, nil
}

const leaveColumns = `id, employee_id, request_type, start_date, end_date, reason, status, created_at`

func (r *pgRepository) ListLeaveRequests(ctx context.Context, status LeaveStatus) ([]LeaveRequest, error) {
	query := `
		SELECT ` + leaveColumns + `
		FROM leave_requests
		WHERE 1=1`
	args := []any{}

	if status != "" {
		args = append(args, status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	defer rows.Close()

	var out []LeaveRequest
	for rows.Next() {
		lr, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	return out, rows.Err()
}

func (r *pgRepository) GetLeaveRequest(ctx context.Context, id int64) (LeaveRequest, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leaveColumns+`
		FROM leave_requests
		WHERE id = $1`, id)
	lr, err := scanLeave(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveRequest{}, shared.ErrNotFound
	}
	return lr, err
}

func (r *pgRepository) CreateLeaveRequest(ctx context.Context, lr LeaveRequest) (LeaveRequest, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO leave_requests (employee_id, request_type, start_date, end_date, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at`,
		lr.EmployeeID, lr.RequestType, lr.StartDate, lr.EndDate, lr.Reason,
	).Scan(&lr.ID, &lr.Status, &lr.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return LeaveRequest{}, shared.ErrNotFound
		}
		return LeaveRequest{}, fmt.Errorf("create leave request: %w", err)
	}
	return lr, nil
}

// ReviewLeaveRequest moves a pending request to its final status. The
// WHERE clause guards the transition so reviewed requests stay final.
func (r *pgRepository) ReviewLeaveRequest(ctx context.Context, id int64, status LeaveStatus) (LeaveRequest, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leave_requests
		SET status = $2
		WHERE id = $1 AND status = 'pending'
		RETURNING `+leaveColumns, id, status)
	lr, err := scanLeave(row)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetLeaveRequest(ctx, id); getErr == nil {
			return LeaveRequest{}, ErrLeaveAlreadyReviewed
		}
		return LeaveRequest{}, shared.ErrNotFound
	}
	return lr, err
}

func scanLeave(row pgx.Row) (LeaveRequest, error) {
	var lr LeaveRequest
	err := row.Scan(&lr.ID, &lr.EmployeeID, &lr.RequestType, &lr.StartDate, &lr.EndDate, &lr.Reason, &lr.Status, &lr.CreatedAt)
	if err != nil {
		return LeaveRequest{}, err
	}
	return lr, nil
}
