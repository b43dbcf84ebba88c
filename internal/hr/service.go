package hr

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidRecord rejects malformed HR payloads before any write.
	ErrInvalidRecord = errors.New("enregistrement RH invalide")
	// ErrEmployeeExists signals a user already linked to an employee row.
	ErrEmployeeExists = errors.New("employé déjà enregistré")
	// ErrLeaveAlreadyReviewed rejects a second review of the same request.
	ErrLeaveAlreadyReviewed = errors.New("demande de congé déjà traitée")
)

// Service carries the HR flows: payroll data entry and leave reviews.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.repo.ListEmployees(ctx)
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	return s.repo.GetEmployee(ctx, id)
}

func (s *Service) CreateEmployee(ctx context.Context, e Employee) (Employee, error) {
	if e.UserID <= 0 {
		return Employee{}, fmt.Errorf("%w: utilisateur requis", ErrInvalidRecord)
	}
	if e.HourlyRate < 0 {
		return Employee{}, fmt.Errorf("%w: taux horaire négatif", ErrInvalidRecord)
	}
	if e.HireDate.IsZero() {
		e.HireDate = time.Now()
	}
	if e.Status == "" {
		e.Status = EmployeeActive
	}
	if e.Status != EmployeeActive && e.Status != EmployeeInactive {
		return Employee{}, fmt.Errorf("%w: statut inconnu", ErrInvalidRecord)
	}
	return s.repo.CreateEmployee(ctx, e)
}

func (s *Service) SetEmployeeStatus(ctx context.Context, id int64, status EmployeeStatus) error {
	if status != EmployeeActive && status != EmployeeInactive {
		return fmt.Errorf("%w: statut inconnu", ErrInvalidRecord)
	}
	return s.repo.UpdateEmployeeStatus(ctx, id, status)
}

func (s *Service) ListWorkHours(ctx context.Context, f WorkHourFilters) ([]WorkHour, error) {
	return s.repo.ListWorkHours(ctx, f)
}

// RecordWorkHours stores one day of work. Month and year come from the
// work date so payroll grouping cannot drift from the date itself.
func (s *Service) RecordWorkHours(ctx context.Context, employeeID int64, workDate time.Time, hours float64) (WorkHour, error) {
	if employeeID <= 0 {
		return WorkHour{}, fmt.Errorf("%w: employé requis", ErrInvalidRecord)
	}
	if hours <= 0 || hours > 24 {
		return WorkHour{}, fmt.Errorf("%w: heures travaillées hors limites", ErrInvalidRecord)
	}
	if workDate.IsZero() {
		return WorkHour{}, fmt.Errorf("%w: date de travail requise", ErrInvalidRecord)
	}
	wh := WorkHour{
		EmployeeID:  employeeID,
		WorkDate:    workDate,
		HoursWorked: hours,
		Month:       int(workDate.Month()),
		Year:        workDate.Year(),
	}
	return s.repo.CreateWorkHour(ctx, wh)
}

func (s *Service) ListLeaveRequests(ctx context.Context, status LeaveStatus) ([]LeaveRequest, error) {
	return s.repo.ListLeaveRequests(ctx, status)
}

func (s *Service) SubmitLeaveRequest(ctx context.Context, lr LeaveRequest) (LeaveRequest, error) {
	if lr.EmployeeID <= 0 {
		return LeaveRequest{}, fmt.Errorf("%w: employé requis", ErrInvalidRecord)
	}
	if lr.RequestType != LeaveVacation && lr.RequestType != LeaveSick {
		return LeaveRequest{}, fmt.Errorf("%w: type de congé inconnu", ErrInvalidRecord)
	}
	if lr.StartDate.IsZero() || lr.EndDate.IsZero() {
		return LeaveRequest{}, fmt.Errorf("%w: dates requises", ErrInvalidRecord)
	}
	if lr.EndDate.Before(lr.StartDate) {
		return LeaveRequest{}, fmt.Errorf("%w: fin avant le début", ErrInvalidRecord)
	}
	lr.Status = LeavePending
	return s.repo.CreateLeaveRequest(ctx, lr)
}

// ReviewLeaveRequest settles a pending request. Only approved and
// rejected are valid outcomes.
func (s *Service) ReviewLeaveRequest(ctx context.Context, id int64, status LeaveStatus) (LeaveRequest, error) {
	if status != LeaveApproved && status != LeaveRejected {
		return LeaveRequest{}, fmt.Errorf("%w: décision inconnue", ErrInvalidRecord)
	}
	return s.repo.ReviewLeaveRequest(ctx, id, status)
}
