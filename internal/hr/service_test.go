package hr_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/caddie-pos/caddie-pos/internal/hr"
	"github.com/caddie-pos/caddie-pos/internal/shared"
	_ "github.com/caddie-pos/caddie-pos/testing"
)

type memoryRepo struct {
	employees map[int64]hr.Employee
	workHours []hr.WorkHour
	leaves    map[int64]hr.LeaveRequest
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		employees: make(map[int64]hr.Employee),
		leaves:    make(map[int64]hr.LeaveRequest),
	}
}

func (m *memoryRepo) ListEmployees(ctx context.Context) ([]hr.Employee, error) {
	var out []hr.Employee
	for _, e := range m.employees {
		out = append(out, e)
	}
	return out, nil
}

func (m *memoryRepo) GetEmployee(ctx context.Context, id int64) (hr.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return hr.Employee{}, shared.ErrNotFound
	}
	return e, nil
}

func (m *memoryRepo) CreateEmployee(ctx context.Context, e hr.Employee) (hr.Employee, error) {
	for _, existing := range m.employees {
		if existing.UserID == e.UserID {
			return hr.Employee{}, hr.ErrEmployeeExists
		}
	}
	m.nextID++
	e.ID = m.nextID
	m.employees[e.ID] = e
	return e, nil
}

func (m *memoryRepo) UpdateEmployeeStatus(ctx context.Context, id int64, status hr.EmployeeStatus) error {
	e, ok := m.employees[id]
	if !ok {
		return shared.ErrNotFound
	}
	e.Status = status
	m.employees[id] = e
	return nil
}

func (m *memoryRepo) ListWorkHours(ctx context.Context, f hr.WorkHourFilters) ([]hr.WorkHour, error) {
	var out []hr.WorkHour
	for _, wh := range m.workHours {
		if f.EmployeeID > 0 && wh.EmployeeID != f.EmployeeID {
			continue
		}
		if f.Month > 0 && wh.Month != f.Month {
			continue
		}
		if f.Year > 0 && wh.Year != f.Year {
			continue
		}
		out = append(out, wh)
	}
	return out, nil
}

func (m *memoryRepo) CreateWorkHour(ctx context.Context, wh hr.WorkHour) (hr.WorkHour, error) {
	if _, ok := m.employees[wh.EmployeeID]; !ok {
		return hr.WorkHour{}, shared.ErrNotFound
	}
	m.nextID++
	wh.ID = m.nextID
	m.workHours = append(m.workHours, wh)
	return wh, nil
}

func (m *memoryRepo) ListLeaveRequests(ctx context.Context, status hr.LeaveStatus) ([]hr.LeaveRequest, error) {
	var out []hr.LeaveRequest
	for _, lr := range m.leaves {
		if status != "" && lr.Status != status {
			continue
		}
		out = append(out, lr)
	}
	return out, nil
}

func (m *memoryRepo) GetLeaveRequest(ctx context.Context, id int64) (hr.LeaveRequest, error) {
	lr, ok := m.leaves[id]
	if !ok {
		return hr.LeaveRequest{}, shared.ErrNotFound
	}
	return lr, nil
}

func (m *memoryRepo) CreateLeaveRequest(ctx context.Context, lr hr.LeaveRequest) (hr.LeaveRequest, error) {
	if _, ok := m.employees[lr.EmployeeID]; !ok {
		return hr.LeaveRequest{}, shared.ErrNotFound
	}
	m.nextID++
	lr.ID = m.nextID
	lr.CreatedAt = time.Now()
	m.leaves[lr.ID] = lr
	return lr, nil
}

func (m *memoryRepo) ReviewLeaveRequest(ctx context.Context, id int64, status hr.LeaveStatus) (hr.LeaveRequest, error) {
	lr, ok := m.leaves[id]
	if !ok {
		return hr.LeaveRequest{}, shared.ErrNotFound
	}
	if lr.Status != hr.LeavePending {
		return hr.LeaveRequest{}, hr.ErrLeaveAlreadyReviewed
	}
	lr.Status = status
	m.leaves[id] = lr
	return lr, nil
}

func newHRService(t *testing.T) (*hr.Service, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	return hr.NewService(repo), repo
}

func seedEmployee(t *testing.T, svc *hr.Service) hr.Employee {
	t.Helper()
	e, err := svc.CreateEmployee(context.Background(), hr.Employee{UserID: 7, HourlyRate: 1500})
	require.NoError(t, err)
	return e
}

func TestCreateEmployeeDefaults(t *testing.T) {
	svc, _ := newHRService(t)

	e := seedEmployee(t, svc)
	require.Equal(t, hr.EmployeeActive, e.Status)
	require.False(t, e.HireDate.IsZero())
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc, _ := newHRService(t)

	_, err := svc.CreateEmployee(context.Background(), hr.Employee{UserID: 0})
	require.ErrorIs(t, err, hr.ErrInvalidRecord)

	_, err = svc.CreateEmployee(context.Background(), hr.Employee{UserID: 7, HourlyRate: -1})
	require.ErrorIs(t, err, hr.ErrInvalidRecord)
}

func TestCreateEmployeeDuplicateUser(t *testing.T) {
	svc, _ := newHRService(t)
	seedEmployee(t, svc)

	_, err := svc.CreateEmployee(context.Background(), hr.Employee{UserID: 7, HourlyRate: 2000})
	require.ErrorIs(t, err, hr.ErrEmployeeExists)
}

func TestRecordWorkHoursDerivesPeriod(t *testing.T) {
	svc, _ := newHRService(t)
	e := seedEmployee(t, svc)

	workDate := time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)
	wh, err := svc.RecordWorkHours(context.Background(), e.ID, workDate, 7.5)
	require.NoError(t, err)
	require.Equal(t, 8, wh.Month)
	require.Equal(t, 2026, wh.Year)

	listed, err := svc.ListWorkHours(context.Background(), hr.WorkHourFilters{EmployeeID: e.ID, Month: 8, Year: 2026})
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestRecordWorkHoursBounds(t *testing.T) {
	svc, _ := newHRService(t)
	e := seedEmployee(t, svc)

	_, err := svc.RecordWorkHours(context.Background(), e.ID, time.Now(), 0)
	require.ErrorIs(t, err, hr.ErrInvalidRecord)

	_, err = svc.RecordWorkHours(context.Background(), e.ID, time.Now(), 25)
	require.ErrorIs(t, err, hr.ErrInvalidRecord)
}

func TestSubmitLeaveRequestStartsPending(t *testing.T) {
	svc, _ := newHRService(t)
	e := seedEmployee(t, svc)

	lr, err := svc.SubmitLeaveRequest(context.Background(), hr.LeaveRequest{
		EmployeeID:  e.ID,
		RequestType: hr.LeaveVacation,
		StartDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Reason:      "Congés annuels",
		Status:      hr.LeaveApproved, // client-set status must be ignored
	})
	require.NoError(t, err)
	require.Equal(t, hr.LeavePending, lr.Status)
}

func TestSubmitLeaveRequestRejectsInvertedDates(t *testing.T) {
	svc, _ := newHRService(t)
	e := seedEmployee(t, svc)

	_, err := svc.SubmitLeaveRequest(context.Background(), hr.LeaveRequest{
		EmployeeID:  e.ID,
		RequestType: hr.LeaveSick,
		StartDate:   time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, hr.ErrInvalidRecord)
}

func TestReviewLeaveRequestTransitions(t *testing.T) {
	svc, _ := newHRService(t)
	e := seedEmployee(t, svc)

	lr, err := svc.SubmitLeaveRequest(context.Background(), hr.LeaveRequest{
		EmployeeID:  e.ID,
		RequestType: hr.LeaveVacation,
		StartDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	reviewed, err := svc.ReviewLeaveRequest(context.Background(), lr.ID, hr.LeaveApproved)
	require.NoError(t, err)
	require.Equal(t, hr.LeaveApproved, reviewed.Status)

	// Once settled the request is final.
	_, err = svc.ReviewLeaveRequest(context.Background(), lr.ID, hr.LeaveRejected)
	require.ErrorIs(t, err, hr.ErrLeaveAlreadyReviewed)
}

func TestReviewLeaveRequestRejectsPendingAsDecision(t *testing.T) {
	svc, _ := newHRService(t)

	_, err := svc.ReviewLeaveRequest(context.Background(), 1, hr.LeavePending)
	require.ErrorIs(t, err, hr.ErrInvalidRecord)
}

func TestSetEmployeeStatus(t *testing.T) {
	svc, repo := newHRService(t)
	e := seedEmployee(t, svc)

	require.NoError(t, svc.SetEmployeeStatus(context.Background(), e.ID, hr.EmployeeInactive))
	require.Equal(t, hr.EmployeeInactive, repo.employees[e.ID].Status)

	err := svc.SetEmployeeStatus(context.Background(), 999, hr.EmployeeActive)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
