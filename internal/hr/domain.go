package hr

import "time"

// EmployeeStatus tracks whether an employee is on the payroll.
type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
)

// LeaveType is the kind of absence requested.
type LeaveType string

const (
	LeaveVacation LeaveType = "vacation"
	LeaveSick     LeaveType = "sick_leave"
)

// LeaveStatus is the review state of a leave request.
// Transitions only flow pending -> approved or pending -> rejected.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// Employee links a user account to payroll data.
type Employee struct {
	ID         int64          `json:"id"`
	UserID     int64          `json:"userId"`
	HourlyRate float64        `json:"hourlyRate"`
	HireDate   time.Time      `json:"hireDate"`
	Status     EmployeeStatus `json:"status"`
}

// WorkHour is one day of recorded work for an employee. Month and year
// are denormalized for payroll grouping.
type WorkHour struct {
	ID          int64     `json:"id"`
	EmployeeID  int64     `json:"employeeId"`
	WorkDate    time.Time `json:"workDate"`
	HoursWorked float64   `json:"hoursWorked"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
}

// LeaveRequest is an absence request awaiting or past HR review.
type LeaveRequest struct {
	ID          int64       `json:"id"`
	EmployeeID  int64       `json:"employeeId"`
	RequestType LeaveType   `json:"requestType"`
	StartDate   time.Time   `json:"startDate"`
	EndDate     time.Time   `json:"endDate"`
	Reason      string      `json:"reason"`
	Status      LeaveStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
}
