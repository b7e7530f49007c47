package domain

import "time"

// LeaveStatus represents the lifecycle of a leave request.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// Terminal reports whether the status is a final decision.
func (s LeaveStatus) Terminal() bool {
	return s == LeaveStatusApproved || s == LeaveStatusRejected
}

// LeaveType enumerates supported leave categories.
type LeaveType string

const (
	LeaveTypeAnnual    LeaveType = "annual"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypeUnpaid    LeaveType = "unpaid"
	LeaveTypeMaternity LeaveType = "maternity"
	LeaveTypeFamily    LeaveType = "family"
)

// LeaveRequest is an employee's request for time off.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Type       LeaveType
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	Status     LeaveStatus
	AdminNotes string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
