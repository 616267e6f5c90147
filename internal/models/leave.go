package models

import "time"

// LeaveType classifies leave requests.
type LeaveType string

const (
	LeaveTypeSick      LeaveType = "Sick"
	LeaveTypeVacation  LeaveType = "Vacation"
	LeaveTypePersonal  LeaveType = "Personal"
	LeaveTypeMaternity LeaveType = "Maternity"
	LeaveTypePaternity LeaveType = "Paternity"
	LeaveTypeOther     LeaveType = "Other"
)

// Valid returns true when the type is a supported value.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeSick, LeaveTypeVacation, LeaveTypePersonal,
		LeaveTypeMaternity, LeaveTypePaternity, LeaveTypeOther:
		return true
	default:
		return false
	}
}

// LeaveStatus represents the approval state of a leave request.
type LeaveStatus string

const (
	LeaveStatusPending   LeaveStatus = "Pending"
	LeaveStatusApproved  LeaveStatus = "Approved"
	LeaveStatusRejected  LeaveStatus = "Rejected"
	LeaveStatusCancelled LeaveStatus = "Cancelled"
)

// Valid returns true when the status is a supported value.
func (s LeaveStatus) Valid() bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected, LeaveStatusCancelled:
		return true
	default:
		return false
	}
}

// Leave represents a leave request over an inclusive date range.
type Leave struct {
	ID         string      `db:"id" json:"id"`
	EmployeeID string      `db:"employee_id" json:"employee_id"`
	Type       LeaveType   `db:"leave_type" json:"type"`
	StartDate  time.Time   `db:"start_date" json:"start_date"`
	EndDate    time.Time   `db:"end_date" json:"end_date"`
	DaysCount  int         `db:"days_count" json:"days_count"`
	Status     LeaveStatus `db:"status" json:"status"`
	Reason     *string     `db:"reason" json:"reason,omitempty"`
	ApprovedBy *string     `db:"approved_by" json:"approved_by,omitempty"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}
