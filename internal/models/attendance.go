package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "Present"
	AttendanceStatusAbsent  AttendanceStatus = "Absent"
	AttendanceStatusLate    AttendanceStatus = "Late"
	AttendanceStatusHalfDay AttendanceStatus = "Half-day"
	AttendanceStatusLeave   AttendanceStatus = "Leave"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate,
		AttendanceStatusHalfDay, AttendanceStatusLeave:
		return true
	default:
		return false
	}
}

// Attendance represents one employee's record for one day. The table carries
// no unique constraint on (employee_id, date); the mark operation keeps that
// invariant at the application level.
type Attendance struct {
	ID          string           `db:"id" json:"id"`
	EmployeeID  string           `db:"employee_id" json:"employee_id"`
	Date        time.Time        `db:"attendance_date" json:"date"`
	CheckIn     *string          `db:"check_in" json:"check_in,omitempty"`
	CheckOut    *string          `db:"check_out" json:"check_out,omitempty"`
	HoursWorked float64          `db:"hours_worked" json:"hours_worked"`
	Status      AttendanceStatus `db:"status" json:"status"`
	Notes       *string          `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}
