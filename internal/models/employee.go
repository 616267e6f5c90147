package models

import "time"

// EmployeeStatus represents the employment state of an employee.
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "Active"
	EmployeeStatusInactive EmployeeStatus = "Inactive"
	EmployeeStatusOnLeave  EmployeeStatus = "On Leave"
)

// Valid returns true when the status is a supported value.
func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeStatusActive, EmployeeStatusInactive, EmployeeStatusOnLeave:
		return true
	default:
		return false
	}
}

// Employee represents a staff record. The department field is free text
// matched by substring against department names, not a foreign key.
type Employee struct {
	ID          string         `db:"id" json:"id"`
	FirstName   string         `db:"first_name" json:"first_name"`
	LastName    string         `db:"last_name" json:"last_name"`
	Email       string         `db:"email" json:"email"`
	Phone       *string        `db:"phone" json:"phone,omitempty"`
	DateOfBirth *time.Time     `db:"date_of_birth" json:"date_of_birth,omitempty"`
	HireDate    time.Time      `db:"hire_date" json:"hire_date"`
	JobTitle    *string        `db:"job_title" json:"job_title,omitempty"`
	Department  *string        `db:"department" json:"department,omitempty"`
	Salary      float64        `db:"salary" json:"salary"`
	Address     *string        `db:"address" json:"address,omitempty"`
	City        *string        `db:"city" json:"city,omitempty"`
	State       *string        `db:"state" json:"state,omitempty"`
	Country     *string        `db:"country" json:"country,omitempty"`
	Status      EmployeeStatus `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last names for display.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Age returns the employee's age at the given time. The second return is
// false when no date of birth is recorded.
func (e Employee) Age(now time.Time) (int, bool) {
	if e.DateOfBirth == nil {
		return 0, false
	}
	dob := *e.DateOfBirth
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years, true
}

// EmployeeFilter captures filtering criteria for listing employees.
type EmployeeFilter struct {
	Search     string
	Department string
	Status     *EmployeeStatus
}

// EmployeePatch carries a partial update; nil fields are left untouched.
type EmployeePatch struct {
	FirstName   *string         `json:"first_name,omitempty"`
	LastName    *string         `json:"last_name,omitempty"`
	Email       *string         `json:"email,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	DateOfBirth *time.Time      `json:"date_of_birth,omitempty"`
	HireDate    *time.Time      `json:"hire_date,omitempty"`
	JobTitle    *string         `json:"job_title,omitempty"`
	Department  *string         `json:"department,omitempty"`
	Salary      *float64        `json:"salary,omitempty"`
	Address     *string         `json:"address,omitempty"`
	City        *string         `json:"city,omitempty"`
	State       *string         `json:"state,omitempty"`
	Country     *string         `json:"country,omitempty"`
	Status      *EmployeeStatus `json:"status,omitempty"`
}

// Empty reports whether the patch carries no changes.
func (p EmployeePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.Phone == nil && p.DateOfBirth == nil && p.HireDate == nil &&
		p.JobTitle == nil && p.Department == nil && p.Salary == nil &&
		p.Address == nil && p.City == nil && p.State == nil &&
		p.Country == nil && p.Status == nil
}
