package dto

// MonthlyAttendanceSummary counts one employee's attendance rows within a
// calendar month. TotalDays is the number of rows, not calendar days.
type MonthlyAttendanceSummary struct {
	TotalDays   int     `json:"total_days"`
	PresentDays int     `json:"present_days"`
	AbsentDays  int     `json:"absent_days"`
	LateDays    int     `json:"late_days"`
	HalfDays    int     `json:"half_days"`
	LeaveDays   int     `json:"leave_days"`
	TotalHours  float64 `json:"total_hours"`
}

// DepartmentAttendanceSummary aggregates attendance over a department's
// members for a date range.
type DepartmentAttendanceSummary struct {
	Department     string  `json:"department"`
	TotalEmployees int     `json:"total_employees"`
	TotalPresent   int     `json:"total_present"`
	TotalAbsent    int     `json:"total_absent"`
	TotalLate      int     `json:"total_late"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// PayrollSummary reduces paid payrolls whose period is contained in a range.
type PayrollSummary struct {
	TotalEmployees  int     `json:"total_employees"`
	TotalPayrolls   int     `json:"total_payrolls"`
	TotalNetSalary  float64 `json:"total_net_salary"`
	TotalBasic      float64 `json:"total_basic_salary"`
	TotalOvertime   float64 `json:"total_overtime_pay"`
	TotalBonuses    float64 `json:"total_bonuses"`
	TotalDeductions float64 `json:"total_deductions"`
	TotalTax        float64 `json:"total_tax"`
	AverageSalary   float64 `json:"average_salary"`
	MaxSalary       float64 `json:"max_salary"`
	MinSalary       float64 `json:"min_salary"`
}

// DepartmentPayrollSummary scopes the payroll reduction to one department.
type DepartmentPayrollSummary struct {
	Department     string  `json:"department"`
	TotalEmployees int     `json:"total_employees"`
	EmployeesPaid  int     `json:"employees_paid"`
	TotalPayrolls  int     `json:"total_payrolls"`
	TotalNetSalary float64 `json:"total_net_salary"`
	AverageSalary  float64 `json:"average_salary"`
}

// EmployeePerformance pairs an employee with their completed-review average.
type EmployeePerformance struct {
	EmployeeID  string  `json:"employee_id"`
	Name        string  `json:"name"`
	Department  string  `json:"department"`
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int     `json:"review_count"`
	RatingLevel string  `json:"rating_level"`
}

// RatingDistribution buckets completed reviews by rating level.
type RatingDistribution struct {
	Excellent        int `json:"excellent"`
	VeryGood         int `json:"very_good"`
	Good             int `json:"good"`
	NeedsImprovement int `json:"needs_improvement"`
	Unsatisfactory   int `json:"unsatisfactory"`
}

// PerformanceSummary aggregates all completed reviews.
type PerformanceSummary struct {
	TotalReviews int                `json:"total_reviews"`
	AvgRating    float64            `json:"avg_rating"`
	MaxRating    float64            `json:"max_rating"`
	MinRating    float64            `json:"min_rating"`
	Distribution RatingDistribution `json:"rating_distribution"`
}

// DepartmentRollup summarises one department's membership and salary spend.
type DepartmentRollup struct {
	DepartmentID   string  `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	Manager        string  `json:"manager"`
	EmployeeCount  int     `json:"employee_count"`
	ActiveCount    int     `json:"active_count"`
	TotalSalary    float64 `json:"total_salary_budget"`
	AverageSalary  float64 `json:"average_salary"`
	Location       string  `json:"location"`
	Budget         float64 `json:"budget"`
}
