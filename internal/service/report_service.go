package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/emstack/ems-api/internal/models"
	appErrors "github.com/emstack/ems-api/pkg/errors"
	"github.com/emstack/ems-api/pkg/export"
	"github.com/emstack/ems-api/pkg/storage"
)

const notAvailable = "N/A"

// Report couples a rendered text body with the tabular data behind it, so
// the export path can re-render the table as CSV or PDF. Prose-only reports
// leave Table empty.
type Report struct {
	Title string
	Text  string
	Table export.Dataset
}

// ReportService renders tabular text reports over the management data and
// exports them as text, CSV or PDF files.
type ReportService struct {
	employees   *EmployeeService
	departments *DepartmentService
	attendance  *AttendanceService
	leaves      *LeaveService
	payrolls    *PayrollService
	performance *PerformanceService
	table       *export.TableRenderer
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	storage     *storage.LocalStorage
	logger      *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(
	employees *EmployeeService,
	departments *DepartmentService,
	attendance *AttendanceService,
	leaves *LeaveService,
	payrolls *PayrollService,
	performance *PerformanceService,
	store *storage.LocalStorage,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		employees:   employees,
		departments: departments,
		attendance:  attendance,
		leaves:      leaves,
		payrolls:    payrolls,
		performance: performance,
		table:       export.NewTableRenderer(),
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		storage:     store,
		logger:      logger,
	}
}

// EmployeeReport renders the employee roster. Department takes precedence
// over status when both filters are given.
func (s *ReportService) EmployeeReport(ctx context.Context, department string, status *models.EmployeeStatus) (*Report, error) {
	filter := models.EmployeeFilter{}
	if department != "" {
		filter.Department = department
	} else if status != nil {
		filter.Status = status
	}
	employees, err := s.employees.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"ID", "Name", "Email", "Phone", "Department", "Job Title", "Salary", "Status", "Hire Date"},
	}
	for _, emp := range employees {
		salary := notAvailable
		if emp.Salary > 0 {
			salary = export.Money(emp.Salary)
		}
		data.Rows = append(data.Rows, []string{
			emp.ID,
			emp.FullName(),
			emp.Email,
			orNA(emp.Phone),
			orNA(emp.Department),
			orNA(emp.JobTitle),
			salary,
			string(emp.Status),
			export.Date(emp.HireDate),
		})
	}
	return &Report{Title: "Employee Report", Text: s.table.Render(data), Table: data}, nil
}

// AttendanceReport renders per-employee attendance counts for the month that
// contains the range start, with a totals row and an overall rate footer.
func (s *ReportService) AttendanceReport(ctx context.Context, from, to time.Time, department string) (*Report, error) {
	filter := models.EmployeeFilter{Department: department}
	employees, err := s.employees.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"ID", "Name", "Department", "Present", "Absent", "Late", "Half-day", "Leave", "Total Hours"},
	}
	var totalPresent, totalAbsent, totalLate, totalHalf, totalLeave int
	var totalHours float64
	for _, emp := range employees {
		summary, err := s.attendance.MonthlySummary(ctx, emp.ID, from.Year(), int(from.Month()))
		if err != nil {
			return nil, err
		}
		data.Rows = append(data.Rows, []string{
			emp.ID,
			emp.FullName(),
			orNA(emp.Department),
			fmt.Sprintf("%d", summary.PresentDays),
			fmt.Sprintf("%d", summary.AbsentDays),
			fmt.Sprintf("%d", summary.LateDays),
			fmt.Sprintf("%d", summary.HalfDays),
			fmt.Sprintf("%d", summary.LeaveDays),
			fmt.Sprintf("%.1f", summary.TotalHours),
		})
		totalPresent += summary.PresentDays
		totalAbsent += summary.AbsentDays
		totalLate += summary.LateDays
		totalHalf += summary.HalfDays
		totalLeave += summary.LeaveDays
		totalHours += summary.TotalHours
	}
	data.Rows = append(data.Rows, []string{
		"TOTAL", "", "",
		fmt.Sprintf("%d", totalPresent),
		fmt.Sprintf("%d", totalAbsent),
		fmt.Sprintf("%d", totalLate),
		fmt.Sprintf("%d", totalHalf),
		fmt.Sprintf("%d", totalLeave),
		fmt.Sprintf("%.1f", totalHours),
	})

	report := s.table.Render(data)
	if possible := len(employees) * inclusiveDaySpan(from, to); possible > 0 {
		rate := float64(totalPresent) / float64(possible) * 100
		report += fmt.Sprintf("\n\nOverall Attendance Rate: %s", export.Percent(rate))
	}
	return &Report{Title: "Attendance Report", Text: report, Table: data}, nil
}

// PayrollReport renders payrolls for a period with the paid-records summary
// footer when one is available.
func (s *ReportService) PayrollReport(ctx context.Context, from, to time.Time) (*Report, error) {
	payrolls, err := s.payrolls.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	summary, err := s.payrolls.Summary(ctx, from, to)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Payroll ID", "Employee", "Department", "Period", "Basic", "Overtime", "Bonuses", "Deductions", "Tax", "Net Salary", "Status"},
	}
	for _, p := range payrolls {
		name, dept := notAvailable, notAvailable
		if emp, err := s.employees.Get(ctx, p.EmployeeID); err == nil {
			name = emp.FullName()
			dept = orNA(emp.Department)
		}
		data.Rows = append(data.Rows, []string{
			p.ID,
			name,
			dept,
			fmt.Sprintf("%s to %s", export.Date(p.PayPeriodStart), export.Date(p.PayPeriodEnd)),
			export.Money(p.BasicSalary),
			export.Money(p.OvertimePay),
			export.Money(p.Bonuses),
			export.Money(p.Deductions),
			export.Money(p.TaxAmount),
			export.Money(p.NetSalary),
			string(p.Status),
		})
	}

	report := s.table.Render(data)
	if summary != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "\n\nPayroll Summary (%s to %s):\n", export.Date(from), export.Date(to))
		b.WriteString(strings.Repeat("=", 50) + "\n")
		fmt.Fprintf(&b, "Total Employees Paid: %d\n", summary.TotalEmployees)
		fmt.Fprintf(&b, "Total Payroll Records: %d\n", summary.TotalPayrolls)
		fmt.Fprintf(&b, "Total Net Salary: %s\n", export.Money(summary.TotalNetSalary))
		fmt.Fprintf(&b, "Average Salary: %s\n", export.Money(summary.AverageSalary))
		fmt.Fprintf(&b, "Maximum Salary: %s\n", export.Money(summary.MaxSalary))
		fmt.Fprintf(&b, "Minimum Salary: %s\n", export.Money(summary.MinSalary))
		b.WriteString(strings.Repeat("=", 50) + "\n")
		b.WriteString("Breakdown:\n")
		fmt.Fprintf(&b, "  Basic Salary: %s\n", export.Money(summary.TotalBasic))
		fmt.Fprintf(&b, "  Overtime Pay: %s\n", export.Money(summary.TotalOvertime))
		fmt.Fprintf(&b, "  Bonuses: %s\n", export.Money(summary.TotalBonuses))
		fmt.Fprintf(&b, "  Deductions: %s\n", export.Money(summary.TotalDeductions))
		fmt.Fprintf(&b, "  Tax: %s\n", export.Money(summary.TotalTax))
		report += b.String()
	}
	return &Report{Title: "Payroll Report", Text: report, Table: data}, nil
}

// LeaveReport renders leave requests filtered by optional status and type.
// Percentage statistics are only appended on the unfiltered report.
func (s *ReportService) LeaveReport(ctx context.Context, status *models.LeaveStatus, leaveType *models.LeaveType) (*Report, error) {
	leaves, err := s.leaves.List(ctx, status, leaveType)
	if err != nil {
		return nil, err
	}
	if len(leaves) == 0 {
		return &Report{Title: "Leave Report", Text: "No leave records found with the specified filters."}, nil
	}

	data := export.Dataset{
		Headers: []string{"Leave ID", "Employee", "Department", "Type", "Start Date", "End Date", "Days", "Status", "Reason"},
	}
	for _, leave := range leaves {
		name, dept := notAvailable, notAvailable
		if emp, err := s.employees.Get(ctx, leave.EmployeeID); err == nil {
			name = emp.FullName()
			dept = orNA(emp.Department)
		}
		reason := notAvailable
		if leave.Reason != nil {
			reason = *leave.Reason
			if len(reason) > 30 {
				reason = reason[:30] + "..."
			}
		}
		data.Rows = append(data.Rows, []string{
			leave.ID,
			name,
			dept,
			string(leave.Type),
			export.Date(leave.StartDate),
			export.Date(leave.EndDate),
			fmt.Sprintf("%d", leave.DaysCount),
			string(leave.Status),
			reason,
		})
	}

	report := s.table.Render(data)
	if status == nil && leaveType == nil {
		var pending, approved, rejected int
		for _, leave := range leaves {
			switch leave.Status {
			case models.LeaveStatusPending:
				pending++
			case models.LeaveStatusApproved:
				approved++
			case models.LeaveStatusRejected:
				rejected++
			}
		}
		total := len(leaves)
		var b strings.Builder
		b.WriteString("\n\nLeave Statistics:\n")
		b.WriteString(strings.Repeat("=", 40) + "\n")
		fmt.Fprintf(&b, "Total Leaves: %d\n", total)
		fmt.Fprintf(&b, "Pending: %d (%s)\n", pending, export.Percent(float64(pending)/float64(total)*100))
		fmt.Fprintf(&b, "Approved: %d (%s)\n", approved, export.Percent(float64(approved)/float64(total)*100))
		fmt.Fprintf(&b, "Rejected: %d (%s)\n", rejected, export.Percent(float64(rejected)/float64(total)*100))
		report += b.String()
	}
	return &Report{Title: "Leave Report", Text: report, Table: data}, nil
}

// PerformanceReport renders the department ranking when a department is
// given, otherwise the organisation-wide summary.
func (s *ReportService) PerformanceReport(ctx context.Context, department string) (*Report, error) {
	if department != "" {
		ranking, err := s.performance.DepartmentRanking(ctx, department)
		if err != nil {
			return nil, err
		}
		if len(ranking) == 0 {
			return &Report{Title: "Performance Report", Text: fmt.Sprintf("No performance data found for department: %s", department)}, nil
		}

		data := export.Dataset{
			Headers: []string{"ID", "Name", "Department", "Avg Rating", "Review Count", "Rating Level"},
		}
		var ratingTotal float64
		for _, entry := range ranking {
			ratingTotal += entry.AvgRating
			data.Rows = append(data.Rows, []string{
				entry.EmployeeID,
				entry.Name,
				entry.Department,
				fmt.Sprintf("%.1f", entry.AvgRating),
				fmt.Sprintf("%d", entry.ReviewCount),
				entry.RatingLevel,
			})
		}
		report := s.table.Render(data)
		report += fmt.Sprintf("\n\nDepartment %s Performance Summary:\n", department)
		report += fmt.Sprintf("Average Rating: %.1f/5.0\n", ratingTotal/float64(len(ranking)))
		report += fmt.Sprintf("Total Employees Reviewed: %d\n", len(ranking))
		return &Report{Title: "Performance Report", Text: report, Table: data}, nil
	}

	summary, err := s.performance.OverallSummary(ctx)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return &Report{Title: "Performance Report", Text: "No performance data available."}, nil
	}

	var b strings.Builder
	b.WriteString("Overall Performance Report\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Total Reviews: %d\n", summary.TotalReviews)
	fmt.Fprintf(&b, "Average Rating: %.1f/5.0\n", summary.AvgRating)
	fmt.Fprintf(&b, "Highest Rating: %.1f\n", summary.MaxRating)
	fmt.Fprintf(&b, "Lowest Rating: %.1f\n\n", summary.MinRating)
	b.WriteString("Rating Distribution:\n")
	fmt.Fprintf(&b, "  Excellent (4.5+): %d\n", summary.Distribution.Excellent)
	fmt.Fprintf(&b, "  Very Good (4.0-4.5): %d\n", summary.Distribution.VeryGood)
	fmt.Fprintf(&b, "  Good (3.0-4.0): %d\n", summary.Distribution.Good)
	fmt.Fprintf(&b, "  Needs Improvement (2.0-3.0): %d\n", summary.Distribution.NeedsImprovement)
	fmt.Fprintf(&b, "  Unsatisfactory (<2.0): %d\n", summary.Distribution.Unsatisfactory)
	return &Report{Title: "Performance Report", Text: b.String()}, nil
}

// DepartmentSummaryReport renders the per-department rollup with totals.
func (s *ReportService) DepartmentSummaryReport(ctx context.Context) (*Report, error) {
	rollups, err := s.departments.Rollup(ctx)
	if err != nil {
		return nil, err
	}
	if len(rollups) == 0 {
		return &Report{Title: "Department Summary Report", Text: "No department data available."}, nil
	}

	data := export.Dataset{
		Headers: []string{"Dept ID", "Department", "Manager", "Employees", "Active", "Avg Salary", "Total Salary", "Budget", "Location"},
	}
	var totalEmployees, totalActive int
	var totalSalary float64
	for _, dept := range rollups {
		budget := notAvailable
		if dept.Budget > 0 {
			budget = export.Money(dept.Budget)
		}
		location := dept.Location
		if location == "" {
			location = notAvailable
		}
		data.Rows = append(data.Rows, []string{
			dept.DepartmentID,
			dept.DepartmentName,
			dept.Manager,
			fmt.Sprintf("%d", dept.EmployeeCount),
			fmt.Sprintf("%d", dept.ActiveCount),
			export.Money(dept.AverageSalary),
			export.Money(dept.TotalSalary),
			budget,
			location,
		})
		totalEmployees += dept.EmployeeCount
		totalActive += dept.ActiveCount
		totalSalary += dept.TotalSalary
	}

	report := s.table.Render(data)
	report += "\n\nOverall Summary:\n"
	report += fmt.Sprintf("Total Departments: %d\n", len(rollups))
	report += fmt.Sprintf("Total Employees: %d\n", totalEmployees)
	report += fmt.Sprintf("Active Employees: %d\n", totalActive)
	report += fmt.Sprintf("Total Salary Budget: %s\n", export.Money(totalSalary))
	return &Report{Title: "Department Summary Report", Text: report, Table: data}, nil
}

// EmployeeDetailReport renders one employee's profile with attendance, leave,
// performance and recent payroll sections.
func (s *ReportService) EmployeeDetailReport(ctx context.Context, employeeID string, now time.Time) (*Report, error) {
	employee, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
			return &Report{Title: "Employee Detail Report", Text: fmt.Sprintf("Employee with ID %s not found.", employeeID)}, nil
		}
		return nil, err
	}

	var b strings.Builder
	b.WriteString("EMPLOYEE DETAIL REPORT\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Employee ID: %s\n", employee.ID)
	fmt.Fprintf(&b, "Name: %s\n", employee.FullName())
	fmt.Fprintf(&b, "Email: %s\n", employee.Email)
	fmt.Fprintf(&b, "Phone: %s\n", orNA(employee.Phone))
	if employee.DateOfBirth != nil {
		fmt.Fprintf(&b, "Date of Birth: %s\n", export.Date(*employee.DateOfBirth))
	} else {
		b.WriteString("Date of Birth: N/A\n")
	}
	if age, ok := employee.Age(now); ok {
		fmt.Fprintf(&b, "Age: %d\n", age)
	} else {
		b.WriteString("Age: N/A\n")
	}
	fmt.Fprintf(&b, "Hire Date: %s\n", export.Date(employee.HireDate))
	fmt.Fprintf(&b, "Job Title: %s\n", orNA(employee.JobTitle))
	fmt.Fprintf(&b, "Department: %s\n", orNA(employee.Department))
	fmt.Fprintf(&b, "Salary: %s\n", export.Money(employee.Salary))
	fmt.Fprintf(&b, "Status: %s\n", employee.Status)
	fmt.Fprintf(&b, "Address: %s\n", orNA(employee.Address))
	fmt.Fprintf(&b, "City: %s, State: %s, Country: %s\n", orNA(employee.City), orNA(employee.State), orNA(employee.Country))
	b.WriteString("\n" + strings.Repeat("=", 60) + "\n\n")

	start := now.AddDate(0, 0, -30)
	attendance, err := s.attendance.MonthlySummary(ctx, employeeID, start.Year(), int(start.Month()))
	if err != nil {
		return nil, err
	}
	b.WriteString("ATTENDANCE SUMMARY (Last 30 days):\n")
	fmt.Fprintf(&b, "Present Days: %d\n", attendance.PresentDays)
	fmt.Fprintf(&b, "Absent Days: %d\n", attendance.AbsentDays)
	fmt.Fprintf(&b, "Late Days: %d\n", attendance.LateDays)
	fmt.Fprintf(&b, "Total Hours Worked: %.1f\n\n", attendance.TotalHours)

	leaves, err := s.leaves.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	b.WriteString("LEAVE SUMMARY (Current Year):\n")
	var totalDays, approvedDays int
	var hasCurrentYear bool
	for _, leave := range leaves {
		if leave.StartDate.Year() != now.Year() {
			continue
		}
		hasCurrentYear = true
		totalDays += leave.DaysCount
		if leave.Status == models.LeaveStatusApproved {
			approvedDays += leave.DaysCount
		}
	}
	if hasCurrentYear {
		fmt.Fprintf(&b, "Total Leave Days Applied: %d\n", totalDays)
		fmt.Fprintf(&b, "Approved Leave Days: %d\n", approvedDays)
	} else {
		b.WriteString("No leave records for current year.\n")
	}
	b.WriteString("\n")

	rating, err := s.performance.AverageRating(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&b, "PERFORMANCE RATING: %.1f/5.0\n", rating)

	payrolls, err := s.payrolls.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if len(payrolls) > 3 {
		payrolls = payrolls[:3]
	}
	if len(payrolls) > 0 {
		b.WriteString("\nRECENT PAYROLLS:\n")
		for _, p := range payrolls {
			fmt.Fprintf(&b, "  %s to %s: %s (%s)\n",
				export.Date(p.PayPeriodStart), export.Date(p.PayPeriodEnd),
				export.Money(p.NetSalary), p.Status)
		}
	}
	return &Report{Title: "Employee Detail Report", Text: b.String()}, nil
}

// Export writes a report to storage in the format the filename extension
// implies. CSV and PDF need the tabular data; prose-only reports can only be
// exported as text.
func (s *ReportService) Export(report *Report, filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		if len(report.Table.Headers) == 0 {
			return "", appErrors.Clone(appErrors.ErrValidation, "report has no tabular data to export as CSV")
		}
		if _, err := s.ExportCSV(report.Table, filename); err != nil {
			return "", err
		}
	case ".pdf":
		if len(report.Table.Headers) == 0 {
			return "", appErrors.Clone(appErrors.ErrValidation, "report has no tabular data to export as PDF")
		}
		if _, err := s.ExportPDF(report.Table, report.Title, filename); err != nil {
			return "", err
		}
	default:
		return s.ExportToFile(report.Text, filename)
	}
	s.logger.Info("report exported", zap.String("path", filename))
	return fmt.Sprintf("Report exported successfully to %s", filename), nil
}

// ExportToFile writes a rendered report to the configured storage directory
// and returns a confirmation message.
func (s *ReportService) ExportToFile(content, filename string) (string, error) {
	if filename == "" {
		filename = "report.txt"
	}
	path, err := s.storage.Save(filename, []byte(content))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
			fmt.Sprintf("error exporting report to %s", filename))
	}
	s.logger.Info("report exported", zap.String("path", path))
	return fmt.Sprintf("Report exported successfully to %s", path), nil
}

// ExportCSV renders a dataset as CSV and stores it under the given filename.
func (s *ReportService) ExportCSV(data export.Dataset, filename string) (string, error) {
	payload, err := s.csv.Render(data)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	path, err := s.storage.Save(filename, payload)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
			fmt.Sprintf("error exporting report to %s", filename))
	}
	return path, nil
}

// ExportPDF renders a dataset as a PDF table and stores it.
func (s *ReportService) ExportPDF(data export.Dataset, title, filename string) (string, error) {
	payload, err := s.pdf.Render(data, title)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	path, err := s.storage.Save(filename, payload)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
			fmt.Sprintf("error exporting report to %s", filename))
	}
	return path, nil
}

func orNA(v *string) string {
	if v == nil || *v == "" {
		return notAvailable
	}
	return *v
}
