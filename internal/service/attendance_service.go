package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/emstack/ems-api/internal/dto"
	"github.com/emstack/ems-api/internal/models"
	appErrors "github.com/emstack/ems-api/pkg/errors"
)

type attendanceRepository interface {
	FindByID(ctx context.Context, id string) (*models.Attendance, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*models.Attendance, error)
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]models.Attendance, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.Attendance, error)
	Create(ctx context.Context, record *models.Attendance) error
	Update(ctx context.Context, record *models.Attendance) error
	Delete(ctx context.Context, id string) (bool, error)
}

type attendanceEmployeeReader interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Employee, error)
}

// MarkAttendanceRequest holds payload for marking a day's attendance.
type MarkAttendanceRequest struct {
	EmployeeID  string                  `json:"employee_id" validate:"required"`
	Date        time.Time               `json:"date" validate:"required"`
	Status      models.AttendanceStatus `json:"status" validate:"required"`
	CheckIn     *string                 `json:"check_in"`
	CheckOut    *string                 `json:"check_out"`
	HoursWorked float64                 `json:"hours_worked" validate:"gte=0,lte=24"`
	Notes       *string                 `json:"notes"`
}

// AttendanceService handles attendance marking and summaries.
type AttendanceService struct {
	repo      attendanceRepository
	employees attendanceEmployeeReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, employees attendanceEmployeeReader, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, employees: employees, validator: validate, logger: logger}
}

// Mark records attendance for one employee on one day. Marking the same day
// twice updates the existing record in place, so at most one record exists
// per (employee, date) pair.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid attendance status")
	}
	if _, err := s.employees.FindByID(ctx, req.EmployeeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	day := truncateToDay(req.Date)
	existing, err := s.repo.FindByEmployeeAndDate(ctx, req.EmployeeID, day)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing attendance")
	}

	if existing != nil {
		existing.Status = req.Status
		existing.CheckIn = req.CheckIn
		existing.CheckOut = req.CheckOut
		existing.HoursWorked = req.HoursWorked
		existing.Notes = req.Notes
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendance")
		}
		return existing, nil
	}

	record := &models.Attendance{
		EmployeeID:  req.EmployeeID,
		Date:        day,
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		HoursWorked: req.HoursWorked,
		Status:      req.Status,
		Notes:       req.Notes,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attendance")
	}
	return record, nil
}

// Get returns one attendance record.
func (s *AttendanceService) Get(ctx context.Context, id string) (*models.Attendance, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	return record, nil
}

// ListByEmployee returns an employee's records within an inclusive range.
func (s *AttendanceService) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]models.Attendance, error) {
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "range end precedes range start")
	}
	records, err := s.repo.ListByEmployee(ctx, employeeID, truncateToDay(from), truncateToDay(to))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return records, nil
}

// ListByDate returns every record for one day.
func (s *AttendanceService) ListByDate(ctx context.Context, date time.Time) ([]models.Attendance, error) {
	records, err := s.repo.ListByDate(ctx, truncateToDay(date))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return records, nil
}

// Delete removes one attendance record.
func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attendance")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
	}
	return nil
}

// MonthlySummary counts one employee's records within a calendar month.
// TotalDays is the number of records, not the number of calendar days.
func (s *AttendanceService) MonthlySummary(ctx context.Context, employeeID string, year, month int) (*dto.MonthlyAttendanceSummary, error) {
	if month < 1 || month > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// Last day of the month, including the December rollover into January.
	to := from.AddDate(0, 1, 0).AddDate(0, 0, -1)

	records, err := s.repo.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}

	summary := &dto.MonthlyAttendanceSummary{TotalDays: len(records)}
	for _, record := range records {
		summary.TotalHours += record.HoursWorked
		switch record.Status {
		case models.AttendanceStatusPresent:
			summary.PresentDays++
		case models.AttendanceStatusAbsent:
			summary.AbsentDays++
		case models.AttendanceStatusLate:
			summary.LateDays++
		case models.AttendanceStatusHalfDay:
			summary.HalfDays++
		case models.AttendanceStatusLeave:
			summary.LeaveDays++
		}
	}
	return summary, nil
}

// DepartmentSummary aggregates attendance over a department's members for a
// date range. Returns nil when no employees match the department.
func (s *AttendanceService) DepartmentSummary(ctx context.Context, department string, from, to time.Time) (*dto.DepartmentAttendanceSummary, error) {
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "range end precedes range start")
	}
	employees, err := s.employees.ListByDepartment(ctx, department)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department employees")
	}
	if len(employees) == 0 {
		return nil, nil
	}

	summary := &dto.DepartmentAttendanceSummary{
		Department:     department,
		TotalEmployees: len(employees),
	}
	for _, employee := range employees {
		records, err := s.repo.ListByEmployee(ctx, employee.ID, truncateToDay(from), truncateToDay(to))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
		}
		for _, record := range records {
			switch record.Status {
			case models.AttendanceStatusPresent:
				summary.TotalPresent++
			case models.AttendanceStatusAbsent:
				summary.TotalAbsent++
			case models.AttendanceStatusLate:
				summary.TotalLate++
			}
		}
	}

	days := inclusiveDaySpan(from, to)
	if possible := len(employees) * days; possible > 0 {
		summary.AttendanceRate = float64(summary.TotalPresent) / float64(possible) * 100
	}
	return summary, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func inclusiveDaySpan(from, to time.Time) int {
	return int(truncateToDay(to).Sub(truncateToDay(from)).Hours()/24) + 1
}
