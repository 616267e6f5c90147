package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/emstack/ems-api/internal/models"
	appErrors "github.com/emstack/ems-api/pkg/errors"
)

type leaveRepository interface {
	FindByID(ctx context.Context, id string) (*models.Leave, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]models.Leave, error)
	ListPending(ctx context.Context) ([]models.Leave, error)
	ListByStatusAndType(ctx context.Context, status *models.LeaveStatus, leaveType *models.LeaveType) ([]models.Leave, error)
	CountOverlapping(ctx context.Context, employeeID string, from, to time.Time) (int, error)
	ListContained(ctx context.Context, from, to time.Time) ([]models.Leave, error)
	Create(ctx context.Context, leave *models.Leave) error
	UpdateStatus(ctx context.Context, id string, status models.LeaveStatus, approvedBy *string) (*models.Leave, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type leaveEmployeeReader interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

// ApplyLeaveRequest holds payload for requesting leave.
type ApplyLeaveRequest struct {
	EmployeeID string           `json:"employee_id" validate:"required"`
	Type       models.LeaveType `json:"type" validate:"required"`
	StartDate  time.Time        `json:"start_date" validate:"required"`
	EndDate    time.Time        `json:"end_date" validate:"required"`
	Reason     *string          `json:"reason"`
}

// LeaveService handles leave requests and the approval workflow.
type LeaveService struct {
	repo      leaveRepository
	employees leaveEmployeeReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaveService constructs the leave service.
func NewLeaveService(repo leaveRepository, employees leaveEmployeeReader, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaveService{repo: repo, employees: employees, validator: validate, logger: logger}
}

// Apply files a new leave request. The request is rejected when its range
// touches any existing Pending or Approved leave for the same employee.
func (s *LeaveService) Apply(ctx context.Context, req ApplyLeaveRequest) (*models.Leave, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid leave type")
	}
	start := truncateToDay(req.StartDate)
	end := truncateToDay(req.EndDate)
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date precedes start date")
	}
	if _, err := s.employees.FindByID(ctx, req.EmployeeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	overlap, err := s.Overlaps(ctx, req.EmployeeID, start, end)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, appErrors.Clone(appErrors.ErrConflict, "leave overlaps an existing request")
	}

	leave := &models.Leave{
		EmployeeID: req.EmployeeID,
		Type:       req.Type,
		StartDate:  start,
		EndDate:    end,
		DaysCount:  inclusiveDaySpan(start, end),
		Status:     models.LeaveStatusPending,
		Reason:     req.Reason,
	}
	if err := s.repo.Create(ctx, leave); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave")
	}
	s.logger.Info("leave requested",
		zap.String("leave_id", leave.ID),
		zap.String("employee_id", leave.EmployeeID),
		zap.Int("days", leave.DaysCount))
	return leave, nil
}

// Overlaps reports whether any Pending or Approved leave for the employee
// intersects the inclusive range. Touching endpoints count as overlap.
func (s *LeaveService) Overlaps(ctx context.Context, employeeID string, from, to time.Time) (bool, error) {
	count, err := s.repo.CountOverlapping(ctx, employeeID, truncateToDay(from), truncateToDay(to))
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check leave overlap")
	}
	return count > 0, nil
}

// Get returns one leave request.
func (s *LeaveService) Get(ctx context.Context, id string) (*models.Leave, error) {
	leave, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave")
	}
	return leave, nil
}

// ListByEmployee returns an employee's leave history, most recent first.
func (s *LeaveService) ListByEmployee(ctx context.Context, employeeID string) ([]models.Leave, error) {
	leaves, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leaves")
	}
	return leaves, nil
}

// Pending returns all leave requests awaiting a decision.
func (s *LeaveService) Pending(ctx context.Context) ([]models.Leave, error) {
	leaves, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending leaves")
	}
	return leaves, nil
}

// List returns leaves filtered by optional status and type.
func (s *LeaveService) List(ctx context.Context, status *models.LeaveStatus, leaveType *models.LeaveType) ([]models.Leave, error) {
	if status != nil && !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid leave status")
	}
	if leaveType != nil && !leaveType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid leave type")
	}
	leaves, err := s.repo.ListByStatusAndType(ctx, status, leaveType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leaves")
	}
	return leaves, nil
}

// UpdateStatus moves a leave through the approval workflow.
func (s *LeaveService) UpdateStatus(ctx context.Context, id string, status models.LeaveStatus, approvedBy *string) (*models.Leave, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid leave status")
	}
	leave, err := s.repo.UpdateStatus(ctx, id, status, approvedBy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update leave status")
	}
	return leave, nil
}

// Delete removes one leave request.
func (s *LeaveService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete leave")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "leave not found")
	}
	return nil
}

// SummaryByType counts leaves grouped by type over a range. Only leaves whose
// entire span falls inside [from, to] are counted, which differs on purpose
// from the overlap check used when applying.
func (s *LeaveService) SummaryByType(ctx context.Context, from, to time.Time) (map[models.LeaveType]int, error) {
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "range end precedes range start")
	}
	leaves, err := s.repo.ListContained(ctx, truncateToDay(from), truncateToDay(to))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leaves")
	}
	summary := make(map[models.LeaveType]int, len(leaves))
	for _, leave := range leaves {
		summary[leave.Type]++
	}
	return summary, nil
}
