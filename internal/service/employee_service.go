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

type employeeRepository interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Employee, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, id string, patch models.EmployeePatch) (*models.Employee, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CreateEmployeeRequest holds payload for creating employees.
type CreateEmployeeRequest struct {
	FirstName   string                 `json:"first_name" validate:"required"`
	LastName    string                 `json:"last_name" validate:"required"`
	Email       string                 `json:"email" validate:"required,email"`
	Phone       *string                `json:"phone"`
	DateOfBirth *time.Time             `json:"date_of_birth"`
	HireDate    time.Time              `json:"hire_date" validate:"required"`
	JobTitle    *string                `json:"job_title"`
	Department  *string                `json:"department"`
	Salary      float64                `json:"salary" validate:"gte=0"`
	Address     *string                `json:"address"`
	City        *string                `json:"city"`
	State       *string                `json:"state"`
	Country     *string                `json:"country"`
	Status      *models.EmployeeStatus `json:"status"`
}

// EmployeeService handles employee use-cases.
type EmployeeService struct {
	repo      employeeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEmployeeService constructs the employee service.
func NewEmployeeService(repo employeeRepository, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, validator: validate, logger: logger}
}

// List returns employees matching the filter.
func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid employee status filter")
	}
	employees, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	return employees, nil
}

// Get returns one employee.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	return employee, nil
}

// Create registers a new employee. Email must be unique across all employees.
func (s *EmployeeService) Create(ctx context.Context, req CreateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}
	status := models.EmployeeStatusActive
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid employee status")
		}
		status = *req.Status
	}
	exists, err := s.repo.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already used")
	}
	employee := &models.Employee{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		HireDate:    req.HireDate,
		JobTitle:    req.JobTitle,
		Department:  req.Department,
		Salary:      req.Salary,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		Status:      status,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	s.logger.Info("employee created", zap.String("employee_id", employee.ID), zap.String("email", employee.Email))
	return employee, nil
}

// Update applies a partial update. Nil patch fields leave columns unchanged.
func (s *EmployeeService) Update(ctx context.Context, id string, patch models.EmployeePatch) (*models.Employee, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid employee status")
	}
	if patch.Salary != nil && *patch.Salary < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "salary must not be negative")
	}
	if patch.Email != nil {
		exists, err := s.repo.ExistsByEmail(ctx, *patch.Email, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already used")
		}
	}
	employee, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}
	return employee, nil
}

// Delete removes an employee and cascades to dependent records.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete employee")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "employee not found")
	}
	s.logger.Info("employee deleted", zap.String("employee_id", id))
	return nil
}
