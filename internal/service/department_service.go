package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/emstack/ems-api/internal/dto"
	"github.com/emstack/ems-api/internal/models"
	appErrors "github.com/emstack/ems-api/pkg/errors"
)

// ManagerNotAssigned labels departments without a resolvable manager.
const ManagerNotAssigned = "Not Assigned"

type departmentRepository interface {
	List(ctx context.Context) ([]models.Department, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, department *models.Department) error
	Update(ctx context.Context, id string, patch models.DepartmentPatch) (*models.Department, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type departmentEmployeeReader interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Employee, error)
}

// CreateDepartmentRequest holds payload for creating departments.
type CreateDepartmentRequest struct {
	Name      string  `json:"name" validate:"required"`
	ManagerID *string `json:"manager_id"`
	Location  *string `json:"location"`
	Budget    float64 `json:"budget" validate:"gte=0"`
}

// DepartmentService handles departments and the department rollup.
type DepartmentService struct {
	repo      departmentRepository
	employees departmentEmployeeReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs the department service.
func NewDepartmentService(repo departmentRepository, employees departmentEmployeeReader, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, employees: employees, validator: validate, logger: logger}
}

// List returns all departments ordered by name.
func (s *DepartmentService) List(ctx context.Context) ([]models.Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, nil
}

// Get returns one department.
func (s *DepartmentService) Get(ctx context.Context, id string) (*models.Department, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	return department, nil
}

// Create registers a new department. Names are unique.
func (s *DepartmentService) Create(ctx context.Context, req CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate department name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "department name already used")
	}
	department := &models.Department{
		Name:      req.Name,
		ManagerID: req.ManagerID,
		Location:  req.Location,
		Budget:    req.Budget,
	}
	if err := s.repo.Create(ctx, department); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create department")
	}
	s.logger.Info("department created", zap.String("department_id", department.ID), zap.String("name", department.Name))
	return department, nil
}

// Update applies a partial update. Nil patch fields leave columns unchanged.
func (s *DepartmentService) Update(ctx context.Context, id string, patch models.DepartmentPatch) (*models.Department, error) {
	if patch.Name != nil {
		exists, err := s.repo.ExistsByName(ctx, *patch.Name, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate department name")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "department name already used")
		}
	}
	if patch.Budget != nil && *patch.Budget < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "budget must not be negative")
	}
	department, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update department")
	}
	return department, nil
}

// Delete removes a department. Employees keep their free-text department
// value; only the manager reference is cleared by the schema.
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete department")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "department not found")
	}
	return nil
}

// Rollup summarises every department's membership and salary spend. Members
// are resolved by case-insensitive substring match of the employee's free
// text department field against the department name.
func (s *DepartmentService) Rollup(ctx context.Context) ([]dto.DepartmentRollup, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}

	rollups := make([]dto.DepartmentRollup, 0, len(departments))
	for _, department := range departments {
		members, err := s.employees.ListByDepartment(ctx, department.Name)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department employees")
		}

		rollup := dto.DepartmentRollup{
			DepartmentID:   department.ID,
			DepartmentName: department.Name,
			Manager:        ManagerNotAssigned,
			EmployeeCount:  len(members),
			Budget:         department.Budget,
		}
		if department.Location != nil {
			rollup.Location = *department.Location
		}
		for _, member := range members {
			rollup.TotalSalary += member.Salary
			if member.Status == models.EmployeeStatusActive {
				rollup.ActiveCount++
			}
		}
		if len(members) > 0 {
			rollup.AverageSalary = rollup.TotalSalary / float64(len(members))
		}
		if department.ManagerID != nil {
			manager, err := s.employees.FindByID(ctx, *department.ManagerID)
			if err != nil && err != sql.ErrNoRows {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department manager")
			}
			if manager != nil {
				rollup.Manager = manager.FullName()
			}
		}
		rollups = append(rollups, rollup)
	}
	return rollups, nil
}
