package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emstack/ems-api/internal/models"
	appErrors "github.com/emstack/ems-api/pkg/errors"
)

func strPtr(s string) *string { return &s }

func float64Ptr(f float64) *float64 { return &f }

type mockEmployeeRepo struct {
	employees    map[string]models.Employee
	existsByMail map[string]string
	lastFilter   models.EmployeeFilter
	err          error
}

func (m *mockEmployeeRepo) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEmployeeRepo) ListByDepartment(ctx context.Context, department string) ([]models.Employee, error) {
	return nil, nil
}

func (m *mockEmployeeRepo) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEmployeeRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	if id, ok := m.existsByMail[email]; ok {
		if excludeID == "" || id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEmployeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	if m.employees == nil {
		m.employees = make(map[string]models.Employee)
	}
	if employee.ID == "" {
		employee.ID = "generated"
	}
	m.employees[employee.ID] = *employee
	return nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, id string, patch models.EmployeePatch) (*models.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if patch.Email != nil {
		e.Email = *patch.Email
	}
	if patch.Salary != nil {
		e.Salary = *patch.Salary
	}
	if patch.Status != nil {
		e.Status = *patch.Status
	}
	m.employees[id] = e
	return &e, nil
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := m.employees[id]; !ok {
		return false, nil
	}
	delete(m.employees, id)
	return true, nil
}

func TestEmployeeServiceCreate(t *testing.T) {
	repo := &mockEmployeeRepo{existsByMail: make(map[string]string)}
	svc := NewEmployeeService(repo, validator.New(), zap.NewNop())

	employee, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@example.com",
		HireDate:  time.Now(),
		Salary:    75000,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, employee.ID)
	assert.Equal(t, models.EmployeeStatusActive, employee.Status)
	assert.Equal(t, 1, len(repo.employees))
}

func TestEmployeeServiceCreateDuplicateEmail(t *testing.T) {
	repo := &mockEmployeeRepo{existsByMail: map[string]string{"jane.doe@example.com": "other"}}
	svc := NewEmployeeService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@example.com",
		HireDate:  time.Now(),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestEmployeeServiceCreateInvalidPayload(t *testing.T) {
	svc := NewEmployeeService(&mockEmployeeRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateEmployeeRequest{Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEmployeeServiceGetNotFound(t *testing.T) {
	svc := NewEmployeeService(&mockEmployeeRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEmployeeServiceUpdatePatch(t *testing.T) {
	repo := &mockEmployeeRepo{
		employees:    map[string]models.Employee{"e1": {ID: "e1", Email: "old@example.com", Salary: 1000, Status: models.EmployeeStatusActive}},
		existsByMail: make(map[string]string),
	}
	svc := NewEmployeeService(repo, validator.New(), zap.NewNop())

	updated, err := svc.Update(context.Background(), "e1", models.EmployeePatch{
		Email:  strPtr("new@example.com"),
		Salary: float64Ptr(2000),
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, float64(2000), updated.Salary)
	assert.Equal(t, models.EmployeeStatusActive, updated.Status)
}

func TestEmployeeServiceUpdateEmailTaken(t *testing.T) {
	repo := &mockEmployeeRepo{
		employees:    map[string]models.Employee{"e1": {ID: "e1", Email: "old@example.com"}},
		existsByMail: map[string]string{"taken@example.com": "e2"},
	}
	svc := NewEmployeeService(repo, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), "e1", models.EmployeePatch{Email: strPtr("taken@example.com")})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestEmployeeServiceUpdateKeepOwnEmail(t *testing.T) {
	repo := &mockEmployeeRepo{
		employees:    map[string]models.Employee{"e1": {ID: "e1", Email: "mine@example.com"}},
		existsByMail: map[string]string{"mine@example.com": "e1"},
	}
	svc := NewEmployeeService(repo, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), "e1", models.EmployeePatch{Email: strPtr("mine@example.com")})
	require.NoError(t, err)
}

func TestEmployeeServiceUpdateNegativeSalary(t *testing.T) {
	svc := NewEmployeeService(&mockEmployeeRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), "e1", models.EmployeePatch{Salary: float64Ptr(-1)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEmployeeServiceDeleteNotFound(t *testing.T) {
	svc := NewEmployeeService(&mockEmployeeRepo{}, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEmployeeServiceListInvalidStatusFilter(t *testing.T) {
	svc := NewEmployeeService(&mockEmployeeRepo{}, validator.New(), zap.NewNop())

	bad := models.EmployeeStatus("Retired")
	_, err := svc.List(context.Background(), models.EmployeeFilter{Status: &bad})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
