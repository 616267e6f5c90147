package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emstack/ems-api/internal/models"
)

func newEmployeeMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func employeeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "phone", "date_of_birth",
		"hire_date", "job_title", "department", "salary", "address", "city",
		"state", "country", "status", "created_at", "updated_at",
	})
}

func addEmployeeRow(rows *sqlmock.Rows, id, email string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, "Jane", "Doe", email, nil, nil, now, nil, "Engineering", 75000.0, nil, nil, nil, nil, "Active", now, now)
}

func TestEmployeeRepositoryList(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name, last_name, email, phone, date_of_birth, hire_date, job_title, department, salary, address, city, state, country, status, created_at, updated_at FROM employees WHERE 1=1 ORDER BY created_at")).
		WillReturnRows(addEmployeeRow(employeeRows(), "e1", "jane@example.com"))

	employees, err := repo.List(context.Background(), models.EmployeeFilter{})
	require.NoError(t, err)
	assert.Len(t, employees, 1)
	assert.Equal(t, "jane@example.com", employees[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	status := models.EmployeeStatusActive
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name, last_name, email, phone, date_of_birth, hire_date, job_title, department, salary, address, city, state, country, status, created_at, updated_at FROM employees WHERE 1=1 AND (first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1 OR job_title ILIKE $1 OR department ILIKE $1) AND department ILIKE $2 AND status = $3 ORDER BY created_at")).
		WithArgs("%jane%", "%Engineering%", status).
		WillReturnRows(employeeRows())

	_, err := repo.List(context.Background(), models.EmployeeFilter{
		Search:     "jane",
		Department: "Engineering",
		Status:     &status,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryListByDepartment(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE department ILIKE $1 ORDER BY created_at")).
		WithArgs("%Engineering%").
		WillReturnRows(addEmployeeRow(employeeRows(), "e1", "jane@example.com"))

	employees, err := repo.ListByDepartment(context.Background(), "Engineering")
	require.NoError(t, err)
	assert.Len(t, employees, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryExistsByEmail(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM employees WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), "jane@example.com", "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryExistsByEmailExcludesSelf(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM employees WHERE LOWER(email) = LOWER($1) AND id <> $2 LIMIT 1")).
		WithArgs("jane@example.com", "e1").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsByEmail(context.Background(), "jane@example.com", "e1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("INSERT INTO employees").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	employee := &models.Employee{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		HireDate:  time.Now(),
		Salary:    75000,
		Status:    models.EmployeeStatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), employee))
	assert.NotEmpty(t, employee.ID)
	assert.False(t, employee.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryUpdatePartial(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	salary := 90000.0
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE employees SET salary = $1, updated_at = $2 WHERE id = $3 RETURNING")).
		WithArgs(salary, sqlmock.AnyArg(), "e1").
		WillReturnRows(addEmployeeRow(employeeRows(), "e1", "jane@example.com"))

	updated, err := repo.Update(context.Background(), "e1", models.EmployeePatch{Salary: &salary})
	require.NoError(t, err)
	assert.Equal(t, "e1", updated.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryUpdateEmptyPatchFallsBackToFind(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE id = $1")).
		WithArgs("e1").
		WillReturnRows(addEmployeeRow(employeeRows(), "e1", "jane@example.com"))

	updated, err := repo.Update(context.Background(), "e1", models.EmployeePatch{})
	require.NoError(t, err)
	assert.Equal(t, "e1", updated.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employees WHERE id = $1")).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), "e1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employees WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryCountByDepartment(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT department, COUNT(id) FROM employees WHERE department IS NOT NULL AND department <> '' GROUP BY department")).
		WillReturnRows(sqlmock.NewRows([]string{"department", "count"}).
			AddRow("Engineering", 4).
			AddRow("Sales", 2))

	counts, err := repo.CountByDepartment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, counts["Engineering"])
	assert.Equal(t, 2, counts["Sales"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
