package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/emstack/ems-api/internal/models"
)

const employeeColumns = `id, first_name, last_name, email, phone, date_of_birth, hire_date, job_title, department, salary, address, city, state, country, status, created_at, updated_at`

// EmployeeRepository handles persistence for employees.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository creates a new repository instance.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns employees matching the filter ordered by creation time.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	defer observeQuery("employees.list", time.Now())
	base := "FROM employees WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		idx := len(args) + 1
		conditions = append(conditions, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR job_title ILIKE $%d OR department ILIKE $%d)",
			idx, idx, idx, idx, idx))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Department+"%")
	}
	if filter.Status != nil && filter.Status.Valid() {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at", employeeColumns, base)
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// ListByDepartment returns employees whose free-text department field matches
// the given name by case-insensitive substring.
func (r *EmployeeRepository) ListByDepartment(ctx context.Context, department string) ([]models.Employee, error) {
	defer observeQuery("employees.list_by_department", time.Now())
	query := fmt.Sprintf("SELECT %s FROM employees WHERE department ILIKE $1 ORDER BY created_at", employeeColumns)
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, "%"+department+"%"); err != nil {
		return nil, fmt.Errorf("list employees by department: %w", err)
	}
	return employees, nil
}

// FindByID returns an employee by id.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	defer observeQuery("employees.find_by_id", time.Now())
	query := fmt.Sprintf("SELECT %s FROM employees WHERE id = $1", employeeColumns)
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

// ExistsByEmail checks uniqueness of the employee email.
func (r *EmployeeRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	defer observeQuery("employees.exists_by_email", time.Now())
	query := "SELECT 1 FROM employees WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check employee email: %w", err)
	}
	return true, nil
}

// Create persists a new employee.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	defer observeQuery("employees.create", time.Now())
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	query := `INSERT INTO employees (id, first_name, last_name, email, phone, date_of_birth, hire_date, job_title, department, salary, address, city, state, country, status, created_at, updated_at)
VALUES (:id, :first_name, :last_name, :email, :phone, :date_of_birth, :hire_date, :job_title, :department, :salary, :address, :city, :state, :country, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// Update applies a partial update; nil patch fields are left untouched.
// Returns sql.ErrNoRows when the employee does not exist. It never creates.
func (r *EmployeeRepository) Update(ctx context.Context, id string, patch models.EmployeePatch) (*models.Employee, error) {
	defer observeQuery("employees.update", time.Now())
	set := []string{}
	args := []interface{}{}

	add := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.DateOfBirth != nil {
		add("date_of_birth", *patch.DateOfBirth)
	}
	if patch.HireDate != nil {
		add("hire_date", *patch.HireDate)
	}
	if patch.JobTitle != nil {
		add("job_title", *patch.JobTitle)
	}
	if patch.Department != nil {
		add("department", *patch.Department)
	}
	if patch.Salary != nil {
		add("salary", *patch.Salary)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.City != nil {
		add("city", *patch.City)
	}
	if patch.State != nil {
		add("state", *patch.State)
	}
	if patch.Country != nil {
		add("country", *patch.Country)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}

	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	add("updated_at", time.Now().UTC())

	query := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args)+1, employeeColumns)
	args = append(args, id)

	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, args...); err != nil {
		return nil, err
	}
	return &employee, nil
}

// Delete removes an employee; owned attendance, leave, payroll and review
// records follow via the schema's ON DELETE CASCADE. Returns false when no
// row matched.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) (bool, error) {
	defer observeQuery("employees.delete", time.Now())
	res, err := r.db.ExecContext(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete employee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete employee result: %w", err)
	}
	return affected > 0, nil
}

// CountByDepartment groups employee counts by the raw department field.
func (r *EmployeeRepository) CountByDepartment(ctx context.Context) (map[string]int, error) {
	defer observeQuery("employees.count_by_department", time.Now())
	rows, err := r.db.QueryxContext(ctx,
		"SELECT department, COUNT(id) FROM employees WHERE department IS NOT NULL AND department <> '' GROUP BY department")
	if err != nil {
		return nil, fmt.Errorf("count employees by department: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var department string
		var count int
		if err := rows.Scan(&department, &count); err != nil {
			return nil, fmt.Errorf("scan department count: %w", err)
		}
		counts[department] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate department counts: %w", err)
	}
	return counts, nil
}
