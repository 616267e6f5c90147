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

const departmentColumns = `id, name, manager_id, location, budget, created_at`

// DepartmentRepository handles persistence for departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository creates a new repository instance.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// List returns all departments ordered by name.
func (r *DepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	defer observeQuery("departments.list", time.Now())
	query := fmt.Sprintf("SELECT %s FROM departments ORDER BY name", departmentColumns)
	var departments []models.Department
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// FindByID returns a department by id.
func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*models.Department, error) {
	defer observeQuery("departments.find_by_id", time.Now())
	query := fmt.Sprintf("SELECT %s FROM departments WHERE id = $1", departmentColumns)
	var department models.Department
	if err := r.db.GetContext(ctx, &department, query, id); err != nil {
		return nil, err
	}
	return &department, nil
}

// ExistsByName checks uniqueness of the department name.
func (r *DepartmentRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	defer observeQuery("departments.exists_by_name", time.Now())
	query := "SELECT 1 FROM departments WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check department name: %w", err)
	}
	return true, nil
}

// Create persists a new department.
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	defer observeQuery("departments.create", time.Now())
	if department.ID == "" {
		department.ID = uuid.NewString()
	}
	department.CreatedAt = time.Now().UTC()

	query := `INSERT INTO departments (id, name, manager_id, location, budget, created_at)
VALUES (:id, :name, :manager_id, :location, :budget, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, department); err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// Update applies a partial update; nil patch fields are left untouched.
func (r *DepartmentRepository) Update(ctx context.Context, id string, patch models.DepartmentPatch) (*models.Department, error) {
	defer observeQuery("departments.update", time.Now())
	set := []string{}
	args := []interface{}{}

	add := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.ManagerID != nil {
		add("manager_id", *patch.ManagerID)
	}
	if patch.Location != nil {
		add("location", *patch.Location)
	}
	if patch.Budget != nil {
		add("budget", *patch.Budget)
	}

	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	query := fmt.Sprintf("UPDATE departments SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set, ", "), len(args)+1, departmentColumns)
	args = append(args, id)

	var department models.Department
	if err := r.db.GetContext(ctx, &department, query, args...); err != nil {
		return nil, err
	}
	return &department, nil
}

// Delete removes a department. Returns false when no row matched.
func (r *DepartmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	defer observeQuery("departments.delete", time.Now())
	res, err := r.db.ExecContext(ctx, "DELETE FROM departments WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete department: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete department result: %w", err)
	}
	return affected > 0, nil
}
