package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/emstack/ems-api/internal/models"
)

const leaveColumns = `id, employee_id, leave_type, start_date, end_date, days_count, status, reason, approved_by, created_at`

// LeaveRepository handles persistence for leave requests.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository creates a new repository instance.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// FindByID returns a leave request by id.
func (r *LeaveRepository) FindByID(ctx context.Context, id string) (*models.Leave, error) {
	defer observeQuery("leaves.find_by_id", time.Now())
	query := fmt.Sprintf("SELECT %s FROM leaves WHERE id = $1", leaveColumns)
	var leave models.Leave
	if err := r.db.GetContext(ctx, &leave, query, id); err != nil {
		return nil, err
	}
	return &leave, nil
}

// ListByEmployee returns an employee's leave requests, newest first.
func (r *LeaveRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.Leave, error) {
	defer observeQuery("leaves.list_by_employee", time.Now())
	query := fmt.Sprintf("SELECT %s FROM leaves WHERE employee_id = $1 ORDER BY start_date DESC", leaveColumns)
	var leaves []models.Leave
	if err := r.db.SelectContext(ctx, &leaves, query, employeeID); err != nil {
		return nil, fmt.Errorf("list leaves by employee: %w", err)
	}
	return leaves, nil
}

// ListPending returns all pending leave requests ordered by start date.
func (r *LeaveRepository) ListPending(ctx context.Context) ([]models.Leave, error) {
	defer observeQuery("leaves.list_pending", time.Now())
	query := fmt.Sprintf("SELECT %s FROM leaves WHERE status = $1 ORDER BY start_date", leaveColumns)
	var leaves []models.Leave
	if err := r.db.SelectContext(ctx, &leaves, query, models.LeaveStatusPending); err != nil {
		return nil, fmt.Errorf("list pending leaves: %w", err)
	}
	return leaves, nil
}

// ListByStatusAndType returns leaves filtered by optional status and type,
// newest first.
func (r *LeaveRepository) ListByStatusAndType(ctx context.Context, status *models.LeaveStatus, leaveType *models.LeaveType) ([]models.Leave, error) {
	defer observeQuery("leaves.list_by_status_and_type", time.Now())
	query := fmt.Sprintf("SELECT %s FROM leaves WHERE 1=1", leaveColumns)
	var args []interface{}
	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, *status)
	}
	if leaveType != nil {
		query += fmt.Sprintf(" AND leave_type = $%d", len(args)+1)
		args = append(args, *leaveType)
	}
	query += " ORDER BY start_date DESC"

	var leaves []models.Leave
	if err := r.db.SelectContext(ctx, &leaves, query, args...); err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	return leaves, nil
}

// CountOverlapping counts pending or approved leaves for the employee whose
// range intersects [from, to] inclusively. A single symmetric interval check;
// touching endpoints count as overlap.
func (r *LeaveRepository) CountOverlapping(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	defer observeQuery("leaves.count_overlapping", time.Now())
	query := `SELECT COUNT(*) FROM leaves
WHERE employee_id = $1 AND status IN ($2, $3) AND start_date <= $4 AND end_date >= $5`
	var count int
	if err := r.db.GetContext(ctx, &count, query, employeeID, models.LeaveStatusPending, models.LeaveStatusApproved, to, from); err != nil {
		return 0, fmt.Errorf("count overlapping leaves: %w", err)
	}
	return count, nil
}

// ListContained returns leaves whose whole range lies inside [from, to].
// Containment, not overlap: distinct semantics from CountOverlapping.
func (r *LeaveRepository) ListContained(ctx context.Context, from, to time.Time) ([]models.Leave, error) {
	defer observeQuery("leaves.list_contained", time.Now())
	query := fmt.Sprintf("SELECT %s FROM leaves WHERE start_date >= $1 AND end_date <= $2", leaveColumns)
	var leaves []models.Leave
	if err := r.db.SelectContext(ctx, &leaves, query, from, to); err != nil {
		return nil, fmt.Errorf("list contained leaves: %w", err)
	}
	return leaves, nil
}

// Create persists a new leave request.
func (r *LeaveRepository) Create(ctx context.Context, leave *models.Leave) error {
	defer observeQuery("leaves.create", time.Now())
	if leave.ID == "" {
		leave.ID = uuid.NewString()
	}
	leave.CreatedAt = time.Now().UTC()

	query := `INSERT INTO leaves (id, employee_id, leave_type, start_date, end_date, days_count, status, reason, approved_by, created_at)
VALUES (:id, :employee_id, :leave_type, :start_date, :end_date, :days_count, :status, :reason, :approved_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, leave); err != nil {
		return fmt.Errorf("create leave: %w", err)
	}
	return nil
}

// UpdateStatus sets the status and, when provided, the approver. Returns
// sql.ErrNoRows when the leave does not exist.
func (r *LeaveRepository) UpdateStatus(ctx context.Context, id string, status models.LeaveStatus, approvedBy *string) (*models.Leave, error) {
	defer observeQuery("leaves.update_status", time.Now())
	query := fmt.Sprintf(
		"UPDATE leaves SET status = $1, approved_by = COALESCE($2, approved_by) WHERE id = $3 RETURNING %s",
		leaveColumns)
	var leave models.Leave
	if err := r.db.GetContext(ctx, &leave, query, status, approvedBy, id); err != nil {
		return nil, err
	}
	return &leave, nil
}

// Delete removes a leave request. Returns false when no row matched.
func (r *LeaveRepository) Delete(ctx context.Context, id string) (bool, error) {
	defer observeQuery("leaves.delete", time.Now())
	res, err := r.db.ExecContext(ctx, "DELETE FROM leaves WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete leave: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete leave result: %w", err)
	}
	return affected > 0, nil
}
