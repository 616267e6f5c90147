package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/emstack/ems-api/internal/models"
)

const attendanceColumns = `id, employee_id, attendance_date, check_in, check_out, hours_worked, status, notes, created_at`

// AttendanceRepository handles persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new repository instance.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// FindByID returns an attendance record by id.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	defer observeQuery("attendance.find_by_id", time.Now())
	query := fmt.Sprintf("SELECT %s FROM attendance WHERE id = $1", attendanceColumns)
	var record models.Attendance
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByEmployeeAndDate returns the record for one employee on one day, or
// sql.ErrNoRows. The mark operation uses this lookup to keep the
// one-record-per-day invariant without a database constraint.
func (r *AttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*models.Attendance, error) {
	defer observeQuery("attendance.find_by_employee_and_date", time.Now())
	query := fmt.Sprintf("SELECT %s FROM attendance WHERE employee_id = $1 AND attendance_date = $2 LIMIT 1", attendanceColumns)
	var record models.Attendance
	if err := r.db.GetContext(ctx, &record, query, employeeID, date); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByEmployee returns an employee's records inside an inclusive date
// range, newest first.
func (r *AttendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]models.Attendance, error) {
	defer observeQuery("attendance.list_by_employee", time.Now())
	query := fmt.Sprintf(
		"SELECT %s FROM attendance WHERE employee_id = $1 AND attendance_date >= $2 AND attendance_date <= $3 ORDER BY attendance_date DESC",
		attendanceColumns)
	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, query, employeeID, from, to); err != nil {
		return nil, fmt.Errorf("list attendance by employee: %w", err)
	}
	return records, nil
}

// ListByDate returns all records for one calendar day.
func (r *AttendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]models.Attendance, error) {
	defer observeQuery("attendance.list_by_date", time.Now())
	query := fmt.Sprintf("SELECT %s FROM attendance WHERE attendance_date = $1", attendanceColumns)
	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, query, date); err != nil {
		return nil, fmt.Errorf("list attendance by date: %w", err)
	}
	return records, nil
}

// Create persists a new attendance record.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	defer observeQuery("attendance.create", time.Now())
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = time.Now().UTC()

	query := `INSERT INTO attendance (id, employee_id, attendance_date, check_in, check_out, hours_worked, status, notes, created_at)
VALUES (:id, :employee_id, :attendance_date, :check_in, :check_out, :hours_worked, :status, :notes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of an existing record in place.
func (r *AttendanceRepository) Update(ctx context.Context, record *models.Attendance) error {
	defer observeQuery("attendance.update", time.Now())
	query := `UPDATE attendance SET check_in = :check_in, check_out = :check_out, hours_worked = :hours_worked, status = :status, notes = :notes
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	return nil
}

// Delete removes an attendance record. Returns false when no row matched.
func (r *AttendanceRepository) Delete(ctx context.Context, id string) (bool, error) {
	defer observeQuery("attendance.delete", time.Now())
	res, err := r.db.ExecContext(ctx, "DELETE FROM attendance WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete attendance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete attendance result: %w", err)
	}
	return affected > 0, nil
}
