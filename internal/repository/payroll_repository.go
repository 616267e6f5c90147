package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/emstack/ems-api/internal/models"
)

const payrollColumns = `id, employee_id, pay_period_start, pay_period_end, basic_salary, overtime_pay, bonuses, deductions, tax_amount, net_salary, payment_date, payment_method, status, created_at`

// PayrollRepository handles persistence for payroll records.
type PayrollRepository struct {
	db *sqlx.DB
}

// NewPayrollRepository creates a new repository instance.
func NewPayrollRepository(db *sqlx.DB) *PayrollRepository {
	return &PayrollRepository{db: db}
}

// FindByID returns a payroll record by id.
func (r *PayrollRepository) FindByID(ctx context.Context, id string) (*models.Payroll, error) {
	defer observeQuery("payroll.find_by_id", time.Now())
	query := fmt.Sprintf("SELECT %s FROM payroll WHERE id = $1", payrollColumns)
	var payroll models.Payroll
	if err := r.db.GetContext(ctx, &payroll, query, id); err != nil {
		return nil, err
	}
	return &payroll, nil
}

// ListByEmployee returns an employee's payrolls, newest period first.
func (r *PayrollRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.Payroll, error) {
	defer observeQuery("payroll.list_by_employee", time.Now())
	query := fmt.Sprintf("SELECT %s FROM payroll WHERE employee_id = $1 ORDER BY pay_period_start DESC", payrollColumns)
	var payrolls []models.Payroll
	if err := r.db.SelectContext(ctx, &payrolls, query, employeeID); err != nil {
		return nil, fmt.Errorf("list payroll by employee: %w", err)
	}
	return payrolls, nil
}

// ListByPeriod returns payrolls whose pay period lies inside [from, to]
// (containment, matching the leave summary semantics).
func (r *PayrollRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]models.Payroll, error) {
	defer observeQuery("payroll.list_by_period", time.Now())
	query := fmt.Sprintf(
		"SELECT %s FROM payroll WHERE pay_period_start >= $1 AND pay_period_end <= $2",
		payrollColumns)
	var payrolls []models.Payroll
	if err := r.db.SelectContext(ctx, &payrolls, query, from, to); err != nil {
		return nil, fmt.Errorf("list payroll by period: %w", err)
	}
	return payrolls, nil
}

// ListPaidByPeriod returns Paid payrolls contained in the range, optionally
// restricted to a set of employees.
func (r *PayrollRepository) ListPaidByPeriod(ctx context.Context, from, to time.Time, employeeIDs []string) ([]models.Payroll, error) {
	defer observeQuery("payroll.list_paid_by_period", time.Now())
	query := fmt.Sprintf(
		"SELECT %s FROM payroll WHERE pay_period_start >= $1 AND pay_period_end <= $2 AND status = $3",
		payrollColumns)
	args := []interface{}{from, to, models.PayrollStatusPaid}

	if len(employeeIDs) > 0 {
		raw, inArgs, err := sqlx.In(fmt.Sprintf(
			"SELECT %s FROM payroll WHERE pay_period_start >= ? AND pay_period_end <= ? AND status = ? AND employee_id IN (?)",
			payrollColumns), from, to, models.PayrollStatusPaid, employeeIDs)
		if err != nil {
			return nil, fmt.Errorf("build payroll employee filter: %w", err)
		}
		query = r.db.Rebind(raw)
		args = inArgs
	}

	var payrolls []models.Payroll
	if err := r.db.SelectContext(ctx, &payrolls, query, args...); err != nil {
		return nil, fmt.Errorf("list paid payroll by period: %w", err)
	}
	return payrolls, nil
}

// Create persists a new payroll record.
func (r *PayrollRepository) Create(ctx context.Context, payroll *models.Payroll) error {
	defer observeQuery("payroll.create", time.Now())
	if payroll.ID == "" {
		payroll.ID = uuid.NewString()
	}
	payroll.CreatedAt = time.Now().UTC()

	query := `INSERT INTO payroll (id, employee_id, pay_period_start, pay_period_end, basic_salary, overtime_pay, bonuses, deductions, tax_amount, net_salary, payment_date, payment_method, status, created_at)
VALUES (:id, :employee_id, :pay_period_start, :pay_period_end, :basic_salary, :overtime_pay, :bonuses, :deductions, :tax_amount, :net_salary, :payment_date, :payment_method, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payroll); err != nil {
		return fmt.Errorf("create payroll: %w", err)
	}
	return nil
}

// UpdateStatus sets the status and, when provided, the payment date. Returns
// sql.ErrNoRows when the payroll does not exist.
func (r *PayrollRepository) UpdateStatus(ctx context.Context, id string, status models.PayrollStatus, paymentDate *time.Time) (*models.Payroll, error) {
	defer observeQuery("payroll.update_status", time.Now())
	query := fmt.Sprintf(
		"UPDATE payroll SET status = $1, payment_date = COALESCE($2, payment_date) WHERE id = $3 RETURNING %s",
		payrollColumns)
	var payroll models.Payroll
	if err := r.db.GetContext(ctx, &payroll, query, status, paymentDate, id); err != nil {
		return nil, err
	}
	return &payroll, nil
}

// Delete removes a payroll record. Returns false when no row matched.
func (r *PayrollRepository) Delete(ctx context.Context, id string) (bool, error) {
	defer observeQuery("payroll.delete", time.Now())
	res, err := r.db.ExecContext(ctx, "DELETE FROM payroll WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete payroll: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete payroll result: %w", err)
	}
	return affected > 0, nil
}
