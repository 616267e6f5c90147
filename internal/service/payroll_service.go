package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/emstack/ems-api/internal/dto"
	"github.com/emstack/ems-api/internal/models"
	appErrors "github.com/emstack/ems-api/pkg/errors"
)

type payrollRepository interface {
	FindByID(ctx context.Context, id string) (*models.Payroll, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]models.Payroll, error)
	ListByPeriod(ctx context.Context, from, to time.Time) ([]models.Payroll, error)
	ListPaidByPeriod(ctx context.Context, from, to time.Time, employeeIDs []string) ([]models.Payroll, error)
	Create(ctx context.Context, payroll *models.Payroll) error
	UpdateStatus(ctx context.Context, id string, status models.PayrollStatus, paymentDate *time.Time) (*models.Payroll, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type payrollEmployeeReader interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Employee, error)
}

// CreatePayrollRequest holds payload for recording a pay period.
type CreatePayrollRequest struct {
	EmployeeID     string               `json:"employee_id" validate:"required"`
	PayPeriodStart time.Time            `json:"pay_period_start" validate:"required"`
	PayPeriodEnd   time.Time            `json:"pay_period_end" validate:"required"`
	BasicSalary    float64              `json:"basic_salary" validate:"gte=0"`
	OvertimePay    float64              `json:"overtime_pay" validate:"gte=0"`
	Bonuses        float64              `json:"bonuses" validate:"gte=0"`
	Deductions     float64              `json:"deductions" validate:"gte=0"`
	TaxAmount      float64              `json:"tax_amount" validate:"gte=0"`
	PaymentMethod  models.PaymentMethod `json:"payment_method"`
}

// PayrollService handles payroll records and period summaries.
type PayrollService struct {
	repo      payrollRepository
	employees payrollEmployeeReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPayrollService constructs the payroll service.
func NewPayrollService(repo payrollRepository, employees payrollEmployeeReader, validate *validator.Validate, logger *zap.Logger) *PayrollService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PayrollService{repo: repo, employees: employees, validator: validate, logger: logger}
}

// Create records a payroll for one pay period. Net salary is derived from the
// components here and never recomputed afterwards.
func (s *PayrollService) Create(ctx context.Context, req CreatePayrollRequest) (*models.Payroll, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payroll payload")
	}
	if req.PayPeriodEnd.Before(req.PayPeriodStart) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pay period end precedes start")
	}
	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentMethodBankTransfer
	}
	if !method.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid payment method")
	}
	if _, err := s.employees.FindByID(ctx, req.EmployeeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	payroll := &models.Payroll{
		EmployeeID:     req.EmployeeID,
		PayPeriodStart: truncateToDay(req.PayPeriodStart),
		PayPeriodEnd:   truncateToDay(req.PayPeriodEnd),
		BasicSalary:    req.BasicSalary,
		OvertimePay:    req.OvertimePay,
		Bonuses:        req.Bonuses,
		Deductions:     req.Deductions,
		TaxAmount:      req.TaxAmount,
		NetSalary:      req.BasicSalary + req.OvertimePay + req.Bonuses - req.Deductions - req.TaxAmount,
		PaymentMethod:  method,
		Status:         models.PayrollStatusPending,
	}
	if err := s.repo.Create(ctx, payroll); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payroll")
	}
	s.logger.Info("payroll created",
		zap.String("payroll_id", payroll.ID),
		zap.String("employee_id", payroll.EmployeeID),
		zap.Float64("net_salary", payroll.NetSalary))
	return payroll, nil
}

// Get returns one payroll record.
func (s *PayrollService) Get(ctx context.Context, id string) (*models.Payroll, error) {
	payroll, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payroll not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payroll")
	}
	return payroll, nil
}

// ListByEmployee returns an employee's payroll history, most recent first.
func (s *PayrollService) ListByEmployee(ctx context.Context, employeeID string) ([]models.Payroll, error) {
	payrolls, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payrolls")
	}
	return payrolls, nil
}

// ListByPeriod returns payrolls whose period is contained in the range.
func (s *PayrollService) ListByPeriod(ctx context.Context, from, to time.Time) ([]models.Payroll, error) {
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "range end precedes range start")
	}
	payrolls, err := s.repo.ListByPeriod(ctx, truncateToDay(from), truncateToDay(to))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payrolls")
	}
	return payrolls, nil
}

// UpdateStatus moves a payroll through the payment lifecycle.
func (s *PayrollService) UpdateStatus(ctx context.Context, id string, status models.PayrollStatus, paymentDate *time.Time) (*models.Payroll, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid payroll status")
	}
	if status == models.PayrollStatusPaid && paymentDate == nil {
		now := time.Now().UTC()
		paymentDate = &now
	}
	payroll, err := s.repo.UpdateStatus(ctx, id, status, paymentDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payroll not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update payroll status")
	}
	return payroll, nil
}

// Delete removes one payroll record.
func (s *PayrollService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete payroll")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "payroll not found")
	}
	return nil
}

// Summary reduces Paid payrolls whose period is contained in the range.
// Returns nil when no records match; average, max and min are undefined on
// an empty set.
func (s *PayrollService) Summary(ctx context.Context, from, to time.Time) (*dto.PayrollSummary, error) {
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "range end precedes range start")
	}
	payrolls, err := s.repo.ListPaidByPeriod(ctx, truncateToDay(from), truncateToDay(to), nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payrolls")
	}
	if len(payrolls) == 0 {
		return nil, nil
	}

	summary := &dto.PayrollSummary{
		TotalPayrolls: len(payrolls),
		MaxSalary:     payrolls[0].NetSalary,
		MinSalary:     payrolls[0].NetSalary,
	}
	seen := make(map[string]struct{}, len(payrolls))
	for _, p := range payrolls {
		seen[p.EmployeeID] = struct{}{}
		summary.TotalNetSalary += p.NetSalary
		summary.TotalBasic += p.BasicSalary
		summary.TotalOvertime += p.OvertimePay
		summary.TotalBonuses += p.Bonuses
		summary.TotalDeductions += p.Deductions
		summary.TotalTax += p.TaxAmount
		if p.NetSalary > summary.MaxSalary {
			summary.MaxSalary = p.NetSalary
		}
		if p.NetSalary < summary.MinSalary {
			summary.MinSalary = p.NetSalary
		}
	}
	summary.TotalEmployees = len(seen)
	summary.AverageSalary = summary.TotalNetSalary / float64(len(payrolls))
	return summary, nil
}

// DepartmentSummary scopes the payroll reduction to one department's members.
// Returns nil when the department has no members or no paid payrolls in range.
func (s *PayrollService) DepartmentSummary(ctx context.Context, department string, from, to time.Time) (*dto.DepartmentPayrollSummary, error) {
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "range end precedes range start")
	}
	employees, err := s.employees.ListByDepartment(ctx, department)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department employees")
	}
	if len(employees) == 0 {
		return nil, nil
	}

	employeeIDs := make([]string, 0, len(employees))
	for _, e := range employees {
		employeeIDs = append(employeeIDs, e.ID)
	}
	payrolls, err := s.repo.ListPaidByPeriod(ctx, truncateToDay(from), truncateToDay(to), employeeIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payrolls")
	}
	if len(payrolls) == 0 {
		return nil, nil
	}

	var totalNet float64
	paid := make(map[string]struct{}, len(payrolls))
	for _, p := range payrolls {
		totalNet += p.NetSalary
		paid[p.EmployeeID] = struct{}{}
	}
	return &dto.DepartmentPayrollSummary{
		Department:     department,
		TotalEmployees: len(employees),
		EmployeesPaid:  len(paid),
		TotalPayrolls:  len(payrolls),
		TotalNetSalary: totalNet,
		AverageSalary:  totalNet / float64(len(payrolls)),
	}, nil
}
