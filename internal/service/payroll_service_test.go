package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emstack/ems-api/internal/models"
	appErrors "github.com/emstack/ems-api/pkg/errors"
)

type mockPayrollRepo struct {
	payrolls        map[string]models.Payroll
	lastPaymentDate *time.Time
	nextID          int
}

func (m *mockPayrollRepo) FindByID(ctx context.Context, id string) (*models.Payroll, error) {
	if p, ok := m.payrolls[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPayrollRepo) ListByEmployee(ctx context.Context, employeeID string) ([]models.Payroll, error) {
	var out []models.Payroll
	for _, p := range m.payrolls {
		if p.EmployeeID == employeeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPayrollRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]models.Payroll, error) {
	var out []models.Payroll
	for _, p := range m.payrolls {
		if !p.PayPeriodStart.Before(from) && !p.PayPeriodEnd.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPayrollRepo) ListPaidByPeriod(ctx context.Context, from, to time.Time, employeeIDs []string) ([]models.Payroll, error) {
	allowed := make(map[string]struct{}, len(employeeIDs))
	for _, id := range employeeIDs {
		allowed[id] = struct{}{}
	}
	var out []models.Payroll
	for _, p := range m.payrolls {
		if p.Status != models.PayrollStatusPaid {
			continue
		}
		if p.PayPeriodStart.Before(from) || p.PayPeriodEnd.After(to) {
			continue
		}
		if employeeIDs != nil {
			if _, ok := allowed[p.EmployeeID]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPayrollRepo) Create(ctx context.Context, payroll *models.Payroll) error {
	if m.payrolls == nil {
		m.payrolls = make(map[string]models.Payroll)
	}
	if payroll.ID == "" {
		m.nextID++
		payroll.ID = fmt.Sprintf("pr-%d", m.nextID)
	}
	m.payrolls[payroll.ID] = *payroll
	return nil
}

func (m *mockPayrollRepo) UpdateStatus(ctx context.Context, id string, status models.PayrollStatus, paymentDate *time.Time) (*models.Payroll, error) {
	m.lastPaymentDate = paymentDate
	p, ok := m.payrolls[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	p.Status = status
	if paymentDate != nil {
		p.PaymentDate = paymentDate
	}
	m.payrolls[id] = p
	return &p, nil
}

func (m *mockPayrollRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := m.payrolls[id]; !ok {
		return false, nil
	}
	delete(m.payrolls, id)
	return true, nil
}

func newPayrollService(repo *mockPayrollRepo, dir *mockEmployeeDirectory) *PayrollService {
	return NewPayrollService(repo, dir, validator.New(), zap.NewNop())
}

func paidPayroll(id, employeeID string, net float64) models.Payroll {
	return models.Payroll{
		ID:             id,
		EmployeeID:     employeeID,
		PayPeriodStart: day(2024, 3, 1),
		PayPeriodEnd:   day(2024, 3, 31),
		NetSalary:      net,
		Status:         models.PayrollStatusPaid,
	}
}

func TestPayrollServiceCreateComputesNet(t *testing.T) {
	repo := &mockPayrollRepo{}
	dir := &mockEmployeeDirectory{employees: map[string]models.Employee{"e1": {ID: "e1"}}}
	svc := newPayrollService(repo, dir)

	payroll, err := svc.Create(context.Background(), CreatePayrollRequest{
		EmployeeID:     "e1",
		PayPeriodStart: day(2024, 3, 1),
		PayPeriodEnd:   day(2024, 3, 31),
		BasicSalary:    1000,
		OvertimePay:    100,
		Bonuses:        50,
		Deductions:     80,
		TaxAmount:      70,
	})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, payroll.NetSalary)
	assert.Equal(t, models.PayrollStatusPending, payroll.Status)
	assert.Equal(t, models.PaymentMethodBankTransfer, payroll.PaymentMethod)
}

func TestPayrollServiceCreateUnknownEmployee(t *testing.T) {
	svc := newPayrollService(&mockPayrollRepo{}, &mockEmployeeDirectory{})

	_, err := svc.Create(context.Background(), CreatePayrollRequest{
		EmployeeID:     "nobody",
		PayPeriodStart: day(2024, 3, 1),
		PayPeriodEnd:   day(2024, 3, 31),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPayrollServiceCreatePeriodEndBeforeStart(t *testing.T) {
	dir := &mockEmployeeDirectory{employees: map[string]models.Employee{"e1": {ID: "e1"}}}
	svc := newPayrollService(&mockPayrollRepo{}, dir)

	_, err := svc.Create(context.Background(), CreatePayrollRequest{
		EmployeeID:     "e1",
		PayPeriodStart: day(2024, 3, 31),
		PayPeriodEnd:   day(2024, 3, 1),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPayrollServiceUpdateStatusPaidDefaultsPaymentDate(t *testing.T) {
	repo := &mockPayrollRepo{payrolls: map[string]models.Payroll{
		"pr-1": {ID: "pr-1", EmployeeID: "e1", Status: models.PayrollStatusPending},
	}}
	svc := newPayrollService(repo, &mockEmployeeDirectory{})

	payroll, err := svc.UpdateStatus(context.Background(), "pr-1", models.PayrollStatusPaid, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PayrollStatusPaid, payroll.Status)
	require.NotNil(t, repo.lastPaymentDate)
	assert.WithinDuration(t, time.Now().UTC(), *repo.lastPaymentDate, time.Minute)
}

func TestPayrollServiceSummary(t *testing.T) {
	repo := &mockPayrollRepo{payrolls: map[string]models.Payroll{
		"pr-1": paidPayroll("pr-1", "e1", 900),
		"pr-2": paidPayroll("pr-2", "e1", 1100),
		"pr-3": paidPayroll("pr-3", "e2", 1300),
	}}
	svc := newPayrollService(repo, &mockEmployeeDirectory{})

	summary, err := svc.Summary(context.Background(), day(2024, 3, 1), day(2024, 3, 31))
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 3, summary.TotalPayrolls)
	assert.Equal(t, 2, summary.TotalEmployees)
	assert.Equal(t, 3300.0, summary.TotalNetSalary)
	assert.Equal(t, 1300.0, summary.MaxSalary)
	assert.Equal(t, 900.0, summary.MinSalary)
	assert.InDelta(t, 1100.0, summary.AverageSalary, 0.001)
}

func TestPayrollServiceSummaryEmpty(t *testing.T) {
	svc := newPayrollService(&mockPayrollRepo{}, &mockEmployeeDirectory{})

	summary, err := svc.Summary(context.Background(), day(2024, 3, 1), day(2024, 3, 31))
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestPayrollServiceSummaryExcludesUnpaid(t *testing.T) {
	pending := paidPayroll("pr-2", "e2", 500)
	pending.Status = models.PayrollStatusPending
	repo := &mockPayrollRepo{payrolls: map[string]models.Payroll{
		"pr-1": paidPayroll("pr-1", "e1", 1000),
		"pr-2": pending,
	}}
	svc := newPayrollService(repo, &mockEmployeeDirectory{})

	summary, err := svc.Summary(context.Background(), day(2024, 3, 1), day(2024, 3, 31))
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.TotalPayrolls)
	assert.Equal(t, 1000.0, summary.TotalNetSalary)
}

func TestPayrollServiceDepartmentSummary(t *testing.T) {
	eng := "Engineering"
	dir := &mockEmployeeDirectory{employees: map[string]models.Employee{
		"e1": {ID: "e1", Department: &eng},
		"e2": {ID: "e2", Department: &eng},
		"e3": {ID: "e3", Department: strPtr("Sales")},
	}}
	repo := &mockPayrollRepo{payrolls: map[string]models.Payroll{
		"pr-1": paidPayroll("pr-1", "e1", 1000),
		"pr-2": paidPayroll("pr-2", "e1", 1200),
		"pr-3": paidPayroll("pr-3", "e3", 5000),
	}}
	svc := newPayrollService(repo, dir)

	summary, err := svc.DepartmentSummary(context.Background(), "Engineering", day(2024, 3, 1), day(2024, 3, 31))
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.TotalEmployees)
	assert.Equal(t, 1, summary.EmployeesPaid)
	assert.Equal(t, 2, summary.TotalPayrolls)
	assert.Equal(t, 2200.0, summary.TotalNetSalary)
	assert.InDelta(t, 1100.0, summary.AverageSalary, 0.001)
}

func TestPayrollServiceDepartmentSummaryNoEmployees(t *testing.T) {
	svc := newPayrollService(&mockPayrollRepo{}, &mockEmployeeDirectory{})

	summary, err := svc.DepartmentSummary(context.Background(), "Ghost", day(2024, 3, 1), day(2024, 3, 31))
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestPayrollServiceDepartmentSummaryNoPayrolls(t *testing.T) {
	eng := "Engineering"
	dir := &mockEmployeeDirectory{employees: map[string]models.Employee{"e1": {ID: "e1", Department: &eng}}}
	svc := newPayrollService(&mockPayrollRepo{}, dir)

	summary, err := svc.DepartmentSummary(context.Background(), "Engineering", day(2024, 3, 1), day(2024, 3, 31))
	require.NoError(t, err)
	assert.Nil(t, summary)
}
