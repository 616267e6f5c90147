package models

import "time"

// PayrollStatus tracks payment progress for a payroll record.
type PayrollStatus string

const (
	PayrollStatusPaid       PayrollStatus = "Paid"
	PayrollStatusPending    PayrollStatus = "Pending"
	PayrollStatusProcessing PayrollStatus = "Processing"
)

// Valid returns true when the status is a supported value.
func (s PayrollStatus) Valid() bool {
	switch s {
	case PayrollStatusPaid, PayrollStatusPending, PayrollStatusProcessing:
		return true
	default:
		return false
	}
}

// PaymentMethod identifies how a payroll is disbursed.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
	PaymentMethodCheck        PaymentMethod = "Check"
	PaymentMethodCash         PaymentMethod = "Cash"
)

// Valid returns true when the method is a supported value.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCheck, PaymentMethodCash:
		return true
	default:
		return false
	}
}

// Payroll represents one pay period for an employee. NetSalary is computed
// once at creation and not re-validated on update.
type Payroll struct {
	ID             string        `db:"id" json:"id"`
	EmployeeID     string        `db:"employee_id" json:"employee_id"`
	PayPeriodStart time.Time     `db:"pay_period_start" json:"pay_period_start"`
	PayPeriodEnd   time.Time     `db:"pay_period_end" json:"pay_period_end"`
	BasicSalary    float64       `db:"basic_salary" json:"basic_salary"`
	OvertimePay    float64       `db:"overtime_pay" json:"overtime_pay"`
	Bonuses        float64       `db:"bonuses" json:"bonuses"`
	Deductions     float64       `db:"deductions" json:"deductions"`
	TaxAmount      float64       `db:"tax_amount" json:"tax_amount"`
	NetSalary      float64       `db:"net_salary" json:"net_salary"`
	PaymentDate    *time.Time    `db:"payment_date" json:"payment_date,omitempty"`
	PaymentMethod  PaymentMethod `db:"payment_method" json:"payment_method"`
	Status         PayrollStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}
