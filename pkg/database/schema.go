package database

import (
	"github.com/jmoiron/sqlx"
)

// Bootstrap creates the schema when missing. Referential actions (cascade on
// employee deletion, set-null for manager and approver references) and value
// constraints are declared here once; the application does not re-check them.
func Bootstrap(db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'VIEWER',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			last_login TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token TEXT NOT NULL UNIQUE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			revoked BOOLEAN NOT NULL DEFAULT FALSE,
			revoked_at TIMESTAMPTZ,
			ip_address TEXT NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT,
			date_of_birth DATE,
			hire_date DATE NOT NULL,
			job_title TEXT,
			department TEXT,
			salary DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (salary >= 0),
			address TEXT,
			city TEXT,
			state TEXT,
			country TEXT,
			status TEXT NOT NULL DEFAULT 'Active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS departments (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			manager_id TEXT REFERENCES employees(id) ON DELETE SET NULL,
			location TEXT,
			budget DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		// No unique constraint on (employee_id, date): the mark operation keeps
		// the one-record-per-day invariant at the application level.
		`CREATE TABLE IF NOT EXISTS attendance (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
			attendance_date DATE NOT NULL,
			check_in TEXT,
			check_out TEXT,
			hours_worked DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (hours_worked >= 0),
			status TEXT NOT NULL DEFAULT 'Present',
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS leaves (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
			leave_type TEXT NOT NULL,
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			days_count INTEGER NOT NULL DEFAULT 1,
			status TEXT NOT NULL DEFAULT 'Pending',
			reason TEXT,
			approved_by TEXT REFERENCES employees(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS payroll (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
			pay_period_start DATE NOT NULL,
			pay_period_end DATE NOT NULL,
			basic_salary DOUBLE PRECISION NOT NULL CHECK (basic_salary >= 0),
			overtime_pay DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (overtime_pay >= 0),
			bonuses DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (bonuses >= 0),
			deductions DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (deductions >= 0),
			tax_amount DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (tax_amount >= 0),
			net_salary DOUBLE PRECISION NOT NULL CHECK (net_salary >= 0),
			payment_date DATE,
			payment_method TEXT NOT NULL DEFAULT 'Bank Transfer',
			status TEXT NOT NULL DEFAULT 'Pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS performance_reviews (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
			reviewer_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
			review_date DATE NOT NULL,
			rating DOUBLE PRECISION NOT NULL CHECK (rating >= 1 AND rating <= 5),
			comments TEXT,
			goals TEXT,
			status TEXT NOT NULL DEFAULT 'Pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_employee_date ON attendance (employee_id, attendance_date)`,
		`CREATE INDEX IF NOT EXISTS idx_leaves_employee ON leaves (employee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payroll_employee ON payroll (employee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_employee ON performance_reviews (employee_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
