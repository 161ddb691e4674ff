package repository

import (
	"context"
	"fmt"
)

// The unique constraints are the authoritative guard against duplicate
// employees and duplicate (employee, date) attendance pairs; the service
// layer's existence checks are only a fast, user-friendly error path.
// Attendance intentionally carries no foreign key: deleting an employee
// leaves its attendance records behind.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS employees (
	id UUID PRIMARY KEY,
	employee_id VARCHAR(50) NOT NULL,
	full_name VARCHAR(200) NOT NULL,
	email VARCHAR(254) NOT NULL,
	department VARCHAR(100) NOT NULL DEFAULT '',
	CONSTRAINT employees_employee_id_key UNIQUE (employee_id),
	CONSTRAINT employees_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS attendance (
	id UUID PRIMARY KEY,
	employee_id UUID NOT NULL,
	date DATE NOT NULL,
	status TEXT NOT NULL DEFAULT 'Present',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT attendance_employee_id_date_key UNIQUE (employee_id, date)
);

CREATE INDEX IF NOT EXISTS attendance_date_idx ON attendance (date);
CREATE INDEX IF NOT EXISTS attendance_employee_idx ON attendance (employee_id);
`

// EnsureSchema creates the employees and attendance tables and their
// unique constraints if they do not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure database schema: %w", err)
	}

	return nil
}
