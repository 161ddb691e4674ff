package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Houeta/hrkeeper/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	// ErrEmployeeNotFound is returned when no employee with the requested identifier exists.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrDuplicateEmail is returned when another employee already uses the given email.
	ErrDuplicateEmail = errors.New("employee with this email already exists")
	// ErrDuplicateEmployeeID is returned when another employee already uses the given employee ID.
	ErrDuplicateEmployeeID = errors.New("employee with this employee ID already exists")
)

// CreateEmployee inserts a new employee record and returns it with the
// store-generated identifier. A unique violation on email or employee_id
// is surfaced as the matching duplicate sentinel error.
func (r *Repository) CreateEmployee(ctx context.Context, emp models.Employee) (models.Employee, error) {
	defer r.observe("create_employee", time.Now())

	emp.ID = uuid.New().String()

	_, err := r.db.Exec(
		ctx,
		"INSERT INTO employees (id, employee_id, full_name, email, department) VALUES ($1, $2, $3, $4, $5)",
		emp.ID, emp.EmployeeID, emp.FullName, emp.Email, emp.Department,
	)
	if err != nil {
		if isUniqueViolation(err, "employees_email_key") {
			return models.Employee{}, ErrDuplicateEmail
		}
		if isUniqueViolation(err, "employees_employee_id_key") {
			return models.Employee{}, ErrDuplicateEmployeeID
		}
		return models.Employee{}, fmt.Errorf("failed to insert employee: %w", err)
	}

	return emp, nil
}

// GetEmployeeByID retrieves an employee by its store identifier.
func (r *Repository) GetEmployeeByID(ctx context.Context, id string) (models.Employee, error) {
	defer r.observe("get_employee", time.Now())

	var emp models.Employee
	err := r.db.QueryRow(
		ctx,
		"SELECT id, employee_id, full_name, email, department FROM employees WHERE id = $1",
		id,
	).Scan(&emp.ID, &emp.EmployeeID, &emp.FullName, &emp.Email, &emp.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, ErrEmployeeNotFound
		}
		return models.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return emp, nil
}

// GetEmployeeByEmployeeID retrieves an employee by the caller-facing employee ID.
func (r *Repository) GetEmployeeByEmployeeID(ctx context.Context, employeeID string) (models.Employee, error) {
	defer r.observe("get_employee_by_employee_id", time.Now())

	var emp models.Employee
	err := r.db.QueryRow(
		ctx,
		"SELECT id, employee_id, full_name, email, department FROM employees WHERE employee_id = $1",
		employeeID,
	).Scan(&emp.ID, &emp.EmployeeID, &emp.FullName, &emp.Email, &emp.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, ErrEmployeeNotFound
		}
		return models.Employee{}, fmt.Errorf("failed to get employee by employee id: %w", err)
	}

	return emp, nil
}

// ListEmployees returns all employee records without filtering or pagination.
func (r *Repository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	defer r.observe("list_employees", time.Now())

	rows, err := r.db.Query(
		ctx,
		"SELECT id, employee_id, full_name, email, department FROM employees ORDER BY employee_id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		var emp models.Employee
		if errScan := rows.Scan(&emp.ID, &emp.EmployeeID, &emp.FullName, &emp.Email, &emp.Department); errScan != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", errScan)
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employee rows: %w", err)
	}

	return employees, nil
}

// UpdateEmployee replaces all mutable fields of the employee identified by emp.ID.
func (r *Repository) UpdateEmployee(ctx context.Context, emp models.Employee) error {
	defer r.observe("update_employee", time.Now())

	cmdTag, err := r.db.Exec(
		ctx,
		"UPDATE employees SET employee_id = $1, full_name = $2, email = $3, department = $4 WHERE id = $5",
		emp.EmployeeID, emp.FullName, emp.Email, emp.Department, emp.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "employees_email_key") {
			return ErrDuplicateEmail
		}
		if isUniqueViolation(err, "employees_employee_id_key") {
			return ErrDuplicateEmployeeID
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}

	return nil
}

// DeleteEmployee removes the employee record unconditionally. Dependent
// attendance records are left untouched.
func (r *Repository) DeleteEmployee(ctx context.Context, id string) error {
	defer r.observe("delete_employee", time.Now())

	cmdTag, err := r.db.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}

	return nil
}

// EmployeeEmailExists checks whether an employee other than excludeID
// already uses the given email. Pass uuid.Nil as excludeID to check
// against all records.
func (r *Repository) EmployeeEmailExists(ctx context.Context, email, excludeID string) (bool, error) {
	defer r.observe("employee_email_exists", time.Now())

	var exists bool
	err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM employees WHERE email = $1 AND id <> $2)",
		email, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee email: %w", err)
	}

	return exists, nil
}

// EmployeeIDExists checks whether an employee other than excludeID already
// uses the given caller-facing employee ID.
func (r *Repository) EmployeeIDExists(ctx context.Context, employeeID, excludeID string) (bool, error) {
	defer r.observe("employee_id_exists", time.Now())

	var exists bool
	err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM employees WHERE employee_id = $1 AND id <> $2)",
		employeeID, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee id: %w", err)
	}

	return exists, nil
}
