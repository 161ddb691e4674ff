package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Houeta/hrkeeper/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	// ErrAttendanceNotFound is returned when no attendance record with the requested identifier exists.
	ErrAttendanceNotFound = errors.New("attendance record not found")
	// ErrDuplicateAttendance is returned when an attendance record for the same employee and date already exists.
	ErrDuplicateAttendance = errors.New("attendance for this employee on this date already exists")
)

// AttendanceFilter narrows an attendance listing. All fields are optional;
// the zero value selects every record. EmployeeID is the store identifier,
// not the caller-facing employee ID.
type AttendanceFilter struct {
	EmployeeID string     // Exact match on the referenced employee
	Date       *time.Time // Exact match on the attendance date
	StartDate  *time.Time // Inclusive lower bound on the attendance date
	EndDate    *time.Time // Inclusive upper bound on the attendance date
}

const attendanceSelectSQL = `
	SELECT a.id, a.employee_id, a.date, a.status, a.created_at,
	       e.id, e.employee_id, e.full_name, e.email, e.department
	FROM attendance a
	LEFT JOIN employees e ON e.id = a.employee_id`

// CreateAttendance inserts a new attendance record and returns it with the
// store-generated identifier and creation timestamp. A unique violation on
// the (employee, date) pair is surfaced as ErrDuplicateAttendance.
func (r *Repository) CreateAttendance(ctx context.Context, att models.Attendance) (models.Attendance, error) {
	defer r.observe("create_attendance", time.Now())

	att.ID = uuid.New().String()

	err := r.db.QueryRow(
		ctx,
		"INSERT INTO attendance (id, employee_id, date, status) VALUES ($1, $2, $3, $4) RETURNING created_at",
		att.ID, att.EmployeeID, att.Date, att.Status,
	).Scan(&att.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "attendance_employee_id_date_key") {
			return models.Attendance{}, ErrDuplicateAttendance
		}
		return models.Attendance{}, fmt.Errorf("failed to insert attendance: %w", err)
	}

	return att, nil
}

// GetAttendanceByID retrieves an attendance record by its store identifier,
// with the referenced employee resolved. Employee stays nil when the
// reference is orphaned.
func (r *Repository) GetAttendanceByID(ctx context.Context, id string) (models.Attendance, error) {
	defer r.observe("get_attendance", time.Now())

	row := r.db.QueryRow(ctx, attendanceSelectSQL+" WHERE a.id = $1", id)

	att, err := scanAttendance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Attendance{}, ErrAttendanceNotFound
		}
		return models.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	return att, nil
}

// ListAttendance returns attendance records matching the filter, ordered by
// date descending and then by creation time descending.
func (r *Repository) ListAttendance(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, error) {
	defer r.observe("list_attendance", time.Now())

	query, args := buildAttendanceQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var records []models.Attendance
	for rows.Next() {
		att, errScan := scanAttendance(rows)
		if errScan != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", errScan)
		}
		records = append(records, att)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance rows: %w", err)
	}

	return records, nil
}

// UpdateAttendance replaces the employee reference, date and status of the
// attendance record identified by att.ID.
func (r *Repository) UpdateAttendance(ctx context.Context, att models.Attendance) error {
	defer r.observe("update_attendance", time.Now())

	cmdTag, err := r.db.Exec(
		ctx,
		"UPDATE attendance SET employee_id = $1, date = $2, status = $3 WHERE id = $4",
		att.EmployeeID, att.Date, att.Status, att.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "attendance_employee_id_date_key") {
			return ErrDuplicateAttendance
		}
		return fmt.Errorf("failed to update attendance: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrAttendanceNotFound
	}

	return nil
}

// DeleteAttendance removes the attendance record unconditionally.
func (r *Repository) DeleteAttendance(ctx context.Context, id string) error {
	defer r.observe("delete_attendance", time.Now())

	cmdTag, err := r.db.Exec(ctx, "DELETE FROM attendance WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance %s: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrAttendanceNotFound
	}

	return nil
}

// AttendanceExists checks whether an attendance record other than excludeID
// already exists for the given employee and date. Pass uuid.Nil as
// excludeID to check against all records.
func (r *Repository) AttendanceExists(
	ctx context.Context,
	employeeID string,
	date time.Time,
	excludeID string,
) (bool, error) {
	defer r.observe("attendance_exists", time.Now())

	var exists bool
	err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM attendance WHERE employee_id = $1 AND date = $2 AND id <> $3)",
		employeeID, date, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check attendance existence: %w", err)
	}

	return exists, nil
}

// buildAttendanceQuery assembles the filtered listing query and its arguments.
func buildAttendanceQuery(filter AttendanceFilter) (string, []any) {
	var conditions []string
	var args []any

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.EmployeeID != "" {
		addCondition("a.employee_id = $%d", filter.EmployeeID)
	}
	if filter.Date != nil {
		addCondition("a.date = $%d", *filter.Date)
	}
	if filter.StartDate != nil {
		addCondition("a.date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addCondition("a.date <= $%d", *filter.EndDate)
	}

	query := attendanceSelectSQL
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.date DESC, a.created_at DESC"

	return query, args
}

// scanAttendance scans one joined attendance row. The employee columns come
// from a LEFT JOIN and may all be NULL for an orphaned reference.
func scanAttendance(row pgx.Row) (models.Attendance, error) {
	var att models.Attendance
	var empID, employeeID, fullName, email, department *string

	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.Status, &att.CreatedAt,
		&empID, &employeeID, &fullName, &email, &department,
	)
	if err != nil {
		return models.Attendance{}, err
	}

	if empID != nil {
		att.Employee = &models.Employee{
			ID:         *empID,
			EmployeeID: *employeeID,
			FullName:   *fullName,
			Email:      *email,
			Department: *department,
		}
	}

	return att, nil
}
