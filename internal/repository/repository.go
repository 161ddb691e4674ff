package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Houeta/hrkeeper/internal/metrics"
	"github.com/Houeta/hrkeeper/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the PostgreSQL error code for a unique constraint violation.
const pgUniqueViolation = "23505"

type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

// Interface defines the interface for repository operations on employee and
// attendance records. The store enforces the uniqueness invariants through
// unique indexes; writes that violate them return the matching duplicate
// sentinel error.
type Interface interface {
	CreateEmployee(ctx context.Context, emp models.Employee) (models.Employee, error)
	GetEmployeeByID(ctx context.Context, id string) (models.Employee, error)
	GetEmployeeByEmployeeID(ctx context.Context, employeeID string) (models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, emp models.Employee) error
	DeleteEmployee(ctx context.Context, id string) error
	EmployeeEmailExists(ctx context.Context, email, excludeID string) (bool, error)
	EmployeeIDExists(ctx context.Context, employeeID, excludeID string) (bool, error)

	CreateAttendance(ctx context.Context, att models.Attendance) (models.Attendance, error)
	GetAttendanceByID(ctx context.Context, id string) (models.Attendance, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, error)
	UpdateAttendance(ctx context.Context, att models.Attendance) error
	DeleteAttendance(ctx context.Context, id string) error
	AttendanceExists(ctx context.Context, employeeID string, date time.Time, excludeID string) (bool, error)
}

// NewRepository creates a new instance of Repository with the provided Database.
// The metrics argument may be nil; query durations are then not recorded.
func NewRepository(db Database, mtr *metrics.Metrics) *Repository {
	return &Repository{db: db, metrics: mtr}
}

var _ Interface = (*Repository)(nil)

// observe records the duration of a single query under the given label.
func (r *Repository) observe(queryType string, start time.Time) {
	if r.metrics != nil {
		r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(start).Seconds())
	}
}

// isUniqueViolation reports whether err is a unique constraint violation
// on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}
