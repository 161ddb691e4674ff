package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Houeta/hrkeeper/internal/metrics"
	"github.com/Houeta/hrkeeper/internal/models"
	"github.com/Houeta/hrkeeper/internal/report"
	"github.com/Houeta/hrkeeper/internal/repository"
	"github.com/google/uuid"
)

// DateLayout is the wire format for attendance dates.
const DateLayout = "2006-01-02"

// AttendanceRepository is the subset of the store the attendance manager needs.
type AttendanceRepository interface {
	CreateAttendance(ctx context.Context, att models.Attendance) (models.Attendance, error)
	GetAttendanceByID(ctx context.Context, id string) (models.Attendance, error)
	ListAttendance(ctx context.Context, filter repository.AttendanceFilter) ([]models.Attendance, error)
	UpdateAttendance(ctx context.Context, att models.Attendance) error
	DeleteAttendance(ctx context.Context, id string) error
	AttendanceExists(ctx context.Context, employeeID string, date time.Time, excludeID string) (bool, error)
	GetEmployeeByEmployeeID(ctx context.Context, employeeID string) (models.Employee, error)
}

// AttendanceService owns validation, duplicate enforcement and employee
// reference resolution for attendance records. The caller-facing employee
// ID is resolved to the store identifier at write time.
type AttendanceService struct {
	repo    AttendanceRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewAttendanceService creates a new AttendanceService backed by the given
// repository. The metrics argument may be nil.
func NewAttendanceService(repo AttendanceRepository, mtr *metrics.Metrics) *AttendanceService {
	return &AttendanceService{repo: repo, metrics: mtr, now: time.Now}
}

// AttendanceInput carries the caller-supplied fields of an attendance record.
type AttendanceInput struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

// AttendanceListFilter narrows a listing by the caller-facing employee ID
// and/or an exact date string. Empty values mean no filtering.
type AttendanceListFilter struct {
	EmployeeID string
	Date       string
}

// Create resolves the employee reference, validates date and status, and
// persists a new attendance record. At most one record may exist per
// employee and date.
func (s *AttendanceService) Create(ctx context.Context, input AttendanceInput) (models.Attendance, error) {
	emp, date, status, err := s.validateAttendanceInput(ctx, input)
	if err != nil {
		return models.Attendance{}, err
	}

	if err = s.checkDuplicate(ctx, emp.ID, date, uuid.Nil.String()); err != nil {
		return models.Attendance{}, err
	}

	created, err := s.repo.CreateAttendance(ctx, models.Attendance{
		EmployeeID: emp.ID,
		Date:       date,
		Status:     status,
	})
	if err != nil {
		return models.Attendance{}, mapAttendanceRepoError(err, date)
	}

	created.Employee = &emp

	return created, nil
}

// Get retrieves one attendance record by its store identifier, with the
// employee reference resolved.
func (s *AttendanceService) Get(ctx context.Context, id string) (models.Attendance, error) {
	if err := validateID(id, "Invalid attendance ID"); err != nil {
		return models.Attendance{}, err
	}

	att, err := s.repo.GetAttendanceByID(ctx, id)
	if err != nil {
		return models.Attendance{}, mapAttendanceRepoError(err, time.Time{})
	}

	return att, nil
}

// List returns attendance records matching the filter, newest date first,
// ties broken by creation time.
func (s *AttendanceService) List(ctx context.Context, filter AttendanceListFilter) ([]models.Attendance, error) {
	repoFilter := repository.AttendanceFilter{}

	if filter.EmployeeID != "" {
		emp, err := s.resolveEmployee(ctx, filter.EmployeeID)
		if err != nil {
			return nil, err
		}
		repoFilter.EmployeeID = emp.ID
	}

	if filter.Date != "" {
		date, err := parseDate(filter.Date, "date")
		if err != nil {
			return nil, err
		}
		repoFilter.Date = &date
	}

	records, err := s.repo.ListAttendance(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	return records, nil
}

// Update replaces the employee reference, date and status of an existing
// record with full-update semantics. The duplicate check excludes the
// record's own identity.
func (s *AttendanceService) Update(ctx context.Context, id string, input AttendanceInput) (models.Attendance, error) {
	if err := validateID(id, "Invalid attendance ID"); err != nil {
		return models.Attendance{}, err
	}

	if _, err := s.repo.GetAttendanceByID(ctx, id); err != nil {
		return models.Attendance{}, mapAttendanceRepoError(err, time.Time{})
	}

	emp, date, status, err := s.validateAttendanceInput(ctx, input)
	if err != nil {
		return models.Attendance{}, err
	}

	if err = s.checkDuplicate(ctx, emp.ID, date, id); err != nil {
		return models.Attendance{}, err
	}

	if err = s.repo.UpdateAttendance(ctx, models.Attendance{
		ID:         id,
		EmployeeID: emp.ID,
		Date:       date,
		Status:     status,
	}); err != nil {
		return models.Attendance{}, mapAttendanceRepoError(err, date)
	}

	updated, err := s.repo.GetAttendanceByID(ctx, id)
	if err != nil {
		return models.Attendance{}, mapAttendanceRepoError(err, date)
	}

	return updated, nil
}

// Delete removes the attendance record unconditionally.
func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	if err := validateID(id, "Invalid attendance ID"); err != nil {
		return err
	}

	if err := s.repo.DeleteAttendance(ctx, id); err != nil {
		return mapAttendanceRepoError(err, time.Time{})
	}

	return nil
}

// ListForEmployee returns the employee, its attendance records within the
// optional inclusive date range, and per-status statistics computed over
// the filtered result set.
func (s *AttendanceService) ListForEmployee(
	ctx context.Context,
	employeeID, startDate, endDate string,
) (models.Employee, []models.Attendance, models.AttendanceStats, error) {
	var stats models.AttendanceStats

	emp, err := s.resolveEmployee(ctx, employeeID)
	if err != nil {
		return models.Employee{}, nil, stats, err
	}

	filter := repository.AttendanceFilter{EmployeeID: emp.ID}

	if startDate != "" {
		start, errParse := parseDate(startDate, "start_date")
		if errParse != nil {
			return models.Employee{}, nil, stats, errParse
		}
		filter.StartDate = &start
	}

	if endDate != "" {
		end, errParse := parseDate(endDate, "end_date")
		if errParse != nil {
			return models.Employee{}, nil, stats, errParse
		}
		filter.EndDate = &end
	}

	records, err := s.repo.ListAttendance(ctx, filter)
	if err != nil {
		return models.Employee{}, nil, stats, fmt.Errorf("failed to list employee attendance: %w", err)
	}

	for _, att := range records {
		stats.Total++
		switch att.Status {
		case models.StatusPresent:
			stats.Present++
		case models.StatusAbsent:
			stats.Absent++
		}
	}

	return emp, records, stats, nil
}

// ExportReport renders the employee's attendance within the optional date
// range as an xlsx workbook and returns it with a suggested file name.
func (s *AttendanceService) ExportReport(
	ctx context.Context,
	employeeID, startDate, endDate string,
) (*bytes.Buffer, string, error) {
	emp, records, _, err := s.ListForEmployee(ctx, employeeID, startDate, endDate)
	if err != nil {
		return nil, "", err
	}

	rows := make([]report.AttendanceRow, 0, len(records))
	for _, att := range records {
		rows = append(rows, report.AttendanceRow{
			EmployeeID: emp.EmployeeID,
			FullName:   emp.FullName,
			Date:       att.Date,
			Status:     att.Status,
			MarkedAt:   att.CreatedAt,
		})
	}

	start := s.now()
	buffer, err := report.GenerateExcelReport(rows)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate attendance report: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ReportGeneration.WithLabelValues(emp.EmployeeID).Observe(time.Since(start).Seconds())
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", emp.EmployeeID, s.now().Format(DateLayout))

	return buffer, filename, nil
}

// validateAttendanceInput resolves the employee and validates date and
// status. The date must not be strictly after the server's current date.
func (s *AttendanceService) validateAttendanceInput(
	ctx context.Context,
	input AttendanceInput,
) (models.Employee, time.Time, string, error) {
	employeeID := strings.TrimSpace(input.EmployeeID)
	if employeeID == "" {
		return models.Employee{}, time.Time{}, "", NewValidationError("employeeId", "Employee ID is required")
	}

	emp, err := s.resolveEmployee(ctx, employeeID)
	if err != nil {
		return models.Employee{}, time.Time{}, "", err
	}

	if input.Date == "" {
		return models.Employee{}, time.Time{}, "", NewValidationError("date", "Date is required")
	}
	date, err := parseDate(input.Date, "date")
	if err != nil {
		return models.Employee{}, time.Time{}, "", err
	}
	if date.After(s.today()) {
		return models.Employee{}, time.Time{}, "", NewValidationError("date", "Attendance date cannot be in the future")
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		return models.Employee{}, time.Time{}, "", NewValidationError("status", "Status is required")
	}
	if !models.ValidStatus(status) {
		return models.Employee{}, time.Time{}, "", NewValidationError("status", "Status must be either Present or Absent")
	}

	return emp, date, status, nil
}

// checkDuplicate is the fast-fail pre-check for the one-record-per-day
// invariant; the store's unique index backs it up on write.
func (s *AttendanceService) checkDuplicate(ctx context.Context, employeeID string, date time.Time, excludeID string) error {
	exists, err := s.repo.AttendanceExists(ctx, employeeID, date, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check attendance duplicate: %w", err)
	}
	if exists {
		return duplicateAttendanceError(date)
	}

	return nil
}

// resolveEmployee maps a caller-facing employee ID to its record.
func (s *AttendanceService) resolveEmployee(ctx context.Context, employeeID string) (models.Employee, error) {
	emp, err := s.repo.GetEmployeeByEmployeeID(ctx, strings.TrimSpace(employeeID))
	if err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return models.Employee{}, &NotFoundError{
				Message: "Employee not found",
				Details: fmt.Sprintf("No employee found with ID: %s", employeeID),
			}
		}
		return models.Employee{}, fmt.Errorf("failed to resolve employee: %w", err)
	}

	return emp, nil
}

// today returns the server's current date at midnight UTC, matching the
// timezone parseDate produces.
func (s *AttendanceService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDate(value, field string) (time.Time, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, NewValidationError(field, "Date must be in YYYY-MM-DD format")
	}

	return date, nil
}

func duplicateAttendanceError(date time.Time) *DuplicateError {
	return &DuplicateError{
		Field:   "date",
		Message: fmt.Sprintf("Attendance for this employee on %s already exists", date.Format(DateLayout)),
	}
}

// mapAttendanceRepoError translates repository sentinels into the service
// error taxonomy; anything unexpected is wrapped unchanged.
func mapAttendanceRepoError(err error, date time.Time) error {
	switch {
	case errors.Is(err, repository.ErrAttendanceNotFound):
		return &NotFoundError{Message: "Attendance record not found", Details: err.Error()}
	case errors.Is(err, repository.ErrDuplicateAttendance):
		return duplicateAttendanceError(date)
	default:
		return err
	}
}
