package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Houeta/hrkeeper/internal/models"
	"github.com/Houeta/hrkeeper/internal/repository"
	"github.com/google/uuid"
)

const (
	maxEmployeeIDLen = 50
	maxFullNameLen   = 200
	maxDepartmentLen = 100
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// EmployeeRepository is the subset of the store the employee manager needs.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, emp models.Employee) (models.Employee, error)
	GetEmployeeByID(ctx context.Context, id string) (models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	UpdateEmployee(ctx context.Context, emp models.Employee) error
	DeleteEmployee(ctx context.Context, id string) error
	EmployeeEmailExists(ctx context.Context, email, excludeID string) (bool, error)
	EmployeeIDExists(ctx context.Context, employeeID, excludeID string) (bool, error)
}

// EmployeeService owns validation and uniqueness enforcement for employee
// records. Uniqueness is pre-checked here for friendly per-field errors;
// the store's unique indexes remain the authoritative guard, and index
// violations on write surface as DuplicateError as well.
type EmployeeService struct {
	repo EmployeeRepository
}

// NewEmployeeService creates a new EmployeeService backed by the given repository.
func NewEmployeeService(repo EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo}
}

// EmployeeInput carries the caller-supplied fields of an employee record.
type EmployeeInput struct {
	EmployeeID string `json:"employeeId"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// EmployeePatch carries an arbitrary subset of employee fields for a
// partial update. Nil fields are left untouched.
type EmployeePatch struct {
	EmployeeID *string `json:"employeeId"`
	FullName   *string `json:"full_name"`
	Email      *string `json:"email"`
	Department *string `json:"department"`
}

// Create validates the input, enforces uniqueness of email and employee ID,
// and persists a new employee record.
func (s *EmployeeService) Create(ctx context.Context, input EmployeeInput) (models.Employee, error) {
	emp, err := validateEmployeeInput(input)
	if err != nil {
		return models.Employee{}, err
	}

	if err = s.checkUniqueness(ctx, emp, uuid.Nil.String()); err != nil {
		return models.Employee{}, err
	}

	created, err := s.repo.CreateEmployee(ctx, emp)
	if err != nil {
		return models.Employee{}, mapEmployeeRepoError(err)
	}

	return created, nil
}

// Get retrieves one employee by its store identifier.
func (s *EmployeeService) Get(ctx context.Context, id string) (models.Employee, error) {
	if err := validateID(id, "Invalid employee ID"); err != nil {
		return models.Employee{}, err
	}

	emp, err := s.repo.GetEmployeeByID(ctx, id)
	if err != nil {
		return models.Employee{}, mapEmployeeRepoError(err)
	}

	return emp, nil
}

// List returns all employee records without filtering or pagination.
func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return employees, nil
}

// Update replaces all fields of the employee with full-update semantics.
// Uniqueness is re-checked excluding the record's own identifier.
func (s *EmployeeService) Update(ctx context.Context, id string, input EmployeeInput) (models.Employee, error) {
	if err := validateID(id, "Invalid employee ID"); err != nil {
		return models.Employee{}, err
	}

	if _, err := s.repo.GetEmployeeByID(ctx, id); err != nil {
		return models.Employee{}, mapEmployeeRepoError(err)
	}

	emp, err := validateEmployeeInput(input)
	if err != nil {
		return models.Employee{}, err
	}
	emp.ID = id

	if err = s.checkUniqueness(ctx, emp, id); err != nil {
		return models.Employee{}, err
	}

	if err = s.repo.UpdateEmployee(ctx, emp); err != nil {
		return models.Employee{}, mapEmployeeRepoError(err)
	}

	return emp, nil
}

// PartialUpdate applies only the provided fields, validating each one the
// same way Create does.
func (s *EmployeeService) PartialUpdate(ctx context.Context, id string, patch EmployeePatch) (models.Employee, error) {
	if err := validateID(id, "Invalid employee ID"); err != nil {
		return models.Employee{}, err
	}

	emp, err := s.repo.GetEmployeeByID(ctx, id)
	if err != nil {
		return models.Employee{}, mapEmployeeRepoError(err)
	}

	if err = applyEmployeePatch(&emp, patch); err != nil {
		return models.Employee{}, err
	}

	if err = s.checkUniqueness(ctx, emp, id); err != nil {
		return models.Employee{}, err
	}

	if err = s.repo.UpdateEmployee(ctx, emp); err != nil {
		return models.Employee{}, mapEmployeeRepoError(err)
	}

	return emp, nil
}

// Delete removes the employee record unconditionally. Dependent attendance
// records are left in place.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if err := validateID(id, "Invalid employee ID"); err != nil {
		return err
	}

	if err := s.repo.DeleteEmployee(ctx, id); err != nil {
		return mapEmployeeRepoError(err)
	}

	return nil
}

// checkUniqueness is the fast-fail duplicate pre-check. excludeID removes
// the record's own row from consideration on updates.
func (s *EmployeeService) checkUniqueness(ctx context.Context, emp models.Employee, excludeID string) error {
	emailTaken, err := s.repo.EmployeeEmailExists(ctx, emp.Email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if emailTaken {
		return &DuplicateError{Field: "email", Message: "Employee with this email already exists"}
	}

	idTaken, err := s.repo.EmployeeIDExists(ctx, emp.EmployeeID, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check employee ID uniqueness: %w", err)
	}
	if idTaken {
		return &DuplicateError{Field: "employeeId", Message: "Employee with this Employee ID already exists"}
	}

	return nil
}

// validateEmployeeInput normalizes and validates all employee fields:
// string fields are trimmed and the email is lowercased before storage.
func validateEmployeeInput(input EmployeeInput) (models.Employee, error) {
	vErr := &ValidationError{}

	// Length limits are in characters, not bytes.
	employeeID := strings.TrimSpace(input.EmployeeID)
	if employeeID == "" {
		vErr.add("employeeId", "Employee ID is required")
	} else if utf8.RuneCountInString(employeeID) > maxEmployeeIDLen {
		vErr.add("employeeId", "Employee ID must be at most 50 characters")
	}

	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		vErr.add("full_name", "Full name is required")
	} else if utf8.RuneCountInString(fullName) > maxFullNameLen {
		vErr.add("full_name", "Full name must be at most 200 characters")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		vErr.add("email", "Email is required")
	} else if !emailPattern.MatchString(email) {
		vErr.add("email", "Invalid email format")
	}

	department := strings.TrimSpace(input.Department)
	if utf8.RuneCountInString(department) > maxDepartmentLen {
		vErr.add("department", "Department must be at most 100 characters")
	}

	if err := vErr.orNil(); err != nil {
		return models.Employee{}, err
	}

	return models.Employee{
		EmployeeID: employeeID,
		FullName:   fullName,
		Email:      email,
		Department: department,
	}, nil
}

// applyEmployeePatch validates and applies the provided fields onto emp.
func applyEmployeePatch(emp *models.Employee, patch EmployeePatch) error {
	merged := EmployeeInput{
		EmployeeID: emp.EmployeeID,
		FullName:   emp.FullName,
		Email:      emp.Email,
		Department: emp.Department,
	}

	if patch.EmployeeID != nil {
		merged.EmployeeID = *patch.EmployeeID
	}
	if patch.FullName != nil {
		merged.FullName = *patch.FullName
	}
	if patch.Email != nil {
		merged.Email = *patch.Email
	}
	if patch.Department != nil {
		merged.Department = *patch.Department
	}

	validated, err := validateEmployeeInput(merged)
	if err != nil {
		return err
	}

	validated.ID = emp.ID
	*emp = validated

	return nil
}

// validateID checks that id is a well-formed store identifier.
func validateID(id, message string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &InvalidIDError{Message: message, Details: err.Error()}
	}

	return nil
}

// mapEmployeeRepoError translates repository sentinels into the service
// error taxonomy; anything unexpected is wrapped unchanged.
func mapEmployeeRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrEmployeeNotFound):
		return &NotFoundError{Message: "Employee not found", Details: err.Error()}
	case errors.Is(err, repository.ErrDuplicateEmail):
		return &DuplicateError{Field: "email", Message: "Employee with this email already exists"}
	case errors.Is(err, repository.ErrDuplicateEmployeeID):
		return &DuplicateError{Field: "employeeId", Message: "Employee with this Employee ID already exists"}
	default:
		return err
	}
}
