package models

// Employee represents a single employee record in the system.
// It contains the store identifier, the caller-facing employee ID,
// the employee's full name, email address, and department.
type Employee struct {
	ID         string `json:"id"`         // Unique store identifier (UUID), assigned at creation
	EmployeeID string `json:"employeeId"` // Caller-supplied employee ID, unique across all employees
	FullName   string `json:"full_name"`  // Full name of the employee
	Email      string `json:"email"`      // Email address, stored lowercase, unique across all employees
	Department string `json:"department"` // Department of the employee, empty when not provided
}
