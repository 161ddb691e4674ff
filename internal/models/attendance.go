package models

import "time"

// Status values an attendance record may carry.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// ValidStatus reports whether the given value is a known attendance status.
func ValidStatus(status string) bool {
	return status == StatusPresent || status == StatusAbsent
}

// Attendance represents a daily attendance record for one employee.
// At most one record exists per (employee, date) pair. The employee
// reference is weak: deleting an employee leaves its attendance records
// behind, in which case Employee is nil on read.
type Attendance struct {
	ID         string    // Unique store identifier (UUID)
	EmployeeID string    // Store identifier of the referenced employee
	Employee   *Employee // Resolved employee, nil if the reference is orphaned
	Date       time.Time // Calendar date the record is for
	Status     string    // Present or Absent
	CreatedAt  time.Time // Timestamp of when the record was created, immutable
}

// AttendanceStats aggregates a set of attendance records by status.
type AttendanceStats struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
}
