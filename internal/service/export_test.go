package service

import "time"

// SetNow overrides the service clock in tests.
func (s *AttendanceService) SetNow(now func() time.Time) {
	s.now = now
}
