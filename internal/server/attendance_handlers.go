package server

import (
	"errors"

	"github.com/Houeta/hrkeeper/internal/report"
	"github.com/Houeta/hrkeeper/internal/service"
	"github.com/gofiber/fiber/v2"
)

// listAttendance handles GET /attendance/ with optional employeeId and date
// query filters.
func (s *Server) listAttendance(c *fiber.Ctx) error {
	filter := service.AttendanceListFilter{
		EmployeeID: c.Query("employeeId"),
		Date:       c.Query("date"),
	}

	records, err := s.attendance.List(c.UserContext(), filter)
	if err != nil {
		return s.respondError(c, err)
	}

	payload := attendanceListPayload(records)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payload,
		"count":   len(payload),
	})
}

// createAttendance handles POST /attendance/ and marks attendance for an employee.
func (s *Server) createAttendance(c *fiber.Ctx) error {
	var input service.AttendanceInput
	if err := c.BodyParser(&input); err != nil {
		return respondInvalidBody(c, err)
	}

	att, err := s.attendance.Create(c.UserContext(), input)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Attendance marked successfully",
		"data":    attendancePayload(att),
	})
}

// getAttendance handles GET /attendance/{id}/.
func (s *Server) getAttendance(c *fiber.Ctx) error {
	att, err := s.attendance.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    attendancePayload(att),
	})
}

// updateAttendance handles PUT /attendance/{id}/ with full replace semantics.
func (s *Server) updateAttendance(c *fiber.Ctx) error {
	var input service.AttendanceInput
	if err := c.BodyParser(&input); err != nil {
		return respondInvalidBody(c, err)
	}

	att, err := s.attendance.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Attendance updated successfully",
		"data":    attendancePayload(att),
	})
}

// deleteAttendance handles DELETE /attendance/{id}/.
func (s *Server) deleteAttendance(c *fiber.Ctx) error {
	if err := s.attendance.Delete(c.UserContext(), c.Params("id")); err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Attendance record deleted successfully",
	})
}

// employeeAttendance handles GET /employees/{employeeId}/attendance/ with
// optional inclusive start_date/end_date bounds. The response carries the
// employee, the filtered records and per-status statistics.
func (s *Server) employeeAttendance(c *fiber.Ctx) error {
	emp, records, stats, err := s.attendance.ListForEmployee(
		c.UserContext(),
		c.Params("employeeId"),
		c.Query("start_date"),
		c.Query("end_date"),
	)
	if err != nil {
		return s.respondError(c, err)
	}

	payload := attendanceListPayload(records)

	return c.JSON(fiber.Map{
		"success":    true,
		"employee":   emp,
		"data":       payload,
		"count":      len(payload),
		"statistics": stats,
	})
}

// employeeAttendanceReport handles GET /employees/{employeeId}/attendance/report/
// and streams the employee's attendance over the optional date range as an
// xlsx workbook.
func (s *Server) employeeAttendanceReport(c *fiber.Ctx) error {
	buffer, filename, err := s.attendance.ExportReport(
		c.UserContext(),
		c.Params("employeeId"),
		c.Query("start_date"),
		c.Query("end_date"),
	)
	if err != nil {
		if errors.Is(err, report.ErrNoRecords) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   true,
				"message": "No attendance records to export",
				"details": "The selected employee has no attendance records in the requested range",
			})
		}
		return s.respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	return c.Send(buffer.Bytes())
}
